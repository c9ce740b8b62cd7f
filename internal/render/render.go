// Package render turns a menu and its items into a standalone HTML page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"menuthenu/internal/models"
)

//go:embed templates/menu.html
var templateFS embed.FS

var (
	pageTemplate = template.Must(template.New("menu.html").Funcs(template.FuncMap{
		"price": formatPrice,
	}).ParseFS(templateFS, "templates/menu.html"))

	colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20}|rgba?\(\s*[0-9.,%\s]+\))$`)
	fontPattern  = regexp.MustCompile(`^[a-zA-Z0-9 ,'"-]{1,100}$`)
	classPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

type pageData struct {
	Title         string
	Description   string
	Template      string
	Font          template.CSS
	Background    template.CSS
	Text          template.CSS
	Accent        template.CSS
	SecondaryText template.CSS
	ImageURL      string
	ImageDisplay  string
	ImageOpacity  template.CSS
	Sections      []Section
}

// Page renders the public HTML document for menu. Customization values are
// inlined as CSS; values that do not look like a color or a font family are
// replaced by the defaults.
func Page(menu models.Menu, items []models.MenuItem) ([]byte, error) {
	c := menu.Customization.WithDefaults()

	data := pageData{
		Title:         menu.Name,
		Description:   menu.Description,
		Template:      templateClass(menu.Template),
		Font:          template.CSS(safeFont(c.Font)),
		Background:    template.CSS(safeColor(c.Color.Background, models.DefaultBackgroundColor)),
		Text:          template.CSS(safeColor(c.Color.Text, models.DefaultTextColor)),
		Accent:        template.CSS(safeColor(c.Color.Accent, models.DefaultAccentColor)),
		SecondaryText: template.CSS(safeColor(c.Color.SecondaryText, models.DefaultSecondaryTextColor)),
		ImageDisplay:  c.BackgroundImage.Display,
		ImageOpacity:  template.CSS(fmt.Sprintf("%.2f", c.BackgroundImage.Opacity)),
		Sections:      GroupByCategory(items),
	}
	if c.BackgroundImage.URL != "" && c.BackgroundImage.Display != models.BackgroundNone {
		data.ImageURL = c.BackgroundImage.URL
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render menu %s: %w", menu.ID.Hex(), err)
	}
	return buf.Bytes(), nil
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

func safeColor(value, fallback string) string {
	value = strings.TrimSpace(value)
	if colorPattern.MatchString(value) {
		return value
	}
	return fallback
}

func safeFont(value string) string {
	value = strings.TrimSpace(value)
	if fontPattern.MatchString(value) {
		return value
	}
	return models.DefaultFont
}

func templateClass(name string) string {
	slug := strings.Trim(classPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "default"
	}
	return slug
}
