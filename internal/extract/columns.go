package extract

import (
	"regexp"
	"strconv"
	"strings"

	"menuthenu/internal/models"
)

type field int

const (
	fieldName field = iota
	fieldPrice
	fieldDescription
	fieldCategory
	fieldVegetarian
	fieldImage
)

// columnAliases are matched exactly against trimmed header cells.
var columnAliases = map[field][]string{
	fieldName:        {"name", "Name", "NAME", "item", "Item", "ITEM", "Item Name", "item name", "dish", "Dish", "DISH"},
	fieldPrice:       {"price", "Price", "PRICE", "cost", "Cost", "COST"},
	fieldDescription: {"description", "Description", "DESCRIPTION", "desc", "Desc", "DESC"},
	fieldCategory:    {"category", "Category", "CATEGORY", "section", "Section", "SECTION"},
	fieldVegetarian:  {"vegetarian", "Vegetarian", "VEGETARIAN", "veg", "Veg", "VEG", "isVegetarian"},
	fieldImage:       {"image", "Image", "IMAGE", "imageUrl", "Image URL", "image url"},
}

var priceNoise = regexp.MustCompile(`[^0-9.,\-]`)

// mapHeader returns the column index of every recognised field. When two
// columns alias the same field the leftmost wins.
func mapHeader(header []string) map[field]int {
	lookup := make(map[string]field)
	for f, aliases := range columnAliases {
		for _, alias := range aliases {
			lookup[alias] = f
		}
	}

	columns := make(map[field]int)
	for i, cell := range header {
		f, ok := lookup[strings.TrimSpace(cell)]
		if !ok {
			continue
		}
		if _, seen := columns[f]; !seen {
			columns[f] = i
		}
	}
	return columns
}

// RowsToItems maps spreadsheet rows to items using the first row as the
// header. Rows without a name are skipped; a missing or unreadable price
// becomes 0.
func RowsToItems(rows [][]string) []models.MenuItem {
	items := make([]models.MenuItem, 0)
	if len(rows) < 2 {
		return items
	}

	columns := mapHeader(rows[0])
	nameCol, ok := columns[fieldName]
	if !ok {
		return items
	}

	cell := func(row []string, f field) string {
		idx, ok := columns[f]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	for _, row := range rows[1:] {
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		items = append(items, models.MenuItem{
			Name:         name,
			Price:        ParsePrice(cell(row, fieldPrice)),
			Description:  cell(row, fieldDescription),
			Category:     cell(row, fieldCategory),
			IsVegetarian: parseVegetarian(cell(row, fieldVegetarian)),
			Image:        cell(row, fieldImage),
		})
	}
	return items
}

// ParsePrice reads a price cell such as "$1,234.50", "8,50" or "12". It
// returns 0 for anything it cannot read.
func ParsePrice(raw string) float64 {
	cleaned := priceNoise.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return 0
	}

	switch {
	case strings.Contains(cleaned, ".") && strings.Contains(cleaned, ","):
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case strings.Contains(cleaned, ","):
		if i := strings.LastIndex(cleaned, ","); len(cleaned)-i-1 <= 2 && strings.Count(cleaned, ",") == 1 {
			cleaned = cleaned[:i] + "." + cleaned[i+1:]
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func parseVegetarian(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1", "veg", "v", "x":
		return true
	}
	return false
}
