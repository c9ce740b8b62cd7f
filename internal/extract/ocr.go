package extract

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"menuthenu/internal/models"
)

// ErrOCRUnavailable is returned when the binary was built without OCR support.
var ErrOCRUnavailable = errors.New("image text recognition is not available on this server")

// TextRecognizer turns an image into plain text.
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// ocrLine captures a name followed by an optional separator, an optional
// currency sign and a trailing number.
var ocrLine = regexp.MustCompile(`^(.+?)[\s.:\-–—]*[$€£₹]?\s*(\d+(?:[.,]\d{1,2})?)\s*$`)

// ParseOCRText splits recognised text into lines and keeps those ending in a
// price. "Cheeseburger $8.50" yields {Cheeseburger 8.50}; lines without a
// trailing number are dropped.
func ParseOCRText(text string) []models.MenuItem {
	items := make([]models.MenuItem, 0)
	for _, line := range strings.Split(text, "\n") {
		item, ok := ParseOCRLine(line)
		if ok {
			items = append(items, item)
		}
	}
	return items
}

// ParseOCRLine matches a single line.
func ParseOCRLine(line string) (models.MenuItem, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return models.MenuItem{}, false
	}

	m := ocrLine.FindStringSubmatch(line)
	if m == nil {
		return models.MenuItem{}, false
	}

	name := strings.TrimRight(strings.TrimSpace(m[1]), ".:-–— $€£₹")
	if !strings.ContainsFunc(name, unicode.IsLetter) {
		return models.MenuItem{}, false
	}

	return models.MenuItem{
		Name:     name,
		Price:    ParsePrice(m[2]),
		Category: models.UncategorizedCategory,
	}, true
}
