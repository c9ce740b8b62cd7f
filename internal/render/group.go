package render

import (
	"strings"

	"menuthenu/internal/models"
)

// Section is one category heading with its items.
type Section struct {
	Category string
	Items    []models.MenuItem
}

// GroupByCategory buckets items by category. Sections appear in the order
// their category is first seen and items keep their relative order. Items
// without a category land in "Uncategorized".
func GroupByCategory(items []models.MenuItem) []Section {
	sections := make([]Section, 0)
	index := make(map[string]int)

	for _, item := range items {
		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = models.UncategorizedCategory
		}
		pos, ok := index[category]
		if !ok {
			pos = len(sections)
			index[category] = pos
			sections = append(sections, Section{Category: category})
		}
		sections[pos].Items = append(sections[pos].Items, item)
	}
	return sections
}
