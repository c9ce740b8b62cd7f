package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsToItemsCapitalPriceAlias(t *testing.T) {
	rows := [][]string{
		{"Name", "Price"},
		{"Pancakes", "6.75"},
	}

	items := RowsToItems(rows)
	require.Len(t, items, 1)
	assert.Equal(t, "Pancakes", items[0].Name)
	assert.InDelta(t, 6.75, items[0].Price, 1e-9)
}

func TestRowsToItemsCaseVariantNameAliases(t *testing.T) {
	for _, header := range []string{"name", "Name", "ITEM", "Item"} {
		t.Run(header, func(t *testing.T) {
			items := RowsToItems([][]string{{header, "price"}, {"Soup", "4"}})
			require.Len(t, items, 1)
			assert.Equal(t, "Soup", items[0].Name)
			assert.Equal(t, 4.0, items[0].Price)
		})
	}
}

func TestRowsToItemsMissingPriceDefaultsToZero(t *testing.T) {
	items := RowsToItems([][]string{
		{"name", "category"},
		{"Tea", "Drinks"},
	})
	require.Len(t, items, 1)
	assert.Equal(t, 0.0, items[0].Price)
	assert.Equal(t, "Drinks", items[0].Category)
}

func TestRowsToItemsWithoutNameColumnSkipsEverything(t *testing.T) {
	items := RowsToItems([][]string{
		{"title", "Price"},
		{"Tea", "2"},
	})
	assert.Empty(t, items)
}

func TestRowsToItemsSkipsBlankNamesAndShortRows(t *testing.T) {
	items := RowsToItems([][]string{
		{"Price", "Name", "Description", "Vegetarian"},
		{"3", "", "nothing"},
		{"4"},
		{"$5.50", "Salad", "Greens", "yes"},
	})
	require.Len(t, items, 1)
	assert.Equal(t, "Salad", items[0].Name)
	assert.Equal(t, 5.5, items[0].Price)
	assert.Equal(t, "Greens", items[0].Description)
	assert.True(t, items[0].IsVegetarian)
}

func TestRowsToItemsHeaderOnly(t *testing.T) {
	assert.Empty(t, RowsToItems([][]string{{"name", "price"}}))
	assert.Empty(t, RowsToItems(nil))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"8.50", 8.5},
		{"$8.50", 8.5},
		{"€ 12", 12},
		{"8,50", 8.5},
		{"1,234.50", 1234.5},
		{"1,234", 1234},
		{"", 0},
		{"free", 0},
		{"-3", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParsePrice(tt.in), 1e-9)
		})
	}
}
