package extract

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubRecognizer struct {
	text string
	err  error
}

func (s stubRecognizer) Recognize(context.Context, []byte) (string, error) {
	return s.text, s.err
}

func newTestExtractor(rec TextRecognizer, enricher *Enricher) *Extractor {
	return NewExtractor(rec, enricher, zerolog.Nop())
}

func TestExtractCSV(t *testing.T) {
	csv := "\ufeffName,Price,Category\nBurger,8.50,Mains\n,3,Sides\nCola,2,Drinks\n"

	items, err := newTestExtractor(stubRecognizer{}, nil).
		Extract(context.Background(), "menu.csv", strings.NewReader(csv), Options{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Burger", items[0].Name)
	assert.Equal(t, 8.5, items[0].Price)
	assert.Equal(t, "Cola", items[1].Name)
}

func TestExtractCSVWithoutNameColumn(t *testing.T) {
	csv := "Dish Title,Price\nBurger,8.50\n"

	items, err := newTestExtractor(stubRecognizer{}, nil).
		Extract(context.Background(), "menu.csv", strings.NewReader(csv), Options{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExtractXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Item", "Price", "Description"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Pasta", 11.5, "Fresh"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Water", "", ""}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	items, err := newTestExtractor(stubRecognizer{}, nil).
		Extract(context.Background(), "Menu.XLSX", bytes.NewReader(buf.Bytes()), Options{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Pasta", items[0].Name)
	assert.Equal(t, 11.5, items[0].Price)
	assert.Equal(t, "Fresh", items[0].Description)
	assert.Equal(t, 0.0, items[1].Price)
}

func TestExtractImageUsesRecognizer(t *testing.T) {
	rec := stubRecognizer{text: "Cheeseburger $8.50\nfresh daily\nFries 3"}

	items, err := newTestExtractor(rec, nil).
		Extract(context.Background(), "photo.jpg", strings.NewReader("jpegbytes"), Options{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Cheeseburger", items[0].Name)
	assert.Equal(t, "Fries", items[1].Name)
}

func TestExtractImageRecognizerUnavailable(t *testing.T) {
	_, err := newTestExtractor(stubRecognizer{err: ErrOCRUnavailable}, nil).
		Extract(context.Background(), "photo.png", strings.NewReader("png"), Options{})
	assert.ErrorIs(t, err, ErrOCRUnavailable)
}

func TestExtractRejectsUnknownExtension(t *testing.T) {
	_, err := newTestExtractor(stubRecognizer{}, nil).
		Extract(context.Background(), "menu.pdf", strings.NewReader("%PDF"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestExtractRejectsEmptyAndOversizedFiles(t *testing.T) {
	ex := newTestExtractor(stubRecognizer{}, nil)

	_, err := ex.Extract(context.Background(), "menu.csv", strings.NewReader(""), Options{})
	assert.ErrorIs(t, err, ErrEmptyFile)

	big := bytes.Repeat([]byte("a"), MaxFileSize+1)
	_, err = ex.Extract(context.Background(), "menu.csv", bytes.NewReader(big), Options{})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestExtractEnrichesWhenAsked(t *testing.T) {
	enricher := NewEnricher(
		stubImages{url: "https://img/burger.jpg"},
		stubRecipes{err: errors.New("quota exceeded")},
		zerolog.Nop(),
	)
	csv := "name,price\nBurger,8\n"

	items, err := newTestExtractor(stubRecognizer{}, enricher).
		Extract(context.Background(), "menu.csv", strings.NewReader(csv), Options{Enrich: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://img/burger.jpg", items[0].Image)
	assert.Equal(t, []string{PlaceholderIngredient}, []string(items[0].Ingredients))
	require.NotNil(t, items[0].Nutrition)
	assert.Zero(t, items[0].Nutrition.Calories)
}
