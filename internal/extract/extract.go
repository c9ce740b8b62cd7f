// Package extract converts uploaded spreadsheets and menu photos into
// candidate menu items.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"menuthenu/internal/models"
)

const MaxFileSize = 10 << 20

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large (max 10MB)")
	ErrEmptyFile       = errors.New("file is empty")
	ErrUnreadableFile  = errors.New("could not read spreadsheet")
)

// Options tune a single extraction run.
type Options struct {
	Enrich bool
}

// Extractor dispatches uploads to the spreadsheet readers or to OCR.
type Extractor struct {
	recognizer TextRecognizer
	enricher   *Enricher
	logger     zerolog.Logger
}

func NewExtractor(recognizer TextRecognizer, enricher *Enricher, logger zerolog.Logger) *Extractor {
	return &Extractor{
		recognizer: recognizer,
		enricher:   enricher,
		logger:     logger.With().Str("component", "extractor").Logger(),
	}
}

// Extract reads the upload named filename and returns the items found in it.
func (e *Extractor) Extract(ctx context.Context, filename string, r io.Reader, opts Options) ([]models.MenuItem, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	var items []models.MenuItem

	switch ext {
	case ".xlsx":
		rows, err := readXLSX(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		items = RowsToItems(rows)
	case ".xls":
		rows, err := readXLS(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		items = RowsToItems(rows)
	case ".csv":
		rows, err := readCSV(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		items = RowsToItems(rows)
	case ".jpg", ".jpeg", ".png":
		text, err := e.recognizer.Recognize(ctx, data)
		if err != nil {
			return nil, err
		}
		items = ParseOCRText(text)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}

	e.logger.Info().
		Str("file", filename).
		Int("items", len(items)).
		Bool("enrich", opts.Enrich).
		Msg("extraction finished")

	if opts.Enrich && e.enricher != nil {
		items = e.enricher.EnrichAll(ctx, items)
	}
	return items, nil
}
