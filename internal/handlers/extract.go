package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"menuthenu/internal/extract"
	"menuthenu/internal/models"
)

// MenuExtractor is satisfied by *extract.Extractor.
type MenuExtractor interface {
	Extract(ctx context.Context, filename string, r io.Reader, opts extract.Options) ([]models.MenuItem, error)
}

// FoodLookup is satisfied by *extract.Enricher.
type FoodLookup interface {
	Lookup(ctx context.Context, name string) extract.FoodData
}

// ExtractMenu turns an uploaded spreadsheet or photo into candidate items.
// Nothing is persisted; the client reviews the items and posts them back.
func ExtractMenu(extractor MenuExtractor, enrichByDefault bool, logger zerolog.Logger) gin.HandlerFunc {
	const route = "POST /api/extract-menu"

	return func(c *gin.Context) {
		defer handlePanic(c, logger, route)

		file, err := c.FormFile("file")
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "no file uploaded")
			return
		}
		if file.Size > extract.MaxFileSize {
			respondWithError(c, logger, http.StatusBadRequest, route, extract.ErrFileTooLarge.Error())
			return
		}

		enrich := enrichByDefault
		if raw, ok := c.GetPostForm("enrich"); ok {
			parsed, err := parseBoolValue(raw)
			if err != nil {
				respondWithError(c, logger, http.StatusBadRequest, route, "enrich must be a boolean")
				return
			}
			enrich = parsed
		}

		in, err := file.Open()
		if err != nil {
			logger.Error().Err(err).Msg("open upload failed")
			respondWithError(c, logger, http.StatusInternalServerError, route, "internal server error")
			return
		}
		defer in.Close()

		items, err := extractor.Extract(c.Request.Context(), file.Filename, in, extract.Options{Enrich: enrich})
		switch {
		case err == nil:
		case errors.Is(err, extract.ErrUnsupportedFile),
			errors.Is(err, extract.ErrEmptyFile),
			errors.Is(err, extract.ErrFileTooLarge),
			errors.Is(err, extract.ErrUnreadableFile):
			respondWithError(c, logger, http.StatusBadRequest, route, err.Error())
			return
		case errors.Is(err, extract.ErrOCRUnavailable):
			respondWithError(c, logger, http.StatusUnprocessableEntity, route, err.Error())
			return
		default:
			logger.Error().Err(err).Str("file", file.Filename).Msg("extraction failed")
			respondWithError(c, logger, http.StatusInternalServerError, route, "failed to process file")
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
	}
}

// FoodData looks up image, ingredients and nutrition for a dish name. It
// always answers 200, falling back to placeholders.
func FoodData(lookup FoodLookup, logger zerolog.Logger) gin.HandlerFunc {
	const route = "GET /api/food-data/:name"

	return func(c *gin.Context) {
		defer handlePanic(c, logger, route)

		name := strings.TrimSpace(c.Param("name"))
		if name == "" {
			respondWithError(c, logger, http.StatusBadRequest, route, "name is required")
			return
		}

		c.JSON(http.StatusOK, lookup.Lookup(c.Request.Context(), name))
	}
}

func parseBoolValue(value string) (bool, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	switch value {
	case "on", "yes":
		return true, nil
	case "", "off", "no":
		return false, nil
	}
	return strconv.ParseBool(value)
}
