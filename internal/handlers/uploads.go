package handlers

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"menuthenu/internal/middleware"
	"menuthenu/internal/storage"
	"menuthenu/internal/store"
)

const maxImageSize = 5 << 20

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

func validateImage(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	if _, ok := allowedImageExtensions[extension]; !ok {
		return "", fmt.Errorf("unsupported image type: %s", extension)
	}
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}
	return extension, nil
}

func saveImage(c *gin.Context, files storage.Storage, file *multipart.FileHeader, extension, folder string) (string, error) {
	in, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer in.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(extension)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	return files.Save(ctx, folder, file.Filename, in, contentType)
}

// UploadImage stores the multipart file sent under field and answers {url}.
func UploadImage(files storage.Storage, field, folder string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := "POST " + c.FullPath()
		defer handlePanic(c, logger, route)

		url, ok := receiveImage(c, files, field, folder, logger, route)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

// UploadAvatar stores the caller's avatar and records it on the user.
func UploadAvatar(files storage.Storage, users store.UserStore, logger zerolog.Logger) gin.HandlerFunc {
	const route = "POST /api/upload-avatar"

	return func(c *gin.Context) {
		defer handlePanic(c, logger, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		url, ok := receiveImage(c, files, "avatar", "avatars", logger, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		previous, err := users.FindByID(ctx, userID)
		if err != nil {
			respondStoreError(c, logger, route, err, "user not found", "user conflict")
			return
		}
		if err := users.SetAvatar(ctx, userID, url); err != nil {
			respondStoreError(c, logger, route, err, "user not found", "user conflict")
			return
		}
		if previous.Avatar != "" && previous.Avatar != url {
			if err := files.Delete(ctx, previous.Avatar); err != nil {
				logger.Warn().Err(err).Str("url", previous.Avatar).Msg("failed to delete previous avatar")
			}
		}

		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

func receiveImage(c *gin.Context, files storage.Storage, field, folder string, logger zerolog.Logger, route string) (string, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		respondWithError(c, logger, http.StatusBadRequest, route, "no file uploaded")
		return "", false
	}

	extension, err := validateImage(file)
	if err != nil {
		respondWithError(c, logger, http.StatusBadRequest, route, err.Error())
		return "", false
	}

	url, err := saveImage(c, files, file, extension, folder)
	if err != nil {
		logger.Error().Err(err).Str("route", route).Msg("saving upload failed")
		respondWithError(c, logger, http.StatusInternalServerError, route, "failed to save file")
		return "", false
	}

	logger.Info().Str("route", route).Str("url", url).Msg("file uploaded")
	return url, true
}
