// Package storage keeps uploaded images either on local disk or in S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage saves an upload under folder and returns its public URL.
type Storage interface {
	Save(ctx context.Context, folder, filename string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// objectName returns a collision free name keeping the original extension.
func objectName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

func cleanFolder(folder string) (string, error) {
	folder = strings.Trim(filepath.ToSlash(filepath.Clean("/"+folder)), "/")
	if folder == "" || strings.Contains(folder, "..") {
		return "", fmt.Errorf("invalid upload folder %q", folder)
	}
	return folder, nil
}
