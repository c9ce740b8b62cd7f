//go:build ocr

package extract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

type tesseractRecognizer struct {
	languages []string
}

// NewTextRecognizer returns the tesseract backed recognizer.
func NewTextRecognizer(languages ...string) TextRecognizer {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &tesseractRecognizer{languages: languages}
}

func (t *tesseractRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("tesseract language: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("tesseract image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract text: %w", err)
	}
	return text, nil
}
