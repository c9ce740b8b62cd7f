//go:build !ocr

package extract

import "context"

type unavailableRecognizer struct{}

// NewTextRecognizer returns a recognizer that always fails with
// ErrOCRUnavailable. Build with -tags ocr to link tesseract.
func NewTextRecognizer(...string) TextRecognizer {
	return unavailableRecognizer{}
}

func (unavailableRecognizer) Recognize(context.Context, []byte) (string, error) {
	return "", ErrOCRUnavailable
}
