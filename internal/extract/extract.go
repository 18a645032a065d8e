package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gapscout/internal/util"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFileType reports an extension outside the allow-list.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrEmptyDocument reports a file whose extracted text is blank.
	ErrEmptyDocument = errors.New("no extractable text found in document")
)

// Text extracts plain text from a stored file, keyed by its extension.
// Supported: .pdf, .txt, .md.
func Text(filePath string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = fromPDF(filePath)
	case "txt", "md":
		text, err = fromPlainFile(filePath)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	if err != nil {
		return "", err
	}
	text = util.SanitizeText(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func fromPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	return buf.String(), nil
}

func fromPlainFile(filePath string) (string, error) {
	b, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(b), nil
}
