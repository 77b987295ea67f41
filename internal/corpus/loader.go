package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ErrNoInput marks a missing statute file at load time.
var ErrNoInput = errors.New("corpus input file not found")

// Load reads the statute body from path. Plain text is read as-is; PDFs
// (the format the law is actually distributed in) are extracted page by
// page with go-fitz.
func Load(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoInput, path)
	}

	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		return loadPDF(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read corpus: %w", err)
	}
	return string(data), nil
}

func loadPDF(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var pages []string
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err == nil && strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}
