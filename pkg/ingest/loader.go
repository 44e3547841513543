package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is the text of one page. Number is nil for formats without pages.
type Page struct {
	Number *int
	Text   string
}

// Supported reports whether path has an extension the loader understands
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".md":
		return true
	}
	return false
}

// LoadFile extracts page texts from a PDF or a plain text file
func LoadFile(path string) ([]Page, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path)
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return []Page{{Text: string(data)}}, nil
	default:
		return nil, fmt.Errorf("unsupported document type: %s", path)
	}
}

func loadPDF(path string) ([]Page, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer file.Close()

	var pages []Page
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// one unreadable page should not lose the document
			continue
		}
		num := n
		pages = append(pages, Page{Number: &num, Text: text})
	}
	return pages, nil
}
