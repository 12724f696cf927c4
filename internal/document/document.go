// Package document inspects uploaded documents for metadata.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

const pdfMimeType = "application/pdf"

// Info is what could be learned about a document without sending it anywhere.
type Info struct {
	MimeType string
	Pages    int
}

// IsPDF reports whether data looks like a PDF, by declared type or magic bytes.
func IsPDF(data []byte, mimeType string) bool {
	if strings.EqualFold(strings.TrimSpace(strings.Split(mimeType, ";")[0]), pdfMimeType) {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// Inspect returns the page count of a PDF payload. Non-PDF payloads yield an
// Info with zero pages and no error.
func Inspect(data []byte, mimeType string) (Info, error) {
	info := Info{MimeType: mimeType}
	if !IsPDF(data, mimeType) {
		return info, nil
	}

	pages, err := countPages(data)
	if err != nil {
		return info, fmt.Errorf("document: read pdf: %w", err)
	}
	info.Pages = pages

	return info, nil
}

func countPages(data []byte) (n int, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}

	return r.NumPage(), nil
}
