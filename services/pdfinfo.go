package services

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFPageCount returns the number of pages in an uploaded PDF. Used to
// fill Document.PageCount at upload time; a broken PDF reports an error
// rather than a zero so the caller can decide.
func PDFPageCount(data []byte) (int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return reader.NumPage(), nil
}

// IsPDF checks the magic bytes
func IsPDF(data []byte) bool {
	return len(data) >= 5 && bytes.HasPrefix(data, []byte("%PDF-"))
}
