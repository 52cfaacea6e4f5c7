// Package pdftext converts PDF documents to plain text using the pure-Go
// ledongthuc/pdf library.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"

	"spendscope/internal/domain"
	"spendscope/internal/port"
)

// Extractor implements port.TextExtractor for PDF documents.
type Extractor struct{}

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText decodes the text of every page and concatenates them with
// newlines. Pages that yield no text are logged and skipped; the extraction
// fails only when the document is not a readable PDF or no page produced any
// text at all.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (*port.ExtractedText, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	pageCount := reader.NumPage()
	var b strings.Builder
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			log.Printf("pdftext: page %d/%d is empty, skipping", i, pageCount)
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("pdftext: extracting page %d/%d: %v", i, pageCount, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			log.Printf("pdftext: no text extracted from page %d/%d", i, pageCount)
			continue
		}

		b.WriteString(text)
		b.WriteString("\n")
	}

	if strings.TrimSpace(b.String()) == "" {
		return nil, domain.ErrEmptyDocument
	}

	return &port.ExtractedText{
		Text:      b.String(),
		PageCount: pageCount,
	}, nil
}
