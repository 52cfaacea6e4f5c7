package port

import "context"

// ExtractedText is the plain-text content decoded from an uploaded document.
type ExtractedText struct {
	Text      string
	PageCount int
}

// TextExtractor abstracts document-to-text conversion.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (*ExtractedText, error)
}
