package domain

import "errors"

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyDocument       = errors.New("no text could be extracted from the document")
	ErrMissingAPIKey       = errors.New("categorizer API key is not configured")
)
