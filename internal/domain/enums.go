package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
}

// TransactionType classifies a statement entry. Only purchases flow through
// the categorization pipeline today; payments and returns are carried for
// completeness.
type TransactionType string

const (
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypePayment  TransactionType = "payment"
	TransactionTypeReturn   TransactionType = "return"
)

// Categories is the fixed spending taxonomy offered to the categorization
// model. Aggregation accepts any label verbatim; the list is enforced only
// inside the prompt.
var Categories = []string{
	"Food & Dining",
	"Shopping",
	"Transportation",
	"Entertainment",
	"Utilities",
	"Travel",
	"Health & Medical",
	"Education",
	"Personal Care",
	"Other",
}
