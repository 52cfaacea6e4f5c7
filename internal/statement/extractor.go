// Package statement locates the purchase-transaction section inside the raw
// text of a credit-card statement.
//
// Statements render certain section headers with every non-space character
// duplicated (a quirk of the PDF layout engine: "ACCOUNT ACTIVITY" appears as
// "AACCCCOOUUNNTT AACCTTIIVVIITTYY"). The extractor encodes the start marker
// into that form once at construction and then slices the statement text with
// plain substring searches: exact, case-sensitive, first occurrence wins.
package statement

import (
	"fmt"
	"strings"
)

const (
	// DefaultStartMarker is the header that opens the transaction-activity
	// section in supported statements.
	DefaultStartMarker = "ACCOUNT ACTIVITY"
	// DefaultStopMarker ends the transaction-activity section. It is matched
	// literally: statements do not render this label in the
	// duplicated-character style.
	DefaultStopMarker = "Totals Year-to-Date"

	// purchaseToken opens the purchases subsection within the activity
	// section. Matched literally.
	purchaseToken = "PURCHASE"
)

// MarkerNotFoundError indicates a required boundary marker is absent from the
// supplied statement text. Callers typically surface it as an unsupported
// statement format.
type MarkerNotFoundError struct {
	Marker string
}

func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("marker %q not found in statement text", e.Marker)
}

// Extractor slices the purchase section out of raw statement text. An
// Extractor is immutable after construction and safe for concurrent use.
type Extractor struct {
	startMarker        string
	stopMarker         string
	encodedStartMarker string
}

// NewExtractor creates an Extractor for the given section markers. Empty
// markers fall back to the defaults for supported statements.
func NewExtractor(startMarker, stopMarker string) *Extractor {
	if startMarker == "" {
		startMarker = DefaultStartMarker
	}
	if stopMarker == "" {
		stopMarker = DefaultStopMarker
	}
	return &Extractor{
		startMarker:        startMarker,
		stopMarker:         stopMarker,
		encodedStartMarker: encodeMarker(startMarker),
	}
}

// encodeMarker doubles every non-space character of a marker so it matches
// the letter-spaced rendering in extracted statement text. Spaces stay
// single: "AB CD" encodes to "AABB CCDD".
func encodeMarker(marker string) string {
	var b strings.Builder
	b.Grow(len(marker) * 2)
	for _, r := range marker {
		if r == ' ' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(r)
		b.WriteRune(r)
	}
	return b.String()
}

// ExtractTransactions returns the transaction-activity section: the text from
// the encoded start marker up to (not including) the stop marker, trimmed of
// surrounding whitespace.
func (e *Extractor) ExtractTransactions(text string) (string, error) {
	start := strings.Index(text, e.encodedStartMarker)
	if start == -1 {
		return "", &MarkerNotFoundError{Marker: e.startMarker}
	}

	afterStart := text[start:]

	// A stop marker occurring before the start marker is not found in this
	// slice, which is the intended behavior.
	stop := strings.Index(afterStart, e.stopMarker)
	if stop == -1 {
		return "", &MarkerNotFoundError{Marker: e.stopMarker}
	}

	return strings.TrimSpace(afterStart[:stop]), nil
}

// ExtractPurchases returns the purchases subsection: the transaction-activity
// section from the first literal "PURCHASE" token onward. Marker failures
// from ExtractTransactions propagate unchanged.
func (e *Extractor) ExtractPurchases(text string) (string, error) {
	transactions, err := e.ExtractTransactions(text)
	if err != nil {
		return "", err
	}

	pos := strings.Index(transactions, purchaseToken)
	if pos == -1 {
		return "", &MarkerNotFoundError{Marker: purchaseToken}
	}

	return transactions[pos:], nil
}
