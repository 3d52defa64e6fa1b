package domain

import "strings"

// QuoteType is the category a quote belongs to.
// The zero value means "any type" when used as a lookup filter.
type QuoteType string

const (
	// QuoteTypeInspiration marks motivational quotes.
	QuoteTypeInspiration QuoteType = "inspiration"

	// QuoteTypePractical marks quotes carrying practical advice.
	QuoteTypePractical QuoteType = "practical"
)

// QuoteTypes lists every recognised category in declaration order.
func QuoteTypes() []QuoteType {
	return []QuoteType{QuoteTypeInspiration, QuoteTypePractical}
}

// Valid reports whether t is one of the recognised categories.
func (t QuoteType) Valid() bool {
	switch t {
	case QuoteTypeInspiration, QuoteTypePractical:
		return true
	default:
		return false
	}
}

// ParseQuoteType converts a raw category name into a QuoteType.
// An empty string parses to the zero value (no filter).
func ParseQuoteType(s string) (QuoteType, error) {
	t := QuoteType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" || t.Valid() {
		return t, nil
	}

	return "", NewValidationErrorWithValue("quote_type", "must be one of: inspiration practical", s)
}

// Quote represents a quotation loaded from the bundled dataset.
// Quotes are immutable once loaded.
type Quote struct {
	// ID is the 1-based position of the quote in the dataset.
	ID int

	// Text is the quotation itself.
	Text string

	// Author is who said or wrote the quote. Empty when unknown.
	Author string

	// AuthorAvatarURL is an absolute URL of the author's picture. Empty when absent.
	AuthorAvatarURL string

	// Type is the category of the quote.
	Type QuoteType
}

// HasAuthor reports whether the quote carries an attribution.
func (q *Quote) HasAuthor() bool {
	return strings.TrimSpace(q.Author) != ""
}

// HasAvatar reports whether the quote references an author avatar.
func (q *Quote) HasAvatar() bool {
	return q.AuthorAvatarURL != ""
}

// Avatar is an author picture fetched for embedding into rendered quotes.
type Avatar struct {
	ContentType string
	Data        []byte
}
