package domain

import "strings"

// Theme selects the color palette of a rendered quote.
type Theme string

const (
	// ThemeLight renders dark text on a light background.
	ThemeLight Theme = "light"

	// ThemeDark renders light text on a dark background.
	ThemeDark Theme = "dark"
)

// ParseTheme converts a raw theme name. Empty input yields ThemeLight.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case "", ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", NewValidationErrorWithValue("theme", "must be one of: light dark", s)
	}
}

// ResponseFormat is the representation a client asked for.
type ResponseFormat string

const (
	// ResponseFormatJSON returns the quote as structured data.
	ResponseFormatJSON ResponseFormat = "json"

	// ResponseFormatSVG returns the quote rendered as an SVG image.
	ResponseFormatSVG ResponseFormat = "svg"
)

// ParseResponseFormat converts a raw format indicator. Empty input yields ResponseFormatJSON.
func ParseResponseFormat(s string) (ResponseFormat, error) {
	switch ResponseFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ResponseFormatJSON:
		return ResponseFormatJSON, nil
	case ResponseFormatSVG:
		return ResponseFormatSVG, nil
	default:
		return "", NewValidationErrorWithValue("response_type", "must be one of: json svg", s)
	}
}

// RenderConfig holds per-request rendering parameters.
// Width and Height are validated by the caller; Width must be positive.
type RenderConfig struct {
	Width  int
	Height int
	Theme  Theme
}
