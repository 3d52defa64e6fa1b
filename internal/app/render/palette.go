package render

import "github.com/jsamuelsen/quote-service/internal/domain"

// Palette is the set of colors used to draw one quote card.
type Palette struct {
	Background    string
	Foreground    string
	GradientStart string
	GradientEnd   string
	Author        string
}

var (
	lightPalette = Palette{
		Background:    "#ffffff",
		Foreground:    "#1f2937",
		GradientStart: "#e0e7ff",
		GradientEnd:   "#fce7f3",
		Author:        "#6b7280",
	}

	darkPalette = Palette{
		Background:    "#0f172a",
		Foreground:    "#f1f5f9",
		GradientStart: "#312e81",
		GradientEnd:   "#831843",
		Author:        "#94a3b8",
	}
)

// PaletteFor returns the palette for theme. Unknown themes fall back to light.
func PaletteFor(theme domain.Theme) Palette {
	switch theme {
	case domain.ThemeDark:
		return darkPalette
	case domain.ThemeLight:
		return lightPalette
	default:
		return lightPalette
	}
}
