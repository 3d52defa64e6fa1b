// Package render turns quotes into self-contained SVG images.
//
// Text metrics are estimated, not measured: a line is assumed to be
// runeCount * fontSize * charWidthFactor pixels wide. Wrapping output depends
// on this exact heuristic.
package render

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

// Layout constants, in pixels unless noted.
const (
	padding          = 24.0
	avatarSize       = 48.0
	avatarGap        = 16.0
	baseFontFactor   = 0.025
	charWidthFactor  = 0.6
	lineHeightFactor = 1.3
	minFontSize      = 14.0
	fontStep         = 2.0
	authorFontFactor = 0.8
)

// TextLayout is the computed placement of a quote's text block.
type TextLayout struct {
	// FontSize is the final font size after shrinking.
	FontSize float64

	// LineHeight is the distance between consecutive baselines.
	LineHeight float64

	// Lines holds the wrapped text, one entry per rendered line.
	Lines []string

	// TextX is the left edge of the text block.
	TextX float64

	// AvailableWidth is the horizontal space the text may occupy.
	AvailableWidth float64

	// BlockHeight is len(Lines) * LineHeight.
	BlockHeight float64

	// BlockTop is the top edge of the text block.
	BlockTop float64
}

// Layout wraps text for the given canvas and shrinks the font until the block
// fits vertically or the font reaches its floor. It never fails; text that
// cannot fit at the minimum font size overflows the canvas.
//
// hasAvatar reserves horizontal space for an author picture.
func Layout(text string, cfg domain.RenderConfig, hasAvatar bool) TextLayout {
	width := float64(cfg.Width)
	height := float64(cfg.Height)

	textX := padding
	if hasAvatar {
		textX += avatarSize + avatarGap
	}

	available := width - textX - padding
	words := strings.Fields(text)

	fontSize := width * baseFontFactor
	lines := wrap(words, fontSize, available)
	block := blockHeight(len(lines), fontSize)

	for block > height-2*padding && fontSize > minFontSize {
		fontSize = math.Max(fontSize-fontStep, minFontSize)
		lines = wrap(words, fontSize, available)
		block = blockHeight(len(lines), fontSize)
	}

	return TextLayout{
		FontSize:       fontSize,
		LineHeight:     fontSize * lineHeightFactor,
		Lines:          lines,
		TextX:          textX,
		AvailableWidth: available,
		BlockHeight:    block,
		BlockTop:       math.Max(padding, (height-block)/2),
	}
}

// wrap greedily packs words into lines no wider than available.
// A word too wide on its own still gets a line of its own.
func wrap(words []string, fontSize, available float64) []string {
	lines := make([]string, 0, 4)

	var current string
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}

		candidate := current + " " + word
		if estimateWidth(candidate, fontSize) <= available {
			current = candidate
			continue
		}

		lines = append(lines, current)
		current = word
	}

	if current != "" {
		lines = append(lines, current)
	}

	return lines
}

// estimateWidth approximates the rendered width of s.
func estimateWidth(s string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(s)) * fontSize * charWidthFactor
}

func blockHeight(lines int, fontSize float64) float64 {
	return float64(lines) * fontSize * lineHeightFactor
}
