package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"log/slog"
	"math"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-service/internal/domain"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
	"github.com/jsamuelsen/quote-service/internal/ports"
)

const (
	instrumentationName = "github.com/jsamuelsen/quote-service/internal/app/render"

	// DefaultAvatarTimeout bounds a single avatar download.
	DefaultAvatarTimeout = 5 * time.Second

	fontFamily = "-apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif"
)

// Config configures a Renderer.
type Config struct {
	// Avatars downloads author pictures. Nil disables avatar embedding;
	// space for the avatar is still reserved.
	Avatars ports.AvatarFetcher

	// AvatarTimeout bounds each download. Zero means DefaultAvatarTimeout.
	AvatarTimeout time.Duration
}

// Renderer produces SVG markup for quotes. It is safe for concurrent use.
type Renderer struct {
	avatars       ports.AvatarFetcher
	avatarTimeout time.Duration
	tracer        trace.Tracer
}

// New creates a Renderer.
func New(cfg Config) *Renderer {
	timeout := cfg.AvatarTimeout
	if timeout <= 0 {
		timeout = DefaultAvatarTimeout
	}

	return &Renderer{
		avatars:       cfg.Avatars,
		avatarTimeout: timeout,
		tracer:        otel.Tracer(instrumentationName),
	}
}

// Render draws quote as an SVG document sized by cfg.
// cfg.Width must be positive. Avatar failures are logged and the image is
// rendered without the picture.
func (r *Renderer) Render(ctx context.Context, quote *domain.Quote, cfg domain.RenderConfig) string {
	ctx, span := r.tracer.Start(ctx, "render.Quote",
		trace.WithAttributes(
			attribute.Int("quote.id", quote.ID),
			attribute.Int("render.width", cfg.Width),
			attribute.Int("render.height", cfg.Height),
			attribute.String("render.theme", string(cfg.Theme)),
		),
	)
	defer span.End()

	layout := Layout(quote.Text, cfg, quote.HasAvatar())
	span.SetAttributes(
		attribute.Int("render.lines", len(layout.Lines)),
		attribute.Float64("render.font_size", layout.FontSize),
	)

	var avatar *domain.Avatar
	if quote.HasAvatar() {
		avatar = r.fetchAvatar(ctx, quote.AuthorAvatarURL)
	}

	span.SetAttributes(attribute.Bool("render.avatar", avatar != nil))

	return draw(quote, cfg, layout, avatar)
}

// fetchAvatar downloads the author picture, returning nil on any failure.
func (r *Renderer) fetchAvatar(ctx context.Context, url string) *domain.Avatar {
	if r.avatars == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.avatarTimeout)
	defer cancel()

	avatar, err := r.avatars.FetchAvatar(ctx, url)
	if err == nil && (avatar == nil || len(avatar.Data) == 0) {
		err = domain.NewUnavailableError("avatar", "empty image")
	}

	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "avatar unavailable, rendering without it",
			slog.String("avatar_url", url),
			slog.Any("error", err),
		)

		return nil
	}

	return avatar
}

// draw composes the final markup. It performs no I/O.
func draw(quote *domain.Quote, cfg domain.RenderConfig, layout TextLayout, avatar *domain.Avatar) string {
	palette := PaletteFor(cfg.Theme)
	width := float64(cfg.Width)
	height := float64(cfg.Height)

	label := "Quote"
	if quote.HasAuthor() {
		label = "Quote by " + quote.Author
	}

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" role="img" aria-label="%s">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, html.EscapeString(label))

	writeDefs(&buf, palette, layout, avatar != nil)

	fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill="%s"/>`, palette.Background)
	fmt.Fprintf(&buf, `<rect x="%s" y="%s" width="%s" height="%s" rx="12" fill="url(#quote-card-gradient)" opacity="0.35" filter="url(#quote-card-shadow)"/>`,
		num(padding/2), num(padding/2), num(width-padding), num(height-padding))

	if avatar != nil {
		writeAvatar(&buf, layout, avatar)
	}

	fmt.Fprintf(&buf, `<text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s">`,
		num(layout.TextX), num(layout.BlockTop+layout.FontSize), fontFamily, num(layout.FontSize), palette.Foreground)

	for i, line := range layout.Lines {
		dy := layout.LineHeight
		if i == 0 {
			dy = 0
		}

		fmt.Fprintf(&buf, `<tspan x="%s" dy="%s">%s</tspan>`, num(layout.TextX), num(dy), html.EscapeString(line))
	}

	buf.WriteString(`</text>`)

	if quote.HasAuthor() {
		authorSize := layout.FontSize * authorFontFactor
		fmt.Fprintf(&buf, `<text x="%s" y="%s" text-anchor="end" font-family="%s" font-size="%s" font-weight="600" fill="%s">%s</text>`,
			num(width-padding), num(layout.BlockTop+layout.BlockHeight+layout.FontSize), fontFamily, num(authorSize),
			palette.Author, html.EscapeString("— "+quote.Author))
	}

	buf.WriteString(`</svg>`)

	return buf.String()
}

func writeDefs(buf *bytes.Buffer, palette Palette, layout TextLayout, withAvatar bool) {
	fmt.Fprintf(buf, `<defs><linearGradient id="quote-card-gradient" x1="0" y1="0" x2="1" y2="1"><stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/></linearGradient>`,
		palette.GradientStart, palette.GradientEnd)
	buf.WriteString(`<filter id="quote-card-shadow" x="-10%" y="-10%" width="120%" height="130%"><feDropShadow dx="0" dy="4" stdDeviation="6" flood-color="#000000" flood-opacity="0.15"/></filter>`)

	if withAvatar {
		cx, cy := avatarCenter(layout)
		fmt.Fprintf(buf, `<clipPath id="quote-avatar-clip"><circle cx="%s" cy="%s" r="%s"/></clipPath>`,
			num(cx), num(cy), num(avatarSize/2))
	}

	buf.WriteString(`</defs>`)
}

func writeAvatar(buf *bytes.Buffer, layout TextLayout, avatar *domain.Avatar) {
	cx, cy := avatarCenter(layout)
	fmt.Fprintf(buf, `<g class="avatar"><image href="data:%s;base64,%s" x="%s" y="%s" width="%s" height="%s" clip-path="url(#quote-avatar-clip)" preserveAspectRatio="xMidYMid slice"/></g>`,
		html.EscapeString(avatar.ContentType), base64.StdEncoding.EncodeToString(avatar.Data),
		num(cx-avatarSize/2), num(cy-avatarSize/2), num(avatarSize), num(avatarSize))
}

// avatarCenter places the avatar left of the text, centered on the block.
func avatarCenter(layout TextLayout) (float64, float64) {
	return padding + avatarSize/2, layout.BlockTop + layout.BlockHeight/2
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
