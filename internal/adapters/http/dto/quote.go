package dto

import (
	"errors"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

// Rendering bounds accepted from clients.
const (
	MinWidth      = 400
	MaxWidth      = 600
	DefaultWidth  = 500
	MinHeight     = 175
	MaxHeight     = 300
	DefaultHeight = 200
)

// QuoteQuery holds the query parameters shared by the quote endpoints.
// QuoteType is only honored by the random endpoint.
type QuoteQuery struct {
	QuoteType    string `form:"quote_type"`
	ResponseType string `form:"response_type"`
	Theme        string `form:"theme"`
	Width        *int   `form:"width"         validate:"omitempty,min=400,max=600"`
	Height       *int   `form:"height"        validate:"omitempty,min=175,max=300"`
}

// QuoteOptions is a fully parsed QuoteQuery.
type QuoteOptions struct {
	Type   domain.QuoteType
	Format domain.ResponseFormat
	Render domain.RenderConfig
}

// Options parses the enumerated parameters and applies defaults. Every
// invalid parameter is reported in the returned FieldErrors.
func (q *QuoteQuery) Options() (*QuoteOptions, error) {
	fieldErrs := make(FieldErrors)

	if err := Validate(q); err != nil {
		var fe FieldErrors
		if !errors.As(err, &fe) {
			return nil, err
		}
		for k, v := range fe {
			fieldErrs[k] = v
		}
	}

	quoteType, err := domain.ParseQuoteType(q.QuoteType)
	collect(fieldErrs, err)

	format, err := domain.ParseResponseFormat(q.ResponseType)
	collect(fieldErrs, err)

	theme, err := domain.ParseTheme(q.Theme)
	collect(fieldErrs, err)

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	opts := &QuoteOptions{
		Type:   quoteType,
		Format: format,
		Render: domain.RenderConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Theme:  theme,
		},
	}

	if q.Width != nil {
		opts.Render.Width = *q.Width
	}

	if q.Height != nil {
		opts.Render.Height = *q.Height
	}

	return opts, nil
}

func collect(fieldErrs FieldErrors, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		fieldErrs[ve.Field] = ve.Message
	}
}

// QuoteResponse is the JSON representation of a quote. A missing author
// or avatar URL is sent as null.
type QuoteResponse struct {
	ID              int     `json:"id"`
	Quote           string  `json:"quote"`
	Author          *string `json:"author"`
	AuthorAvatarURL *string `json:"author_avatar_url"`
	Type            string  `json:"type"`
}

// NewQuoteResponse converts a domain Quote to its JSON representation.
func NewQuoteResponse(q *domain.Quote) *QuoteResponse {
	return &QuoteResponse{
		ID:              q.ID,
		Quote:           q.Text,
		Author:          nullable(q.Author),
		AuthorAvatarURL: nullable(q.AuthorAvatarURL),
		Type:            string(q.Type),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
