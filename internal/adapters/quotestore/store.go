// Package quotestore provides the read-only quote collection backing the service.
//
// The collection is decoded once at startup, validated, numbered in source
// order and never modified afterwards, so a *Store is safe for concurrent use
// without locking.
package quotestore

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

// CheckerName is the readiness check name reported by the store.
const CheckerName = "quote-store"

// embeddedPath is the bundled dataset location inside the embedded FS.
const embeddedPath = "data/quotes.json"

//go:embed data/quotes.json
var dataFS embed.FS

// ErrEmptyDataset is returned when a dataset contains no records.
var ErrEmptyDataset = errors.New("dataset contains no quotes")

// record is the on-disk shape of one dataset entry.
type record struct {
	Quote           string `json:"quote"             validate:"notblank"`
	Author          string `json:"author"`
	AuthorAvatarURL string `json:"author_avatar_url" validate:"omitempty,http_url"`
	Type            string `json:"type"              validate:"required,oneof=inspiration practical"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Store holds the loaded quotes in dataset order.
type Store struct {
	quotes []domain.Quote
	intn   func(n int) int
}

// Load decodes a JSON array of quote records from r.
// IDs are assigned from 1 in source order.
func Load(r io.Reader) (*Store, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding quote dataset: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	quotes := make([]domain.Quote, 0, len(records))
	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("quote record %d: %w", i, formatRecordError(err))
		}

		quotes = append(quotes, domain.Quote{
			ID:              i + 1,
			Text:            rec.Quote,
			Author:          strings.TrimSpace(rec.Author),
			AuthorAvatarURL: rec.AuthorAvatarURL,
			Type:            domain.QuoteType(rec.Type),
		})
	}

	return &Store{quotes: quotes, intn: rand.IntN}, nil
}

// LoadFile loads the dataset from a JSON file on disk.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening quote dataset: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return s, nil
}

// LoadEmbedded loads the dataset bundled into the binary.
func LoadEmbedded() (*Store, error) {
	data, err := dataFS.ReadFile(embeddedPath)
	if err != nil {
		return nil, fmt.Errorf("reading embedded dataset: %w", err)
	}

	return Load(bytes.NewReader(data))
}

// Open loads the dataset at path, or the embedded one when path is empty.
func Open(path string) (*Store, error) {
	if path == "" {
		return LoadEmbedded()
	}

	return LoadFile(path)
}

// GetByID returns the quote with the given id.
func (s *Store) GetByID(_ context.Context, id int) (*domain.Quote, error) {
	for i := range s.quotes {
		if s.quotes[i].ID == id {
			q := s.quotes[i]
			return &q, nil
		}
	}

	return nil, domain.NewNotFoundError("quote", strconv.Itoa(id))
}

// GetRandom returns a uniformly chosen quote of the given type.
// The zero QuoteType selects from the whole collection.
func (s *Store) GetRandom(_ context.Context, quoteType domain.QuoteType) (*domain.Quote, error) {
	candidates := s.quotes
	if quoteType != "" {
		candidates = make([]domain.Quote, 0, len(s.quotes))
		for _, q := range s.quotes {
			if q.Type == quoteType {
				candidates = append(candidates, q)
			}
		}
	}

	if len(candidates) == 0 {
		return nil, domain.NewNoMatchError(quoteType)
	}

	q := candidates[s.intn(len(candidates))]

	return &q, nil
}

// Count returns the number of loaded quotes.
func (s *Store) Count() int {
	return len(s.quotes)
}

// All returns a copy of every quote in id order.
func (s *Store) All() []domain.Quote {
	out := make([]domain.Quote, len(s.quotes))
	copy(out, s.quotes)

	return out
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return CheckerName
}

// Check implements ports.HealthChecker. The store is ready once it holds quotes.
func (s *Store) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(s.quotes) == 0 {
		return ErrEmptyDataset
	}

	return nil
}

// formatRecordError converts validator errors into a short field list.
func formatRecordError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "notblank", "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		case "http_url":
			msgs = append(msgs, field+" must be an http(s) URL")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed validation: %s", field, e.Tag()))
		}
	}

	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}
