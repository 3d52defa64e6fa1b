package quotestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

const mixedDataset = `[
	{"quote": "Stay hungry.", "author": "Steve Jobs", "type": "inspiration"},
	{"quote": "Measure twice, cut once.", "type": "practical"},
	{"quote": "Keep going.", "author": "A. Nonymous", "author_avatar_url": "https://example.com/a.png", "type": "inspiration"}
]`

func mustLoad(t *testing.T, data string) *Store {
	t.Helper()

	s, err := Load(strings.NewReader(data))
	require.NoError(t, err)

	return s
}

func TestLoad_AssignsIDsInSourceOrder(t *testing.T) {
	s := mustLoad(t, mixedDataset)

	all := s.All()
	require.Len(t, all, 3)

	for i, q := range all {
		assert.Equal(t, i+1, q.ID)
	}

	assert.Equal(t, "Stay hungry.", all[0].Text)
	assert.Equal(t, domain.QuoteTypePractical, all[1].Type)
	assert.Empty(t, all[1].Author)
	assert.Equal(t, "https://example.com/a.png", all[2].AuthorAvatarURL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "malformed json",
			data:    `[{"quote": `,
			wantErr: "decoding quote dataset",
		},
		{
			name:    "empty array",
			data:    `[]`,
			wantErr: ErrEmptyDataset.Error(),
		},
		{
			name:    "blank quote",
			data:    `[{"quote": "  ", "type": "practical"}]`,
			wantErr: "quote record 0: validation failed: quote is required",
		},
		{
			name:    "unknown type",
			data:    `[{"quote": "ok", "type": "practical"}, {"quote": "x", "type": "funny"}]`,
			wantErr: "quote record 1: validation failed: type must be one of: inspiration practical",
		},
		{
			name:    "missing type",
			data:    `[{"quote": "x"}]`,
			wantErr: "type is required",
		},
		{
			name:    "non-http avatar",
			data:    `[{"quote": "x", "type": "practical", "author_avatar_url": "ftp://example.com/a.png"}]`,
			wantErr: "author_avatar_url must be an http(s) URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(strings.NewReader(tt.data))

			require.Error(t, err)
			assert.Nil(t, s)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadEmbedded(t *testing.T) {
	s, err := LoadEmbedded()
	require.NoError(t, err)

	assert.Positive(t, s.Count())
	require.NoError(t, s.Check(context.Background()))
}

func TestOpen(t *testing.T) {
	t.Run("empty path uses embedded dataset", func(t *testing.T) {
		s, err := Open("")
		require.NoError(t, err)

		embedded, err := LoadEmbedded()
		require.NoError(t, err)
		assert.Equal(t, embedded.Count(), s.Count())
	})

	t.Run("file path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "quotes.json")
		require.NoError(t, os.WriteFile(path, []byte(mixedDataset), 0o600))

		s, err := Open(path)
		require.NoError(t, err)
		assert.Equal(t, 3, s.Count())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "missing.json"))

		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestGetByID(t *testing.T) {
	s := mustLoad(t, mixedDataset)
	ctx := context.Background()

	for id := 1; id <= s.Count(); id++ {
		q, err := s.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, q.ID)
	}

	for _, id := range []int{0, -1, s.Count() + 1} {
		q, err := s.GetByID(ctx, id)

		assert.Nil(t, q)
		assert.True(t, domain.IsNotFound(err), "id %d", id)
	}
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	s := mustLoad(t, mixedDataset)

	q, err := s.GetByID(context.Background(), 1)
	require.NoError(t, err)

	q.Text = "changed"

	again, err := s.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Stay hungry.", again.Text)
}

func TestGetRandom_FiltersByType(t *testing.T) {
	s := mustLoad(t, mixedDataset)
	ctx := context.Background()

	for range 50 {
		q, err := s.GetRandom(ctx, domain.QuoteTypeInspiration)
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteTypeInspiration, q.Type)
	}
}

func TestGetRandom_NoMatchingType(t *testing.T) {
	s := mustLoad(t, `[{"quote": "Only practical.", "type": "practical"}]`)

	q, err := s.GetRandom(context.Background(), domain.QuoteTypeInspiration)

	assert.Nil(t, q)
	assert.True(t, domain.IsNotFound(err))
}

func TestGetRandom_ReachesEveryQuote(t *testing.T) {
	s := mustLoad(t, mixedDataset)
	seen := make(map[int]bool)

	for range 500 {
		q, err := s.GetRandom(context.Background(), "")
		require.NoError(t, err)
		seen[q.ID] = true
	}

	assert.Len(t, seen, s.Count())
}

func TestGetRandom_UsesInjectedSource(t *testing.T) {
	s := mustLoad(t, mixedDataset)
	s.intn = func(n int) int { return n - 1 }

	q, err := s.GetRandom(context.Background(), domain.QuoteTypeInspiration)
	require.NoError(t, err)
	assert.Equal(t, 3, q.ID)
}

func TestSingleRecordDataset(t *testing.T) {
	s := mustLoad(t, `[{"quote": "Stay hungry.", "author": "Steve Jobs", "type": "inspiration"}]`)
	ctx := context.Background()

	q, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Stay hungry.", q.Text)
	assert.Equal(t, "Steve Jobs", q.Author)

	_, err = s.GetByID(ctx, 2)
	assert.True(t, domain.IsNotFound(err))

	q, err = s.GetRandom(ctx, domain.QuoteTypeInspiration)
	require.NoError(t, err)
	assert.Equal(t, 1, q.ID)

	_, err = s.GetRandom(ctx, domain.QuoteTypePractical)
	assert.True(t, domain.IsNotFound(err))
}

func TestStore_HealthChecker(t *testing.T) {
	s := mustLoad(t, mixedDataset)

	assert.Equal(t, CheckerName, s.Name())
	require.NoError(t, s.Check(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Check(ctx), context.Canceled)

	empty := &Store{}
	require.ErrorIs(t, empty.Check(context.Background()), ErrEmptyDataset)
}
