package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pribylovaa/yanews/internal/storage/memory"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	data := []byte(`[
		{"title": "Первая", "text": "a", "date": "2024-05-01"},
		{"title": "Вторая", "text": "b", "date": "2024-05-02T23:30:00+03:00"},
		{"title": "Третья", "text": "c"}
	]`)

	items, err := Parse(data, now)
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), items[0].Date)
	require.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), items[1].Date)
	require.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), items[2].Date)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not json":  `{`,
		"no title":  `[{"title": " ", "text": "x"}]`,
		"bad date":  `[{"title": "t", "date": "10.05.2024"}]`,
		"not array": `{"title": "t"}`,
	}

	for name, data := range cases {
		_, err := Parse([]byte(data), time.Now())
		require.Error(t, err, name)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "news.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title": "t1", "date": "2024-01-01"}, {"title": "t2", "date": "2024-01-02"}]`), 0o600))

	store := memory.New()
	saved, err := LoadFile(context.Background(), path, store)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	feed, err := store.ListNews(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, "t2", feed[0].Title)

	_, err = LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"), store)
	require.Error(t, err)
}
