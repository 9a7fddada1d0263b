package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Тесты порядков сортировки и сравнения принципалов.

func TestSortNewsFeed_DateDesc_IDDescTieBreak(t *testing.T) {
	t.Parallel()

	day := DateOnly(time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC))
	lo := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	hi := uuid.MustParse("ffffffff-0000-0000-0000-000000000000")

	items := []News{
		{ID: lo, Date: day},
		{ID: uuid.New(), Date: day.AddDate(0, 0, -1)},
		{ID: hi, Date: day},
		{ID: uuid.New(), Date: day.AddDate(0, 0, 1)},
	}

	SortNewsFeed(items)

	require.Equal(t, day.AddDate(0, 0, 1), items[0].Date)
	require.Equal(t, hi, items[1].ID)
	require.Equal(t, lo, items[2].ID)
	require.Equal(t, day.AddDate(0, 0, -1), items[3].Date)
}

func TestSortComments_CreatedAsc_IDAscTieBreak(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	items := []Comment{
		{ID: "b", CreatedAt: now},
		{ID: "c", CreatedAt: now.Add(-time.Minute)},
		{ID: "a", CreatedAt: now},
	}

	SortComments(items)

	require.Equal(t, []string{"c", "a", "b"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestDateOnly_TruncatesToUTCDay(t *testing.T) {
	t.Parallel()

	msk := time.FixedZone("MSK", 3*3600)
	got := DateOnly(time.Date(2024, 1, 2, 1, 30, 0, 0, msk))
	// 01:30 MSK = 22:30 UTC предыдущего дня.
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestIdentity_Equal(t *testing.T) {
	t.Parallel()

	a := Identity{UserID: uuid.New(), Username: "a"}
	b := Identity{UserID: uuid.New(), Username: "b"}

	require.True(t, a.Equal(Identity{UserID: a.UserID}))
	require.False(t, a.Equal(b))
	require.False(t, a.Equal(Anonymous))
	require.False(t, Anonymous.Equal(Anonymous))
	require.True(t, Anonymous.IsAnonymous())
	require.False(t, a.IsAnonymous())
}
