package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/yanews/internal/models"
	"github.com/pribylovaa/yanews/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestNews_SaveListByID(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()
	today := models.DateOnly(time.Now())

	var items []models.News
	for i := 0; i < 12; i++ {
		items = append(items, models.News{
			Title: "Новость",
			Text:  "Просто текст.",
			Date:  today.AddDate(0, 0, -i).Add(5 * time.Hour),
		})
	}

	saved, err := st.SaveNews(ctx, items)
	require.NoError(t, err)
	require.Len(t, saved, 12)
	for _, n := range saved {
		require.NotEqual(t, uuid.Nil, n.ID)
		require.Equal(t, models.DateOnly(n.Date), n.Date, "date must be truncated to day")
	}

	page, err := st.ListNews(ctx, 10)
	require.NoError(t, err)
	require.Len(t, page, 10)
	require.Equal(t, today, page[0].Date)
	for i := 1; i < len(page); i++ {
		require.True(t, page[i-1].Date.After(page[i].Date))
	}

	got, err := st.NewsByID(ctx, saved[3].ID)
	require.NoError(t, err)
	require.Equal(t, saved[3], *got)

	_, err = st.NewsByID(ctx, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestComments_CRUD(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()
	newsID := uuid.New()
	author := uuid.New()
	now := time.Now().UTC()

	c1, err := st.CreateComment(ctx, models.Comment{NewsID: newsID, AuthorID: author, Text: "second", CreatedAt: now.Add(time.Minute)})
	require.NoError(t, err)
	c2, err := st.CreateComment(ctx, models.Comment{NewsID: newsID, AuthorID: author, Text: "first", CreatedAt: now})
	require.NoError(t, err)
	_, err = st.CreateComment(ctx, models.Comment{NewsID: uuid.New(), AuthorID: author, Text: "other news", CreatedAt: now})
	require.NoError(t, err)

	list, err := st.ListByNews(ctx, newsID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, c2.ID, list[0].ID)
	require.Equal(t, c1.ID, list[1].ID)

	require.NoError(t, st.UpdateCommentText(ctx, c1.ID, "edited"))
	got, err := st.CommentByID(ctx, c1.ID)
	require.NoError(t, err)
	require.Equal(t, "edited", got.Text)
	require.Equal(t, c1.CreatedAt, got.CreatedAt)
	require.Equal(t, author, got.AuthorID)

	require.NoError(t, st.DeleteComment(ctx, c1.ID))
	_, err = st.CommentByID(ctx, c1.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, st.DeleteComment(ctx, c1.ID), storage.ErrNotFound)
	require.ErrorIs(t, st.UpdateCommentText(ctx, c1.ID, "x"), storage.ErrNotFound)
}

func TestComments_ReturnedCopyIsDetached(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	c, err := st.CreateComment(ctx, models.Comment{NewsID: uuid.New(), Text: "orig", CreatedAt: time.Now()})
	require.NoError(t, err)

	c.Text = "mutated outside"

	got, err := st.CommentByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "orig", got.Text)
}

func TestUsers_SaveAndLookup(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	u := &models.User{ID: uuid.New(), Username: "Автор", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.SaveUser(ctx, u))

	dup := &models.User{ID: uuid.New(), Username: "автор"}
	require.ErrorIs(t, st.SaveUser(ctx, dup), storage.ErrAlreadyExists)

	byName, err := st.UserByUsername(ctx, "Автор")
	require.NoError(t, err)
	require.Equal(t, u.ID, byName.ID)

	byID, err := st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Автор", byID.Username)

	_, err = st.UserByID(ctx, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = st.UserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	st := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.ListNews(ctx, 10)
	require.ErrorIs(t, err, context.Canceled)
	_, err = st.CommentByID(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}
