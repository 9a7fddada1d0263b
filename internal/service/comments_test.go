package service

// Тесты сервисного слоя (internal/service/comments.go, feed.go) на моках.
//
//  Проверяем:
//  - порядок проверок CreateComment (аноним, пустой текст, новость, модерация);
//  - сворачивание «чужой» и «нет такого» в ErrNotFound;
//  - маппинг ошибок storage -> service (NotFound / StorageUnavailable / context);
//  - публикацию событий и то, что её сбой не меняет результат.
//
// Моки:
//   mockgen -source=./internal/storage/storage.go -destination=./mocks/storage.go -package=mocks
//   mockgen -source=./internal/events/events.go -destination=./mocks/events.go -package=mocks

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/pribylovaa/yanews/internal/config"
	"github.com/pribylovaa/yanews/internal/events"
	"github.com/pribylovaa/yanews/internal/models"
	"github.com/pribylovaa/yanews/internal/moderation"
	"github.com/pribylovaa/yanews/internal/storage"
	"github.com/pribylovaa/yanews/mocks"
	"github.com/stretchr/testify/require"
)

const testWarning = "Не ругайтесь!"

var fixedNow = time.Date(2025, 5, 9, 12, 0, 0, 0, time.UTC)

type mockDeps struct {
	news      *mocks.MockNewsStorage
	comments  *mocks.MockCommentStorage
	publisher *mocks.MockPublisher
}

// newServiceWithMocks — поднимает сервис с моками стораджей и публикатора.
func newServiceWithMocks(t *testing.T) (*Service, mockDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	d := mockDeps{
		news:      mocks.NewMockNewsStorage(ctrl),
		comments:  mocks.NewMockCommentStorage(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
	}

	filter, err := moderation.New([]string{"редиска", "негодяй"}, testWarning)
	require.NoError(t, err)

	s := New(d.news, d.comments, filter, d.publisher, config.NewsConfig{PageSize: 10})
	s.now = func() time.Time { return fixedNow }

	return s, d
}

func identity() models.Identity {
	return models.Identity{UserID: uuid.New(), Username: "Автор"}
}

func TestService_CreateComment_Anonymous(t *testing.T) {
	s, _ := newServiceWithMocks(t)

	// Ни одного вызова стораджа: моки упадут на неожиданном вызове.
	_, err := s.CreateComment(context.Background(), uuid.New(), models.Anonymous, "Текст")
	require.ErrorIs(t, err, ErrRequiresAuth)
}

func TestService_CreateComment_EmptyText(t *testing.T) {
	s, _ := newServiceWithMocks(t)

	_, err := s.CreateComment(context.Background(), uuid.New(), identity(), "  \n\t ")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_CreateComment_NewsNotFound(t *testing.T) {
	s, d := newServiceWithMocks(t)
	newsID := uuid.New()

	d.news.EXPECT().NewsByID(gomock.Any(), newsID).Return(nil, storage.ErrNotFound)

	_, err := s.CreateComment(context.Background(), newsID, identity(), "Текст")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateComment_Rejected(t *testing.T) {
	s, d := newServiceWithMocks(t)
	newsID := uuid.New()

	d.news.EXPECT().NewsByID(gomock.Any(), newsID).Return(&models.News{ID: newsID}, nil)

	_, err := s.CreateComment(context.Background(), newsID, identity(), "Какой-то текст, редиска, еще текст")
	require.ErrorIs(t, err, ErrRejected)

	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, testWarning, rej.Reason)
}

func TestService_CreateComment_OK(t *testing.T) {
	s, d := newServiceWithMocks(t)
	newsID := uuid.New()
	author := identity()

	d.news.EXPECT().NewsByID(gomock.Any(), newsID).Return(&models.News{ID: newsID}, nil)
	d.comments.EXPECT().
		CreateComment(gomock.Any(), models.Comment{
			NewsID:     newsID,
			AuthorID:   author.UserID,
			AuthorName: author.Username,
			Text:       "Текст комментария",
			CreatedAt:  fixedNow,
		}).
		DoAndReturn(func(_ context.Context, c models.Comment) (*models.Comment, error) {
			c.ID = "c-1"
			return &c, nil
		})
	d.publisher.EXPECT().
		Publish(gomock.Any(), events.Event{
			Type: events.CommentCreated, CommentID: "c-1", NewsID: newsID, AuthorID: author.UserID, At: fixedNow,
		}).
		Return(nil)

	got, err := s.CreateComment(context.Background(), newsID, author, "  Текст комментария  ")
	require.NoError(t, err)
	require.Equal(t, "c-1", got.ID)
	require.Equal(t, "Текст комментария", got.Text)
}

func TestService_CreateComment_PublishFailureIgnored(t *testing.T) {
	s, d := newServiceWithMocks(t)
	newsID := uuid.New()

	d.news.EXPECT().NewsByID(gomock.Any(), newsID).Return(&models.News{ID: newsID}, nil)
	d.comments.EXPECT().CreateComment(gomock.Any(), gomock.Any()).Return(&models.Comment{ID: "c-1", NewsID: newsID}, nil)
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	_, err := s.CreateComment(context.Background(), newsID, identity(), "Текст")
	require.NoError(t, err)
}

func TestService_CreateComment_StorageErrors(t *testing.T) {
	s, d := newServiceWithMocks(t)
	newsID := uuid.New()

	// Сбой на чтении новости.
	d.news.EXPECT().NewsByID(gomock.Any(), newsID).Return(nil, errors.New("pg down"))
	_, err := s.CreateComment(context.Background(), newsID, identity(), "Текст")
	require.ErrorIs(t, err, ErrStorageUnavailable)

	// Сбой на вставке.
	d.news.EXPECT().NewsByID(gomock.Any(), newsID).Return(&models.News{ID: newsID}, nil)
	d.comments.EXPECT().CreateComment(gomock.Any(), gomock.Any()).Return(nil, errors.New("mongo down"))
	_, err = s.CreateComment(context.Background(), newsID, identity(), "Текст")
	require.ErrorIs(t, err, ErrStorageUnavailable)

	// Дедлайн пробрасывается, а не маскируется под сбой хранилища.
	d.news.EXPECT().NewsByID(gomock.Any(), newsID).Return(nil, context.DeadlineExceeded)
	_, err = s.CreateComment(context.Background(), newsID, identity(), "Текст")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotErrorIs(t, err, ErrStorageUnavailable)
}

func TestService_EditComment_NotOwnerIsNotFound(t *testing.T) {
	s, d := newServiceWithMocks(t)
	owner := identity()
	c := &models.Comment{ID: "c-1", NewsID: uuid.New(), AuthorID: owner.UserID, Text: "Текст"}

	d.comments.EXPECT().CommentByID(gomock.Any(), "c-1").Return(c, nil).Times(2)

	_, err := s.EditComment(context.Background(), "c-1", identity(), "Обновлённый")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.EditComment(context.Background(), "c-1", models.Anonymous, "Обновлённый")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_EditComment_Missing(t *testing.T) {
	s, d := newServiceWithMocks(t)

	d.comments.EXPECT().CommentByID(gomock.Any(), "nope").Return(nil, storage.ErrNotFound)

	_, err := s.EditComment(context.Background(), "nope", identity(), "Обновлённый")
	require.ErrorIs(t, err, ErrNotFound)

	// Пустой id не доходит до стораджа.
	_, err = s.EditComment(context.Background(), "  ", identity(), "Обновлённый")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_EditComment_RejectedNoMutation(t *testing.T) {
	s, d := newServiceWithMocks(t)
	owner := identity()
	c := &models.Comment{ID: "c-1", AuthorID: owner.UserID, Text: "Текст"}

	d.comments.EXPECT().CommentByID(gomock.Any(), "c-1").Return(c, nil)

	_, err := s.EditComment(context.Background(), "c-1", owner, "ты негодяй")
	require.ErrorIs(t, err, ErrRejected)
}

func TestService_EditComment_OK(t *testing.T) {
	s, d := newServiceWithMocks(t)
	owner := identity()
	newsID := uuid.New()
	c := &models.Comment{ID: "c-1", NewsID: newsID, AuthorID: owner.UserID, Text: "Текст", CreatedAt: fixedNow.Add(-time.Hour)}
	updated := *c
	updated.Text = "Обновлённый"

	gomock.InOrder(
		d.comments.EXPECT().CommentByID(gomock.Any(), "c-1").Return(c, nil),
		d.comments.EXPECT().UpdateCommentText(gomock.Any(), "c-1", "Обновлённый").Return(nil),
		d.comments.EXPECT().CommentByID(gomock.Any(), "c-1").Return(&updated, nil),
	)
	d.publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e events.Event) error {
			require.Equal(t, events.CommentUpdated, e.Type)
			require.Equal(t, newsID, e.NewsID)
			return nil
		})

	got, err := s.EditComment(context.Background(), "c-1", owner, "Обновлённый")
	require.NoError(t, err)
	require.Equal(t, "Обновлённый", got.Text)
	require.Equal(t, c.CreatedAt, got.CreatedAt)
}

func TestService_EditComment_UpdateRaceNotFound(t *testing.T) {
	s, d := newServiceWithMocks(t)
	owner := identity()

	d.comments.EXPECT().CommentByID(gomock.Any(), "c-1").Return(&models.Comment{ID: "c-1", AuthorID: owner.UserID}, nil)
	// Удалён между чтением и обновлением.
	d.comments.EXPECT().UpdateCommentText(gomock.Any(), "c-1", "x").Return(storage.ErrNotFound)

	_, err := s.EditComment(context.Background(), "c-1", owner, "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteComment(t *testing.T) {
	s, d := newServiceWithMocks(t)
	owner := identity()
	c := &models.Comment{ID: "c-1", NewsID: uuid.New(), AuthorID: owner.UserID}

	// Чужой — стораж не трогается.
	d.comments.EXPECT().CommentByID(gomock.Any(), "c-1").Return(c, nil)
	require.ErrorIs(t, s.DeleteComment(context.Background(), "c-1", identity()), ErrNotFound)

	// Автор.
	d.comments.EXPECT().CommentByID(gomock.Any(), "c-1").Return(c, nil)
	d.comments.EXPECT().DeleteComment(gomock.Any(), "c-1").Return(nil)
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, s.DeleteComment(context.Background(), "c-1", owner))

	// Сбой хранилища.
	d.comments.EXPECT().CommentByID(gomock.Any(), "c-1").Return(c, nil)
	d.comments.EXPECT().DeleteComment(gomock.Any(), "c-1").Return(errors.New("mongo down"))
	require.ErrorIs(t, s.DeleteComment(context.Background(), "c-1", owner), ErrStorageUnavailable)
}

func TestService_CommentForEdit(t *testing.T) {
	s, d := newServiceWithMocks(t)
	owner := identity()
	c := &models.Comment{ID: "c-1", AuthorID: owner.UserID, Text: "Текст"}

	d.comments.EXPECT().CommentByID(gomock.Any(), "c-1").Return(c, nil).Times(2)

	got, err := s.CommentForEdit(context.Background(), "c-1", owner)
	require.NoError(t, err)
	require.Equal(t, c, got)

	_, err = s.CommentForEdit(context.Background(), "c-1", identity())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_NewsDetail(t *testing.T) {
	s, d := newServiceWithMocks(t)
	newsID := uuid.New()
	news := &models.News{ID: newsID, Title: "Заголовок"}

	later := models.Comment{ID: "b", NewsID: newsID, CreatedAt: fixedNow}
	earlier := models.Comment{ID: "a", NewsID: newsID, CreatedAt: fixedNow.Add(-time.Minute)}

	d.news.EXPECT().NewsByID(gomock.Any(), newsID).Return(news, nil).Times(2)
	d.comments.EXPECT().ListByNews(gomock.Any(), newsID).Return([]models.Comment{later, earlier}, nil)
	d.comments.EXPECT().ListByNews(gomock.Any(), newsID).Return(nil, nil)

	got, err := s.NewsDetail(context.Background(), newsID, identity())
	require.NoError(t, err)
	require.Equal(t, *news, got.News)
	require.True(t, got.FormVisible)
	require.Equal(t, []models.Comment{earlier, later}, got.Comments)

	got, err = s.NewsDetail(context.Background(), newsID, models.Anonymous)
	require.NoError(t, err)
	require.False(t, got.FormVisible)
	require.NotNil(t, got.Comments)
	require.Empty(t, got.Comments)

	d.news.EXPECT().NewsByID(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound)
	_, err = s.NewsDetail(context.Background(), uuid.New(), identity())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListHome(t *testing.T) {
	s, d := newServiceWithMocks(t)

	d.news.EXPECT().ListNews(gomock.Any(), int32(10)).Return(nil, nil)
	items, err := s.ListHome(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)

	d.news.EXPECT().ListNews(gomock.Any(), int32(3)).Return(nil, errors.New("pg down"))
	_, err = s.ListHome(context.Background(), 3)
	require.ErrorIs(t, err, ErrStorageUnavailable)
}

// TestService_ListHome_LimitCappedByPageSize — хранилище никогда не получает limit больше страницы.
func TestService_ListHome_LimitCappedByPageSize(t *testing.T) {
	cases := []struct {
		name  string
		limit int32
		want  int32
	}{
		{"negative", -5, 10},
		{"below page", 7, 7},
		{"equal page", 10, 10},
		{"above page", 11, 10},
		{"int32 max", math.MaxInt32, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, d := newServiceWithMocks(t)

			d.news.EXPECT().ListNews(gomock.Any(), tc.want).Return([]models.News{}, nil)

			items, err := s.ListHome(context.Background(), tc.limit)
			require.NoError(t, err)
			require.NotNil(t, items)
		})
	}
}

func TestRejectedError(t *testing.T) {
	t.Parallel()

	err := error(&RejectedError{Reason: testWarning})
	require.ErrorIs(t, err, ErrRejected)
	require.NotErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), testWarning)
}
