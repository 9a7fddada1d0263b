// storage определяет контракты доступа к хранилищам YaNews.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pribylovaa/yanews/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — конфликт уникальности (например, username).
	ErrAlreadyExists = errors.New("already exists")
)

// NewsStorage описывает операции над models.News.
type NewsStorage interface {
	// SaveNews добавляет новости (внешний путь публикации: сидирование, импорт).
	// ID назначается хранилищем; Date обрезается до дня.
	SaveNews(ctx context.Context, items []models.News) ([]models.News, error)
	// NewsByID возвращает новость по идентификатору.
	// Если запись не найдена — ErrNotFound.
	NewsByID(ctx context.Context, id uuid.UUID) (*models.News, error)
	// ListNews возвращает не более limit новостей в порядке date DESC, id DESC.
	ListNews(ctx context.Context, limit int32) ([]models.News, error)
}

// CommentStorage описывает операции над models.Comment.
// Атомарность гарантируется на уровне одной записи; транзакций между записями нет.
type CommentStorage interface {
	// CreateComment сохраняет комментарий и возвращает его с назначенным ID.
	// Входной Comment должен содержать NewsID, AuthorID, AuthorName, Text, CreatedAt.
	CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error)
	// CommentByID возвращает комментарий по идентификатору.
	// Если запись не найдена (в том числе при неверном формате id) — ErrNotFound.
	CommentByID(ctx context.Context, id string) (*models.Comment, error)
	// UpdateCommentText меняет только текст комментария.
	// Если запись не найдена — ErrNotFound.
	UpdateCommentText(ctx context.Context, id, text string) error
	// DeleteComment удаляет комментарий.
	// Если запись не найдена — ErrNotFound.
	DeleteComment(ctx context.Context, id string) error
	// ListByNews возвращает все комментарии новости в порядке created_at ASC, id ASC.
	ListByNews(ctx context.Context, newsID uuid.UUID) ([]models.Comment, error)
}

// UserStorage описывает операции над models.User.
type UserStorage interface {
	// SaveUser сохраняет нового пользователя. Занятый username — ErrAlreadyExists.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByUsername возвращает пользователя по имени. Нет записи — ErrNotFound.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserByID возвращает пользователя по идентификатору. Нет записи — ErrNotFound.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
