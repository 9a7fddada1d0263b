// memory — хранилища YaNews в памяти процесса.
//
// Используются при storage.driver=memory и в тестах сервисного слоя.
// Все операции сериализуются одним мьютексом, записи копируются на входе и выходе,
// чтобы вызывающий не мог изменить состояние хранилища через указатель.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pribylovaa/yanews/internal/models"
	"github.com/pribylovaa/yanews/internal/storage"
)

// Storage реализует storage.NewsStorage, storage.CommentStorage и storage.UserStorage.
type Storage struct {
	mu       sync.RWMutex
	news     map[uuid.UUID]models.News
	comments map[string]models.Comment
	users    map[uuid.UUID]models.User
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		news:     make(map[uuid.UUID]models.News),
		comments: make(map[string]models.Comment),
		users:    make(map[uuid.UUID]models.User),
	}
}

var (
	_ storage.NewsStorage    = (*Storage)(nil)
	_ storage.CommentStorage = (*Storage)(nil)
	_ storage.UserStorage    = (*Storage)(nil)
)

// SaveNews добавляет новости, назначая ID тем, у которых он не задан.
func (s *Storage) SaveNews(ctx context.Context, items []models.News) ([]models.News, error) {
	const op = "storage.memory.SaveNews"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.News, 0, len(items))
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.Date = models.DateOnly(item.Date)

		s.news[item.ID] = item
		out = append(out, item)
	}

	return out, nil
}

func (s *Storage) NewsByID(ctx context.Context, id uuid.UUID) (*models.News, error) {
	const op = "storage.memory.NewsByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	news, ok := s.news[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return &news, nil
}

func (s *Storage) ListNews(ctx context.Context, limit int32) ([]models.News, error) {
	const op = "storage.memory.ListNews"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	items := make([]models.News, 0, len(s.news))
	for _, n := range s.news {
		items = append(items, n)
	}
	s.mu.RUnlock()

	models.SortNewsFeed(items)

	if limit >= 0 && int(limit) < len(items) {
		items = items[:limit]
	}

	return items, nil
}

// CreateComment сохраняет копию комментария с новым UUIDv7.
func (s *Storage) CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	const op = "storage.memory.CreateComment"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comment.ID = id.String()
	comment.CreatedAt = comment.CreatedAt.UTC()

	s.mu.Lock()
	s.comments[comment.ID] = comment
	s.mu.Unlock()

	return &comment, nil
}

func (s *Storage) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage.memory.CommentByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return &comment, nil
}

func (s *Storage) UpdateCommentText(ctx context.Context, id, text string) error {
	const op = "storage.memory.UpdateCommentText"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id = strings.TrimSpace(id)
	comment, ok := s.comments[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	comment.Text = text
	s.comments[id] = comment

	return nil
}

func (s *Storage) DeleteComment(ctx context.Context, id string) error {
	const op = "storage.memory.DeleteComment"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id = strings.TrimSpace(id)
	if _, ok := s.comments[id]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	delete(s.comments, id)

	return nil
}

func (s *Storage) ListByNews(ctx context.Context, newsID uuid.UUID) ([]models.Comment, error) {
	const op = "storage.memory.ListByNews"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	var items []models.Comment
	for _, c := range s.comments {
		if c.NewsID == newsID {
			items = append(items, c)
		}
	}
	s.mu.RUnlock()

	models.SortComments(items)

	return items, nil
}

// SaveUser сохраняет пользователя; username уникален без учёта регистра.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.memory.SaveUser"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	for _, u := range s.users {
		if strings.EqualFold(u.Username, user.Username) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
	}

	s.users[user.ID] = *user

	return nil
}

func (s *Storage) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.memory.UserByUsername"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.memory.UserByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return &u, nil
}
