package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/yanews/internal/models"
	"github.com/pribylovaa/yanews/internal/storage"
)

// SaveNews вставляет пачку новостей одним batch-запросом.
// Нулевой ID заменяется на сгенерированный; date хранится с точностью до дня.
func (s *Storage) SaveNews(ctx context.Context, items []models.News) ([]models.News, error) {
	const op = "storage.postgres.SaveNews"

	if len(items) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}

		batch.Queue(`
		INSERT INTO news (id, title, text, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, text, date
		`, item.ID, item.Title, item.Text, models.DateOnly(item.Date))
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()

	out := make([]models.News, 0, len(items))
	for i := 0; i < batch.Len(); i++ {
		var news models.News
		if err := br.QueryRow().Scan(&news.ID, &news.Title, &news.Text, &news.Date); err != nil {
			return nil, fmt.Errorf("%s: batch item %d: %w", op, i, err)
		}

		news.Date = models.DateOnly(news.Date)
		out = append(out, news)
	}

	return out, nil
}

// NewsByID возвращает новость по идентификатору.
// Если запись не найдена — storage.ErrNotFound.
func (s *Storage) NewsByID(ctx context.Context, id uuid.UUID) (*models.News, error) {
	const op = "storage.postgres.NewsByID"

	var news models.News
	err := s.db.QueryRow(ctx, `
	SELECT id, title, text, date
	FROM news
	WHERE id = $1
	`, id).Scan(&news.ID, &news.Title, &news.Text, &news.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	news.Date = models.DateOnly(news.Date)

	return &news, nil
}

// maxPrealloc — потолок предварительной аллокации под результат ListNews.
const maxPrealloc int32 = 64

// ListNews возвращает первые limit новостей ленты.
// Сортировка фиксирована: date DESC, id DESC.
func (s *Storage) ListNews(ctx context.Context, limit int32) ([]models.News, error) {
	const op = "storage.postgres.ListNews"

	if limit < 0 {
		limit = 0
	}

	rows, err := s.db.Query(ctx, `
	SELECT id, title, text, date
	FROM news
	ORDER BY date DESC, id DESC
	LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	// limit приходит снаружи: ёмкость ограничена, дальше растёт через append.
	items := make([]models.News, 0, min(limit, maxPrealloc))
	for rows.Next() {
		var news models.News
		if scanErr := rows.Scan(&news.ID, &news.Title, &news.Text, &news.Date); scanErr != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, scanErr)
		}

		news.Date = models.DateOnly(news.Date)
		items = append(items, news)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	return items, nil
}
