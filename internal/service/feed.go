package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pribylovaa/yanews/internal/models"
	"github.com/pribylovaa/yanews/pkg/log"
)

// ListHome возвращает первые limit новостей ленты (date DESC, id DESC).
// Размер страницы из конфигурации — верхняя граница: limit <= 0 или больше неё
// заменяется на pageSize.
func (s *Service) ListHome(ctx context.Context, limit int32) ([]models.News, error) {
	const op = "service.feed.ListHome"

	if limit <= 0 || limit > s.pageSize {
		limit = s.pageSize
	}

	lg := log.From(ctx).With("op", op, "limit", limit)

	items, err := s.news.ListNews(ctx, limit)
	if err != nil {
		return nil, storageError(op, lg, err)
	}

	// Порядок фиксируется здесь, а не доверяется хранилищу.
	models.SortNewsFeed(items)
	if int(limit) < len(items) {
		items = items[:limit]
	}

	if items == nil {
		items = []models.News{}
	}

	return items, nil
}

// ListComments возвращает комментарии новости (created_at ASC, id ASC).
// Существование новости не проверяется: для неизвестной новости список пуст.
func (s *Service) ListComments(ctx context.Context, newsID uuid.UUID) ([]models.Comment, error) {
	const op = "service.feed.ListComments"

	lg := log.From(ctx).With("op", op, "news_id", newsID.String())

	items, err := s.comments.ListByNews(ctx, newsID)
	if err != nil {
		return nil, storageError(op, lg, err)
	}

	models.SortComments(items)

	if items == nil {
		items = []models.Comment{}
	}

	return items, nil
}
