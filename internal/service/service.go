// service содержит бизнес-логику YaNews: жизненный цикл комментариев и ленту новостей.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/yanews/internal/config"
	"github.com/pribylovaa/yanews/internal/events"
	"github.com/pribylovaa/yanews/internal/moderation"
	"github.com/pribylovaa/yanews/internal/storage"
)

var (
	// ErrNotFound — сущность отсутствует или принадлежит другому пользователю.
	ErrNotFound = errors.New("not found")
	// ErrForbidden — зарезервировано; несовпадение владельца сворачивается в ErrNotFound.
	ErrForbidden = errors.New("forbidden")
	// ErrRequiresAuth — операция требует аутентифицированного пользователя.
	ErrRequiresAuth = errors.New("requires auth")
	// ErrRejected — текст не прошёл модерацию; причина в *RejectedError.
	ErrRejected = errors.New("rejected")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStorageUnavailable — сбой хранилища, повтор решает вызывающий.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// RejectedError несёт текст предупреждения модерации.
// errors.Is(err, ErrRejected) истинно для любой обёртки над ним.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string { return "rejected: " + e.Reason }

func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

// Service — бизнес-логика комментариев и ленты.
type Service struct {
	news      storage.NewsStorage
	comments  storage.CommentStorage
	filter    *moderation.Filter
	publisher events.Publisher
	pageSize  int32
	now       func() time.Time
}

// New создает новый экземпляр Service.
// publisher может быть nil — тогда события не публикуются.
func New(
	news storage.NewsStorage,
	comments storage.CommentStorage,
	filter *moderation.Filter,
	publisher events.Publisher,
	cfg config.NewsConfig,
) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}

	return &Service{
		news:      news,
		comments:  comments,
		filter:    filter,
		publisher: publisher,
		pageSize:  cfg.PageSize,
		now:       time.Now,
	}
}

// storageError переводит ошибку хранилища в сервисную.
// Отмена и дедлайн контекста пробрасываются как есть, чтобы транспорт отличал их от сбоя БД.
func storageError(op string, lg *slog.Logger, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		lg.Warn("request_aborted", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	default:
		lg.Error("storage_error", "err", err)
		return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
	}
}

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
