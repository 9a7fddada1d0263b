package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pribylovaa/yanews/internal/events"
	"github.com/pribylovaa/yanews/internal/models"
	"github.com/pribylovaa/yanews/internal/policy"
	"github.com/pribylovaa/yanews/pkg/log"
)

// NewsDetail — страница новости: сама новость, комментарии и признак видимости формы.
type NewsDetail struct {
	News        models.News      `json:"news"`
	Comments    []models.Comment `json:"comments"`
	FormVisible bool             `json:"form_visible"`
}

// NewsDetail собирает страницу новости.
//
// Поведение/ошибки:
//   - ErrNotFound — новости нет;
//   - ErrStorageUnavailable — сбой хранилища.
func (s *Service) NewsDetail(ctx context.Context, newsID uuid.UUID, requester models.Identity) (*NewsDetail, error) {
	const op = "service.comments.NewsDetail"

	lg := log.From(ctx).With("op", op, "news_id", newsID.String())

	news, err := s.news.NewsByID(ctx, newsID)
	if err != nil {
		if err = storageError(op, lg, err); isNotFound(err) {
			lg.Info("news_not_found")
		}
		return nil, err
	}

	comments, err := s.ListComments(ctx, newsID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &NewsDetail{
		News:        *news,
		Comments:    comments,
		FormVisible: policy.CanViewForm(requester),
	}, nil
}

// CreateComment — создание комментария к новости.
//
// Порядок проверок:
//   - аноним — ErrRequiresAuth, без обращения к хранилищу;
//   - пустой после TrimSpace текст — ErrInvalidArgument;
//   - новости нет — ErrNotFound;
//   - запрещённое слово — *RejectedError, запись не создаётся.
func (s *Service) CreateComment(ctx context.Context, newsID uuid.UUID, requester models.Identity, text string) (*models.Comment, error) {
	const op = "service.comments.CreateComment"

	lg := log.From(ctx).With("op", op, "news_id", newsID.String())

	if requester.IsAnonymous() {
		lg.Info("comment_requires_auth")
		return nil, fmt.Errorf("%s: %w", op, ErrRequiresAuth)
	}

	lg = lg.With("user_id", requester.UserID.String())

	text = strings.TrimSpace(text)
	if text == "" {
		lg.Warn("invalid argument: empty text")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if _, err := s.news.NewsByID(ctx, newsID); err != nil {
		if err = storageError(op, lg, err); isNotFound(err) {
			lg.Info("news_not_found")
		}
		return nil, err
	}

	if err := s.moderate(op, lg, text); err != nil {
		return nil, err
	}

	created, err := s.comments.CreateComment(ctx, models.Comment{
		NewsID:     newsID,
		AuthorID:   requester.UserID,
		AuthorName: requester.Username,
		Text:       text,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, storageError(op, lg, err)
	}

	lg.Info("comment_created", "comment_id", created.ID)
	s.publish(ctx, lg, events.CommentCreated, created)

	return created, nil
}

// CommentForEdit возвращает комментарий только его автору.
// Чужой и несуществующий комментарий неразличимы: оба дают ErrNotFound.
func (s *Service) CommentForEdit(ctx context.Context, commentID string, requester models.Identity) (*models.Comment, error) {
	const op = "service.comments.CommentForEdit"

	lg := log.From(ctx).With("op", op, "comment_id", commentID)

	return s.ownedComment(ctx, op, lg, commentID, requester)
}

// EditComment меняет текст комментария.
// Автор, новость и created_at сохраняются; возвращается перечитанная запись.
//
// Поведение/ошибки:
//   - ErrNotFound — комментария нет или requester не автор;
//   - ErrInvalidArgument — пустой текст;
//   - *RejectedError — запрещённое слово, запись не меняется.
func (s *Service) EditComment(ctx context.Context, commentID string, requester models.Identity, text string) (*models.Comment, error) {
	const op = "service.comments.EditComment"

	lg := log.From(ctx).With("op", op, "comment_id", commentID)

	comment, err := s.ownedComment(ctx, op, lg, commentID, requester)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		lg.Warn("invalid argument: empty text")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.moderate(op, lg, text); err != nil {
		return nil, err
	}

	if err := s.comments.UpdateCommentText(ctx, comment.ID, text); err != nil {
		return nil, storageError(op, lg, err)
	}

	updated, err := s.comments.CommentByID(ctx, comment.ID)
	if err != nil {
		return nil, storageError(op, lg, err)
	}

	lg.Info("comment_updated")
	s.publish(ctx, lg, events.CommentUpdated, updated)

	return updated, nil
}

// DeleteComment удаляет комментарий безвозвратно.
// Повторное удаление даёт ErrNotFound.
func (s *Service) DeleteComment(ctx context.Context, commentID string, requester models.Identity) error {
	const op = "service.comments.DeleteComment"

	lg := log.From(ctx).With("op", op, "comment_id", commentID)

	comment, err := s.ownedComment(ctx, op, lg, commentID, requester)
	if err != nil {
		return err
	}

	if err := s.comments.DeleteComment(ctx, comment.ID); err != nil {
		return storageError(op, lg, err)
	}

	lg.Info("comment_deleted")
	s.publish(ctx, lg, events.CommentDeleted, comment)

	return nil
}

// ownedComment читает комментарий и проверяет владельца.
func (s *Service) ownedComment(ctx context.Context, op string, lg *slog.Logger, commentID string, requester models.Identity) (*models.Comment, error) {
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	comment, err := s.comments.CommentByID(ctx, commentID)
	if err != nil {
		if err = storageError(op, lg, err); isNotFound(err) {
			lg.Info("comment_not_found")
		}
		return nil, err
	}

	if !policy.CanModify(requester, comment.Author()) {
		lg.Warn("comment_not_owned", "user_id", requester.UserID.String())
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return comment, nil
}

func (s *Service) moderate(op string, lg *slog.Logger, text string) error {
	verdict := s.filter.Check(text)
	if verdict.Accepted {
		return nil
	}

	lg.Info("comment_rejected")

	return fmt.Errorf("%s: %w", op, &RejectedError{Reason: verdict.Reason})
}

// publish отправляет событие; ошибка только логируется.
func (s *Service) publish(ctx context.Context, lg *slog.Logger, typ events.Type, c *models.Comment) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:      typ,
		CommentID: c.ID,
		NewsID:    c.NewsID,
		AuthorID:  c.AuthorID,
		At:        s.now().UTC(),
	})
	if err != nil {
		lg.Warn("event_publish_failed", "type", string(typ), "err", err)
	}
}
