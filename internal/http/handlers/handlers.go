// handlers — HTTP-обработчики YaNews поверх сервисного слоя.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/pribylovaa/yanews/internal/models"
	"github.com/pribylovaa/yanews/internal/service"
)

// Comments — методы сервиса комментариев и ленты, нужные обработчикам.
type Comments interface {
	ListHome(ctx context.Context, limit int32) ([]models.News, error)
	NewsDetail(ctx context.Context, newsID uuid.UUID, requester models.Identity) (*service.NewsDetail, error)
	CreateComment(ctx context.Context, newsID uuid.UUID, requester models.Identity, text string) (*models.Comment, error)
	CommentForEdit(ctx context.Context, commentID string, requester models.Identity) (*models.Comment, error)
	EditComment(ctx context.Context, commentID string, requester models.Identity, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string, requester models.Identity) error
}

// Accounts — методы поставщика идентичности.
type Accounts interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.Token, error)
	Logout(ctx context.Context, accessToken string) error
}

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	Comments Comments
	Accounts Accounts
}

func New(comments Comments, accounts Accounts) *Handlers {
	return &Handlers{Comments: comments, Accounts: accounts}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
