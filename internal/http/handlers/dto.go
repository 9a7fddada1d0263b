package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/yanews/internal/models"
)

// NewsListResponse — ответ главной страницы.
type NewsListResponse struct {
	Items []models.News `json:"items"`
}

// CommentTextRequest — тело создания и правки комментария.
type CommentTextRequest struct {
	Text string `json:"text"`
}

// CredentialsRequest — тело регистрации и входа.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func userFromModel(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func tokenFromModel(t *models.Token) TokenResponse {
	return TokenResponse{AccessToken: t.AccessToken, TokenType: "Bearer", ExpiresAt: t.ExpiresAt}
}
