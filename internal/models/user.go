package models

import (
	"time"

	"github.com/google/uuid"
)

// User — зарегистрированный пользователь.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity возвращает принципала для пользователя.
func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username}
}

// Token — выданный access-токен.
//
// Описание:
//   - AccessToken — подписанный JWT для заголовка Authorization: Bearer;
//   - ExpiresAt — момент истечения (UTC).
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}
