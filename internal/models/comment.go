package models

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Comment — комментарий к новости.
// Инварианты:
//   - NewsID и AuthorID задаются при создании и больше не меняются;
//   - CreatedAt назначается один раз и служит ключом сортировки;
//   - меняется только Text (через сервисный EditComment).
//
// ID — непрозрачная строка: hex ObjectID в MongoDB, UUIDv7 в memory-хранилище.
type Comment struct {
	ID         string    `json:"id"`
	NewsID     uuid.UUID `json:"news_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// CompareComments задаёт порядок вывода комментариев: created_at ASC, id ASC.
func CompareComments(a, b Comment) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}

	return strings.Compare(a.ID, b.ID)
}

// SortComments сортирует комментарии в хронологическом порядке на месте.
func SortComments(items []Comment) {
	slices.SortFunc(items, CompareComments)
}

// Author возвращает принципала-владельца комментария.
func (c Comment) Author() Identity {
	return Identity{UserID: c.AuthorID, Username: c.AuthorName}
}
