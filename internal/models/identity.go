package models

import "github.com/google/uuid"

// Identity — принципал текущего запроса.
// Нулевое значение (UserID == uuid.Nil) — аноним; аноним не равен никому,
// в том числе другому анониму.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// Anonymous — неаутентифицированный запрос.
var Anonymous = Identity{}

// IsAnonymous сообщает, что запрос не аутентифицирован.
func (i Identity) IsAnonymous() bool {
	return i.UserID == uuid.Nil
}

// Equal сравнивает принципалов только по UserID.
func (i Identity) Equal(other Identity) bool {
	if i.IsAnonymous() || other.IsAnonymous() {
		return false
	}

	return i.UserID == other.UserID
}
