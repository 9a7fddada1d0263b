// models содержит доменные сущности YaNews.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"
)

// News — опубликованная новость.
//
// Особенности:
//   - ID — UUIDv4, назначается хранилищем;
//   - Date — дата публикации с точностью до дня (UTC, время обнулено);
//   - после создания новость не меняется.
type News struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Text  string    `json:"text"`
	Date  time.Time `json:"date"`
}

// DateOnly обрезает момент времени до даты (UTC).
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompareNewsFeed задаёт порядок ленты: date DESC, id DESC.
func CompareNewsFeed(a, b News) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}

	return bytes.Compare(b.ID[:], a.ID[:])
}

// SortNewsFeed сортирует новости по порядку ленты на месте.
func SortNewsFeed(items []News) {
	slices.SortFunc(items, CompareNewsFeed)
}
