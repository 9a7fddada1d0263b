// seed загружает новости из JSON-файла: внешний путь публикации для локального запуска.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pribylovaa/yanews/internal/models"
	"github.com/pribylovaa/yanews/internal/storage"
)

// Item — запись файла: {"title": "...", "text": "...", "date": "2024-05-10"}.
// date принимает YYYY-MM-DD или RFC3339; пустая дата — сегодня.
type Item struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Date  string `json:"date"`
}

// Parse разбирает JSON-массив записей.
func Parse(data []byte, now time.Time) ([]models.News, error) {
	const op = "seed.Parse"

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.News, 0, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.Title) == "" {
			return nil, fmt.Errorf("%s: item %d: title is required", op, i)
		}

		date, err := parseDate(it.Date, now)
		if err != nil {
			return nil, fmt.Errorf("%s: item %d: %w", op, i, err)
		}

		out = append(out, models.News{Title: it.Title, Text: it.Text, Date: date})
	}

	return out, nil
}

// LoadFile читает файл и сохраняет новости в хранилище.
func LoadFile(ctx context.Context, path string, news storage.NewsStorage) ([]models.News, error) {
	const op = "seed.LoadFile"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := Parse(data, time.Now())
	if err != nil {
		return nil, err
	}

	saved, err := news.SaveNews(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

func parseDate(v string, now time.Time) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return models.DateOnly(now), nil
	}

	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q", v)
	}

	return models.DateOnly(t), nil
}
