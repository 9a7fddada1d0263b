// moderation отклоняет тексты с запрещёнными словами.
package moderation

import (
	"errors"
	"strings"
)

// ErrEmptyWordList — фильтр без запрещённых слов не имеет смысла и считается ошибкой конфигурации.
var ErrEmptyWordList = errors.New("moderation: banned word list is empty")

// Verdict — результат проверки текста.
type Verdict struct {
	Accepted bool
	// Reason — текст предупреждения; пустой, если текст принят.
	Reason string
}

// Filter проверяет текст на вхождение запрещённых подстрок.
// Сравнение регистрозависимое и не учитывает границы слов.
// После создания не изменяется, поэтому безопасен для конкурентного использования.
type Filter struct {
	words   []string
	warning string
}

// New создаёт фильтр. Список слов копируется; пустые элементы недопустимы,
// так как пустая подстрока входит в любой текст.
func New(words []string, warning string) (*Filter, error) {
	if len(words) == 0 {
		return nil, ErrEmptyWordList
	}

	cp := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			return nil, errors.New("moderation: banned word must not be empty")
		}
		cp = append(cp, w)
	}

	if strings.TrimSpace(warning) == "" {
		return nil, errors.New("moderation: warning text must not be empty")
	}

	return &Filter{words: cp, warning: warning}, nil
}

// Check возвращает Accepted, если ни одно запрещённое слово не встречается в тексте.
// Предупреждение одинаково для всех слов: вызывающему не сообщается, какое именно сработало.
func (f *Filter) Check(text string) Verdict {
	for _, w := range f.words {
		if strings.Contains(text, w) {
			return Verdict{Reason: f.warning}
		}
	}

	return Verdict{Accepted: true}
}

// Warning возвращает текст предупреждения.
func (f *Filter) Warning() string { return f.warning }
