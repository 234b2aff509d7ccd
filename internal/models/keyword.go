package models

import "time"

type KeywordType string // Тип ключевого слова

const (
	IncludeKeyword KeywordType = "include" // Слово обязательно для отбора
	ExcludeKeyword KeywordType = "exclude" // Слово исключает тендер
)

// Valid проверяет, что тип ключевого слова известен.
func (k KeywordType) Valid() bool {
	return k == IncludeKeyword || k == ExcludeKeyword
}

// Keyword представляет модель ключевого слова.
type Keyword struct {
	ID        int64       `json:"id"`
	Keyword   string      `json:"keyword"`
	Type      KeywordType `json:"type"`
	CreatedAt time.Time   `json:"-"`
}

// KeywordRequest представляет структуру запроса для создания или обновления ключевого слова.
type KeywordRequest struct {
	Keyword string      `json:"keyword"`
	Type    KeywordType `json:"type"`
}
