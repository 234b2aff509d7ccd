package services

import (
	"strings"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"
	"github.com/senyabanana/mercado-publico-monitor/internal/safe"
)

// KeywordMatcher отбирает тендеры по ключевым словам включения и исключения.
// Сравнение ведётся по подстроке без учёта регистра и диакритики.
type KeywordMatcher struct {
	include []string
	exclude []string
}

// NewKeywordMatcher нормализует ключевые слова один раз при создании.
// Пустые слова отбрасываются.
func NewKeywordMatcher(include, exclude []string) *KeywordMatcher {
	return &KeywordMatcher{
		include: normalizeKeywords(include),
		exclude: normalizeKeywords(exclude),
	}
}

// Matches проверяет название и описание тендера.
// Исключающее слово всегда побеждает; пустой список включения пропускает всё остальное.
func (m *KeywordMatcher) Matches(raw models.RawTender) bool {
	name, _ := safe.Text(raw["Nombre"])
	description, _ := safe.Text(raw["Descripcion"])
	text := normalizeText(name + " " + description)

	for _, keyword := range m.exclude {
		if strings.Contains(text, keyword) {
			return false
		}
	}

	if len(m.include) == 0 {
		return true
	}
	for _, keyword := range m.include {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// MatchesKeywords - разовая проверка без предварительной нормализации.
func MatchesKeywords(raw models.RawTender, include, exclude []string) bool {
	return NewKeywordMatcher(include, exclude).Matches(raw)
}

func normalizeText(s string) string {
	return strings.ToLower(safe.StripDiacritics(s))
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if k := normalizeText(keyword); k != "" {
			out = append(out, k)
		}
	}
	return out
}
