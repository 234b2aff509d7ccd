package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"
	"github.com/senyabanana/mercado-publico-monitor/internal/repository"

	"github.com/rs/zerolog"
)

const maxKeywordLength = 100

var (
	defaultIncludeKeywords = []string{
		"software", "analisis", "datos", "inteligencia artificial", "web", "aplicación",
		"plataforma", "digital", "tecnología", "informática", "computación", "desarrollo",
	}
	defaultExcludeKeywords = []string{
		"limpieza", "licencia", "suscripción", "mantención", "aseo", "arriendo",
	}
)

type KeywordService struct {
	Repo   repository.KeywordRepository
	logger zerolog.Logger
}

// NewKeywordService создаёт новый экземпляр KeywordService.
func NewKeywordService(repo repository.KeywordRepository, logger zerolog.Logger) *KeywordService {
	return &KeywordService{Repo: repo, logger: logger}
}

// FetchKeywords получает список ключевых слов, typeStr может быть пустым.
func (s *KeywordService) FetchKeywords(ctx context.Context, typeStr string) ([]models.Keyword, error) {
	if typeStr == "" {
		return s.Repo.GetKeywords(ctx, nil)
	}
	keywordType := models.KeywordType(typeStr)
	if !keywordType.Valid() {
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported keyword type: %s", typeStr))
	}
	return s.Repo.GetKeywords(ctx, &keywordType)
}

// CreateKeyword создает новое ключевое слово.
func (s *KeywordService) CreateKeyword(ctx context.Context, req models.KeywordRequest) (*models.Keyword, error) {
	req.Keyword = strings.TrimSpace(req.Keyword)
	if req.Keyword == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "keyword is required")
	}
	if err := validateKeywordRequest(req); err != nil {
		return nil, err
	}

	keyword, err := s.Repo.CreateKeyword(ctx, req)
	if errors.Is(err, models.ErrDuplicateKeyword) {
		return nil, models.NewErrorResponse(http.StatusConflict, "keyword already exists")
	}
	return keyword, err
}

// UpdateKeyword обновляет ключевое слово; пустые поля запроса остаются прежними.
func (s *KeywordService) UpdateKeyword(ctx context.Context, id int64, req models.KeywordRequest) (*models.Keyword, error) {
	req.Keyword = strings.TrimSpace(req.Keyword)
	if req.Keyword == "" && req.Type == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "nothing to update")
	}
	if err := validateKeywordRequest(req); err != nil {
		return nil, err
	}

	keyword, err := s.Repo.UpdateKeyword(ctx, id, req)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return nil, models.NewErrorResponse(http.StatusNotFound, "keyword not found")
	case errors.Is(err, models.ErrDuplicateKeyword):
		return nil, models.NewErrorResponse(http.StatusConflict, "keyword already exists")
	}
	return keyword, err
}

// DeleteKeyword удаляет ключевое слово.
func (s *KeywordService) DeleteKeyword(ctx context.Context, id int64) error {
	err := s.Repo.DeleteKeyword(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewErrorResponse(http.StatusNotFound, "keyword not found")
	}
	return err
}

func validateKeywordRequest(req models.KeywordRequest) error {
	if len([]rune(req.Keyword)) > maxKeywordLength {
		return models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("keyword must be at most %d characters", maxKeywordLength))
	}
	if req.Type != "" && !req.Type.Valid() {
		return models.NewErrorResponse(http.StatusBadRequest, "type must be include or exclude")
	}
	return nil
}

// SplitKeywords возвращает тексты слов включения и исключения.
func (s *KeywordService) SplitKeywords(ctx context.Context) (include, exclude []string, err error) {
	keywords, err := s.Repo.GetKeywords(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load keywords: %w", err)
	}
	for _, k := range keywords {
		switch k.Type {
		case models.IncludeKeyword:
			include = append(include, k.Keyword)
		case models.ExcludeKeyword:
			exclude = append(exclude, k.Keyword)
		}
	}
	return include, exclude, nil
}

// SeedDefaults заполняет пустую таблицу стандартным набором слов.
func (s *KeywordService) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.Repo.CountKeywords(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	seeded := 0
	seed := func(words []string, keywordType models.KeywordType) error {
		for _, word := range words {
			_, err := s.Repo.CreateKeyword(ctx, models.KeywordRequest{Keyword: word, Type: keywordType})
			if errors.Is(err, models.ErrDuplicateKeyword) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to seed keyword %q: %w", word, err)
			}
			seeded++
		}
		return nil
	}
	if err := seed(defaultIncludeKeywords, models.IncludeKeyword); err != nil {
		return seeded, err
	}
	if err := seed(defaultExcludeKeywords, models.ExcludeKeyword); err != nil {
		return seeded, err
	}

	s.logger.Info().Int("seeded", seeded).Msg("default keywords created")
	return seeded, nil
}
