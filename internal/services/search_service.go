package services

import (
	"context"
	"fmt"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"
	"github.com/senyabanana/mercado-publico-monitor/internal/safe"

	"github.com/rs/zerolog"
)

// MarketAPI - запросы к API Mercado Público, нужные для поиска.
type MarketAPI interface {
	ListByDate(ctx context.Context, day time.Time, status models.SearchStatus) ([]models.RawTender, error)
	GetDetail(ctx context.Context, code string) (models.RawTender, error)
}

// RawArchive сохраняет исходный ответ детального запроса.
type RawArchive interface {
	StoreDetail(ctx context.Context, day time.Time, code string, raw models.RawTender) error
}

// SearchService обходит дни по порядку и собирает подходящие тендеры.
type SearchService struct {
	api      MarketAPI
	archive  RawArchive
	location *time.Location
	now      func() time.Time
	logger   zerolog.Logger
}

// NewSearchService создаёт новый экземпляр SearchService. archive может быть nil.
func NewSearchService(api MarketAPI, archive RawArchive, location *time.Location, logger zerolog.Logger) *SearchService {
	if location == nil {
		location = time.UTC
	}
	return &SearchService{
		api:      api,
		archive:  archive,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Search выполняет поиск за окно [сегодня - DaysBack, сегодня].
// Ошибки отдельных дней и записей только логируются; ошибка возвращается,
// лишь если поиск нельзя начать.
func (s *SearchService) Search(ctx context.Context, params models.SearchParams) ([]models.Tender, error) {
	if params.DaysBack < 0 {
		return nil, fmt.Errorf("days back must be non-negative, got %d", params.DaysBack)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	status := s.resolveStatus(params.Status)
	matcher := NewKeywordMatcher(params.IncludeKeywords, params.ExcludeKeywords)

	tenders := make([]models.Tender, 0)
	for _, day := range s.window(params.DaysBack) {
		tenders = append(tenders, s.searchDay(ctx, day, status, matcher)...)
	}

	s.logger.Info().Int("days_back", params.DaysBack).Int("found", len(tenders)).Msg("search finished")
	return tenders, nil
}

func (s *SearchService) resolveStatus(value string) models.SearchStatus {
	if value == "" {
		return models.PublishedStatus
	}
	status, ok := models.ParseSearchStatus(value)
	if !ok {
		s.logger.Warn().Str("status", value).Msg("unknown search status, falling back to published")
		return models.PublishedStatus
	}
	return status
}

// window возвращает дни окна по возрастанию, включая оба конца.
func (s *SearchService) window(daysBack int) []time.Time {
	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	days := make([]time.Time, 0, daysBack+1)
	for i := daysBack; i >= 0; i-- {
		days = append(days, today.AddDate(0, 0, -i))
	}
	return days
}

func (s *SearchService) searchDay(ctx context.Context, day time.Time, status models.SearchStatus, matcher *KeywordMatcher) []models.Tender {
	logger := s.logger.With().Str("date", day.Format(time.DateOnly)).Logger()

	summaries, err := s.api.ListByDate(ctx, day, status)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list tenders, skipping day")
		return nil
	}
	logger.Info().Int("listed", len(summaries)).Msg("tenders listed")

	var tenders []models.Tender
	for _, summary := range summaries {
		if !matcher.Matches(summary) {
			continue
		}

		tender, ok := s.fetchTender(ctx, day, summary, logger)
		if ok {
			tenders = append(tenders, *tender)
		}
	}

	logger.Info().Int("matched", len(tenders)).Msg("day processed")
	return tenders
}

func (s *SearchService) fetchTender(ctx context.Context, day time.Time, summary models.RawTender, logger zerolog.Logger) (*models.Tender, bool) {
	code, _ := safe.Text(summary["CodigoExterno"])
	if code == "" {
		logger.Warn().Msg("matched tender has no code, skipping")
		return nil, false
	}

	detail, err := s.api.GetDetail(ctx, code)
	if err != nil {
		logger.Warn().Err(err).Str("code", code).Msg("failed to get tender detail, skipping")
		return nil, false
	}

	if s.archive != nil {
		if err := s.archive.StoreDetail(ctx, day, code, detail); err != nil {
			logger.Warn().Err(err).Str("code", code).Msg("failed to archive tender detail")
		}
	}

	tender, err := NormalizeTender(detail)
	if err != nil {
		logger.Warn().Err(err).Str("code", code).Msg("failed to normalize tender, skipping")
		return nil, false
	}
	return tender, true
}
