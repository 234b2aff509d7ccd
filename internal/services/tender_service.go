package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"
	"github.com/senyabanana/mercado-publico-monitor/internal/repository"

	"github.com/rs/zerolog"
)

type TenderService struct {
	Repo   repository.TenderRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewTenderService создаёт новый экземпляр TenderService.
func NewTenderService(repo repository.TenderRepository, logger zerolog.Logger) *TenderService {
	return &TenderService{Repo: repo, now: time.Now, logger: logger}
}

// UpsertResult - итог сверки одного тендера.
type UpsertResult struct {
	Tender        *models.Tender
	Outcome       models.UpsertOutcome
	ChangedFields []string
}

// trackedField - поле, изменение которого считается существенным.
type trackedField struct {
	name  string
	equal func(a, b *models.Tender) bool
	copy  func(dst, src *models.Tender)
}

// Остальные поля при обновлении не синхронизируются.
var trackedFields = []trackedField{
	{"name", func(a, b *models.Tender) bool { return equalPtr(a.Name, b.Name) },
		func(dst, src *models.Tender) { dst.Name = src.Name }},
	{"description", func(a, b *models.Tender) bool { return equalPtr(a.Description, b.Description) },
		func(dst, src *models.Tender) { dst.Description = src.Description }},
	{"status", func(a, b *models.Tender) bool { return equalPtr(a.Status, b.Status) },
		func(dst, src *models.Tender) { dst.Status = src.Status }},
	{"status_code", func(a, b *models.Tender) bool { return equalPtr(a.StatusCode, b.StatusCode) },
		func(dst, src *models.Tender) { dst.StatusCode = src.StatusCode }},
	{"estimated_amount", func(a, b *models.Tender) bool { return equalPtr(a.EstimatedAmount, b.EstimatedAmount) },
		func(dst, src *models.Tender) { dst.EstimatedAmount = src.EstimatedAmount }},
	{"closing_date", func(a, b *models.Tender) bool { return equalTime(a.ClosingDate, b.ClosingDate) },
		func(dst, src *models.Tender) { dst.ClosingDate = src.ClosingDate }},
	{"award_date", func(a, b *models.Tender) bool { return equalTime(a.AwardDate, b.AwardDate) },
		func(dst, src *models.Tender) { dst.AwardDate = src.AwardDate }},
	{"number_of_bidders", func(a, b *models.Tender) bool { return equalPtr(a.NumberOfBidders, b.NumberOfBidders) },
		func(dst, src *models.Tender) { dst.NumberOfBidders = src.NumberOfBidders }},
	{"items", func(a, b *models.Tender) bool { return equalSlice(a.Items, b.Items) },
		func(dst, src *models.Tender) { dst.Items = src.Items }},
	{"awarded_suppliers", func(a, b *models.Tender) bool { return equalSlice(a.AwardedSuppliers, b.AwardedSuppliers) },
		func(dst, src *models.Tender) { dst.AwardedSuppliers = src.AwardedSuppliers }},
}

// UpsertTender создаёт тендер или переносит в сохранённую запись изменившиеся отслеживаемые поля.
// updated_at меняется только при наличии изменений; created_at не меняется никогда.
// Ошибка хранилища откатывает транзакцию и возвращается вызывающему.
func (s *TenderService) UpsertTender(ctx context.Context, incoming *models.Tender) (*UpsertResult, error) {
	var result *UpsertResult

	err := s.Repo.WithinTx(ctx, func(repo repository.TenderRepository) error {
		existing, err := repo.GetTenderByCode(ctx, incoming.Code)
		if errors.Is(err, models.ErrNotFound) {
			created := *incoming
			now := s.now().UTC()
			created.CreatedAt, created.UpdatedAt = now, now
			if created.Items == nil {
				created.Items = []models.Item{}
			}
			if created.AwardedSuppliers == nil {
				created.AwardedSuppliers = []models.AwardedSupplier{}
			}
			if err := repo.CreateTender(ctx, &created); err != nil {
				return err
			}
			result = &UpsertResult{Tender: &created, Outcome: models.TenderCreated}
			return nil
		}
		if err != nil {
			return err
		}

		changed := applyTrackedChanges(existing, incoming)
		if len(changed) == 0 {
			result = &UpsertResult{Tender: existing, Outcome: models.TenderUnchanged}
			return nil
		}

		existing.UpdatedAt = s.now().UTC()
		if err := repo.UpdateTenderFields(ctx, existing, changed); err != nil {
			return err
		}
		result = &UpsertResult{Tender: existing, Outcome: models.TenderUpdated, ChangedFields: changed}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert tender %s: %w", incoming.Code, err)
	}

	s.logger.Debug().Str("code", incoming.Code).Str("outcome", string(result.Outcome)).
		Strs("changed", result.ChangedFields).Msg("tender reconciled")
	return result, nil
}

// applyTrackedChanges копирует отличающиеся поля из src в dst и возвращает их имена.
func applyTrackedChanges(dst, src *models.Tender) []string {
	var changed []string
	for _, field := range trackedFields {
		if !field.equal(dst, src) {
			field.copy(dst, src)
			changed = append(changed, field.name)
		}
	}
	return changed
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// equalSlice считает nil и пустой срез одинаковыми.
func equalSlice[T any](a, b []T) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// FetchTenders получает список тендеров по фильтру.
func (s *TenderService) FetchTenders(ctx context.Context, filter models.TenderFilter) ([]models.TenderSummary, error) {
	if filter.Skip < 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "skip must be a non-negative integer")
	}
	if filter.Limit < 1 || filter.Limit > maxPageSize {
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxPageSize))
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "end_date must not be before start_date")
	}

	tenders, err := s.Repo.GetTenders(ctx, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.TenderSummary, 0, len(tenders))
	for i := range tenders {
		summaries = append(summaries, tenders[i].Summary())
	}
	return summaries, nil
}

// GetTender возвращает полный тендер по коду.
func (s *TenderService) GetTender(ctx context.Context, code string) (*models.Tender, error) {
	if code == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "tender code is required")
	}
	tender, err := s.Repo.GetTenderByCode(ctx, code)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
	}
	if err != nil {
		return nil, err
	}
	return tender, nil
}

// GetStatistics возвращает агрегаты по сохранённым тендерам.
func (s *TenderService) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	return s.Repo.GetTenderStatistics(ctx)
}

const maxPageSize = 100
