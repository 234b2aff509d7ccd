package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrRunInProgress - предыдущий прогон ещё не завершён.
var ErrRunInProgress = errors.New("search run already in progress")

// EventPublisher - получатель событий об изменении тендеров.
type EventPublisher interface {
	PublishTenderChange(ctx context.Context, event models.TenderChangeEvent) error
}

// ExecutionService связывает поиск, сверку и публикацию событий в один прогон.
type ExecutionService struct {
	search   *SearchService
	tenders  *TenderService
	keywords *KeywordService
	events   EventPublisher
	status   string
	running  atomic.Bool
	now      func() time.Time
	logger   zerolog.Logger
}

// NewExecutionService создаёт новый экземпляр ExecutionService. events может быть nil.
func NewExecutionService(search *SearchService, tenders *TenderService, keywords *KeywordService,
	events EventPublisher, logger zerolog.Logger) *ExecutionService {
	return &ExecutionService{
		search:   search,
		tenders:  tenders,
		keywords: keywords,
		events:   events,
		status:   string(models.PublishedStatus),
		now:      time.Now,
		logger:   logger,
	}
}

// Start запускает прогон в отдельной горутине и сразу возвращает его идентификатор.
// Пока прогон выполняется, новые запуски отклоняются с ErrRunInProgress.
func (e *ExecutionService) Start(daysBack int) (string, error) {
	if !e.running.CompareAndSwap(false, true) {
		return "", ErrRunInProgress
	}

	runID := uuid.NewString()
	go func() {
		defer e.running.Store(false)
		if _, err := e.run(context.Background(), runID, daysBack); err != nil {
			e.logger.Error().Err(err).Str("run_id", runID).Msg("search run failed")
		}
	}()
	return runID, nil
}

// Running сообщает, выполняется ли сейчас прогон, запущенный через Start.
func (e *ExecutionService) Running() bool {
	return e.running.Load()
}

// Run выполняет прогон синхронно.
func (e *ExecutionService) Run(ctx context.Context, daysBack int) (*models.RunReport, error) {
	return e.run(ctx, uuid.NewString(), daysBack)
}

func (e *ExecutionService) run(ctx context.Context, runID string, daysBack int) (*models.RunReport, error) {
	logger := e.logger.With().Str("run_id", runID).Logger()
	started := e.now()

	include, exclude, err := e.keywords.SplitKeywords(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("days_back", daysBack).Int("include", len(include)).Int("exclude", len(exclude)).
		Msg("search run started")

	found, err := e.search.Search(ctx, models.SearchParams{
		IncludeKeywords: include,
		ExcludeKeywords: exclude,
		DaysBack:        daysBack,
		Status:          e.status,
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	report := &models.RunReport{RunID: runID, Found: len(found)}
	for i := range found {
		result, err := e.tenders.UpsertTender(ctx, &found[i])
		if err != nil {
			logger.Error().Err(err).Str("code", found[i].Code).Msg("failed to save tender")
			report.Failed++
			continue
		}

		switch result.Outcome {
		case models.TenderCreated:
			report.Created++
		case models.TenderUpdated:
			report.Updated++
		case models.TenderUnchanged:
			report.Unchanged++
			continue
		}
		e.publish(ctx, runID, result, logger)
	}

	report.Duration = e.now().Sub(started)
	logger.Info().Int("found", report.Found).Int("created", report.Created).Int("updated", report.Updated).
		Int("unchanged", report.Unchanged).Int("failed", report.Failed).Dur("duration", report.Duration).
		Msg("search run finished")
	return report, nil
}

func (e *ExecutionService) publish(ctx context.Context, runID string, result *UpsertResult, logger zerolog.Logger) {
	if e.events == nil {
		return
	}
	event := models.TenderChangeEvent{
		RunID:         runID,
		Outcome:       result.Outcome,
		ChangedFields: result.ChangedFields,
		Tender:        result.Tender.Summary(),
		OccurredAt:    e.now().UTC(),
	}
	if err := e.events.PublishTenderChange(ctx, event); err != nil {
		logger.Warn().Err(err).Str("code", result.Tender.Code).Msg("failed to publish tender event")
	}
}
