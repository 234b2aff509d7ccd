package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type executionFixture struct {
	market    *fakeMarket
	tenders   *fakeTenderRepo
	keywords  *fakeKeywordRepo
	publisher *fakePublisher
	clock     time.Time
	service   *ExecutionService
}

func newExecutionFixture(t *testing.T) *executionFixture {
	t.Helper()
	f := &executionFixture{
		market:    newFakeMarket(),
		tenders:   newFakeTenderRepo(),
		keywords:  &fakeKeywordRepo{},
		publisher: &fakePublisher{},
		clock:     fixedNow,
	}

	keywords := NewKeywordService(f.keywords, zerolog.Nop())
	_, err := keywords.SeedDefaults(context.Background())
	require.NoError(t, err)

	search := newTestSearchService(f.market, nil)
	tenders := NewTenderService(f.tenders, zerolog.Nop())
	tenders.now = func() time.Time { return f.clock }

	f.service = NewExecutionService(search, tenders, keywords, f.publisher, zerolog.Nop())
	f.service.now = func() time.Time { return f.clock }
	return f
}

func TestRun_CountsOutcomesAndPublishes(t *testing.T) {
	f := newExecutionFixture(t)
	f.market.listings["2024-03-05"] = []models.RawTender{
		summary("1-1-LE24", "Desarrollo de software", ""),
		summary("2-2-LE24", "Servicio de aseo", ""),
		summary("3-3-LE24", "Plataforma digital", ""),
	}
	f.market.details["1-1-LE24"] = detail("1-1-LE24", "Desarrollo de software", "Publicada")
	f.market.details["3-3-LE24"] = detail("3-3-LE24", "Plataforma digital", "Publicada")

	report, err := f.service.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Found)
	assert.Equal(t, 2, report.Created)
	assert.Zero(t, report.Updated)
	assert.Zero(t, report.Failed)

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, models.TenderCreated, f.publisher.events[0].Outcome)
	assert.Equal(t, report.RunID, f.publisher.events[0].RunID)
	assert.Equal(t, "1-1-LE24", f.publisher.events[0].Tender.Code)
}

func TestRun_SecondRunWithUnchangedUpstream(t *testing.T) {
	f := newExecutionFixture(t)
	f.market.listings["2024-03-05"] = []models.RawTender{summary("1-1-LE24", "Desarrollo de software", "")}
	f.market.details["1-1-LE24"] = detail("1-1-LE24", "Desarrollo de software", "Publicada")
	ctx := context.Background()

	_, err := f.service.Run(ctx, 0)
	require.NoError(t, err)

	f.clock = fixedNow.Add(6 * time.Hour)
	report, err := f.service.Run(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Unchanged)
	stored := f.tenders.tenders["1-1-LE24"]
	assert.Equal(t, fixedNow, stored.UpdatedAt)
	assert.Equal(t, fixedNow, stored.CreatedAt)
	assert.Len(t, f.publisher.events, 1, "unchanged tenders publish nothing")

	f.market.details["1-1-LE24"] = detail("1-1-LE24", "Desarrollo de software", "Cerrada")
	f.clock = fixedNow.Add(12 * time.Hour)
	report, err = f.service.Run(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updated)
	stored = f.tenders.tenders["1-1-LE24"]
	assert.Equal(t, fixedNow.Add(12*time.Hour), stored.UpdatedAt)
	assert.Equal(t, fixedNow, stored.CreatedAt)
	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, []string{"status"}, f.publisher.events[1].ChangedFields)
}

func TestRun_PersistenceFailureIsCounted(t *testing.T) {
	f := newExecutionFixture(t)
	f.market.listings["2024-03-05"] = []models.RawTender{summary("1-1-LE24", "Software", "")}
	f.market.details["1-1-LE24"] = detail("1-1-LE24", "Software", "Publicada")
	f.tenders.createErr = errors.New("connection reset")

	report, err := f.service.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Found)
	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, f.publisher.events)
}

func TestRun_KeywordLoadFailure(t *testing.T) {
	f := newExecutionFixture(t)
	f.keywords.listErr = errors.New("database is down")

	_, err := f.service.Run(context.Background(), 0)
	assert.Error(t, err)
	assert.Empty(t, f.market.listCalls)
}

func TestStart_RejectsOverlappingRuns(t *testing.T) {
	f := newExecutionFixture(t)
	f.market.block = make(chan struct{})

	runID, err := f.service.Start(0)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	assert.True(t, f.service.Running())

	_, err = f.service.Start(0)
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(f.market.block)
	assert.Eventually(t, func() bool { return !f.service.Running() }, time.Second, 5*time.Millisecond)

	_, err = f.service.Start(0)
	assert.NoError(t, err)
	assert.Eventually(t, func() bool { return !f.service.Running() }, time.Second, 5*time.Millisecond)
}
