package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"
	"github.com/senyabanana/mercado-publico-monitor/internal/repository"
)

var fixedNow = time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

type fakeMarket struct {
	mu          sync.Mutex
	listings    map[string][]models.RawTender
	listErrs    map[string]error
	details     map[string]models.RawTender
	listCalls   []string
	statuses    []models.SearchStatus
	detailCalls []string
	block       chan struct{}
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		listings: make(map[string][]models.RawTender),
		listErrs: make(map[string]error),
		details:  make(map[string]models.RawTender),
	}
}

func (f *fakeMarket) ListByDate(_ context.Context, day time.Time, status models.SearchStatus) ([]models.RawTender, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := day.Format(time.DateOnly)
	f.listCalls = append(f.listCalls, key)
	f.statuses = append(f.statuses, status)
	if err := f.listErrs[key]; err != nil {
		return nil, err
	}
	return f.listings[key], nil
}

func (f *fakeMarket) GetDetail(_ context.Context, code string) (models.RawTender, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.detailCalls = append(f.detailCalls, code)
	detail, ok := f.details[code]
	if !ok {
		return nil, errors.New("no data")
	}
	return detail, nil
}

type fakeArchive struct {
	stored []string
	err    error
}

func (f *fakeArchive) StoreDetail(_ context.Context, day time.Time, code string, _ models.RawTender) error {
	f.stored = append(f.stored, day.Format(time.DateOnly)+"/"+code)
	return f.err
}

type fakeTenderRepo struct {
	mu        sync.Mutex
	tenders   map[string]models.Tender
	updates   [][]string
	createErr error
	updateErr error
}

func newFakeTenderRepo() *fakeTenderRepo {
	return &fakeTenderRepo{tenders: make(map[string]models.Tender)}
}

func (r *fakeTenderRepo) GetTenderByCode(_ context.Context, code string) (*models.Tender, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tender, ok := r.tenders[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &tender, nil
}

func (r *fakeTenderRepo) CreateTender(_ context.Context, tender *models.Tender) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tenders[tender.Code]; ok {
		return errors.New("duplicate key")
	}
	r.tenders[tender.Code] = *tender
	return nil
}

func (r *fakeTenderRepo) UpdateTenderFields(_ context.Context, tender *models.Tender, fields []string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tenders[tender.Code] = *tender
	r.updates = append(r.updates, fields)
	return nil
}

func (r *fakeTenderRepo) GetTenders(_ context.Context, filter models.TenderFilter) ([]models.Tender, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Tender
	for _, t := range r.tenders {
		out = append(out, t)
	}
	if filter.Skip >= len(out) {
		return []models.Tender{}, nil
	}
	out = out[filter.Skip:]
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeTenderRepo) GetTenderStatistics(_ context.Context) (*models.Statistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &models.Statistics{ByType: map[string]int64{}, ByStatus: map[string]int64{}}
	for _, t := range r.tenders {
		stats.TotalCount++
		if t.EstimatedAmount != nil {
			stats.TotalAmount += *t.EstimatedAmount
		}
	}
	return stats, nil
}

func (r *fakeTenderRepo) WithinTx(_ context.Context, fn func(repo repository.TenderRepository) error) error {
	return fn(r)
}

type fakeKeywordRepo struct {
	keywords []models.Keyword
	nextID   int64
	listErr  error
}

func (r *fakeKeywordRepo) GetKeywords(_ context.Context, keywordType *models.KeywordType) ([]models.Keyword, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Keyword, 0)
	for _, k := range r.keywords {
		if keywordType == nil || k.Type == *keywordType {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *fakeKeywordRepo) CreateKeyword(_ context.Context, req models.KeywordRequest) (*models.Keyword, error) {
	for _, k := range r.keywords {
		if k.Keyword == req.Keyword {
			return nil, models.ErrDuplicateKeyword
		}
	}
	r.nextID++
	keyword := models.Keyword{ID: r.nextID, Keyword: req.Keyword, Type: req.Type}
	r.keywords = append(r.keywords, keyword)
	return &keyword, nil
}

func (r *fakeKeywordRepo) UpdateKeyword(_ context.Context, id int64, req models.KeywordRequest) (*models.Keyword, error) {
	for i := range r.keywords {
		if r.keywords[i].ID != id {
			continue
		}
		if req.Keyword != "" {
			r.keywords[i].Keyword = req.Keyword
		}
		if req.Type != "" {
			r.keywords[i].Type = req.Type
		}
		keyword := r.keywords[i]
		return &keyword, nil
	}
	return nil, models.ErrNotFound
}

func (r *fakeKeywordRepo) DeleteKeyword(_ context.Context, id int64) error {
	for i := range r.keywords {
		if r.keywords[i].ID == id {
			r.keywords = append(r.keywords[:i], r.keywords[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *fakeKeywordRepo) CountKeywords(_ context.Context) (int, error) {
	return len(r.keywords), nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.TenderChangeEvent
}

func (p *fakePublisher) PublishTenderChange(_ context.Context, event models.TenderChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func summary(code, name, description string) models.RawTender {
	return models.RawTender{
		"CodigoExterno": code,
		"Nombre":        name,
		"Descripcion":   description,
		"Estado":        "Publicada",
	}
}

func detail(code, name, status string) models.RawTender {
	return models.RawTender{
		"CodigoExterno": code,
		"Nombre":        name,
		"Descripcion":   "Desarrollo de software",
		"Estado":        status,
		"CodigoEstado":  float64(5),
		"Tipo":          "LE",
		"Moneda":        "CLP",
		"MontoEstimado": float64(1500000),
		"Comprador": map[string]any{
			"NombreOrganismo": "Municipalidad de Santiago",
		},
		"Fechas": map[string]any{
			"FechaCreacion": "2024-03-01T10:00:00",
			"FechaCierre":   "2024-03-20T15:00:00",
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
