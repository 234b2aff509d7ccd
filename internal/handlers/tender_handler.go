package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"
	"github.com/senyabanana/mercado-publico-monitor/internal/utils"

	"github.com/rs/zerolog"
)

// TenderQueries - операции чтения тендеров, нужные обработчику.
type TenderQueries interface {
	FetchTenders(ctx context.Context, filter models.TenderFilter) ([]models.TenderSummary, error)
	GetTender(ctx context.Context, code string) (*models.Tender, error)
	GetStatistics(ctx context.Context) (*models.Statistics, error)
}

// TenderHandler - структура для обработки HTTP-запросов.
type TenderHandler struct {
	Service TenderQueries
	Logger  zerolog.Logger
	Timeout time.Duration
}

// NewTenderHandler создаёт новый экземпляр TenderHandler.
func NewTenderHandler(service TenderQueries, logger zerolog.Logger, timeout time.Duration) *TenderHandler {
	return &TenderHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetTenders обрабатывает запросы для получения списка тендеров.
func (h *TenderHandler) GetTenders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	skip, limit, err := utils.ParseSkipLimit(query.Get("skip"), query.Get("limit"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	startDate, err := utils.ParseDateParam("start_date", query.Get("start_date"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	endDate, err := utils.ParseDateParam("end_date", query.Get("end_date"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	tenders, err := h.Service.FetchTenders(ctx, models.TenderFilter{
		Skip:      skip,
		Limit:     limit,
		Search:    query.Get("search"),
		Statuses:  query["status"],
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to fetch tenders")
		return
	}

	utils.SendJSON(w, http.StatusOK, tenders)
}

// GetTender обрабатывает запросы для получения тендера по коду.
func (h *TenderHandler) GetTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tender, err := h.Service.GetTender(ctx, r.PathValue("code"))
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to get tender")
		return
	}

	utils.SendJSON(w, http.StatusOK, tender)
}

// GetStatistics обрабатывает запросы для получения статистики.
func (h *TenderHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	stats, err := h.Service.GetStatistics(ctx)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to get statistics")
		return
	}

	utils.SendJSON(w, http.StatusOK, stats)
}

// sendServiceError отправляет ErrorResponse как есть, остальные ошибки как 500.
func sendServiceError(w http.ResponseWriter, logger zerolog.Logger, err error, fallback string) {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		logger.Warn().Err(err).Int("status", errorResponse.StatusCode).Msg("request rejected")
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	logger.Error().Err(err).Msg(fallback)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}
