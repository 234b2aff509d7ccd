package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"
	"github.com/senyabanana/mercado-publico-monitor/internal/services"
	"github.com/senyabanana/mercado-publico-monitor/internal/utils"

	"github.com/rs/zerolog"
)

const (
	defaultExecuteDays = 30
	maxExecuteDays     = 365
)

// RunStarter запускает прогон поиска в фоне.
type RunStarter interface {
	Start(daysBack int) (string, error)
}

// ExecuteHandler - структура для обработки запуска поиска.
type ExecuteHandler struct {
	Runner RunStarter
	Logger zerolog.Logger
}

// NewExecuteHandler создаёт новый экземпляр ExecuteHandler.
func NewExecuteHandler(runner RunStarter, logger zerolog.Logger) *ExecuteHandler {
	return &ExecuteHandler{Runner: runner, Logger: logger}
}

// Execute запускает поиск за последние days дней и сразу отвечает 202.
func (h *ExecuteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req models.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	days := defaultExecuteDays
	if req.Days != nil {
		days = *req.Days
	}
	if days < 1 || days > maxExecuteDays {
		utils.SendErrorResponse(w, http.StatusBadRequest, "days must be between 1 and 365")
		return
	}

	runID, err := h.Runner.Start(days)
	if errors.Is(err, services.ErrRunInProgress) {
		utils.SendErrorResponse(w, http.StatusConflict, "search is already running")
		return
	}
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to start search")
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to start search")
		return
	}

	h.Logger.Info().Str("run_id", runID).Int("days", days).Msg("search started")
	utils.SendJSON(w, http.StatusAccepted, models.ExecuteResponse{
		Message: "Search started successfully",
		Status:  "processing",
	})
}
