package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"
	"github.com/senyabanana/mercado-publico-monitor/internal/utils"

	"github.com/rs/zerolog"
)

// HealthChecker - зависимость, умеющая проверить своё состояние.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckFunc адаптирует функцию к HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// HealthHandler - структура для проверки готовности сервиса.
type HealthHandler struct {
	Checks  map[string]HealthChecker
	Logger  zerolog.Logger
	Timeout time.Duration
}

// NewHealthHandler создаёт новый экземпляр HealthHandler. Отключённые интеграции не передаются.
func NewHealthHandler(checks map[string]HealthChecker, logger zerolog.Logger, timeout time.Duration) *HealthHandler {
	return &HealthHandler{Checks: checks, Logger: logger, Timeout: timeout}
}

// Health обрабатывает GET запрос к /api/health: 200 если все зависимости доступны, иначе 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	resp := models.HealthResponse{Status: "ok", Components: make(map[string]string, len(h.Checks))}
	for name, check := range h.Checks {
		if err := check.HealthCheck(ctx); err != nil {
			h.Logger.Warn().Err(err).Str("component", name).Msg("health check failed")
			resp.Components[name] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Components[name] = "ok"
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	utils.SendJSON(w, code, resp)
}
