package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	SendJSON(w, statusCode, models.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	})
}

// SendJSON кодирует тело ответа в JSON с заданным статусом.
func SendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// ParseSkipLimit обрабатывает skip и limit
func ParseSkipLimit(skipStr, limitStr string) (int, int, error) {
	skip, limit := 0, DefaultLimit
	var err error

	if skipStr != "" {
		skip, err = strconv.Atoi(skipStr)
		if err != nil || skip < 0 {
			return 0, 0, fmt.Errorf("invalid skip parameter, must be a non-negative integer")
		}
	}

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > MaxLimit {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be an integer [1:%d]", MaxLimit)
		}
	}

	return skip, limit, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", time.DateOnly}

// ParseDateParam разбирает дату запроса; пустая строка даёт nil.
func ParseDateParam(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s parameter, expected YYYY-MM-DD or RFC3339", name)
}

// ParseID разбирает положительный числовой идентификатор из пути.
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}
