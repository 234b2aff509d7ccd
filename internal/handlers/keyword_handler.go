package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"
	"github.com/senyabanana/mercado-publico-monitor/internal/utils"

	"github.com/rs/zerolog"
)

// KeywordManager - операции над ключевыми словами.
type KeywordManager interface {
	FetchKeywords(ctx context.Context, typeStr string) ([]models.Keyword, error)
	CreateKeyword(ctx context.Context, req models.KeywordRequest) (*models.Keyword, error)
	UpdateKeyword(ctx context.Context, id int64, req models.KeywordRequest) (*models.Keyword, error)
	DeleteKeyword(ctx context.Context, id int64) error
}

// KeywordHandler - структура для обработки HTTP-запросов к ключевым словам.
type KeywordHandler struct {
	Service KeywordManager
	Logger  zerolog.Logger
	Timeout time.Duration
}

// NewKeywordHandler создаёт новый экземпляр KeywordHandler.
func NewKeywordHandler(service KeywordManager, logger zerolog.Logger, timeout time.Duration) *KeywordHandler {
	return &KeywordHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetKeywords обрабатывает запросы для получения списка ключевых слов.
func (h *KeywordHandler) GetKeywords(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	keywords, err := h.Service.FetchKeywords(ctx, r.URL.Query().Get("type"))
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to fetch keywords")
		return
	}

	utils.SendJSON(w, http.StatusOK, keywords)
}

// CreateKeyword обрабатывает запросы для создания ключевого слова.
func (h *KeywordHandler) CreateKeyword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.KeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	keyword, err := h.Service.CreateKeyword(ctx, req)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to create keyword")
		return
	}

	utils.SendJSON(w, http.StatusCreated, keyword)
}

// UpdateKeyword обрабатывает запросы для изменения ключевого слова.
func (h *KeywordHandler) UpdateKeyword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	id, err := utils.ParseID(r.PathValue("id"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.KeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	keyword, err := h.Service.UpdateKeyword(ctx, id, req)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to update keyword")
		return
	}

	utils.SendJSON(w, http.StatusOK, keyword)
}

// DeleteKeyword обрабатывает запросы для удаления ключевого слова.
func (h *KeywordHandler) DeleteKeyword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	id, err := utils.ParseID(r.PathValue("id"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.DeleteKeyword(ctx, id); err != nil {
		sendServiceError(w, h.Logger, err, "failed to delete keyword")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
