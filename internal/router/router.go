package router

import (
	"net/http"

	"github.com/senyabanana/mercado-publico-monitor/internal/handlers"
)

func InitRoutes(tenderHandler *handlers.TenderHandler, keywordHandler *handlers.KeywordHandler,
	executeHandler *handlers.ExecuteHandler, healthHandler *handlers.HealthHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", handlers.PingHandler)
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	mux.HandleFunc("GET /api/tenders", tenderHandler.GetTenders)
	mux.HandleFunc("GET /api/tenders/{code}", tenderHandler.GetTender)
	mux.HandleFunc("GET /api/statistics", tenderHandler.GetStatistics)

	mux.HandleFunc("GET /api/keywords", keywordHandler.GetKeywords)
	mux.HandleFunc("POST /api/keywords", keywordHandler.CreateKeyword)
	mux.HandleFunc("PUT /api/keywords/{id}", keywordHandler.UpdateKeyword)
	mux.HandleFunc("DELETE /api/keywords/{id}", keywordHandler.DeleteKeyword)

	mux.HandleFunc("POST /api/execute", executeHandler.Execute)

	return mux
}
