package models

// HealthResponse - состояние зависимостей сервиса.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}
