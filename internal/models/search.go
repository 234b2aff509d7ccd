package models

import (
	"strings"
	"time"
)

type SearchStatus string // Значение параметра estado в API

const (
	PublishedStatus SearchStatus = "publicada"
	ClosedStatus    SearchStatus = "cerrada"
	UnawardedStatus SearchStatus = "desierta"
	AwardedStatus   SearchStatus = "adjudicada"
	RevokedStatus   SearchStatus = "revocada"
	SuspendedStatus SearchStatus = "suspendida"
	AllStatuses     SearchStatus = "todos"
)

var searchStatuses = map[string]SearchStatus{
	"published": PublishedStatus,
	"closed":    ClosedStatus,
	"unawarded": UnawardedStatus,
	"awarded":   AwardedStatus,
	"revoked":   RevokedStatus,
	"suspended": SuspendedStatus,
	"all":       AllStatuses,
}

// ParseSearchStatus принимает английское имя или значение API без учёта регистра.
func ParseSearchStatus(s string) (SearchStatus, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if status, ok := searchStatuses[s]; ok {
		return status, true
	}
	for _, status := range searchStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// SearchParams - параметры одного прогона поиска.
type SearchParams struct {
	IncludeKeywords []string
	ExcludeKeywords []string
	DaysBack        int
	Status          string
}

// ExecuteRequest - тело запроса на запуск поиска.
type ExecuteRequest struct {
	Days *int `json:"days"`
}

// ExecuteResponse - ответ на запуск поиска.
type ExecuteResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type UpsertOutcome string // Результат сверки тендера с хранилищем

const (
	TenderCreated   UpsertOutcome = "created"
	TenderUpdated   UpsertOutcome = "updated"
	TenderUnchanged UpsertOutcome = "unchanged"
)

// RunReport - итог прогона поиска и сохранения.
type RunReport struct {
	RunID     string        `json:"run_id"`
	Found     int           `json:"found"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Unchanged int           `json:"unchanged"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// TenderChangeEvent публикуется при создании или изменении тендера.
type TenderChangeEvent struct {
	RunID         string        `json:"run_id"`
	Outcome       UpsertOutcome `json:"outcome"`
	ChangedFields []string      `json:"changed_fields,omitempty"`
	Tender        TenderSummary `json:"tender"`
	OccurredAt    time.Time     `json:"occurred_at"`
}
