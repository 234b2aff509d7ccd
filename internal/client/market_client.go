package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const dayFormat = "02012006"

var (
	// ErrNoListing - в ответе нет поля Listado.
	ErrNoListing = errors.New("response has no listing")
	// ErrNoData - детальный запрос не вернул тендер.
	ErrNoData = errors.New("no tender data")
)

var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// StatusError - ответ API с кодом вне диапазона 2xx.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// ClientConfig конфигурация клиента
type ClientConfig struct {
	BaseURL        string
	Ticket         string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	MaxRetries     uint
	RetryInterval  time.Duration
	MaxRetryAfter  time.Duration
	RateLimit      rate.Limit
	Logger         zerolog.Logger
}

// MarketClient - клиент REST API реестра закупок.
type MarketClient struct {
	baseURL       string
	ticket        string
	httpClient    *http.Client
	limiter       *rate.Limiter
	maxRetries    uint
	retryInterval time.Duration
	maxRetryAfter time.Duration
	logger        zerolog.Logger
}

// NewMarketClient создаёт клиент; нулевые значения конфигурации заменяются значениями по умолчанию.
func NewMarketClient(config ClientConfig) *MarketClient {
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 5 * time.Second
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 30 * time.Second
	}
	if config.RetryInterval == 0 {
		config.RetryInterval = time.Second
	}
	if config.MaxRetryAfter == 0 {
		config.MaxRetryAfter = config.ReadTimeout
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(200 * time.Millisecond)
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: config.ConnectTimeout}).DialContext,
		TLSHandshakeTimeout:   config.ConnectTimeout,
		ResponseHeaderTimeout: config.ReadTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &MarketClient{
		baseURL: config.BaseURL,
		ticket:  config.Ticket,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   config.ConnectTimeout + config.ReadTimeout,
		},
		limiter:       rate.NewLimiter(config.RateLimit, 1),
		maxRetries:    config.MaxRetries,
		retryInterval: config.RetryInterval,
		maxRetryAfter: config.MaxRetryAfter,
		logger:        config.Logger,
	}
}

type listResponse struct {
	Count   any    `json:"Cantidad"`
	Listing *[]any `json:"Listado"`
}

// ListByDate возвращает краткие записи тендеров за день с фильтром по статусу.
func (c *MarketClient) ListByDate(ctx context.Context, day time.Time, status models.SearchStatus) ([]models.RawTender, error) {
	params := url.Values{}
	params.Set("fecha", day.Format(dayFormat))
	if status != "" && status != models.AllStatuses {
		params.Set("estado", string(status))
	}

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp.Listing == nil {
		return nil, ErrNoListing
	}

	tenders := make([]models.RawTender, 0, len(*resp.Listing))
	for _, el := range *resp.Listing {
		if obj, ok := el.(map[string]any); ok && obj != nil {
			tenders = append(tenders, obj)
		}
	}
	return tenders, nil
}

// GetDetail возвращает детальную запись тендера по коду.
func (c *MarketClient) GetDetail(ctx context.Context, code string) (models.RawTender, error) {
	if code == "" {
		return nil, ErrNoData
	}

	params := url.Values{}
	params.Set("codigo", code)

	c.logger.Debug().Str("code", code).Msg("getting tender details")
	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp.Listing == nil || len(*resp.Listing) == 0 {
		return nil, ErrNoData
	}

	detail, ok := (*resp.Listing)[0].(map[string]any)
	if !ok || detail == nil {
		return nil, fmt.Errorf("invalid data format for tender %s: %w", code, ErrNoData)
	}
	return detail, nil
}

// get выполняет GET-запрос с ограничением частоты и повтором на 429/5xx и сетевых ошибках.
func (c *MarketClient) get(ctx context.Context, params url.Values) (*listResponse, error) {
	logParams := params.Encode()
	params.Set("ticket", c.ticket)
	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	attempt := 0
	operation := func() (*listResponse, error) {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		c.logger.Debug().Str("params", logParams).Int("attempt", attempt).Msg("making request")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if retryableStatus[resp.StatusCode] {
			statusErr := &StatusError{StatusCode: resp.StatusCode}
			if seconds, ok := c.retryAfter(resp.Header.Get("Retry-After")); ok {
				c.logger.Warn().Int("status", resp.StatusCode).Int("retry_after", seconds).Msg("registry asked to retry later")
				return nil, backoff.RetryAfter(seconds)
			}
			return nil, statusErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, backoff.Permanent(&StatusError{StatusCode: resp.StatusCode})
		}

		var body listResponse
		decoder := json.NewDecoder(resp.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&body); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return &body, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxRetries+1),
	)
	if err != nil {
		c.logger.Error().Err(err).Str("params", logParams).Int("attempts", attempt).Msg("request error")
		return nil, err
	}

	c.logger.Debug().Interface("count", body.Count).Msg("response received")
	return body, nil
}

// retryAfter разбирает Retry-After в секундах. Значения больше maxRetryAfter
// игнорируются, и повтор идёт по обычной экспоненциальной задержке.
func (c *MarketClient) retryAfter(header string) (int, bool) {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0, false
	}
	if time.Duration(seconds)*time.Second > c.maxRetryAfter {
		c.logger.Warn().Int("retry_after", seconds).Dur("max_retry_after", c.maxRetryAfter).Msg("ignoring Retry-After above limit")
		return 0, false
	}
	return seconds, true
}
