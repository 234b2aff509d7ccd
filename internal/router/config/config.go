package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress  string        `mapstructure:"SERVER_ADDRESS"`
	HandlerTimeout time.Duration `mapstructure:"HANDLER_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`

	PostgresConn string `mapstructure:"POSTGRES_CONN"`
	PostgresUser string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost string `mapstructure:"POSTGRES_HOST"`
	PostgresPort string `mapstructure:"POSTGRES_PORT"`
	PostgresDB   string `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL string `mapstructure:"MIGRATION_URL"`

	MarketAPIURL         string        `mapstructure:"MARKET_API_URL"`
	MarketTicket         string        `mapstructure:"MARKET_TICKET"`
	MarketConnectTimeout time.Duration `mapstructure:"MARKET_CONNECT_TIMEOUT"`
	MarketReadTimeout    time.Duration `mapstructure:"MARKET_READ_TIMEOUT"`
	MarketMaxRetries     uint          `mapstructure:"MARKET_MAX_RETRIES"`
	MarketRetryInterval  time.Duration `mapstructure:"MARKET_RETRY_INTERVAL"`
	MarketMaxRetryAfter  time.Duration `mapstructure:"MARKET_MAX_RETRY_AFTER"`
	MarketRequestsPerSec float64       `mapstructure:"MARKET_REQUESTS_PER_SECOND"`
	MarketTimezone       string        `mapstructure:"MARKET_TIMEZONE"`

	ScheduleCron     string `mapstructure:"SCHEDULE_CRON"`
	ScheduleDaysBack int    `mapstructure:"SCHEDULE_DAYS_BACK"`

	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	RabbitMQExchange string `mapstructure:"RABBITMQ_EXCHANGE"`

	MinIOEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket    string `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":             "0.0.0.0:8080",
	"HANDLER_TIMEOUT":            5 * time.Second,
	"LOG_LEVEL":                  "info",
	"MIGRATION_URL":              "file://db/migration",
	"MARKET_API_URL":             "https://api.mercadopublico.cl/servicios/v1/publico/licitaciones.json",
	"MARKET_CONNECT_TIMEOUT":     5 * time.Second,
	"MARKET_READ_TIMEOUT":        30 * time.Second,
	"MARKET_MAX_RETRIES":         3,
	"MARKET_RETRY_INTERVAL":      time.Second,
	"MARKET_MAX_RETRY_AFTER":     30 * time.Second,
	"MARKET_REQUESTS_PER_SECOND": 5.0,
	"MARKET_TIMEZONE":            "America/Santiago",
	"SCHEDULE_DAYS_BACK":         2,
	"RABBITMQ_EXCHANGE":          "tenders.events",
	"MINIO_BUCKET":               "tender-payloads",
}

// keys перечисляет все ключи, чтобы AutomaticEnv видел их без файла конфигурации.
var keys = []string{
	"POSTGRES_CONN", "POSTGRES_USERNAME", "POSTGRES_PASSWORD", "POSTGRES_HOST", "POSTGRES_PORT",
	"POSTGRES_DATABASE", "MARKET_TICKET", "SCHEDULE_CRON", "RABBITMQ_URL",
	"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_USE_SSL",
}

// LoadConfig загружает конфигурацию из файла app.env и переменных окружения
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range keys {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}
	// исходное имя переменной с тикетом
	if err = v.BindEnv("MARKET_TICKET", "MARKET_TICKET", "TICKET_KEY"); err != nil {
		return
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		err = nil
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return
	}
	err = cfg.Validate()
	return
}

// Validate проверяет обязательные параметры.
func (c Config) Validate() error {
	if c.MarketTicket == "" {
		return errors.New("MARKET_TICKET is required")
	}
	if c.PostgresConn == "" {
		return errors.New("POSTGRES_CONN is required")
	}
	if c.MarketAPIURL == "" {
		return errors.New("MARKET_API_URL is required")
	}
	if c.ScheduleDaysBack < 0 {
		return fmt.Errorf("SCHEDULE_DAYS_BACK must be non-negative, got %d", c.ScheduleDaysBack)
	}
	return nil
}

// Location возвращает часовой пояс реестра; при ошибке используется UTC.
func (c Config) Location() (*time.Location, error) {
	if c.MarketTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.MarketTimezone)
	if err != nil {
		return time.UTC, fmt.Errorf("load timezone %q: %w", c.MarketTimezone, err)
	}
	return loc, nil
}
