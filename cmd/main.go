package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/client"
	"github.com/senyabanana/mercado-publico-monitor/internal/db"
	"github.com/senyabanana/mercado-publico-monitor/internal/events"
	"github.com/senyabanana/mercado-publico-monitor/internal/handlers"
	"github.com/senyabanana/mercado-publico-monitor/internal/repository"
	"github.com/senyabanana/mercado-publico-monitor/internal/router"
	"github.com/senyabanana/mercado-publico-monitor/internal/router/config"
	"github.com/senyabanana/mercado-publico-monitor/internal/services"
	"github.com/senyabanana/mercado-publico-monitor/internal/storage"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	runOnce := flag.Bool("run-once", false, "run a single search and exit")
	days := flag.Int("days", 0, "days back for -run-once (default SCHEDULE_DAYS_BACK)")
	flag.Parse()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := newLogger(cfg.LogLevel)
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(cfg.MigrationURL, cfg.PostgresConn, logger); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	dbPool, err := db.InitDb(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("error initializing database")
	}
	defer dbPool.Close()

	location, err := cfg.Location()
	if err != nil {
		logger.Warn().Err(err).Msg("unknown market timezone, using UTC")
	}

	marketClient := client.NewMarketClient(client.ClientConfig{
		BaseURL:        cfg.MarketAPIURL,
		Ticket:         cfg.MarketTicket,
		ConnectTimeout: cfg.MarketConnectTimeout,
		ReadTimeout:    cfg.MarketReadTimeout,
		MaxRetries:     cfg.MarketMaxRetries,
		RetryInterval:  cfg.MarketRetryInterval,
		MaxRetryAfter:  cfg.MarketMaxRetryAfter,
		RateLimit:      rate.Limit(cfg.MarketRequestsPerSec),
		Logger:         logger.With().Str("component", "market_client").Logger(),
	})

	healthChecks := map[string]handlers.HealthChecker{"postgres": handlers.HealthCheckFunc(dbPool.Ping)}

	var archive services.RawArchive
	if cfg.MinIOEndpoint != "" {
		minioArchive, err := storage.NewMinIOArchive(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey,
			cfg.MinIOBucket, cfg.MinIOUseSSL, logger.With().Str("component", "minio").Logger())
		if err != nil {
			logger.Warn().Err(err).Msg("raw payload archive disabled")
		} else {
			archive = minioArchive
			healthChecks["minio"] = minioArchive
		}
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		rabbit, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange,
			logger.With().Str("component", "rabbitmq").Logger())
		if err != nil {
			logger.Warn().Err(err).Msg("tender events disabled")
		} else {
			defer rabbit.Close()
			publisher = rabbit
			healthChecks["rabbitmq"] = rabbit
		}
	}

	tenderRepo := repository.NewPostgresTenderRepository(dbPool)
	keywordRepo := repository.NewPostgresKeywordRepository(dbPool)

	searchService := services.NewSearchService(marketClient, archive, location, logger.With().Str("component", "search").Logger())
	tenderService := services.NewTenderService(tenderRepo, logger)
	keywordService := services.NewKeywordService(keywordRepo, logger)
	executionService := services.NewExecutionService(searchService, tenderService, keywordService, publisher,
		logger.With().Str("component", "execution").Logger())

	if _, err := keywordService.SeedDefaults(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed default keywords")
	}

	if *runOnce {
		daysBack := cfg.ScheduleDaysBack
		if *days > 0 {
			daysBack = *days
		}
		report, err := executionService.Run(ctx, daysBack)
		if err != nil {
			logger.Fatal().Err(err).Msg("search run failed")
		}
		logger.Info().Interface("report", report).Msg("search run completed")
		return
	}

	scheduler := startScheduler(cfg, executionService, location, logger)
	if scheduler != nil {
		defer func() { <-scheduler.Stop().Done() }()
	}

	tenderHandler := handlers.NewTenderHandler(tenderService, logger, cfg.HandlerTimeout)
	keywordHandler := handlers.NewKeywordHandler(keywordService, logger, cfg.HandlerTimeout)
	executeHandler := handlers.NewExecuteHandler(executionService, logger)
	healthHandler := handlers.NewHealthHandler(healthChecks, logger, cfg.HandlerTimeout)

	routes := router.InitRoutes(tenderHandler, keywordHandler, executeHandler, healthHandler)

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           routes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.ServerAddress).Msg("server is listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

// startScheduler запускает периодический поиск, если задано SCHEDULE_CRON.
func startScheduler(cfg config.Config, execution *services.ExecutionService, location *time.Location, logger zerolog.Logger) *cron.Cron {
	if cfg.ScheduleCron == "" {
		return nil
	}

	c := cron.New(cron.WithLocation(location))
	_, err := c.AddFunc(cfg.ScheduleCron, func() {
		runID, err := execution.Start(cfg.ScheduleDaysBack)
		if errors.Is(err, services.ErrRunInProgress) {
			logger.Warn().Msg("previous search still running, skipping scheduled run")
			return
		}
		if err != nil {
			logger.Error().Err(err).Msg("failed to start scheduled search")
			return
		}
		logger.Info().Str("run_id", runID).Msg("scheduled search started")
	})
	if err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.ScheduleCron).Msg("invalid SCHEDULE_CRON")
	}

	c.Start()
	logger.Info().Str("schedule", cfg.ScheduleCron).Int("days_back", cfg.ScheduleDaysBack).Msg("scheduler started")
	return c
}
