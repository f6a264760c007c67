package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	gormlogger "gorm.io/gorm/logger"

	"golang.org/x/sync/errgroup"

	"matchpulse/analysis-api/internal/config"
	"matchpulse/analysis-api/internal/domain/analysis"
	"matchpulse/analysis-api/internal/domain/chat"
	"matchpulse/analysis-api/internal/domain/search"
	"matchpulse/analysis-api/internal/infrastructure/database"
	_ "matchpulse/analysis-api/internal/infrastructure/database/dbschema"
	"matchpulse/analysis-api/internal/infrastructure/database/repository/analysisrepo"
	"matchpulse/analysis-api/internal/infrastructure/database/repository/conversationrepo"
	"matchpulse/analysis-api/internal/infrastructure/exchangelog"
	"matchpulse/analysis-api/internal/infrastructure/llmgateway"
	"matchpulse/analysis-api/internal/infrastructure/logger"
	"matchpulse/analysis-api/internal/infrastructure/observability"
	"matchpulse/analysis-api/internal/infrastructure/webfetch"
	"matchpulse/analysis-api/internal/interfaces/httpserver"
	"matchpulse/analysis-api/internal/interfaces/httpserver/handlers/analysishandler"
	"matchpulse/analysis-api/internal/interfaces/httpserver/handlers/chathandler"
	"matchpulse/analysis-api/internal/interfaces/httpserver/handlers/searchhandler"
	"matchpulse/analysis-api/internal/interfaces/httpserver/routes/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootLog := logger.GetLogger()
	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("configure logger")
	}

	otelShutdown, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("initialize observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown telemetry")
			}
		}()
	}

	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatal().Err(err).Msg("resolve database dsn")
	}
	adminDSN, err := cfg.AdminDSN()
	if err != nil {
		log.Fatal().Err(err).Msg("resolve admin dsn")
	}
	if err := database.EnsureDatabase(adminDSN, config.DatabaseName(dsn)); err != nil {
		log.Fatal().Err(err).Msg("ensure database")
	}

	db, err := database.Connect(database.Config{
		DSN:         dsn,
		MaxIdle:     cfg.DBMaxIdle,
		MaxOpen:     cfg.DBMaxOpen,
		MaxLifetime: time.Hour,
		LogLevel:    gormlogger.Silent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if cfg.AutoMigrate {
		if err := database.Migration(db); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	gateway, err := llmgateway.New(llmgateway.Config{
		APIKey:      cfg.LLMAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build llm gateway")
	}

	sink, err := exchangelog.NewFileSink(cfg.ExchangeLogDir)
	if err != nil {
		log.Fatal().Err(err).Msg("build exchange sink")
	}

	fetcher := webfetch.New(cfg.FetchTimeout, log)

	promptOverrides := analysis.PromptOverrides{
		FootballFile:   cfg.FootballPromptFile,
		FootballText:   cfg.FootballPromptText,
		BasketballFile: cfg.BasketballPromptFile,
		BasketballText: cfg.BasketballPromptText,
	}

	chatService := chat.NewService(gateway, conversationrepo.New(db), sink, log)
	analysisService := analysis.NewService(gateway, analysisrepo.New(db), promptOverrides, log)
	searchService := search.NewService(gateway, fetcher, log)

	apiRoute := api.New(
		chathandler.New(chatService, log),
		analysishandler.New(analysisService, log),
		searchhandler.New(searchService, log),
	)
	server := httpserver.NewHTTPServer(apiRoute, cfg, log, db)

	appServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           server.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Int("port", cfg.HTTPPort).Msg("starting API server")
		if err := appServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		log.Info().Int("port", cfg.MetricsPort).Msg("starting metrics server")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
		return appServer.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("shutdown complete")
}
