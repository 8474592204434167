package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"gagyebu/internal/amqp"
	"gagyebu/internal/backend"
	"gagyebu/internal/cache"
	"gagyebu/internal/cli"
	apphttp "gagyebu/internal/http"
	"gagyebu/internal/log"
	"gagyebu/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	result := cli.InitStore(context.Background(), cfg, logger)

	// Change events go to the broker when one is configured; otherwise
	// this process exports to Sheets itself.
	var publisher services.ChangePublisher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without change events",
				log.FieldError, err,
				log.FieldErrorType, log.ErrorTypeNetwork)
		} else {
			publisher = client
		}
	}

	ledger := services.NewLedgerService(result.Store, publisher, logger)

	manager := cache.NewManager(logger)
	summary := services.NewSummaryService(result.Store, services.SummaryConfig{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	}, manager, logger)
	if cfg.CacheTTL > 0 {
		manager.Start(cfg.CacheTTL)
	}

	var processor *services.ExportProcessor
	if publisher == nil && cfg.SheetsEnabled() {
		exporter, err := cli.InitExporter(context.Background(), cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter",
				log.FieldError, err,
				log.FieldErrorType, log.ErrorTypeConfiguration)
			os.Exit(1)
		}
		processor = services.NewExportProcessor(summary, exporter, services.ExportProcessorConfig{
			Interval:   cfg.ExportInterval,
			MaxRetries: cfg.ExportMaxRetries,
		}, logger)
		unsubscribe := result.Store.Subscribe("", processor.Enqueue)
		defer unsubscribe()
		if err := processor.Start(context.Background()); err != nil {
			logger.Error("Failed to start export processor", log.FieldError, err)
			os.Exit(1)
		}
	}

	var ready func(ctx context.Context) error
	if p, ok := result.Store.(backend.Pinger); ok {
		ready = p.Ping
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Ledger:             ledger,
		Summary:            summary,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ready:              ready,
		Logger:             logger,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if processor != nil {
			if err := processor.Stop(ctx); err != nil {
				logger.Error("Export processor shutdown error", log.FieldError, err)
			}
		}
		manager.Stop()
		if err := ledger.Close(); err != nil {
			logger.Error("Failed to close ledger", log.FieldError, err)
		}
	})

	logger.Info("Starting gagyebu server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"amqp", publisher != nil,
		"sheets", cfg.SheetsEnabled())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
