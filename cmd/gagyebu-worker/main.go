package main

import (
	"context"
	"errors"
	"os"
	"time"

	"gagyebu/internal/amqp"
	"gagyebu/internal/cli"
	"gagyebu/internal/log"
	"gagyebu/internal/services"
	"gagyebu/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting gagyebu-worker")

	// The worker reads what the server wrote, so both must share a database.
	if cfg.DataBackend != "sqlite" {
		logger.Error("gagyebu-worker requires DATA_BACKEND=sqlite",
			"backend", cfg.DataBackend,
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}
	if !cfg.AMQPEnabled() {
		logger.Error("gagyebu-worker requires AMQP_URL",
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	result := cli.InitStore(context.Background(), cfg, logger)

	summary := services.NewSummaryService(result.Store, services.SummaryConfig{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	}, nil, logger)

	exporter, err := cli.InitExporter(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets exporter",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeNetwork)
		os.Exit(1)
	}

	processor := services.NewExportProcessor(summary, exporter, services.ExportProcessorConfig{
		Interval:   cfg.ExportInterval,
		MaxRetries: cfg.ExportMaxRetries,
	}, logger)

	// Catch up on anything written while the worker was down.
	processor.Enqueue(store.Change{})

	consumeCtx, stopConsuming := context.WithCancel(context.Background())
	if err := processor.Start(consumeCtx); err != nil {
		logger.Error("Failed to start export processor", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		stopConsuming()
		if err := processor.Stop(ctx); err != nil {
			logger.Error("Export processor shutdown error", log.FieldError, err)
		}
		if err := client.Close(); err != nil {
			logger.Error("Failed to close AMQP client", log.FieldError, err)
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Failed to close store", log.FieldError, err)
		}
	})

	go func() {
		err := client.ConsumeLedgerChanged(consumeCtx, func(_ context.Context, msg *amqp.LedgerChanged) error {
			processor.Enqueue(msg.Change())
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed",
				log.FieldError, err,
				log.FieldErrorType, log.ErrorTypeNetwork)
			os.Exit(1)
		}
	}()

	logger.Info("Worker running",
		"export_interval", cfg.ExportInterval,
		"sheets", cfg.SheetsEnabled())
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
