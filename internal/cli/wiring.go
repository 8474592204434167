package cli

import (
	"context"
	"os"

	"gagyebu/internal/backend"
	"gagyebu/internal/config"
	"gagyebu/internal/export/sheets"
	exportmem "gagyebu/internal/export/sheets/memory"
	"gagyebu/internal/log"
)

// InitStore opens the configured backend, seeding it when empty.
// Exits the process when the backend cannot be opened.
func InitStore(ctx context.Context, cfg *config.Config, logger *log.Logger) *backend.BackendResult {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to open data backend",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeDatabase,
			"backend", bcfg.Type.String())
		os.Exit(1)
	}
	logger.Info("Data backend ready", "backend", bcfg.Type.String(), "seeded", result.Seeded)
	return result
}

// InitExporter returns the Google Sheets exporter when a spreadsheet is
// configured and an in-memory one otherwise.
func InitExporter(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.Exporter, error) {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled, exports are kept in memory")
		return exportmem.New(), nil
	}
	return sheets.New(ctx, sheets.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		SheetBase:          cfg.GoogleSheetName,
	}, logger)
}
