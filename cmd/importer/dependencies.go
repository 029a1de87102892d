package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/FACorreiaa/statement-ingest/internal/domain/categorization"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/parser"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/repository"
	importservice "github.com/FACorreiaa/statement-ingest/internal/domain/import/service"
	"github.com/FACorreiaa/statement-ingest/pkg/config"
	"github.com/FACorreiaa/statement-ingest/pkg/db"
	"github.com/FACorreiaa/statement-ingest/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config   *config.Config
	DB       *db.DB
	Logger   *slog.Logger
	Registry *prometheus.Registry

	// Repositories
	CategorizationRepo *categorization.Repository
	Sink               importservice.Sink

	// Services
	Categories    *categorization.Directory
	ImportService *importservice.ImportService
	Inbox         *storage.LocalInbox
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if !cfg.Import.DryRun {
		if err := deps.initDatabase(); err != nil {
			return nil, fmt.Errorf("failed to init database: %w", err)
		}
	}

	if err := deps.initRepositories(ctx); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	logger.Info("all dependencies initialized successfully", slog.Bool("dry_run", cfg.Import.DryRun))

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        int32(d.Config.Database.MaxConns),
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initRepositories initializes the sink and the category directory. A dry
// run stores into memory and resolves no categories.
func (d *Dependencies) initRepositories(ctx context.Context) error {
	if d.DB == nil {
		d.Sink = repository.NewMemory()
		d.Categories = categorization.NewDirectory(nil)
		d.Logger.Info("repositories initialized in memory")
		return nil
	}

	d.Sink = repository.NewPostgres(d.DB.Pool)
	d.CategorizationRepo = categorization.NewRepository(d.DB.Pool)

	categories, err := d.CategorizationRepo.LoadDirectory(ctx)
	if err != nil {
		return err
	}
	d.Categories = categories

	d.Logger.Info("repositories initialized", slog.Int("categories", categories.Len()))
	return nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() error {
	loc, err := d.Config.Import.Location()
	if err != nil {
		return err
	}

	d.ImportService = importservice.NewImportService(parser.Options{
		Categories: d.Categories,
		Location:   loc,
		Logger:     d.Logger,
	}, d.Logger)
	d.ImportService.WithMetrics(importservice.NewMetrics(d.Registry))

	d.Inbox, err = storage.NewLocalInbox(d.Config.Import.InboxDir, d.Config.Import.ProcessedDir)
	if err != nil {
		return fmt.Errorf("failed to init inbox: %w", err)
	}

	d.Logger.Info("services initialized", slog.String("inbox", d.Config.Import.InboxDir))
	return nil
}

// ImportPass refreshes the categories and imports every pending file once.
func (d *Dependencies) ImportPass(ctx context.Context) error {
	if d.CategorizationRepo != nil {
		if err := d.CategorizationRepo.Refresh(ctx, d.Categories); err != nil {
			d.Logger.Warn("failed to refresh categories, using previous set", slog.Any("error", err))
		}
	}

	res, err := d.ImportService.ImportInbox(ctx, d.Inbox, d.Sink)
	if err != nil {
		return err
	}
	for _, f := range res.Failed {
		d.Logger.Error("statement left in inbox",
			slog.String("file", f.File),
			slog.Any("error", f.Err),
		)
	}
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
