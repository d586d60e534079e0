// Package common builds the shared dependency graph for CLI commands.
package common

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"

	"github.com/jonesrussell/gotrack/internal/api"
	"github.com/jonesrussell/gotrack/internal/config"
	"github.com/jonesrussell/gotrack/internal/database"
	"github.com/jonesrussell/gotrack/internal/diff"
	"github.com/jonesrussell/gotrack/internal/extractor"
	"github.com/jonesrussell/gotrack/internal/logger"
	"github.com/jonesrussell/gotrack/internal/notify"
	"github.com/jonesrussell/gotrack/internal/registry"
	"github.com/jonesrussell/gotrack/internal/scrape"
)

// Deps bundles the constructed application components.
type Deps struct {
	Config        *config.Config
	Logger        logger.Interface
	DB            *sqlx.DB
	Websites      *database.WebsiteRepository
	Items         *database.ItemRepository
	Results       *database.ResultRepository
	Notifications *database.NotificationRepository
	Registry      *registry.Registry
	Orchestrator  *scrape.Orchestrator
	APIServer     *api.Server
}

// Build constructs the full dependency graph from the loaded configuration.
func Build() (*Deps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewPostgresConnection(database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	websites := database.NewWebsiteRepository(db)
	items := database.NewItemRepository(db)
	results := database.NewResultRepository(db)
	notifications := database.NewNotificationRepository(db)

	extractors := extractor.NewRegistry()
	extractors.Register(extractor.NewListingExtractor(extractor.Config{
		FetchTimeout: cfg.Scraper.FetchTimeout,
		UserAgent:    cfg.Scraper.UserAgent,
	}, log))

	engine := diff.NewEngine(items, log, diff.Config{
		RemovalAlertRatio: cfg.Diff.RemovalAlertRatio,
		RemovalAlertMin:   cfg.Diff.RemovalAlertMin,
	})

	emitter := notify.NewEmitter(notifications, log, notify.Config{
		RemovedThreshold: cfg.Notify.RemovedThreshold,
	})

	orchestrator := scrape.NewOrchestrator(
		websites,
		results,
		extractors,
		engine,
		emitter,
		log,
		scrape.Config{MaxConcurrency: cfg.Scraper.MaxConcurrency},
	)

	reg := registry.New(websites, log)

	apiServer := api.NewServer(reg, orchestrator, items, results, notifications, log, api.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	return &Deps{
		Config:        cfg,
		Logger:        log,
		DB:            db,
		Websites:      websites,
		Items:         items,
		Results:       results,
		Notifications: notifications,
		Registry:      reg,
		Orchestrator:  orchestrator,
		APIServer:     apiServer,
	}, nil
}

// Close releases held resources.
func (d *Deps) Close() {
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
