// Package api implements the HTTP surface consumed by UI and admin code.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gotrack/internal/database"
	"github.com/jonesrussell/gotrack/internal/domain"
	"github.com/jonesrussell/gotrack/internal/logger"
	"github.com/jonesrussell/gotrack/internal/registry"
)

// ScrapeService is the orchestrator surface the API depends on.
type ScrapeService interface {
	ScrapeOne(ctx context.Context, websiteID string) (*domain.ScrapeResult, error)
	ScrapeDue(ctx context.Context) ([]*domain.ScrapeResult, error)
	ScrapeAll(ctx context.Context, ids []string) []*domain.ScrapeResult
}

// Config holds HTTP server settings.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server wires the gin router to the tracking core.
type Server struct {
	registry      *registry.Registry
	scrapes       ScrapeService
	items         database.ItemRepositoryInterface
	results       database.ResultRepositoryInterface
	notifications database.NotificationRepositoryInterface
	logger        logger.Interface
	cfg           Config
}

// NewServer creates a new API server.
func NewServer(
	reg *registry.Registry,
	scrapes ScrapeService,
	items database.ItemRepositoryInterface,
	results database.ResultRepositoryInterface,
	notifications database.NotificationRepositoryInterface,
	log logger.Interface,
	cfg Config,
) *Server {
	return &Server{
		registry:      reg,
		scrapes:       scrapes,
		items:         items,
		results:       results,
		notifications: notifications,
		logger:        log,
		cfg:           cfg,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/websites", s.listWebsites)
		v1.POST("/websites", s.addWebsite)
		v1.DELETE("/websites/:id", s.removeWebsite)
		v1.PATCH("/websites/:id/active", s.setWebsiteActive)
		v1.POST("/websites/:id/scrape", s.scrapeWebsite)
		v1.GET("/websites/:id/results", s.listResults)
		v1.GET("/websites/:id/items", s.listItems)
		v1.POST("/scrape/due", s.scrapeDue)
		v1.POST("/scrape/batch", s.scrapeBatch)
		v1.GET("/notifications", s.listNotifications)
		v1.POST("/notifications/:id/read", s.markNotificationRead)
	}

	return router
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info("API server listening", "address", s.cfg.Address)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
