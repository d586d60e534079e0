package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gotrack/internal/database"
	"github.com/jonesrussell/gotrack/internal/domain"
	"github.com/jonesrussell/gotrack/internal/registry"
	"github.com/jonesrussell/gotrack/internal/scrape"
)

// addWebsiteRequest is the POST /websites payload.
type addWebsiteRequest struct {
	UserID    string          `json:"user_id" binding:"required"`
	Name      string          `json:"name"`
	URL       string          `json:"url" binding:"required"`
	Category  string          `json:"category" binding:"required"`
	Frequency string          `json:"check_frequency" binding:"required"`
	Config    domain.JSONBMap `json:"config"`
}

// setActiveRequest is the PATCH /websites/:id/active payload.
type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// scrapeBatchRequest is the POST /scrape/batch payload.
type scrapeBatchRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (s *Server) listWebsites(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter is required"})
		return
	}

	websites, err := s.registry.List(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("failed to list websites", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list websites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"websites": websites, "count": len(websites)})
}

func (s *Server) addWebsite(c *gin.Context) {
	var req addWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	website, err := s.registry.Add(c.Request.Context(), registry.AddInput{
		UserID:    req.UserID,
		Name:      req.Name,
		URL:       req.URL,
		Category:  domain.Category(req.Category),
		Frequency: domain.CheckFrequency(req.Frequency),
		Config:    req.Config,
	})
	if err != nil {
		var validationErr *registry.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}
		s.logger.Error("failed to add website", "url", req.URL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add website"})
		return
	}

	c.JSON(http.StatusCreated, website)
}

func (s *Server) removeWebsite(c *gin.Context) {
	id := c.Param("id")

	if err := s.registry.Remove(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "website not found"})
			return
		}
		s.logger.Error("failed to remove website", "website_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove website"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) setWebsiteActive(c *gin.Context) {
	id := c.Param("id")

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := s.registry.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "website not found"})
			return
		}
		s.logger.Error("failed to set active flag", "website_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update website"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "active": *req.Active})
}

func (s *Server) scrapeWebsite(c *gin.Context) {
	id := c.Param("id")

	result, err := s.scrapes.ScrapeOne(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, scrape.ErrScrapeInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": "scrape already in progress"})
		case errors.Is(err, database.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "website not found"})
		default:
			s.logger.Error("scrape failed", "website_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "scrape failed"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) scrapeDue(c *gin.Context) {
	results, err := s.scrapes.ScrapeDue(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to scrape due websites", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scrape due websites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (s *Server) scrapeBatch(c *gin.Context) {
	var req scrapeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	results := s.scrapes.ScrapeAll(c.Request.Context(), req.IDs)
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (s *Server) listResults(c *gin.Context) {
	id := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	results, err := s.results.ListByWebsite(c.Request.Context(), id, limit)
	if err != nil {
		s.logger.Error("failed to list results", "website_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list scrape results"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (s *Server) listItems(c *gin.Context) {
	id := c.Param("id")
	activeOnly := c.DefaultQuery("active", "true") == "true"

	items, err := s.items.ListByWebsite(c.Request.Context(), id, activeOnly)
	if err != nil {
		s.logger.Error("failed to list items", "website_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (s *Server) listNotifications(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter is required"})
		return
	}
	unreadOnly := c.Query("unread") == "true"

	notifications, err := s.notifications.ListByUser(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		s.logger.Error("failed to list notifications", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "count": len(notifications)})
}

func (s *Server) markNotificationRead(c *gin.Context) {
	id := c.Param("id")

	if err := s.notifications.MarkRead(c.Request.Context(), id, time.Now()); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		s.logger.Error("failed to mark notification read", "notification_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "read": true})
}
