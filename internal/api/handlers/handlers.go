package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/repository"
	"github.com/lucroml/backend-go/internal/service"
)

// handleError maps service and repository errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotConnected):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// periodQuery reads from/to query params (YYYY-MM-DD); defaults to the last
// 30 days ending today.
func periodQuery(c *gin.Context) (domain.Period, bool) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	period := domain.Period{From: now.AddDate(0, 0, -29), To: now}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return domain.Period{}, false
		}
		period.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return domain.Period{}, false
		}
		period.To = to
	}
	if period.To.Before(period.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to date is before from date"})
		return domain.Period{}, false
	}
	return period, true
}
