package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lucroml/backend-go/internal/service"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Summary(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), period)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) Monthly(c *gin.Context) {
	months := 12
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid months value"})
			return
		}
		months = parsed
	}
	points, err := h.service.Monthly(c.Request.Context(), months)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *ReportHandler) CostBreakdown(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	slices, err := h.service.CostBreakdown(c.Request.Context(), period)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, slices)
}

func (h *ReportHandler) Weekdays(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	weekdays, err := h.service.Weekdays(c.Request.Context(), period)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, weekdays)
}

// ABC classifies the portfolio by cumulative profit contribution.
func (h *ReportHandler) ABC(c *gin.Context) {
	entries, err := h.service.ABC(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *ReportHandler) Forecast(c *gin.Context) {
	bands, err := h.service.Forecast(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bands)
}

// Export writes the period's sales report to object storage and returns the key.
func (h *ReportHandler) Export(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	key, err := h.service.ExportCSV(c.Request.Context(), period)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key})
}

// Exports lists previously exported report files.
func (h *ReportHandler) Exports(c *gin.Context) {
	objects, err := h.service.ListExports(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, objects)
}
