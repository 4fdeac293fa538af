package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lucroml/backend-go/internal/service"
)

type MLHandler struct {
	service *service.SyncService
}

func NewMLHandler(service *service.SyncService) *MLHandler {
	return &MLHandler{service: service}
}

func (h *MLHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// AuthURL returns the marketplace authorization URL for the OAuth flow.
func (h *MLHandler) AuthURL(c *gin.Context) {
	url, err := h.service.AuthURL(c.Query("state"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Callback completes the OAuth flow with the code the marketplace redirected
// back with.
func (h *MLHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code parameter"})
		return
	}
	if err := h.service.Connect(c.Request.Context(), code); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true})
}

func (h *MLHandler) SyncProducts(c *gin.Context) {
	result, err := h.service.ImportProducts(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MLHandler) SyncOrders(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	// Orders are fetched up to the end of the "to" day.
	to := period.To.Add(24*time.Hour - time.Second)
	result, err := h.service.ImportOrders(c.Request.Context(), period.From, to)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
