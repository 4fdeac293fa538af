package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/service"
)

type SettingsHandler struct {
	service *service.SettingsService
}

func NewSettingsHandler(service *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var settings domain.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}
	if err := h.service.Save(c.Request.Context(), &settings); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
