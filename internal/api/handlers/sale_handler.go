package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/service"
)

type SaleHandler struct {
	service *service.SalesService
}

func NewSaleHandler(service *service.SalesService) *SaleHandler {
	return &SaleHandler{service: service}
}

func (h *SaleHandler) List(c *gin.Context) {
	sales, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	sale, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SaleHandler) Create(c *gin.Context) {
	var sale domain.Sale
	if err := c.ShouldBindJSON(&sale); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale payload"})
		return
	}
	if err := h.service.Create(c.Request.Context(), &sale); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// Update replaces the sale entirely; edits are full re-entries.
func (h *SaleHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var sale domain.Sale
	if err := c.ShouldBindJSON(&sale); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale payload"})
		return
	}
	sale.ID = id
	if err := h.service.Replace(c.Request.Context(), &sale); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SaleHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Breakdown returns the realized profit decomposition of one sale.
func (h *SaleHandler) Breakdown(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	breakdown, err := h.service.Breakdown(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
