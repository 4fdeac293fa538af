package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/service"
)

type ProductHandler struct {
	service *service.CatalogService
}

func NewProductHandler(service *service.CatalogService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	product, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload"})
		return
	}
	if err := h.service.Create(c.Request.Context(), &product); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload"})
		return
	}
	product.ID = id
	if err := h.service.Update(c.Request.Context(), &product); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
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

// Preview returns the projected unit economics for a product at its list price.
func (h *ProductHandler) Preview(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	preview, err := h.service.Preview(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// MinimumPrice returns the lowest price meeting the configured margin target.
func (h *ProductHandler) MinimumPrice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	price, err := h.service.MinimumPrice(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"minimum_price": price})
}
