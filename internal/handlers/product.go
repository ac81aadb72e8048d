package handlers

import (
	"net/http"

	"feedboard/internal/db"
	"feedboard/internal/models"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct{}

func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

// List returns the fixed product catalog for the submit/filter forms.
func (h *ProductHandler) List(c *gin.Context) {
	var products []models.Product
	if err := db.DB.Order("id ASC").Find(&products).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load products")
		return
	}
	JSONOK(c, http.StatusOK, gin.H{"products": products})
}
