package handlers

import (
	"net/http"

	"fidelo-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ShopHandler struct {
	DB *gorm.DB
}

func (h *ShopHandler) Create(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Veuillez fournir le nom de la boutique.",
		})
		return
	}

	shop := models.Shop{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}

	if err := h.DB.Create(&shop).Error; err != nil {
		log.Error().Err(err).Msg("create shop")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la boutique.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"shop": gin.H{
			"id":      shop.ID,
			"name":    shop.Name,
			"address": shop.Address,
			"phone":   shop.Phone,
		},
	})
}

func (h *ShopHandler) ListAll(c *gin.Context) {
	var shops []models.Shop
	if err := h.DB.Find(&shops).Error; err != nil {
		log.Error().Err(err).Msg("list shops")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la récupération des boutiques.",
		})
		return
	}

	shopsResponse := make([]gin.H, 0, len(shops))
	for i := range shops {
		shopsResponse = append(shopsResponse, gin.H{
			"id":      shops[i].ID,
			"name":    shops[i].Name,
			"address": shops[i].Address,
			"phone":   shops[i].Phone,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"shops":  shopsResponse,
	})
}
