package handlers

import (
	"net/http"
	"time"

	"fidelo-backend/models"
	"fidelo-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type PromotionHandler struct {
	DB *gorm.DB
}

// Create records a promotional banner for the shop given in the shopid header.
// The image is hosted elsewhere; only its URL is stored.
func (h *PromotionHandler) Create(c *gin.Context) {
	shopID := c.GetHeader("shopid")

	var req struct {
		ImageURL string `json:"imageUrl"`
		StartAt  string `json:"startAt"`
		EndAt    string `json:"endAt"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Corps de requête invalide."})
		return
	}

	if shopID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "ID de la boutique manquant."})
		return
	}
	if req.StartAt == "" || !utils.IsValidDateOnly(req.StartAt) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Date de début manquante ou format invalide (doit être YYYY-MM-DD).",
		})
		return
	}
	if req.EndAt == "" || !utils.IsValidDateOnly(req.EndAt) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Date de fin manquante ou format invalide (doit être YYYY-MM-DD).",
		})
		return
	}

	shopUUID, err := uuid.Parse(shopID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Boutique non trouvée."})
		return
	}

	var shop models.Shop
	if err := h.DB.First(&shop, "id = ?", shopUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Boutique non trouvée."})
		return
	}

	if req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Aucune image de la promotion n'a été fournie.",
		})
		return
	}

	promotion := models.Promotion{
		ShopID:   shop.ID,
		ImageURL: req.ImageURL,
		StartAt:  req.StartAt,
		EndAt:    req.EndAt,
	}

	if err := h.DB.Create(&promotion).Error; err != nil {
		log.Error().Err(err).Msg("create promotion")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la promotion.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data": gin.H{
			"id":       promotion.ID,
			"shopId":   promotion.ShopID,
			"imageUrl": promotion.ImageURL,
			"startAt":  promotion.StartAt,
			"endAt":    promotion.EndAt,
		},
	})
}

// ListByShop returns the shop's promotions, newest first.
func (h *PromotionHandler) ListByShop(c *gin.Context) {
	shopID := c.GetHeader("shopid")
	if shopID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "ID de la boutique manquant dans les en-têtes.",
		})
		return
	}

	shopUUID, err := uuid.Parse(shopID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Boutique non trouvée."})
		return
	}

	var shop models.Shop
	if err := h.DB.First(&shop, "id = ?", shopUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Boutique non trouvée."})
		return
	}

	var promotions []models.Promotion
	if err := h.DB.Where("shop_id = ?", shop.ID).Order("created_at DESC").Find(&promotions).Error; err != nil {
		log.Error().Err(err).Msg("list promotions")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la récupération des promotions de la boutique.",
		})
		return
	}

	promotionsResponse := make([]gin.H, 0, len(promotions))
	for i := range promotions {
		promotionsResponse = append(promotionsResponse, gin.H{
			"id":       promotions[i].ID,
			"imageUrl": promotions[i].ImageURL,
			"startAt":  promotions[i].StartAt,
			"endAt":    promotions[i].EndAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"promotions": promotionsResponse,
	})
}

// ListActive returns promotions whose date window covers today, with the
// owning shop's name.
func (h *PromotionHandler) ListActive(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var promotions []models.Promotion
	err := h.DB.Preload("Shop").
		Where("start_at <= ? AND end_at >= ?", today, today).
		Order("created_at DESC").
		Find(&promotions).Error
	if err != nil {
		log.Error().Err(err).Msg("list active promotions")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la récupération des promotions actives.",
		})
		return
	}

	promotionsResponse := make([]gin.H, 0, len(promotions))
	for i := range promotions {
		promotionsResponse = append(promotionsResponse, gin.H{
			"id":       promotions[i].ID,
			"shopName": promotions[i].Shop.Name,
			"imageUrl": promotions[i].ImageURL,
			"startAt":  promotions[i].StartAt,
			"endAt":    promotions[i].EndAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"promotions": promotionsResponse,
	})
}

func (h *PromotionHandler) Delete(c *gin.Context) {
	var req struct {
		PromotionID string `json:"promotionId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.PromotionID == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "La promotion spécifiée n'existe pas.",
		})
		return
	}

	promotionID, err := uuid.Parse(req.PromotionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "La promotion spécifiée n'existe pas.",
		})
		return
	}

	var promotion models.Promotion
	if err := h.DB.First(&promotion, "id = ?", promotionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "La promotion spécifiée n'existe pas.",
		})
		return
	}

	if err := h.DB.Delete(&promotion).Error; err != nil {
		log.Error().Err(err).Msg("delete promotion")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la suppression de la promotion.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "La promotion a été supprimée avec succès.",
	})
}
