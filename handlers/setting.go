package handlers

import (
	"net/http"

	"fidelo-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type SettingHandler struct {
	DB *gorm.DB
}

// UpdateCashbackAmount sets the per-ticket accrual amount on the singleton
// settings row, creating it when absent.
func (h *SettingHandler) UpdateCashbackAmount(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Veuillez fournir le montant du cashback.",
		})
		return
	}

	var setting models.Setting
	if err := h.DB.First(&setting, models.SettingID).Error; err != nil {
		setting = models.Setting{ID: models.SettingID}
		if err := h.DB.Create(&setting).Error; err != nil {
			log.Error().Err(err).Msg("create setting")
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Une erreur s'est produite lors de la mise à jour du montant du cashback.",
			})
			return
		}
	}

	if err := h.DB.Model(&setting).Update("cashback_amount", req.Amount).Error; err != nil {
		log.Error().Err(err).Msg("update cashback amount")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la mise à jour du montant du cashback.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Le montant du cashback a été mis à jour avec succès.",
	})
}

// CashbackAmount reports the configured accrual amount, 0 when unset.
func (h *SettingHandler) CashbackAmount(c *gin.Context) {
	var setting models.Setting
	amount := 0.0
	if err := h.DB.First(&setting, models.SettingID).Error; err == nil {
		amount = setting.CashbackAmount
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"amount": amount,
	})
}
