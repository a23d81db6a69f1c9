package handlers

import (
	"net/http"

	"fidelo-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CashbackHandler struct {
	DB *gorm.DB
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("subjectID").(uuid.UUID)
}

func (h *CashbackHandler) findUser(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := h.DB.First(&user, "id = ?", currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Utilisateur non trouvé.",
		})
		return nil, false
	}
	return &user, true
}

// Amount returns the user's running cashback balance.
func (h *CashbackHandler) Amount(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	var cashback models.Cashback
	if err := h.DB.Where("user_id = ?", user.ID).First(&cashback).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Montant du cashback non trouvé pour cet utilisateur.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"cashback": cashback.Amount,
	})
}

// Limit returns the balance threshold required to generate a voucher.
func (h *CashbackHandler) Limit(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	var userCashback models.UserCashback
	if err := h.DB.Where("user_id = ?", user.ID).First(&userCashback).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Montant du cashback non trouvé pour cet utilisateur.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"cashback": userCashback.Amount,
	})
}

// UpdateLimit sets the voucher threshold, creating the row when absent.
func (h *CashbackHandler) UpdateLimit(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Montant non fourni.",
		})
		return
	}

	user, ok := h.findUser(c)
	if !ok {
		return
	}

	var userCashback models.UserCashback
	if err := h.DB.Where("user_id = ?", user.ID).First(&userCashback).Error; err != nil {
		created := models.UserCashback{UserID: user.ID, Amount: req.Amount}
		if err := h.DB.Create(&created).Error; err != nil {
			log.Error().Err(err).Msg("create cashback limit")
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Une erreur s'est produite lors de la mise à jour du cashback.",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Cashback creé avec succes.",
		})
		return
	}

	if err := h.DB.Model(&userCashback).Update("amount", req.Amount).Error; err != nil {
		log.Error().Err(err).Msg("update cashback limit")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la mise à jour du cashback.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Cashback mis à jour avec succes.",
	})
}

// Transactions lists the validated tickets recorded for the user.
func (h *CashbackHandler) Transactions(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	var transactions []models.TransactionFidelityCard
	if err := h.DB.Where("user_id = ?", user.ID).Find(&transactions).Error; err != nil {
		log.Error().Err(err).Msg("list transactions")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la récupération des transactions de l'utilisateur.",
		})
		return
	}

	transactionsResponse := make([]gin.H, 0, len(transactions))
	for i := range transactions {
		transactionsResponse = append(transactionsResponse, gin.H{
			"id":             transactions[i].ID,
			"ticketNumber":   transactions[i].TicketNumber,
			"ticketAmount":   transactions[i].TicketAmount,
			"ticketCashback": transactions[i].TicketCashback,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"transactions": transactionsResponse,
	})
}
