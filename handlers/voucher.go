package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fidelo-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoucherHandler struct {
	DB *gorm.DB
}

// Generate converts accumulated cashback into a purchase voucher. The balance
// check, the voucher write and the balance decrement run in one transaction
// with row locks so concurrent generations cannot double-spend the balance.
func (h *VoucherHandler) Generate(c *gin.Context) {
	userID := currentUserID(c)

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Utilisateur non trouvé."})
		return
	}

	var userCashback models.UserCashback
	if err := h.DB.Where("user_id = ?", userID).First(&userCashback).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Montant du cashback non trouvé pour cet utilisateur.",
		})
		return
	}

	var setting models.Setting
	if err := h.DB.First(&setting, models.SettingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Configuration non trouvée."})
		return
	}

	threshold := userCashback.Amount
	expirationDate := time.Now().AddDate(0, 0, setting.VoucherDurate).Format("2006-01-02")

	// A user with no ledger row gets one created at 0 before the transaction
	// starts, so the row outlives the insufficient-balance exit below.
	var existing models.Cashback
	err := h.DB.Where("user_id = ?", userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := h.DB.Create(&models.Cashback{UserID: userID, Amount: 0}).Error; err != nil {
			log.Error().Err(err).Msg("generate voucher: create cashback")
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Une erreur s'est produite lors de la génération ou de la mise à jour du bon d'achat.",
			})
			return
		}
	} else if err != nil {
		log.Error().Err(err).Msg("generate voucher: read cashback")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la génération ou de la mise à jour du bon d'achat.",
		})
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la génération ou de la mise à jour du bon d'achat.",
		})
		return
	}

	var cashback models.Cashback
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&cashback).Error; err != nil {
		tx.Rollback()
		log.Error().Err(err).Msg("generate voucher: lock cashback")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la génération ou de la mise à jour du bon d'achat.",
		})
		return
	}

	if cashback.Amount < threshold {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("Le montant du cashback est insuffisant. Minimum requis : %v.", threshold),
		})
		return
	}

	// Whichever branch runs, exactly the threshold amount moves from the
	// balance to the voucher.
	var voucher models.Voucher
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&voucher).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"amount":        voucher.Amount + threshold,
			"expirate_date": expirationDate,
			"state":         models.VoucherStateActive,
		}
		if err := tx.Model(&voucher).Updates(updates).Error; err != nil {
			tx.Rollback()
			log.Error().Err(err).Msg("generate voucher: update voucher")
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Une erreur s'est produite lors de la génération ou de la mise à jour du bon d'achat.",
			})
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		voucher = models.Voucher{
			UserID:       userID,
			Amount:       threshold,
			ExpirateDate: expirationDate,
			State:        models.VoucherStateActive,
		}
		if err := tx.Create(&voucher).Error; err != nil {
			tx.Rollback()
			log.Error().Err(err).Msg("generate voucher: create voucher")
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Une erreur s'est produite lors de la génération ou de la mise à jour du bon d'achat.",
			})
			return
		}
	default:
		tx.Rollback()
		log.Error().Err(err).Msg("generate voucher: lock voucher")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la génération ou de la mise à jour du bon d'achat.",
		})
		return
	}

	if err := tx.Model(&models.Cashback{}).Where("id = ?", cashback.ID).
		Update("amount", cashback.Amount-threshold).Error; err != nil {
		tx.Rollback()
		log.Error().Err(err).Msg("generate voucher: decrement balance")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la génération ou de la mise à jour du bon d'achat.",
		})
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Error().Err(err).Msg("generate voucher: commit")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la génération ou de la mise à jour du bon d'achat.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Bon d'achat généré ou mis à jour avec succès.",
	})
}

// GetActive returns the user's active voucher, 404 when none or already
// redeemed.
func (h *VoucherHandler) GetActive(c *gin.Context) {
	userID := currentUserID(c)

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "L'utilisateur n'existe pas."})
		return
	}

	var voucher models.Voucher
	err := h.DB.Where("user_id = ? AND state = ?", userID, models.VoucherStateActive).First(&voucher).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Aucun bon d'achat actif trouvé pour cet utilisateur.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"voucher": gin.H{
			"id":             voucher.ID,
			"amount":         voucher.Amount,
			"expirateDate":   voucher.ExpirateDate,
			"ticketDate":     voucher.TicketDate,
			"ticketNumber":   voucher.TicketNumber,
			"ticketAmount":   voucher.TicketAmount,
			"ticketCashback": voucher.TicketCashback,
			"state":          voucher.State,
		},
	})
}

// Validate redeems a customer's active voucher at a caisse, attaching the
// checkout ticket to it. Only state=1 rows match, so a voucher cannot be
// redeemed twice.
func (h *VoucherHandler) Validate(c *gin.Context) {
	var req struct {
		UserID         string  `json:"userId"`
		TicketDate     string  `json:"ticketDate"`
		TicketNumber   string  `json:"ticketNumber"`
		TicketAmount   float64 `json:"ticketAmount"`
		TicketCashback float64 `json:"ticketCashback"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Corps de requête invalide."})
		return
	}

	if req.UserID == "" || req.TicketDate == "" || req.TicketNumber == "" || req.TicketAmount == 0 || req.TicketCashback == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Tous les champs du ticket sont obligatoires.",
		})
		return
	}

	caisseID := c.MustGet("subjectID").(uuid.UUID)

	var caisse models.Caisse
	if err := h.DB.First(&caisse, "id = ?", caisseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "La caisse n'existe pas."})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Identifiant utilisateur invalide."})
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Utilisateur non trouvé."})
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la validation du bon d'achat.",
		})
		return
	}

	var voucher models.Voucher
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND state = ?", userID, models.VoucherStateActive).
		First(&voucher).Error
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Aucun bon d'achat actif trouvé pour cet utilisateur.",
		})
		return
	}

	updates := map[string]interface{}{
		"caisse_id":       caisseID,
		"ticket_date":     req.TicketDate,
		"ticket_number":   req.TicketNumber,
		"ticket_amount":   req.TicketAmount,
		"ticket_cashback": req.TicketCashback,
		"state":           models.VoucherStateRedeemed,
	}

	if err := tx.Model(&voucher).Updates(updates).Error; err != nil {
		tx.Rollback()
		log.Error().Err(err).Msg("validate voucher: update")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la validation du bon d'achat.",
		})
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Error().Err(err).Msg("validate voucher: commit")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la validation du bon d'achat.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Bon d'achat validé avec succès.",
	})
}
