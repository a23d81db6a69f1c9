package handlers

import (
	"net/http"

	"fidelo-backend/models"
	"fidelo-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CaisseHandler struct {
	DB *gorm.DB
}

// Create registers a new caisse for the shop given in the shopid header.
// Missing fields answer 401 rather than 400, which the point-of-sale clients
// depend on.
func (h *CaisseHandler) Create(c *gin.Context) {
	shopID := c.GetHeader("shopid")

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Nom de la caissiere non fourni."})
		return
	}

	if shopID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Identifiant de magasin non fourni."})
		return
	}
	if req.FirstName == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Nom de la caissiere non fourni."})
		return
	}
	if req.LastName == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Prenom de la caissiere non fourni."})
		return
	}
	if req.Phone == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Numéro de portable de la caissiere non fourni."})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Mot de passe de la caissiere non fourni."})
		return
	}
	if len(req.Password) < 4 {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Le mot de passe doit contenir au moins 4 caractères."})
		return
	}

	shopUUID, err := uuid.Parse(shopID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Le magasin n'existe pas."})
		return
	}

	var shop models.Shop
	if err := h.DB.First(&shop, "id = ?", shopUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Le magasin n'existe pas."})
		return
	}

	var existingCaisse models.Caisse
	if err := h.DB.Where("phone = ?", req.Phone).First(&existingCaisse).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Une caisse existe déjà avec ce numéro de portable.",
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la caisse.",
		})
		return
	}

	caisse := models.Caisse{
		ShopID:    shop.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  string(hashedPassword),
	}

	if err := h.DB.Create(&caisse).Error; err != nil {
		log.Error().Err(err).Msg("create caisse")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la caisse.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"caisse": gin.H{
			"id":        caisse.ID,
			"firstName": caisse.FirstName,
			"lastName":  caisse.LastName,
			"phone":     caisse.Phone,
			"email":     caisse.Email,
			"shopName":  shop.Name,
		},
	})
}

func (h *CaisseHandler) Login(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Numéro de portable non fourni."})
		return
	}

	if req.Phone == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Numéro de portable non fourni."})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Mot de passe non fourni."})
		return
	}

	var caisse models.Caisse
	if err := h.DB.Preload("Shop").Where("phone = ?", req.Phone).First(&caisse).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "La caisse n'existe pas. Veuillez vous inscrire au prealable.",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(caisse.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Mot de passe incorrect. Veuillez réessayer.",
		})
		return
	}

	token, err := utils.GenerateToken(caisse.ID, utils.KindCaisse)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la connexion de la caisse.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"caisse": gin.H{
			"shopName":  caisse.Shop.Name,
			"firstName": caisse.FirstName,
			"lastName":  caisse.LastName,
			"token":     token,
		},
	})
}

// UpdatePassword resets a caisse password, admin-only.
func (h *CaisseHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.Phone == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Veuillez fournir le numéro de portable et le mot de passe.",
		})
		return
	}

	if len(req.Password) < 4 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Le mot de passe doit contenir au moins 4 caractères.",
		})
		return
	}

	var caisse models.Caisse
	if err := h.DB.Where("phone = ?", req.Phone).First(&caisse).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "La caisse n'existe pas."})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la mise à jour du mot de passe.",
		})
		return
	}

	if err := h.DB.Model(&caisse).Update("password", string(hashedPassword)).Error; err != nil {
		log.Error().Err(err).Msg("update caisse password")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la mise à jour du mot de passe.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Mot de passe mis à jour avec succès.",
	})
}

// Delete removes a caisse, admin-only. Soft delete per the model.
func (h *CaisseHandler) Delete(c *gin.Context) {
	var req struct {
		CaisseID string `json:"caisseId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.CaisseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Veuillez fournir l'identifiant de la caisse.",
		})
		return
	}

	caisseID, err := uuid.Parse(req.CaisseID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "La caisse n'existe pas."})
		return
	}

	var caisse models.Caisse
	if err := h.DB.First(&caisse, "id = ?", caisseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "La caisse n'existe pas."})
		return
	}

	if err := h.DB.Delete(&caisse).Error; err != nil {
		log.Error().Err(err).Msg("delete caisse")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la suppression de la caisse.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Caisse supprimée avec succès.",
	})
}

// ValidateTicket appends a purchase ticket to the user's fidelity ledger.
// A cashback of 0 is rejected as missing. Ticket numbers are not checked for
// duplicates.
func (h *CaisseHandler) ValidateTicket(c *gin.Context) {
	var req struct {
		UserID         string  `json:"userId"`
		PaymentType    int     `json:"paymentType"`
		TicketDate     string  `json:"ticketDate"`
		TicketNumber   string  `json:"ticketNumber"`
		TicketAmount   float64 `json:"ticketAmount"`
		TicketCashback float64 `json:"ticketCashback"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Corps de requête invalide."})
		return
	}

	if req.UserID == "" || req.PaymentType == 0 || req.TicketDate == "" ||
		req.TicketNumber == "" || req.TicketAmount == 0 || req.TicketCashback == 0 {
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

	transaction := models.TransactionFidelityCard{
		UserID:         user.ID,
		CaisseID:       caisse.ID,
		PaymentType:    req.PaymentType,
		TicketDate:     req.TicketDate,
		TicketNumber:   req.TicketNumber,
		TicketAmount:   req.TicketAmount,
		TicketCashback: req.TicketCashback,
		State:          1,
	}

	if err := h.DB.Create(&transaction).Error; err != nil {
		log.Error().Err(err).Msg("validate ticket: create transaction")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la validation du ticket.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"transaction": gin.H{
			"id":             transaction.ID,
			"userId":         transaction.UserID,
			"caisseId":       transaction.CaisseID,
			"paymentType":    transaction.PaymentType,
			"ticketDate":     transaction.TicketDate,
			"ticketNumber":   transaction.TicketNumber,
			"ticketAmount":   transaction.TicketAmount,
			"ticketCashback": transaction.TicketCashback,
			"state":          transaction.State,
		},
	})
}
