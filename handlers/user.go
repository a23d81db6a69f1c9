package handlers

import (
	"errors"
	"net/http"
	"time"

	"fidelo-backend/legacy"
	"fidelo-backend/models"
	"fidelo-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB    *gorm.DB
	Cards legacy.CardStore
}

func (h *UserHandler) userPayload(user *models.User, token string) gin.H {
	return gin.H{
		"firstName":      user.FirstName,
		"lastName":       user.LastName,
		"birthday":       user.Birthday,
		"phone":          user.Phone,
		"barcode":        user.Barcode,
		"sponsoringCode": user.SponsoringCode,
		"imageUrl":       user.ImageURL,
		"whatsapp":       user.IsWhatsapp,
		"token":          token,
	}
}

// Check verifies whether a phone number can migrate a pre-existing fidelity
// card: 409 when the phone is already registered here, 200 with the card
// details when the legacy store knows it, 404 otherwise.
func (h *UserHandler) Check(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Veuillez fournir le numéro de portable.",
		})
		return
	}

	var existingUser models.User
	if err := h.DB.Where("phone = ?", req.Phone).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Ce numéro de portable est déjà associé à une carte de fidélité. Veuillez vous connecter.",
		})
		return
	}

	if h.Cards == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Cette carte de fidélité n'est plus valide. Veuillez vous inscrire en indiquant ne pas avoir de carte.",
		})
		return
	}

	cardholder, err := h.Cards.FindCardholder(req.Phone)
	if err != nil {
		if errors.Is(err, legacy.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Cette carte de fidélité n'est plus valide. Veuillez vous inscrire en indiquant ne pas avoir de carte.",
			})
			return
		}
		log.Error().Err(err).Msg("legacy card lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la connexion à la carte de fidélité.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user": gin.H{
			"firstName": cardholder.FirstName,
			"lastName":  cardholder.LastName,
			"amount":    cardholder.Amount,
		},
	})
}

// RegisterWithAccount creates a local account for a customer who already holds
// a legacy fidelity card; the carried-over balance arrives in the request body.
func (h *UserHandler) RegisterWithAccount(c *gin.Context) {
	var req struct {
		FirstName string  `json:"firstName"`
		LastName  string  `json:"lastName"`
		Birthday  string  `json:"birthday"`
		Amount    float64 `json:"amount"`
		Phone     string  `json:"phone"`
		Password  string  `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": utils.SanitizeValidationError(err),
		})
		return
	}

	if req.FirstName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Veuillez fournir le nom."})
		return
	}
	if req.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Veuillez fournir le prénom."})
		return
	}
	if req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Veuillez fournir le numéro de portable."})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Veuillez fournir le mot de passe."})
		return
	}
	if len(req.Password) < 4 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Le mot de passe doit contenir au moins 4 caractères."})
		return
	}

	var existingUser models.User
	if err := h.DB.Where("phone = ?", req.Phone).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Ce numéro de portable est déjà associé à une carte de fidelité.",
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
		})
		return
	}

	user := models.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Birthday:       parseBirthday(req.Birthday),
		Phone:          req.Phone,
		Barcode:        uuid.NewString(),
		Password:       string(hashedPassword),
		SponsoringCode: utils.GenerateSponsoringCode(),
	}

	if err := h.DB.Create(&user).Error; err != nil {
		log.Error().Err(err).Msg("register with account: create user")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
		})
		return
	}

	// Balance from the legacy card is carried over as the opening cashback.
	cashback := models.Cashback{UserID: user.ID, Amount: req.Amount}
	if err := h.DB.Create(&cashback).Error; err != nil {
		log.Error().Err(err).Msg("register with account: create cashback")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
		})
		return
	}

	if err := h.DB.Create(&models.SponsoringWallet{UserID: user.ID, Amount: 0}).Error; err != nil {
		log.Error().Err(err).Msg("register with account: create sponsoring wallet")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
		})
		return
	}
	if err := h.DB.Create(&models.UserCashback{UserID: user.ID, Amount: models.DefaultVoucherThreshold}).Error; err != nil {
		log.Error().Err(err).Msg("register with account: create cashback threshold")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
		})
		return
	}

	token, err := utils.GenerateToken(user.ID, utils.KindUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"user":   h.userPayload(&user, token),
	})
}

// RegisterWithoutAccount signs up a brand-new customer, optionally sponsored
// by an existing user's referral code.
func (h *UserHandler) RegisterWithoutAccount(c *gin.Context) {
	var req struct {
		Phone       string `json:"phone"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		Birthday    string `json:"birthday"`
		SponsorCode string `json:"sponsorCode"`
		IsWhatsapp  bool   `json:"isWhatsapp"`
		Password    string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": utils.SanitizeValidationError(err),
		})
		return
	}

	if req.FirstName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Veuillez fournir le nom."})
		return
	}
	if req.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Veuillez fournir le prénom."})
		return
	}
	if req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Veuillez fournir le numéro de portable."})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Veuillez fournir le mot de passe."})
		return
	}
	if len(req.Password) < 4 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Le mot de passe doit contenir au moins 4 caractères."})
		return
	}

	var existingUser models.User
	if err := h.DB.Where("phone = ?", req.Phone).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Ce numéro de portable est déjà associé à une carte de fidélité.",
		})
		return
	}

	if req.SponsorCode != "" && len(req.SponsorCode) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Le code de parrainage doit contenir au moins 6 caractères.",
		})
		return
	}

	// A phone still attached to a legacy card must go through the
	// with-account path so the balance is carried over.
	if h.Cards != nil {
		if _, err := h.Cards.FindCardholder(req.Phone); err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"message": "Ce numéro de portable est déjà associé à une carte de fidélité. Veuillez vous connecter en indiquant que vous possédez déjà une carte de fidélité.",
			})
			return
		} else if !errors.Is(err, legacy.ErrCardNotFound) {
			log.Error().Err(err).Msg("register without account: legacy card lookup")
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
			})
			return
		}
	}

	var sponsorID *uuid.UUID
	if req.SponsorCode != "" {
		var sponsor models.User
		if err := h.DB.Where("sponsoring_code = ?", req.SponsorCode).First(&sponsor).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Le code de parrainage est incorrect.",
			})
			return
		}
		sponsorID = &sponsor.ID
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
		})
		return
	}

	user := models.User{
		Phone:          req.Phone,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Password:       string(hashedPassword),
		Barcode:        uuid.NewString(),
		IsWhatsapp:     req.IsWhatsapp,
		Birthday:       parseBirthday(req.Birthday),
		SponsorID:      sponsorID,
		SponsoringCode: utils.GenerateSponsoringCode(),
	}

	if err := h.DB.Create(&user).Error; err != nil {
		log.Error().Err(err).Msg("register without account: create user")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
		})
		return
	}

	if err := h.DB.Create(&models.UserCashback{UserID: user.ID, Amount: models.DefaultVoucherThreshold}).Error; err != nil {
		log.Error().Err(err).Msg("register without account: create cashback threshold")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
		})
		return
	}

	if sponsorID != nil {
		var sponsoring models.SettingSponsoring
		godsonAmount := 0.0
		if err := h.DB.First(&sponsoring, models.SettingID).Error; err == nil {
			godsonAmount = sponsoring.GodsonAmount
		}
		if err := h.DB.Create(&models.SponsoringWallet{UserID: user.ID, Amount: godsonAmount}).Error; err != nil {
			log.Error().Err(err).Msg("register without account: create sponsoring wallet")
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
			})
			return
		}
	}

	if err := h.DB.Create(&models.Cashback{UserID: user.ID, Amount: 0}).Error; err != nil {
		log.Error().Err(err).Msg("register without account: create cashback")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
		})
		return
	}

	token, err := utils.GenerateToken(user.ID, utils.KindUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la création de la carte de fidelité.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"user":   h.userPayload(&user, token),
	})
}

func (h *UserHandler) Login(c *gin.Context) {
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
	if len(req.Password) < 4 {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Le mot de passe doit contenir au moins 4 caractères."})
		return
	}

	var user models.User
	if err := h.DB.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Numéro de téléphone non enregistré. Veuillez créer un compte.",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Numéro de téléphone ou mot de passe incorrect.",
		})
		return
	}

	token, err := utils.GenerateToken(user.ID, utils.KindUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la connexion.",
		})
		return
	}

	var cashback models.Cashback
	cashbackAmount := 0.0
	if err := h.DB.Where("user_id = ?", user.ID).First(&cashback).Error; err == nil {
		cashbackAmount = cashback.Amount
	}

	payload := h.userPayload(&user, token)
	payload["cashback"] = cashbackAmount

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   payload,
	})
}

// ValidateOtp marks a pending SMS verification code as used.
func (h *UserHandler) ValidateOtp(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
		Otp   string `json:"otp"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Codes invalides ou déjà utilisés. Veuillez réessayer.",
		})
		return
	}

	var otp models.Otp
	err := h.DB.Where("phone = ? AND otp_sms = ? AND is_otp_sms_used = ?", req.Phone, req.Otp, false).First(&otp).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Codes invalides ou déjà utilisés. Veuillez réessayer.",
		})
		return
	}

	if err := h.DB.Model(&otp).Update("is_otp_sms_used", true).Error; err != nil {
		log.Error().Err(err).Msg("validate otp: mark used")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la validation des codes.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Codes validés avec succès.",
	})
}

func (h *UserHandler) CheckSponsoringCode(c *gin.Context) {
	var req struct {
		SponsoringCode string `json:"sponsoringCode"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.SponsoringCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Veuillez fournir un code de parrainage.",
		})
		return
	}

	var user models.User
	if err := h.DB.Where("sponsoring_code = ?", req.SponsoringCode).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Aucun utilisateur trouvé avec ce code de parrainage.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Le code de parrainage est valide.",
	})
}

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.DB.Find(&users).Error; err != nil {
		log.Error().Err(err).Msg("list users")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la récupération de tous les utilisateurs.",
		})
		return
	}

	usersResponse := make([]gin.H, 0, len(users))
	for i := range users {
		usersResponse = append(usersResponse, gin.H{
			"firstName":      users[i].FirstName,
			"lastName":       users[i].LastName,
			"birthday":       users[i].Birthday,
			"phone":          users[i].Phone,
			"barcode":        users[i].Barcode,
			"sponsoringCode": users[i].SponsoringCode,
			"imageUrl":       users[i].ImageURL,
			"whatsapp":       users[i].IsWhatsapp,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"users":  usersResponse,
	})
}

// SponsoringAmount exposes the configured referral bonuses.
func (h *UserHandler) SponsoringAmount(c *gin.Context) {
	var sponsoring models.SettingSponsoring
	godsonAmount := 0.0
	godfatherAmount := 0.0
	if err := h.DB.First(&sponsoring, models.SettingID).Error; err == nil {
		godsonAmount = sponsoring.GodsonAmount
		godfatherAmount = sponsoring.GodfatherAmount
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"godsonAmount":    godsonAmount,
			"godfatherAmount": godfatherAmount,
		},
	})
}

func parseBirthday(birthday string) *time.Time {
	if birthday == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", birthday)
	if err != nil {
		return nil
	}
	return &t
}
