package handlers

import (
	"net/http"

	"fidelo-backend/models"
	"fidelo-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminHandler struct {
	DB *gorm.DB
}

// Login authenticates the back-office admin. An unknown email answers 409,
// which the admin frontend expects.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": utils.SanitizeValidationError(err),
		})
		return
	}

	var admin models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Adresse email non enregistré ou incorrect. Veuillez réessayer.",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Mot de passe incorrect. Veuillez réessayer.",
		})
		return
	}

	token, err := utils.GenerateToken(admin.ID, utils.KindAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Une erreur s'est produite lors de la connexion.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"admin": gin.H{
			"email": admin.Email,
			"token": token,
		},
	})
}
