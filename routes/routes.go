package routes

import (
	"fidelo-backend/handlers"
	"fidelo-backend/legacy"
	"fidelo-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cards legacy.CardStore) {
	userHandler := &handlers.UserHandler{DB: db, Cards: cards}
	adminHandler := &handlers.AdminHandler{DB: db}
	caisseHandler := &handlers.CaisseHandler{DB: db}
	cashbackHandler := &handlers.CashbackHandler{DB: db}
	voucherHandler := &handlers.VoucherHandler{DB: db}
	promotionHandler := &handlers.PromotionHandler{DB: db}
	shopHandler := &handlers.ShopHandler{DB: db}
	settingHandler := &handlers.SettingHandler{DB: db}

	api := router.Group("/api/v1")

	user := api.Group("/user")
	{
		user.POST("/check", userHandler.Check)
		user.POST("/validate-otp", userHandler.ValidateOtp)
		user.POST("/register-with-account", userHandler.RegisterWithAccount)
		user.POST("/register-without-account", userHandler.RegisterWithoutAccount)
		user.POST("/login", userHandler.Login)
		user.POST("/check-sponsoring-code", userHandler.CheckSponsoringCode)
		user.GET("/sponsoring-amount", userHandler.SponsoringAmount)
		user.GET("/list-all", middleware.AdminAuthMiddleware(), userHandler.List)

		user.GET("/cashback-amount", middleware.UserAuthMiddleware(), cashbackHandler.Amount)
		user.GET("/cashback-limit", middleware.UserAuthMiddleware(), cashbackHandler.Limit)
		user.PUT("/update-cashback-limit", middleware.UserAuthMiddleware(), cashbackHandler.UpdateLimit)
		user.GET("/transactions", middleware.UserAuthMiddleware(), cashbackHandler.Transactions)

		user.GET("/voucher", middleware.UserAuthMiddleware(), voucherHandler.GetActive)
		user.POST("/voucher-generate", middleware.UserAuthMiddleware(), voucherHandler.Generate)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/login", adminHandler.Login)
	}

	caisse := api.Group("/caisse")
	{
		caisse.POST("/create", middleware.AdminAuthMiddleware(), caisseHandler.Create)
		caisse.POST("/login", caisseHandler.Login)
		caisse.PUT("/update-password", middleware.AdminAuthMiddleware(), caisseHandler.UpdatePassword)
		caisse.DELETE("/delete", middleware.AdminAuthMiddleware(), caisseHandler.Delete)
		caisse.POST("/validate-ticket", middleware.CaisseAuthMiddleware(), caisseHandler.ValidateTicket)
		caisse.POST("/validate-voucher", middleware.CaisseAuthMiddleware(), voucherHandler.Validate)
	}

	promotion := api.Group("/promotion")
	{
		promotion.POST("/create", middleware.AdminAuthMiddleware(), promotionHandler.Create)
		promotion.GET("/list", promotionHandler.ListByShop)
		promotion.GET("/active", promotionHandler.ListActive)
		promotion.DELETE("/delete", middleware.AdminAuthMiddleware(), promotionHandler.Delete)
	}

	shop := api.Group("/shop")
	{
		shop.POST("/create", middleware.AdminAuthMiddleware(), shopHandler.Create)
		shop.GET("/list-all", shopHandler.ListAll)
	}

	setting := api.Group("/setting")
	{
		setting.PUT("/update-cashback", middleware.AdminAuthMiddleware(), settingHandler.UpdateCashbackAmount)
		setting.GET("/cashback-amount", settingHandler.CashbackAmount)
	}
}
