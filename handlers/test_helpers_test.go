package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"fidelo-backend/legacy"
	"fidelo-backend/middleware"
	"fidelo-backend/models"
	"fidelo-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// Limit to 1 open connection to prevent SQLite concurrent access issues
	// with in-memory databases.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	// Create tables using raw SQLite-compatible SQL instead of AutoMigrate,
	// because the GORM model tags use PostgreSQL-specific defaults like gen_random_uuid().
	if err := createSQLiteTables(testDB); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	// Delete in correct order to respect foreign keys
	testDB.Exec("DELETE FROM transaction_fidelity_cards")
	testDB.Exec("DELETE FROM vouchers")
	testDB.Exec("DELETE FROM sponsoring_wallets")
	testDB.Exec("DELETE FROM user_cashbacks")
	testDB.Exec("DELETE FROM cashbacks")
	testDB.Exec("DELETE FROM promotions")
	testDB.Exec("DELETE FROM caisses")
	testDB.Exec("DELETE FROM shops")
	testDB.Exec("DELETE FROM otps")
	testDB.Exec("DELETE FROM setting_sponsorings")
	testDB.Exec("DELETE FROM settings")
	testDB.Exec("DELETE FROM admins")
	testDB.Exec("DELETE FROM users")
	return testDB
}

func createSQLiteTables(db *gorm.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY,
			"first_name" TEXT NOT NULL,
			"last_name" TEXT NOT NULL,
			"phone" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"barcode" TEXT NOT NULL UNIQUE,
			"sponsoring_code" TEXT NOT NULL UNIQUE,
			"sponsor_id" TEXT,
			"birthday" DATETIME,
			"image_url" TEXT,
			"is_whatsapp" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_deleted_at ON "users"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_users_sponsor_id ON "users"("sponsor_id")`,

		`CREATE TABLE IF NOT EXISTS "admins" (
			"id" TEXT PRIMARY KEY,
			"email" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS "shops" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL,
			"address" TEXT,
			"phone" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shops_deleted_at ON "shops"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "caisses" (
			"id" TEXT PRIMARY KEY,
			"shop_id" TEXT NOT NULL,
			"first_name" TEXT NOT NULL,
			"last_name" TEXT NOT NULL,
			"phone" TEXT NOT NULL UNIQUE,
			"email" TEXT,
			"password" TEXT NOT NULL,
			"image_url" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_caisses_shop FOREIGN KEY ("shop_id") REFERENCES "shops"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_caisses_deleted_at ON "caisses"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_caisses_shop_id ON "caisses"("shop_id")`,

		`CREATE TABLE IF NOT EXISTS "cashbacks" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL UNIQUE,
			"amount" REAL DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_cashbacks_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
		)`,

		`CREATE TABLE IF NOT EXISTS "user_cashbacks" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL UNIQUE,
			"amount" REAL DEFAULT 5000,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_user_cashbacks_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
		)`,

		`CREATE TABLE IF NOT EXISTS "vouchers" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL UNIQUE,
			"caisse_id" TEXT,
			"amount" REAL NOT NULL DEFAULT 0,
			"expirate_date" TEXT,
			"ticket_date" TEXT,
			"ticket_number" TEXT,
			"ticket_amount" REAL,
			"ticket_cashback" REAL,
			"state" INTEGER NOT NULL DEFAULT 1,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_vouchers_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
		)`,

		`CREATE TABLE IF NOT EXISTS "transaction_fidelity_cards" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"caisse_id" TEXT NOT NULL,
			"payment_type" INTEGER NOT NULL DEFAULT 1,
			"ticket_date" TEXT NOT NULL,
			"ticket_number" TEXT NOT NULL,
			"ticket_amount" REAL NOT NULL,
			"ticket_cashback" REAL NOT NULL,
			"state" INTEGER NOT NULL DEFAULT 1,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_transactions_user FOREIGN KEY ("user_id") REFERENCES "users"("id"),
			CONSTRAINT fk_transactions_caisse FOREIGN KEY ("caisse_id") REFERENCES "caisses"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON "transaction_fidelity_cards"("user_id")`,

		`CREATE TABLE IF NOT EXISTS "sponsoring_wallets" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"amount" REAL DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_sponsoring_wallets_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sponsoring_wallets_user_id ON "sponsoring_wallets"("user_id")`,

		`CREATE TABLE IF NOT EXISTS "promotions" (
			"id" TEXT PRIMARY KEY,
			"shop_id" TEXT NOT NULL,
			"image_url" TEXT NOT NULL,
			"start_at" TEXT NOT NULL,
			"end_at" TEXT NOT NULL,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_promotions_shop FOREIGN KEY ("shop_id") REFERENCES "shops"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_promotions_deleted_at ON "promotions"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "settings" (
			"id" INTEGER PRIMARY KEY,
			"cashback_amount" REAL DEFAULT 0,
			"voucher_durate" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS "setting_sponsorings" (
			"id" INTEGER PRIMARY KEY,
			"godfather_amount" REAL DEFAULT 0,
			"godson_amount" REAL DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS "otps" (
			"id" TEXT PRIMARY KEY,
			"phone" TEXT NOT NULL,
			"otp_sms" TEXT NOT NULL,
			"is_otp_sms_used" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_otps_phone ON "otps"("phone")`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// fakeCardStore is an in-memory legacy.CardStore for tests.
type fakeCardStore struct {
	cards map[string]legacy.Cardholder
}

func (s *fakeCardStore) FindCardholder(phone string) (*legacy.Cardholder, error) {
	if card, ok := s.cards[phone]; ok {
		return &card, nil
	}
	return nil, legacy.ErrCardNotFound
}

// seedUser creates a user and returns it with a valid token.
func seedUser(db *gorm.DB, phone string) (models.User, string) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.DefaultCost)
	user := models.User{
		ID:             uuid.New(),
		FirstName:      "Jean",
		LastName:       "Mavoungou",
		Phone:          phone,
		Password:       string(hashed),
		Barcode:        uuid.NewString(),
		SponsoringCode: utils.GenerateSponsoringCode(),
	}
	db.Create(&user)
	token, _ := utils.GenerateToken(user.ID, utils.KindUser)
	return user, token
}

func seedAdmin(db *gorm.DB, email string) (models.Admin, string) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := models.Admin{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
	}
	db.Create(&admin)
	token, _ := utils.GenerateToken(admin.ID, utils.KindAdmin)
	return admin, token
}

func seedShop(db *gorm.DB, name string) models.Shop {
	shop := models.Shop{
		ID:      uuid.New(),
		Name:    name,
		Address: "12 avenue de la Paix",
		Phone:   "066000000",
	}
	db.Create(&shop)
	return shop
}

func seedCaisse(db *gorm.DB, shopID uuid.UUID, phone string) (models.Caisse, string) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.DefaultCost)
	caisse := models.Caisse{
		ID:        uuid.New(),
		ShopID:    shopID,
		FirstName: "Clarisse",
		LastName:  "Okemba",
		Phone:     phone,
		Password:  string(hashed),
	}
	db.Create(&caisse)
	token, _ := utils.GenerateToken(caisse.ID, utils.KindCaisse)
	return caisse, token
}

func seedCashback(db *gorm.DB, userID uuid.UUID, amount float64) models.Cashback {
	cashback := models.Cashback{ID: uuid.New(), UserID: userID, Amount: amount}
	db.Create(&cashback)
	return cashback
}

func seedUserCashback(db *gorm.DB, userID uuid.UUID, amount float64) models.UserCashback {
	userCashback := models.UserCashback{ID: uuid.New(), UserID: userID, Amount: amount}
	db.Create(&userCashback)
	return userCashback
}

func seedSetting(db *gorm.DB, cashbackAmount float64, voucherDurate int) models.Setting {
	setting := models.Setting{ID: models.SettingID, CashbackAmount: cashbackAmount, VoucherDurate: voucherDurate}
	db.Create(&setting)
	return setting
}

func seedSettingSponsoring(db *gorm.DB, godfather, godson float64) models.SettingSponsoring {
	sponsoring := models.SettingSponsoring{ID: models.SettingID, GodfatherAmount: godfather, GodsonAmount: godson}
	db.Create(&sponsoring)
	return sponsoring
}

func seedVoucher(db *gorm.DB, userID uuid.UUID, amount float64, state int) models.Voucher {
	voucher := models.Voucher{
		ID:           uuid.New(),
		UserID:       userID,
		Amount:       amount,
		ExpirateDate: "2099-12-31",
		State:        state,
	}
	db.Create(&voucher)
	return voucher
}

func setupUserRouter(db *gorm.DB, cards legacy.CardStore) *gin.Engine {
	r := gin.New()
	h := &UserHandler{DB: db, Cards: cards}
	cashbackHandler := &CashbackHandler{DB: db}
	voucherHandler := &VoucherHandler{DB: db}

	user := r.Group("/api/v1/user")
	user.POST("/check", h.Check)
	user.POST("/validate-otp", h.ValidateOtp)
	user.POST("/register-with-account", h.RegisterWithAccount)
	user.POST("/register-without-account", h.RegisterWithoutAccount)
	user.POST("/login", h.Login)
	user.POST("/check-sponsoring-code", h.CheckSponsoringCode)
	user.GET("/sponsoring-amount", h.SponsoringAmount)
	user.GET("/list-all", middleware.AdminAuthMiddleware(), h.List)
	user.GET("/cashback-amount", middleware.UserAuthMiddleware(), cashbackHandler.Amount)
	user.GET("/cashback-limit", middleware.UserAuthMiddleware(), cashbackHandler.Limit)
	user.PUT("/update-cashback-limit", middleware.UserAuthMiddleware(), cashbackHandler.UpdateLimit)
	user.GET("/transactions", middleware.UserAuthMiddleware(), cashbackHandler.Transactions)
	user.GET("/voucher", middleware.UserAuthMiddleware(), voucherHandler.GetActive)
	user.POST("/voucher-generate", middleware.UserAuthMiddleware(), voucherHandler.Generate)
	return r
}

func setupCaisseRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	h := &CaisseHandler{DB: db}
	voucherHandler := &VoucherHandler{DB: db}

	caisse := r.Group("/api/v1/caisse")
	caisse.POST("/create", middleware.AdminAuthMiddleware(), h.Create)
	caisse.POST("/login", h.Login)
	caisse.PUT("/update-password", middleware.AdminAuthMiddleware(), h.UpdatePassword)
	caisse.DELETE("/delete", middleware.AdminAuthMiddleware(), h.Delete)
	caisse.POST("/validate-ticket", middleware.CaisseAuthMiddleware(), h.ValidateTicket)
	caisse.POST("/validate-voucher", middleware.CaisseAuthMiddleware(), voucherHandler.Validate)
	return r
}

func setupAdminRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	h := &AdminHandler{DB: db}
	r.POST("/api/v1/admin/login", h.Login)
	return r
}

func setupPromotionRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	h := &PromotionHandler{DB: db}
	promotion := r.Group("/api/v1/promotion")
	promotion.POST("/create", middleware.AdminAuthMiddleware(), h.Create)
	promotion.GET("/list", h.ListByShop)
	promotion.GET("/active", h.ListActive)
	promotion.DELETE("/delete", middleware.AdminAuthMiddleware(), h.Delete)
	return r
}

func setupShopRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	h := &ShopHandler{DB: db}
	shop := r.Group("/api/v1/shop")
	shop.POST("/create", middleware.AdminAuthMiddleware(), h.Create)
	shop.GET("/list-all", h.ListAll)
	return r
}

func setupSettingRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	h := &SettingHandler{DB: db}
	setting := r.Group("/api/v1/setting")
	setting.PUT("/update-cashback", middleware.AdminAuthMiddleware(), h.UpdateCashbackAmount)
	setting.GET("/cashback-amount", h.CashbackAmount)
	return r
}

func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}
