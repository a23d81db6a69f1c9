package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fidelo-backend/models"
)

func TestSettingUpdateCashbackCreatesRow(t *testing.T) {
	db := freshDB()
	router := setupSettingRouter(db)
	_, token := seedAdmin(db, "admin@fidelo.com")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/v1/setting/update-cashback", map[string]interface{}{
		"amount": 150,
	}, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var setting models.Setting
	if err := db.First(&setting, models.SettingID).Error; err != nil {
		t.Fatalf("settings row not created: %v", err)
	}
	if setting.CashbackAmount != 150 {
		t.Errorf("expected cashback amount 150, got %v", setting.CashbackAmount)
	}
}

func TestSettingUpdateCashbackUpdatesExistingRow(t *testing.T) {
	db := freshDB()
	router := setupSettingRouter(db)
	_, token := seedAdmin(db, "admin@fidelo.com")
	seedSetting(db, 100, 30)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/v1/setting/update-cashback", map[string]interface{}{
		"amount": 250,
	}, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["message"] != "Le montant du cashback a été mis à jour avec succès." {
		t.Errorf("unexpected message: %v", resp["message"])
	}

	var setting models.Setting
	db.First(&setting, models.SettingID)
	if setting.CashbackAmount != 250 {
		t.Errorf("expected cashback amount 250, got %v", setting.CashbackAmount)
	}
	if setting.VoucherDurate != 30 {
		t.Errorf("voucher duration should be untouched, got %d", setting.VoucherDurate)
	}
}

func TestSettingUpdateCashbackMissingAmount(t *testing.T) {
	db := freshDB()
	router := setupSettingRouter(db)
	_, token := seedAdmin(db, "admin@fidelo.com")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/v1/setting/update-cashback", map[string]interface{}{}, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without an amount, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp["message"] != "Veuillez fournir le montant du cashback." {
		t.Errorf("unexpected message: %v", resp["message"])
	}
}

func TestSettingUpdateCashbackRequiresAdmin(t *testing.T) {
	db := freshDB()
	router := setupSettingRouter(db)
	_, userToken := seedUser(db, "076121212")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/v1/setting/update-cashback", map[string]interface{}{
		"amount": 150,
	}, userToken))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a user token, got %d", w.Code)
	}
}

func TestSettingCashbackAmount(t *testing.T) {
	db := freshDB()
	router := setupSettingRouter(db)
	seedSetting(db, 125, 30)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/v1/setting/cashback-amount", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp["amount"].(float64) != 125 {
		t.Errorf("expected 125, got %v", resp["amount"])
	}
}

func TestSettingCashbackAmountDefaultsToZero(t *testing.T) {
	db := freshDB()
	router := setupSettingRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/v1/setting/cashback-amount", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp["amount"].(float64) != 0 {
		t.Errorf("expected 0 when no settings row exists, got %v", resp["amount"])
	}
}
