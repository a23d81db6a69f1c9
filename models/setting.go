package models

import "time"

// SettingID is the primary key of the singleton settings rows.
const SettingID = 1

// Setting holds the global cashback configuration: the accrual amount per
// validated ticket and the voucher lifetime in days.
type Setting struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CashbackAmount float64   `gorm:"default:0" json:"cashback_amount"`
	VoucherDurate  int       `gorm:"default:0" json:"voucher_durate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SettingSponsoring holds the referral bonus amounts: the credit granted to a
// referred user (godson) and to the referring user (godfather).
type SettingSponsoring struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	GodfatherAmount float64   `gorm:"default:0" json:"godfather_amount"`
	GodsonAmount    float64   `gorm:"default:0" json:"godson_amount"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
