package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VoucherStateActive   = 1
	VoucherStateRedeemed = 2
)

// Voucher is a redeemable purchase voucher generated from accumulated cashback.
// A user has at most one voucher row; the ticket fields are populated only once
// the voucher is redeemed at a caisse.
type Voucher struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User           User       `gorm:"foreignKey:UserID" json:"-"`
	CaisseID       *uuid.UUID `gorm:"type:uuid" json:"caisse_id,omitempty"`
	Amount         float64    `gorm:"not null;default:0" json:"amount"`
	ExpirateDate   string     `json:"expirate_date"`
	TicketDate     string     `json:"ticket_date,omitempty"`
	TicketNumber   string     `json:"ticket_number,omitempty"`
	TicketAmount   float64    `json:"ticket_amount,omitempty"`
	TicketCashback float64    `json:"ticket_cashback,omitempty"`
	State          int        `gorm:"not null;default:1" json:"state"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (v *Voucher) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
