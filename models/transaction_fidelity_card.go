package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFidelityCard is the append-only ledger of purchase tickets
// validated against a loyalty card at a caisse.
type TransactionFidelityCard struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User           User      `gorm:"foreignKey:UserID" json:"-"`
	CaisseID       uuid.UUID `gorm:"type:uuid;not null" json:"caisse_id"`
	Caisse         Caisse    `gorm:"foreignKey:CaisseID" json:"-"`
	PaymentType    int       `gorm:"not null;default:1" json:"payment_type"`
	TicketDate     string    `gorm:"not null" json:"ticket_date"`
	TicketNumber   string    `gorm:"not null" json:"ticket_number"`
	TicketAmount   float64   `gorm:"not null" json:"ticket_amount"`
	TicketCashback float64   `gorm:"not null" json:"ticket_cashback"`
	State          int       `gorm:"not null;default:1" json:"state"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (t *TransactionFidelityCard) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
