package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Otp stores a one-time SMS verification code for a phone number.
type Otp struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Phone        string    `gorm:"not null;index" json:"phone"`
	OtpSms       string    `gorm:"not null" json:"-"`
	IsOtpSmsUsed bool      `gorm:"default:false" json:"is_otp_sms_used"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (o *Otp) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
