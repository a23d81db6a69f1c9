package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FirstName      string     `gorm:"not null" json:"first_name"`
	LastName       string     `gorm:"not null" json:"last_name"`
	Phone          string     `gorm:"uniqueIndex;not null" json:"phone"`
	Password       string     `gorm:"not null" json:"-"`
	Barcode        string     `gorm:"uniqueIndex;not null" json:"barcode"`
	SponsoringCode string     `gorm:"uniqueIndex;not null" json:"sponsoring_code"`
	SponsorID      *uuid.UUID `gorm:"type:uuid;index" json:"sponsor_id,omitempty"`
	Birthday       *time.Time `json:"birthday,omitempty"`
	ImageURL       string     `gorm:"column:image_url" json:"image_url"`
	IsWhatsapp     bool       `gorm:"default:false" json:"is_whatsapp"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
