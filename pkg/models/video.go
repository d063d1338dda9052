package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxDescriptionLength = 200

type Video struct {
	ID            string         `gorm:"type:uuid;primary_key" json:"id"`
	VideoURL      string         `gorm:"not null" json:"video_url"`
	StorageKey    string         `gorm:"not null" json:"-"`
	Description   string         `gorm:"type:varchar(200)" json:"description"`
	CreatorWallet string         `gorm:"type:varchar(42);not null;index" json:"creator_wallet"`
	IsExclusive   bool           `gorm:"default:false" json:"is_exclusive"`
	Price         float64        `gorm:"default:0" json:"price"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave keeps the exclusivity invariant: a price is only meaningful on
// exclusive videos, so it is zeroed at write time otherwise. Wallets persist
// in their lower-case canonical form.
func (v *Video) BeforeSave(tx *gorm.DB) error {
	v.CreatorWallet = strings.ToLower(v.CreatorWallet)
	if !v.IsExclusive {
		v.Price = 0
	}
	if len(v.Description) > MaxDescriptionLength {
		v.Description = v.Description[:MaxDescriptionLength]
	}
	return nil
}
