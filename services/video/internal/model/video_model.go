package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxDescriptionLength = 200

type VideoModel struct {
	ID            string `gorm:"type:uuid;primary_key"`
	VideoURL      string `gorm:"not null"`
	StorageKey    string `gorm:"not null"`
	Description   string `gorm:"type:varchar(200)"`
	CreatorWallet string `gorm:"type:varchar(42);not null;index"`
	IsExclusive   bool   `gorm:"default:false"`
	Price         float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (VideoModel) TableName() string {
	return "videos"
}

func (v *VideoModel) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave keeps the exclusivity invariant: a price is only meaningful on
// exclusive videos, so it is zeroed at write time otherwise.
func (v *VideoModel) BeforeSave(tx *gorm.DB) error {
	v.CreatorWallet = strings.ToLower(v.CreatorWallet)
	if !v.IsExclusive {
		v.Price = 0
	}
	if len(v.Description) > MaxDescriptionLength {
		v.Description = v.Description[:MaxDescriptionLength]
	}
	return nil
}
