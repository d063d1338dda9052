package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnlockModel struct {
	ID          string `gorm:"type:uuid;primary_key"`
	VideoID     string `gorm:"type:uuid;not null;uniqueIndex:idx_unlocks_video_buyer"`
	BuyerWallet string `gorm:"type:varchar(42);not null;uniqueIndex:idx_unlocks_video_buyer"`
	TxHash      string `gorm:"type:varchar(66);not null"`
	AmountWei   string `gorm:"type:numeric(78,0)"`
	CreatedAt   time.Time
}

func (UnlockModel) TableName() string {
	return "unlocks"
}

func (u *UnlockModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.BuyerWallet = strings.ToLower(u.BuyerWallet)
	return nil
}

type VideoModel struct {
	ID            string `gorm:"type:uuid;primary_key"`
	CreatorWallet string
	IsExclusive   bool
	Price         float64
	DeletedAt     gorm.DeletedAt
}

func (VideoModel) TableName() string {
	return "videos"
}

type UserModel struct {
	WalletAddress               string `gorm:"type:varchar(42);primary_key"`
	SubscriptionContractAddress string
}

func (UserModel) TableName() string {
	return "users"
}
