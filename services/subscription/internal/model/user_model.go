package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserModel struct {
	WalletAddress string `gorm:"type:varchar(42);primary_key"`
	Username      string
	AvatarURL     string

	SubscriptionContractAddress string `gorm:"type:varchar(42)"`
	SubscriptionName            string
	SubscriptionSymbol          string
	SubscriptionPrice           float64
	SubscriptionImageURL        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeSave(tx *gorm.DB) error {
	u.WalletAddress = strings.ToLower(u.WalletAddress)
	u.SubscriptionContractAddress = strings.ToLower(u.SubscriptionContractAddress)
	return nil
}
