package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	WalletAddress string    `gorm:"type:varchar(42);primary_key" json:"wallet_address"`
	Username      string    `json:"username"`
	AvatarURL     string    `json:"avatar_url"`

	// Subscription fields are co-set: either all empty or all populated by a
	// completed deployment. A redeploy replaces them wholesale.
	SubscriptionContractAddress string  `gorm:"type:varchar(42)" json:"subscription_contract_address,omitempty"`
	SubscriptionName            string  `json:"subscription_name,omitempty"`
	SubscriptionSymbol          string  `json:"subscription_symbol,omitempty"`
	SubscriptionPrice           float64 `json:"subscription_price,omitempty"`
	SubscriptionImageURL        string  `json:"subscription_image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.WalletAddress = strings.ToLower(u.WalletAddress)
	u.SubscriptionContractAddress = strings.ToLower(u.SubscriptionContractAddress)
	return nil
}

// HasSubscriptionContract reports whether this creator has completed a
// subscription deployment.
func (u *User) HasSubscriptionContract() bool {
	return u.SubscriptionContractAddress != ""
}
