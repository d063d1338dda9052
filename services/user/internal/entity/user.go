package entity

import "time"

type User struct {
	WalletAddress string `json:"wallet_address"`
	Username      string `json:"username"`
	AvatarURL     string `json:"avatar_url"`

	SubscriptionContractAddress string  `json:"subscription_contract_address,omitempty"`
	SubscriptionName            string  `json:"subscription_name,omitempty"`
	SubscriptionSymbol          string  `json:"subscription_symbol,omitempty"`
	SubscriptionPrice           float64 `json:"subscription_price,omitempty"`
	SubscriptionImageURL        string  `json:"subscription_image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasSubscriptionContract reports whether the creator completed a
// subscription deployment.
func (u *User) HasSubscriptionContract() bool {
	return u.SubscriptionContractAddress != ""
}
