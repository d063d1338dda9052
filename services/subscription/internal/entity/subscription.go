package entity

import "time"

type DeploymentStatus string

const (
	DeploymentPending    DeploymentStatus = "pending"
	DeploymentConfirmed  DeploymentStatus = "confirmed"
	DeploymentReconciled DeploymentStatus = "reconciled"
	DeploymentFailed     DeploymentStatus = "failed"
)

// Deployment is the durable record of one contract-deployment attempt. It is
// written as soon as the transaction is submitted so a crash between
// submission and profile save can be repaired later.
type Deployment struct {
	ID              string           `json:"id"`
	CreatorWallet   string           `json:"creator_wallet"`
	TxHash          string           `json:"tx_hash"`
	Name            string           `json:"name"`
	Symbol          string           `json:"symbol"`
	Price           float64          `json:"price"`
	MaxSupply       uint64           `json:"max_supply"`
	MaxPerWallet    uint64           `json:"max_per_wallet"`
	ImageURL        string           `json:"image_url"`
	ContractAddress string           `json:"contract_address,omitempty"`
	Status          DeploymentStatus `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Profile is the slice of the user record this service reads and writes.
type Profile struct {
	WalletAddress               string  `json:"wallet_address"`
	Username                    string  `json:"username"`
	SubscriptionContractAddress string  `json:"subscription_contract_address,omitempty"`
	SubscriptionName            string  `json:"subscription_name,omitempty"`
	SubscriptionSymbol          string  `json:"subscription_symbol,omitempty"`
	SubscriptionPrice           float64 `json:"subscription_price,omitempty"`
	SubscriptionImageURL        string  `json:"subscription_image_url,omitempty"`
}

// SubscriptionDetails is the on-chain view of one creator token contract.
type SubscriptionDetails struct {
	ContractAddress string  `json:"contract_address"`
	Name            string  `json:"name"`
	Symbol          string  `json:"symbol"`
	Price           float64 `json:"price"`
	TotalSupply     uint64  `json:"total_supply"`
	MaxSupply       uint64  `json:"max_supply"`
	MaxPerWallet    uint64  `json:"max_per_wallet"`

	// Viewer-specific fields, only populated for authenticated requests.
	MintedByViewer   uint64 `json:"minted_by_viewer"`
	ViewerSubscribed bool   `json:"viewer_subscribed"`
}

type Subscriber struct {
	TokenID     uint64 `json:"token_id"`
	Wallet      string `json:"wallet"`
	DisplayName string `json:"display_name"`
}

type Earnings struct {
	ContractAddress string       `json:"contract_address"`
	Balance         float64      `json:"balance"`
	TotalMinted     uint64       `json:"total_minted"`
	LifetimeRevenue float64      `json:"lifetime_revenue"`
	Subscribers     []Subscriber `json:"subscribers"`
}

type DeployResult struct {
	TxHash          string `json:"tx_hash"`
	ContractAddress string `json:"contract_address"`
}

type WithdrawResult struct {
	TxHash  string  `json:"tx_hash"`
	Balance float64 `json:"balance"`
}
