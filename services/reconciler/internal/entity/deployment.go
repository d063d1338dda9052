package entity

import "time"

type DeploymentStatus string

const (
	DeploymentPending    DeploymentStatus = "pending"
	DeploymentConfirmed  DeploymentStatus = "confirmed"
	DeploymentReconciled DeploymentStatus = "reconciled"
	DeploymentFailed     DeploymentStatus = "failed"
)

// Deployment is one submitted contract deployment as the repair worker sees
// it: enough to finish the confirmation and profile write the deploy flow
// may have dropped.
type Deployment struct {
	ID              string           `json:"id"`
	CreatorWallet   string           `json:"creator_wallet"`
	TxHash          string           `json:"tx_hash"`
	Name            string           `json:"name"`
	Symbol          string           `json:"symbol"`
	Price           float64          `json:"price"`
	ImageURL        string           `json:"image_url"`
	ContractAddress string           `json:"contract_address,omitempty"`
	Status          DeploymentStatus `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Profile is the slice of the user record the worker repairs.
type Profile struct {
	WalletAddress               string  `json:"wallet_address"`
	SubscriptionContractAddress string  `json:"subscription_contract_address"`
	SubscriptionName            string  `json:"subscription_name"`
	SubscriptionSymbol          string  `json:"subscription_symbol"`
	SubscriptionPrice           float64 `json:"subscription_price"`
	SubscriptionImageURL        string  `json:"subscription_image_url"`
}
