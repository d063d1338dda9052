package entity

import "time"

// Unlock is a durable receipt that a buyer paid to view one exclusive video.
type Unlock struct {
	ID          string    `json:"id"`
	VideoID     string    `json:"video_id"`
	BuyerWallet string    `json:"buyer_wallet"`
	TxHash      string    `json:"tx_hash"`
	AmountWei   string    `json:"amount_wei"`
	CreatedAt   time.Time `json:"created_at"`
}

// Video is the slice of the video record this service reads.
type Video struct {
	ID            string  `json:"id"`
	CreatorWallet string  `json:"creator_wallet"`
	IsExclusive   bool    `json:"is_exclusive"`
	Price         float64 `json:"price"`
}

// Creator is the slice of the user record used to resolve the payment
// recipient.
type Creator struct {
	WalletAddress               string `json:"wallet_address"`
	SubscriptionContractAddress string `json:"subscription_contract_address"`
}
