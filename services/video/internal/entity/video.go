package entity

import "time"

type Video struct {
	ID            string    `json:"id"`
	VideoURL      string    `json:"video_url"`
	StorageKey    string    `json:"-"`
	Description   string    `json:"description"`
	CreatorWallet string    `json:"creator_wallet"`
	IsExclusive   bool      `json:"is_exclusive"`
	Price         float64   `json:"price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
