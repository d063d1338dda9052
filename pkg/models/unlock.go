package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unlock is a durable receipt that a buyer paid to view one exclusive video.
// Keyed by (video, buyer) so a reload or a second device still sees the
// content as unlocked.
type Unlock struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	VideoID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_unlocks_video_buyer" json:"video_id"`
	BuyerWallet string    `gorm:"type:varchar(42);not null;uniqueIndex:idx_unlocks_video_buyer" json:"buyer_wallet"`
	TxHash      string    `gorm:"type:varchar(66);not null" json:"tx_hash"`
	AmountWei   string    `gorm:"type:numeric(78,0)" json:"amount_wei"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *Unlock) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.BuyerWallet = strings.ToLower(u.BuyerWallet)
	return nil
}
