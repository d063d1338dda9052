package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeploymentStatus string

const (
	DeploymentPending    DeploymentStatus = "pending"
	DeploymentConfirmed  DeploymentStatus = "confirmed"
	DeploymentReconciled DeploymentStatus = "reconciled"
	DeploymentFailed     DeploymentStatus = "failed"
)

// Deployment records one submitted subscription-contract deployment. It is
// written as soon as the transaction is on its way so that a crash between
// confirmation and profile persistence leaves a trail the reconciler can
// repair from.
type Deployment struct {
	ID              string           `gorm:"type:uuid;primary_key" json:"id"`
	CreatorWallet   string           `gorm:"type:varchar(42);not null;index" json:"creator_wallet"`
	TxHash          string           `gorm:"type:varchar(66);not null;uniqueIndex" json:"tx_hash"`
	Name            string           `gorm:"not null" json:"name"`
	Symbol          string           `gorm:"type:varchar(10);not null" json:"symbol"`
	Price           float64          `gorm:"not null" json:"price"`
	MaxSupply       uint64           `json:"max_supply"`
	MaxPerWallet    uint64           `json:"max_per_wallet"`
	ImageURL        string           `json:"image_url"`
	ContractAddress string           `gorm:"type:varchar(42)" json:"contract_address,omitempty"`
	Status          DeploymentStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (d *Deployment) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

func (d *Deployment) BeforeSave(tx *gorm.DB) error {
	d.CreatorWallet = strings.ToLower(d.CreatorWallet)
	d.ContractAddress = strings.ToLower(d.ContractAddress)
	return nil
}
