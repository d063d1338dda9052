package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type DeploymentModel struct {
	ID              string `gorm:"type:uuid;primary_key"`
	CreatorWallet   string `gorm:"type:varchar(42);not null;index"`
	TxHash          string `gorm:"type:varchar(66);not null;uniqueIndex"`
	Name            string `gorm:"not null"`
	Symbol          string `gorm:"not null"`
	Price           float64
	MaxSupply       uint64
	MaxPerWallet    uint64
	ImageURL        string
	ContractAddress string `gorm:"type:varchar(42)"`
	Status          string `gorm:"type:varchar(20);not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DeploymentModel) TableName() string {
	return "deployments"
}

func (d *DeploymentModel) BeforeSave(tx *gorm.DB) error {
	d.CreatorWallet = strings.ToLower(d.CreatorWallet)
	d.TxHash = strings.ToLower(d.TxHash)
	d.ContractAddress = strings.ToLower(d.ContractAddress)
	return nil
}
