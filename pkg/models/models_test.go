package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideo_BeforeCreate(t *testing.T) {
	video := &Video{
		VideoURL:      "https://cdn.example.com/v.mp4",
		CreatorWallet: "0xABC0000000000000000000000000000000000001",
	}

	// BeforeCreate should set ID if empty
	err := video.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, video.ID)
}

func TestVideo_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	video := &Video{
		ID:       existingID,
		VideoURL: "https://cdn.example.com/v.mp4",
	}

	err := video.BeforeCreate(nil)
	assert.NoError(t, err)
	// ID should remain unchanged if already set
	assert.Equal(t, existingID, video.ID)
}

func TestVideo_BeforeSave_ZeroesPriceWhenNotExclusive(t *testing.T) {
	video := &Video{
		VideoURL:      "https://cdn.example.com/v.mp4",
		CreatorWallet: "0xABC0000000000000000000000000000000000001",
		IsExclusive:   false,
		Price:         5,
	}

	err := video.BeforeSave(nil)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), video.Price)
}

func TestVideo_BeforeSave_KeepsPriceWhenExclusive(t *testing.T) {
	video := &Video{
		VideoURL:    "https://cdn.example.com/v.mp4",
		IsExclusive: true,
		Price:       2.5,
	}

	err := video.BeforeSave(nil)
	assert.NoError(t, err)
	assert.Equal(t, 2.5, video.Price)
}

func TestVideo_BeforeSave_LowercasesWallet(t *testing.T) {
	video := &Video{
		CreatorWallet: "0xABCDEF0000000000000000000000000000000001",
	}

	err := video.BeforeSave(nil)
	assert.NoError(t, err)
	assert.Equal(t, "0xabcdef0000000000000000000000000000000001", video.CreatorWallet)
}

func TestVideo_BeforeSave_TruncatesDescription(t *testing.T) {
	video := &Video{
		Description: strings.Repeat("a", MaxDescriptionLength+50),
	}

	err := video.BeforeSave(nil)
	assert.NoError(t, err)
	assert.Len(t, video.Description, MaxDescriptionLength)
}

func TestUser_BeforeSave(t *testing.T) {
	user := &User{
		WalletAddress:               "0xABC0000000000000000000000000000000000001",
		SubscriptionContractAddress: "0xDEF0000000000000000000000000000000000002",
	}

	err := user.BeforeSave(nil)
	assert.NoError(t, err)
	assert.Equal(t, "0xabc0000000000000000000000000000000000001", user.WalletAddress)
	assert.Equal(t, "0xdef0000000000000000000000000000000000002", user.SubscriptionContractAddress)
}

func TestUser_HasSubscriptionContract(t *testing.T) {
	user := &User{WalletAddress: "0xabc"}
	assert.False(t, user.HasSubscriptionContract())

	user.SubscriptionContractAddress = "0xdef"
	assert.True(t, user.HasSubscriptionContract())
}

func TestUnlock_BeforeCreate(t *testing.T) {
	unlock := &Unlock{
		VideoID:     "video-123",
		BuyerWallet: "0xABC0000000000000000000000000000000000001",
		TxHash:      "0xhash",
	}

	err := unlock.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, unlock.ID)
	assert.Equal(t, "0xabc0000000000000000000000000000000000001", unlock.BuyerWallet)
}

func TestDeployment_BeforeCreate(t *testing.T) {
	deployment := &Deployment{
		CreatorWallet: "0xabc0000000000000000000000000000000000001",
		TxHash:        "0xhash",
		Name:          "Ali VIP",
		Symbol:        "ALIVIP",
		Price:         1,
	}

	err := deployment.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, deployment.ID)
}

func TestDeploymentStatus_Constants(t *testing.T) {
	// Test that status constants are defined
	assert.Equal(t, DeploymentStatus("pending"), DeploymentPending)
	assert.Equal(t, DeploymentStatus("confirmed"), DeploymentConfirmed)
	assert.Equal(t, DeploymentStatus("reconciled"), DeploymentReconciled)
	assert.Equal(t, DeploymentStatus("failed"), DeploymentFailed)
}
