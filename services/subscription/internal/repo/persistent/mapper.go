package persistent

import (
	"monadtok/services/subscription/internal/entity"
	"monadtok/services/subscription/internal/model"
)

func ToDeploymentEntity(m *model.DeploymentModel) *entity.Deployment {
	if m == nil {
		return nil
	}

	return &entity.Deployment{
		ID:              m.ID,
		CreatorWallet:   m.CreatorWallet,
		TxHash:          m.TxHash,
		Name:            m.Name,
		Symbol:          m.Symbol,
		Price:           m.Price,
		MaxSupply:       m.MaxSupply,
		MaxPerWallet:    m.MaxPerWallet,
		ImageURL:        m.ImageURL,
		ContractAddress: m.ContractAddress,
		Status:          entity.DeploymentStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ToDeploymentModel(e *entity.Deployment) *model.DeploymentModel {
	if e == nil {
		return nil
	}

	return &model.DeploymentModel{
		ID:              e.ID,
		CreatorWallet:   e.CreatorWallet,
		TxHash:          e.TxHash,
		Name:            e.Name,
		Symbol:          e.Symbol,
		Price:           e.Price,
		MaxSupply:       e.MaxSupply,
		MaxPerWallet:    e.MaxPerWallet,
		ImageURL:        e.ImageURL,
		ContractAddress: e.ContractAddress,
		Status:          string(e.Status),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func ToProfileEntity(m *model.UserModel) *entity.Profile {
	if m == nil {
		return nil
	}

	return &entity.Profile{
		WalletAddress:               m.WalletAddress,
		Username:                    m.Username,
		SubscriptionContractAddress: m.SubscriptionContractAddress,
		SubscriptionName:            m.SubscriptionName,
		SubscriptionSymbol:          m.SubscriptionSymbol,
		SubscriptionPrice:           m.SubscriptionPrice,
		SubscriptionImageURL:        m.SubscriptionImageURL,
	}
}
