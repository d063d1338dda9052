package persistent

import (
	"monadtok/services/reconciler/internal/entity"
	"monadtok/services/reconciler/internal/model"
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
		ImageURL:        m.ImageURL,
		ContractAddress: m.ContractAddress,
		Status:          entity.DeploymentStatus(m.Status),
		CreatedAt:       m.CreatedAt,
	}
}

func ToProfileEntity(m *model.UserModel) *entity.Profile {
	if m == nil {
		return nil
	}

	return &entity.Profile{
		WalletAddress:               m.WalletAddress,
		SubscriptionContractAddress: m.SubscriptionContractAddress,
		SubscriptionName:            m.SubscriptionName,
		SubscriptionSymbol:          m.SubscriptionSymbol,
		SubscriptionPrice:           m.SubscriptionPrice,
		SubscriptionImageURL:        m.SubscriptionImageURL,
	}
}
