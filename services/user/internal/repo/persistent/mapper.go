package persistent

import (
	"monadtok/services/user/internal/entity"
	"monadtok/services/user/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		WalletAddress:               m.WalletAddress,
		Username:                    m.Username,
		AvatarURL:                   m.AvatarURL,
		SubscriptionContractAddress: m.SubscriptionContractAddress,
		SubscriptionName:            m.SubscriptionName,
		SubscriptionSymbol:          m.SubscriptionSymbol,
		SubscriptionPrice:           m.SubscriptionPrice,
		SubscriptionImageURL:        m.SubscriptionImageURL,
		CreatedAt:                   m.CreatedAt,
		UpdatedAt:                   m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		WalletAddress:               e.WalletAddress,
		Username:                    e.Username,
		AvatarURL:                   e.AvatarURL,
		SubscriptionContractAddress: e.SubscriptionContractAddress,
		SubscriptionName:            e.SubscriptionName,
		SubscriptionSymbol:          e.SubscriptionSymbol,
		SubscriptionPrice:           e.SubscriptionPrice,
		SubscriptionImageURL:        e.SubscriptionImageURL,
		CreatedAt:                   e.CreatedAt,
		UpdatedAt:                   e.UpdatedAt,
	}
}
