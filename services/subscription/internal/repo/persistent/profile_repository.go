package persistent

import (
	"strings"

	"monadtok/services/subscription/internal/entity"
	"monadtok/services/subscription/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	GetByWallet(wallet string) (*entity.Profile, error)
	GetByContract(contractAddress string) (*entity.Profile, error)
	UpsertSubscription(profile *entity.Profile) error
	GetUsernames(wallets []string) (map[string]string, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByWallet(wallet string) (*entity.Profile, error) {
	var userModel model.UserModel
	if err := r.db.Where("wallet_address = ?", strings.ToLower(wallet)).First(&userModel).Error; err != nil {
		return nil, err
	}
	return ToProfileEntity(&userModel), nil
}

func (r *profileRepository) GetByContract(contractAddress string) (*entity.Profile, error) {
	var userModel model.UserModel
	if err := r.db.Where("subscription_contract_address = ?", strings.ToLower(contractAddress)).First(&userModel).Error; err != nil {
		return nil, err
	}
	return ToProfileEntity(&userModel), nil
}

// UpsertSubscription writes all subscription fields together. A redeploy
// replaces the previous contract reference wholesale.
func (r *profileRepository) UpsertSubscription(profile *entity.Profile) error {
	userModel := &model.UserModel{
		WalletAddress:               profile.WalletAddress,
		SubscriptionContractAddress: profile.SubscriptionContractAddress,
		SubscriptionName:            profile.SubscriptionName,
		SubscriptionSymbol:          profile.SubscriptionSymbol,
		SubscriptionPrice:           profile.SubscriptionPrice,
		SubscriptionImageURL:        profile.SubscriptionImageURL,
	}

	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "wallet_address"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscription_contract_address",
			"subscription_name",
			"subscription_symbol",
			"subscription_price",
			"subscription_image_url",
			"updated_at",
		}),
	}).Create(userModel).Error
}

func (r *profileRepository) GetUsernames(wallets []string) (map[string]string, error) {
	if len(wallets) == 0 {
		return map[string]string{}, nil
	}

	lowered := make([]string, len(wallets))
	for i, w := range wallets {
		lowered[i] = strings.ToLower(w)
	}

	var userModels []model.UserModel
	if err := r.db.Select("wallet_address", "username").
		Where("wallet_address IN ?", lowered).
		Find(&userModels).Error; err != nil {
		return nil, err
	}

	names := make(map[string]string, len(userModels))
	for _, u := range userModels {
		names[u.WalletAddress] = u.Username
	}
	return names, nil
}
