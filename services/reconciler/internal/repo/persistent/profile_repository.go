package persistent

import (
	"strings"

	"monadtok/services/reconciler/internal/entity"
	"monadtok/services/reconciler/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	GetByWallet(wallet string) (*entity.Profile, error)
	UpsertSubscription(profile *entity.Profile) error
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

// UpsertSubscription writes all subscription fields together, matching the
// replace semantics of the deploy flow's saving step.
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
