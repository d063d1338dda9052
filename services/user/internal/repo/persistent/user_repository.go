package persistent

import (
	"strings"

	"monadtok/services/user/internal/entity"
	"monadtok/services/user/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	GetByWallet(wallet string) (*entity.User, error)
	Upsert(user *entity.User) error
	UpdateProfile(wallet string, username, avatarURL *string) (*entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByWallet(wallet string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("wallet_address = ?", strings.ToLower(wallet)).First(&userModel).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

// Upsert inserts the user if the wallet is unseen and updates it otherwise.
func (r *userRepository) Upsert(user *entity.User) error {
	userModel := ToUserModel(user)
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		UpdateAll: true,
	}).Create(userModel).Error
	if err != nil {
		return err
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) UpdateProfile(wallet string, username, avatarURL *string) (*entity.User, error) {
	var userModel model.UserModel
	wallet = strings.ToLower(wallet)

	if err := r.db.Where("wallet_address = ?", wallet).First(&userModel).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		userModel = model.UserModel{WalletAddress: wallet}
	}

	if username != nil {
		userModel.Username = *username
	}
	if avatarURL != nil {
		userModel.AvatarURL = *avatarURL
	}

	if err := r.db.Save(&userModel).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}
