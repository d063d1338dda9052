package persistent

import (
	"strings"

	"monadtok/services/unlock/internal/entity"
	"monadtok/services/unlock/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnlockRepository interface {
	Create(unlock *entity.Unlock) error
	Exists(videoID, buyerWallet string) (bool, error)
	GetVideo(videoID string) (*entity.Video, error)
	GetCreator(wallet string) (*entity.Creator, error)
}

type unlockRepository struct {
	db *gorm.DB
}

func NewUnlockRepository(db *gorm.DB) UnlockRepository {
	return &unlockRepository{db: db}
}

// Create inserts the unlock receipt. A duplicate (video, buyer) pair is a
// no-op: paying twice must not fail the second confirmation.
func (r *unlockRepository) Create(unlock *entity.Unlock) error {
	unlockModel := &model.UnlockModel{
		ID:          unlock.ID,
		VideoID:     unlock.VideoID,
		BuyerWallet: unlock.BuyerWallet,
		TxHash:      unlock.TxHash,
		AmountWei:   unlock.AmountWei,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}, {Name: "buyer_wallet"}},
		DoNothing: true,
	}).Create(unlockModel).Error
	if err != nil {
		return err
	}

	unlock.ID = unlockModel.ID
	unlock.BuyerWallet = unlockModel.BuyerWallet
	unlock.CreatedAt = unlockModel.CreatedAt
	return nil
}

func (r *unlockRepository) Exists(videoID, buyerWallet string) (bool, error) {
	var count int64
	err := r.db.Model(&model.UnlockModel{}).
		Where("video_id = ? AND buyer_wallet = ?", videoID, strings.ToLower(buyerWallet)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *unlockRepository) GetVideo(videoID string) (*entity.Video, error) {
	var videoModel model.VideoModel
	if err := r.db.Where("id = ?", videoID).First(&videoModel).Error; err != nil {
		return nil, err
	}
	return &entity.Video{
		ID:            videoModel.ID,
		CreatorWallet: videoModel.CreatorWallet,
		IsExclusive:   videoModel.IsExclusive,
		Price:         videoModel.Price,
	}, nil
}

func (r *unlockRepository) GetCreator(wallet string) (*entity.Creator, error) {
	var userModel model.UserModel
	if err := r.db.Where("wallet_address = ?", strings.ToLower(wallet)).First(&userModel).Error; err != nil {
		return nil, err
	}
	return &entity.Creator{
		WalletAddress:               userModel.WalletAddress,
		SubscriptionContractAddress: userModel.SubscriptionContractAddress,
	}, nil
}
