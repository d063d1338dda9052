package persistent

import (
	"strings"

	"monadtok/services/video/internal/entity"
	"monadtok/services/video/internal/model"

	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(video *entity.Video) error
	GetByID(id string) (*entity.Video, error)
	List(limit, offset int) ([]*entity.Video, error)
	GetByCreator(wallet string, limit, offset int) ([]*entity.Video, error)
	Delete(id string) error
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(video *entity.Video) error {
	videoModel := ToVideoModel(video)
	if err := r.db.Create(videoModel).Error; err != nil {
		return err
	}
	*video = *ToVideoEntity(videoModel)
	return nil
}

func (r *videoRepository) GetByID(id string) (*entity.Video, error) {
	var videoModel model.VideoModel
	if err := r.db.Where("id = ?", id).First(&videoModel).Error; err != nil {
		return nil, err
	}
	return ToVideoEntity(&videoModel), nil
}

func (r *videoRepository) List(limit, offset int) ([]*entity.Video, error) {
	var videoModels []model.VideoModel
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&videoModels).Error
	if err != nil {
		return nil, err
	}

	videos := make([]*entity.Video, len(videoModels))
	for i := range videoModels {
		videos[i] = ToVideoEntity(&videoModels[i])
	}
	return videos, nil
}

func (r *videoRepository) GetByCreator(wallet string, limit, offset int) ([]*entity.Video, error) {
	var videoModels []model.VideoModel
	err := r.db.Where("creator_wallet = ?", strings.ToLower(wallet)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&videoModels).Error
	if err != nil {
		return nil, err
	}

	videos := make([]*entity.Video, len(videoModels))
	for i := range videoModels {
		videos[i] = ToVideoEntity(&videoModels[i])
	}
	return videos, nil
}

func (r *videoRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.VideoModel{}).Error
}
