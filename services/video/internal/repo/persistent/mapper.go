package persistent

import (
	"monadtok/services/video/internal/entity"
	"monadtok/services/video/internal/model"
)

func ToVideoEntity(m *model.VideoModel) *entity.Video {
	if m == nil {
		return nil
	}

	return &entity.Video{
		ID:            m.ID,
		VideoURL:      m.VideoURL,
		StorageKey:    m.StorageKey,
		Description:   m.Description,
		CreatorWallet: m.CreatorWallet,
		IsExclusive:   m.IsExclusive,
		Price:         m.Price,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToVideoModel(e *entity.Video) *model.VideoModel {
	if e == nil {
		return nil
	}

	return &model.VideoModel{
		ID:            e.ID,
		VideoURL:      e.VideoURL,
		StorageKey:    e.StorageKey,
		Description:   e.Description,
		CreatorWallet: e.CreatorWallet,
		IsExclusive:   e.IsExclusive,
		Price:         e.Price,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
