package usecase

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"monadtok/pkg/flow"
	"monadtok/pkg/logger"
	"monadtok/services/video/internal/entity"
	"monadtok/services/video/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	StatusUploading flow.Status = "uploading"
	StatusSaving    flow.Status = "saving"
	StatusComplete  flow.Status = "complete"
)

const DefaultDescription = "No description"

// BlobStore is the blob-store slice the video service needs. *s3.Client
// satisfies it.
type BlobStore interface {
	UploadFile(key string, file io.Reader, contentType string) (string, error)
	DeleteFile(key string) error
}

type VideoUseCase interface {
	UploadVideo(ctx context.Context, wallet, description string, isExclusive bool, price float64, fileHeader *multipart.FileHeader, onProgress flow.ProgressFunc) (*entity.Video, error)
	GetVideo(videoID string) (*entity.Video, error)
	ListVideos(limit, offset int) ([]*entity.Video, error)
	GetCreatorVideos(wallet string, limit, offset int) ([]*entity.Video, error)
	DeleteVideo(videoID, wallet string) error
}

type videoUseCase struct {
	videoRepo   persistent.VideoRepository
	blobStore   BlobStore
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewVideoUseCase(
	videoRepo persistent.VideoRepository,
	blobStore BlobStore,
	redisClient *redis.Client,
	logger *logger.Logger,
) VideoUseCase {
	return &videoUseCase{
		videoRepo:   videoRepo,
		blobStore:   blobStore,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (uc *videoUseCase) UploadVideo(ctx context.Context, wallet, description string, isExclusive bool, price float64, fileHeader *multipart.FileHeader, onProgress flow.ProgressFunc) (*entity.Video, error) {
	if fileHeader == nil {
		return nil, fmt.Errorf("video file is required")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		return nil, fmt.Errorf("file must be a video")
	}

	if description == "" {
		description = DefaultDescription
	}
	if !isExclusive {
		price = 0
	}
	if isExclusive && price <= 0 {
		return nil, fmt.Errorf("price must be greater than zero for exclusive videos")
	}

	wallet = strings.ToLower(wallet)
	video := &entity.Video{
		Description:   description,
		CreatorWallet: wallet,
		IsExclusive:   isExclusive,
		Price:         price,
	}

	steps := []flow.Step{
		{
			Status:  StatusUploading,
			Percent: 20,
			Message: "Uploading video...",
			Run: func(ctx context.Context) error {
				src, err := fileHeader.Open()
				if err != nil {
					return fmt.Errorf("failed to open file: %w", err)
				}
				defer src.Close()

				fileKey := fmt.Sprintf("videos/%s/%s%s", wallet, uuid.New().String(), strings.ToLower(filepath.Ext(fileHeader.Filename)))
				videoURL, err := uc.blobStore.UploadFile(fileKey, src, contentType)
				if err != nil {
					return err
				}

				video.VideoURL = videoURL
				video.StorageKey = fileKey
				return nil
			},
		},
		{
			Status:  StatusSaving,
			Percent: 90,
			Message: "Saving video...",
			Run: func(ctx context.Context) error {
				return uc.videoRepo.Create(video)
			},
		},
		{
			Status:  StatusComplete,
			Percent: 100,
			Message: "Upload complete!",
		},
	}

	if err := flow.Run(ctx, steps, onProgress); err != nil {
		return nil, err
	}

	uc.cacheVideo(video)
	uc.addToFeed(video)

	return video, nil
}

func (uc *videoUseCase) GetVideo(videoID string) (*entity.Video, error) {
	return uc.videoRepo.GetByID(videoID)
}

func (uc *videoUseCase) ListVideos(limit, offset int) ([]*entity.Video, error) {
	return uc.videoRepo.List(limit, offset)
}

func (uc *videoUseCase) GetCreatorVideos(wallet string, limit, offset int) ([]*entity.Video, error) {
	return uc.videoRepo.GetByCreator(wallet, limit, offset)
}

// DeleteVideo removes the backing blob first, then the record. When the blob
// delete fails the record stays, so listings never reference a missing file.
func (uc *videoUseCase) DeleteVideo(videoID, wallet string) error {
	video, err := uc.videoRepo.GetByID(videoID)
	if err != nil {
		return err
	}

	if video.CreatorWallet != strings.ToLower(wallet) {
		return fmt.Errorf("you can only delete your own videos")
	}

	if err := uc.blobStore.DeleteFile(video.StorageKey); err != nil {
		return fmt.Errorf("failed to delete video file: %w", err)
	}

	if err := uc.videoRepo.Delete(videoID); err != nil {
		return err
	}

	if uc.redisClient != nil {
		ctx := context.Background()
		uc.redisClient.Del(ctx, fmt.Sprintf("video:%s", videoID))
		uc.redisClient.LRem(ctx, "feed:global", 0, videoID)
	}

	return nil
}

func (uc *videoUseCase) cacheVideo(video *entity.Video) {
	if uc.redisClient == nil {
		return
	}

	ctx := context.Background()
	videoKey := fmt.Sprintf("video:%s", video.ID)
	videoData := map[string]interface{}{
		"id":             video.ID,
		"video_url":      video.VideoURL,
		"description":    video.Description,
		"creator_wallet": video.CreatorWallet,
		"is_exclusive":   video.IsExclusive,
		"price":          video.Price,
	}

	for k, v := range videoData {
		uc.redisClient.HSet(ctx, videoKey, k, v)
	}
	uc.redisClient.Expire(ctx, videoKey, 24*time.Hour)
}

func (uc *videoUseCase) addToFeed(video *entity.Video) {
	if uc.redisClient == nil {
		return
	}

	ctx := context.Background()
	globalFeedKey := "feed:global"
	uc.redisClient.LPush(ctx, globalFeedKey, video.ID)
	uc.redisClient.LTrim(ctx, globalFeedKey, 0, 9999)
	uc.redisClient.Expire(ctx, globalFeedKey, 7*24*time.Hour)
}
