package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"monadtok/pkg/chain"
	"monadtok/pkg/jwt"
	"monadtok/pkg/logger"
	"monadtok/services/user/internal/entity"
	"monadtok/services/user/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const nonceTTL = 5 * time.Minute

// Uploader is the blob-store slice the user service needs. *s3.Client
// satisfies it.
type Uploader interface {
	UploadFile(key string, file io.Reader, contentType string) (string, error)
}

type UserUseCase interface {
	Nonce(ctx context.Context, address string) (string, error)
	Verify(ctx context.Context, address, signature string) (*entity.User, string, error)
	GetUser(address string) (*entity.User, error)
	UpdateUsername(address, username string) (*entity.User, error)
	UploadAvatar(address string, fileReader io.Reader, ext, contentType string) (*entity.User, error)
}

type userUseCase struct {
	userRepo    persistent.UserRepository
	redisClient *redis.Client
	jwtService  *jwt.Service
	uploader    Uploader
	logger      *logger.Logger
}

func NewUserUseCase(
	userRepo persistent.UserRepository,
	redisClient *redis.Client,
	jwtService *jwt.Service,
	uploader Uploader,
	logger *logger.Logger,
) UserUseCase {
	return &userUseCase{
		userRepo:    userRepo,
		redisClient: redisClient,
		jwtService:  jwtService,
		uploader:    uploader,
		logger:      logger,
	}
}

// Nonce issues a one-time login nonce for a wallet.
func (uc *userUseCase) Nonce(ctx context.Context, address string) (string, error) {
	address = strings.ToLower(address)
	nonce := uuid.New().String()

	key := fmt.Sprintf("auth:nonce:%s", address)
	if err := uc.redisClient.Set(ctx, key, nonce, nonceTTL).Err(); err != nil {
		uc.logger.Error("Failed to store nonce: %v", err)
		return "", fmt.Errorf("failed to issue nonce")
	}

	return nonce, nil
}

// Verify checks the wallet's signature over the issued nonce message and
// exchanges it for a session token. The user row is created lazily on first
// login.
func (uc *userUseCase) Verify(ctx context.Context, address, signature string) (*entity.User, string, error) {
	address = strings.ToLower(address)
	key := fmt.Sprintf("auth:nonce:%s", address)

	nonce, err := uc.redisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, "", fmt.Errorf("nonce expired or not issued")
	}
	// One shot: a replayed signature must not log in twice
	uc.redisClient.Del(ctx, key)

	if err := chain.VerifySignature(address, LoginMessage(nonce), signature); err != nil {
		return nil, "", fmt.Errorf("signature verification failed: %w", err)
	}

	user, err := uc.userRepo.GetByWallet(address)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			uc.logger.Error("Failed to load user: %v", err)
			return nil, "", fmt.Errorf("failed to load user")
		}
		user = &entity.User{WalletAddress: address}
		if err := uc.userRepo.Upsert(user); err != nil {
			uc.logger.Error("Failed to create user: %v", err)
			return nil, "", fmt.Errorf("failed to create user")
		}
	}

	token, err := uc.jwtService.GenerateToken(address, "user")
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	return user, token, nil
}

func (uc *userUseCase) GetUser(address string) (*entity.User, error) {
	return uc.userRepo.GetByWallet(address)
}

func (uc *userUseCase) UpdateUsername(address, username string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	return uc.userRepo.UpdateProfile(address, &username, nil)
}

func (uc *userUseCase) UploadAvatar(address string, fileReader io.Reader, ext, contentType string) (*entity.User, error) {
	fileKey := fmt.Sprintf("avatars/%s/%s%s", strings.ToLower(address), uuid.New().String(), ext)

	avatarURL, err := uc.uploader.UploadFile(fileKey, fileReader, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload avatar: %v", err)
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	return uc.userRepo.UpdateProfile(address, nil, &avatarURL)
}

// LoginMessage is the exact text a wallet signs to authenticate.
func LoginMessage(nonce string) string {
	return fmt.Sprintf("Sign in to MonadTok\n\nNonce: %s", nonce)
}
