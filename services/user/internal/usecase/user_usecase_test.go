package usecase

import (
	"errors"
	"io"
	"strings"
	"testing"

	"monadtok/pkg/logger"
	"monadtok/services/user/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByWallet(wallet string) (*entity.User, error) {
	args := m.Called(wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(wallet string, username, avatarURL *string) (*entity.User, error) {
	args := m.Called(wallet, username, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadFile(key string, file io.Reader, contentType string) (string, error) {
	args := m.Called(key, file, contentType)
	return args.String(0), args.Error(1)
}

const testWallet = "0xAbC1111111111111111111111111111111111111"

func newTestUseCase(repo *MockUserRepository, uploader *MockUploader) UserUseCase {
	return NewUserUseCase(repo, nil, nil, uploader, logger.New())
}

func TestGetUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo, nil)

	user := &entity.User{WalletAddress: strings.ToLower(testWallet), Username: "alice"}
	mockRepo.On("GetByWallet", testWallet).Return(user, nil)

	got, err := uc.GetUser(testWallet)
	assert.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo, nil)

	username := "bob"
	user := &entity.User{WalletAddress: strings.ToLower(testWallet), Username: username}
	mockRepo.On("UpdateProfile", testWallet, &username, (*string)(nil)).Return(user, nil)

	got, err := uc.UpdateUsername(testWallet, "  bob  ")
	assert.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUsername_Empty(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo, nil)

	_, err := uc.UpdateUsername(testWallet, "   ")
	assert.Error(t, err)
	assert.Equal(t, "username cannot be empty", err.Error())
	mockRepo.AssertNotCalled(t, "UpdateProfile")
}

func TestUploadAvatar(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockUploader := new(MockUploader)
	uc := newTestUseCase(mockRepo, mockUploader)

	var uploadedKey string
	mockUploader.On("UploadFile", mock.AnythingOfType("string"), mock.Anything, "image/png").
		Run(func(args mock.Arguments) {
			uploadedKey = args.String(0)
		}).
		Return("https://cdn.example.com/avatar.png", nil)

	avatarURL := "https://cdn.example.com/avatar.png"
	user := &entity.User{WalletAddress: strings.ToLower(testWallet), AvatarURL: avatarURL}
	mockRepo.On("UpdateProfile", testWallet, (*string)(nil), &avatarURL).Return(user, nil)

	got, err := uc.UploadAvatar(testWallet, strings.NewReader("png-bytes"), ".png", "image/png")
	assert.NoError(t, err)
	assert.Equal(t, avatarURL, got.AvatarURL)

	// Keys are namespaced per wallet, lowercased, with the original extension
	assert.True(t, strings.HasPrefix(uploadedKey, "avatars/"+strings.ToLower(testWallet)+"/"))
	assert.True(t, strings.HasSuffix(uploadedKey, ".png"))
	mockUploader.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestUploadAvatar_UploadFails(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockUploader := new(MockUploader)
	uc := newTestUseCase(mockRepo, mockUploader)

	mockUploader.On("UploadFile", mock.AnythingOfType("string"), mock.Anything, "image/png").
		Return("", errors.New("bucket unavailable"))

	_, err := uc.UploadAvatar(testWallet, strings.NewReader("png-bytes"), ".png", "image/png")
	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "UpdateProfile")
}

func TestLoginMessage(t *testing.T) {
	msg := LoginMessage("nonce-1")
	assert.Contains(t, msg, "Sign in to MonadTok")
	assert.Contains(t, msg, "nonce-1")
}
