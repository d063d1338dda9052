package usecase

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"monadtok/pkg/flow"
	"monadtok/pkg/logger"
	"monadtok/services/unlock/internal/entity"
	"monadtok/services/unlock/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockUnlockRepository struct {
	mock.Mock
}

var _ persistent.UnlockRepository = (*MockUnlockRepository)(nil)

func (m *MockUnlockRepository) Create(unlock *entity.Unlock) error {
	args := m.Called(unlock)
	if args.Error(0) == nil && unlock.ID == "" {
		unlock.ID = "unlock-1"
	}
	return args.Error(0)
}

func (m *MockUnlockRepository) Exists(videoID, buyerWallet string) (bool, error) {
	args := m.Called(videoID, buyerWallet)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnlockRepository) GetVideo(videoID string) (*entity.Video, error) {
	args := m.Called(videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Video), args.Error(1)
}

func (m *MockUnlockRepository) GetCreator(wallet string) (*entity.Creator, error) {
	args := m.Called(wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Creator), args.Error(1)
}

type MockPaymentVerifier struct {
	mock.Mock
}

func (m *MockPaymentVerifier) VerifyPayment(ctx context.Context, txHash, from, to string, minWei *big.Int) error {
	args := m.Called(ctx, txHash, from, to, minWei)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, wallet, action string) (func(), error) {
	args := m.Called(ctx, wallet, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

func exclusiveVideo() *entity.Video {
	return &entity.Video{
		ID:            "video-1",
		CreatorWallet: "0xcreator",
		IsExclusive:   true,
		Price:         0.5,
	}
}

func TestUnlock_Success(t *testing.T) {
	mockRepo := new(MockUnlockRepository)
	mockVerifier := new(MockPaymentVerifier)
	mockGuard := new(MockLocker)

	released := false
	mockRepo.On("GetVideo", "video-1").Return(exclusiveVideo(), nil)
	mockRepo.On("Exists", "video-1", "0xbuyer").Return(false, nil)
	mockGuard.On("Acquire", mock.Anything, "0xbuyer", "unlock:video-1").
		Return(func() { released = true }, nil)
	mockRepo.On("GetCreator", "0xcreator").Return(&entity.Creator{
		WalletAddress:               "0xcreator",
		SubscriptionContractAddress: "0xcontract",
	}, nil)
	mockVerifier.On("VerifyPayment", mock.Anything, "0xtx", "0xbuyer", "0xcontract", mock.Anything).
		Return(nil)
	mockRepo.On("Create", mock.AnythingOfType("*entity.Unlock")).Return(nil)

	uc := NewUnlockUseCase(mockRepo, mockVerifier, mockGuard, logger.New())

	var percents []int
	unlock, err := uc.Unlock(context.Background(), "video-1", "0xBuyer", "0xtx", func(p flow.Progress) {
		percents = append(percents, p.Percent)
	})

	assert.NoError(t, err)
	assert.Equal(t, "unlock-1", unlock.ID)
	assert.Equal(t, "0xbuyer", unlock.BuyerWallet)
	assert.Equal(t, "500000000000000000", unlock.AmountWei)
	assert.Equal(t, []int{40, 70, 100}, percents)
	assert.True(t, released)
	mockVerifier.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestUnlock_RecipientFallsBackToCreatorWallet(t *testing.T) {
	mockRepo := new(MockUnlockRepository)
	mockVerifier := new(MockPaymentVerifier)
	mockGuard := new(MockLocker)

	mockRepo.On("GetVideo", "video-1").Return(exclusiveVideo(), nil)
	mockRepo.On("Exists", "video-1", "0xbuyer").Return(false, nil)
	mockGuard.On("Acquire", mock.Anything, "0xbuyer", "unlock:video-1").
		Return(func() {}, nil)
	mockRepo.On("GetCreator", "0xcreator").Return(nil, gorm.ErrRecordNotFound)
	mockVerifier.On("VerifyPayment", mock.Anything, "0xtx", "0xbuyer", "0xcreator", mock.Anything).
		Return(nil)
	mockRepo.On("Create", mock.AnythingOfType("*entity.Unlock")).Return(nil)

	uc := NewUnlockUseCase(mockRepo, mockVerifier, mockGuard, logger.New())

	_, err := uc.Unlock(context.Background(), "video-1", "0xbuyer", "0xtx", nil)

	assert.NoError(t, err)
	mockVerifier.AssertExpectations(t)
}

func TestUnlock_AlreadyUnlockedIsIdempotent(t *testing.T) {
	mockRepo := new(MockUnlockRepository)
	mockVerifier := new(MockPaymentVerifier)
	mockGuard := new(MockLocker)

	mockRepo.On("GetVideo", "video-1").Return(exclusiveVideo(), nil)
	mockRepo.On("Exists", "video-1", "0xbuyer").Return(true, nil)

	uc := NewUnlockUseCase(mockRepo, mockVerifier, mockGuard, logger.New())

	unlock, err := uc.Unlock(context.Background(), "video-1", "0xbuyer", "0xtx", nil)

	assert.NoError(t, err)
	assert.Equal(t, "video-1", unlock.VideoID)
	mockVerifier.AssertNotCalled(t, "VerifyPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockGuard.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnlock_FreeVideoRejected(t *testing.T) {
	mockRepo := new(MockUnlockRepository)

	mockRepo.On("GetVideo", "video-1").Return(&entity.Video{
		ID:            "video-1",
		CreatorWallet: "0xcreator",
		IsExclusive:   false,
	}, nil)

	uc := NewUnlockUseCase(mockRepo, new(MockPaymentVerifier), new(MockLocker), logger.New())

	_, err := uc.Unlock(context.Background(), "video-1", "0xbuyer", "0xtx", nil)

	assert.EqualError(t, err, "video is not exclusive")
}

func TestUnlock_CreatorOwnVideoRejected(t *testing.T) {
	mockRepo := new(MockUnlockRepository)

	mockRepo.On("GetVideo", "video-1").Return(exclusiveVideo(), nil)

	uc := NewUnlockUseCase(mockRepo, new(MockPaymentVerifier), new(MockLocker), logger.New())

	_, err := uc.Unlock(context.Background(), "video-1", "0xCreator", "0xtx", nil)

	assert.EqualError(t, err, "creators do not need to unlock their own videos")
}

func TestUnlock_VideoNotFound(t *testing.T) {
	mockRepo := new(MockUnlockRepository)

	mockRepo.On("GetVideo", "missing").Return(nil, gorm.ErrRecordNotFound)

	uc := NewUnlockUseCase(mockRepo, new(MockPaymentVerifier), new(MockLocker), logger.New())

	_, err := uc.Unlock(context.Background(), "missing", "0xbuyer", "0xtx", nil)

	assert.EqualError(t, err, "video not found")
}

func TestUnlock_PaymentVerificationFailureReported(t *testing.T) {
	mockRepo := new(MockUnlockRepository)
	mockVerifier := new(MockPaymentVerifier)
	mockGuard := new(MockLocker)

	mockRepo.On("GetVideo", "video-1").Return(exclusiveVideo(), nil)
	mockRepo.On("Exists", "video-1", "0xbuyer").Return(false, nil)
	mockGuard.On("Acquire", mock.Anything, "0xbuyer", "unlock:video-1").
		Return(func() {}, nil)
	mockRepo.On("GetCreator", "0xcreator").Return(&entity.Creator{
		WalletAddress: "0xcreator",
	}, nil)
	mockVerifier.On("VerifyPayment", mock.Anything, "0xtx", "0xbuyer", "0xcreator", mock.Anything).
		Return(errors.New("payment amount below price"))

	uc := NewUnlockUseCase(mockRepo, mockVerifier, mockGuard, logger.New())

	var last flow.Progress
	_, err := uc.Unlock(context.Background(), "video-1", "0xbuyer", "0xtx", func(p flow.Progress) {
		last = p
	})

	assert.Error(t, err)
	assert.Equal(t, flow.StatusError, last.Status)
	assert.Equal(t, "payment amount below price", last.Message)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUnlock_InFlight(t *testing.T) {
	mockRepo := new(MockUnlockRepository)
	mockGuard := new(MockLocker)

	mockRepo.On("GetVideo", "video-1").Return(exclusiveVideo(), nil)
	mockRepo.On("Exists", "video-1", "0xbuyer").Return(false, nil)
	mockGuard.On("Acquire", mock.Anything, "0xbuyer", "unlock:video-1").
		Return(nil, flow.ErrInFlight)

	uc := NewUnlockUseCase(mockRepo, new(MockPaymentVerifier), mockGuard, logger.New())

	_, err := uc.Unlock(context.Background(), "video-1", "0xbuyer", "0xtx", nil)

	assert.ErrorIs(t, err, flow.ErrInFlight)
}

func TestStatus_FreeVideoAlwaysUnlocked(t *testing.T) {
	mockRepo := new(MockUnlockRepository)

	mockRepo.On("GetVideo", "video-1").Return(&entity.Video{
		ID:          "video-1",
		IsExclusive: false,
	}, nil)

	uc := NewUnlockUseCase(mockRepo, new(MockPaymentVerifier), new(MockLocker), logger.New())

	unlocked, err := uc.Status("video-1", "")

	assert.NoError(t, err)
	assert.True(t, unlocked)
}

func TestStatus_ExclusiveVideo(t *testing.T) {
	tests := []struct {
		name     string
		viewer   string
		receipt  bool
		unlocked bool
	}{
		{"anonymous viewer locked", "", false, false},
		{"creator always unlocked", "0xCreator", false, true},
		{"buyer with receipt unlocked", "0xbuyer", true, true},
		{"viewer without receipt locked", "0xother", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUnlockRepository)
			mockRepo.On("GetVideo", "video-1").Return(exclusiveVideo(), nil)
			mockRepo.On("Exists", "video-1", mock.Anything).Return(tt.receipt, nil)

			uc := NewUnlockUseCase(mockRepo, new(MockPaymentVerifier), new(MockLocker), logger.New())

			unlocked, err := uc.Status("video-1", tt.viewer)

			assert.NoError(t, err)
			assert.Equal(t, tt.unlocked, unlocked)
		})
	}
}
