package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"monadtok/pkg/chain"
	"monadtok/pkg/flow"
	"monadtok/pkg/logger"
	"monadtok/services/unlock/internal/entity"
	"monadtok/services/unlock/internal/repo/persistent"

	"gorm.io/gorm"
)

const (
	StatusSigning    flow.Status = "signing"
	StatusConfirming flow.Status = "confirming"
	StatusUnlocked   flow.Status = "unlocked"
)

// PaymentVerifier is the chain surface this service needs. *chain.Client
// satisfies it.
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, txHash, from, to string, minWei *big.Int) error
}

// Locker serializes flow starts per (wallet, action). *flow.Guard satisfies it.
type Locker interface {
	Acquire(ctx context.Context, wallet, action string) (func(), error)
}

type UnlockUseCase interface {
	Unlock(ctx context.Context, videoID, buyerWallet, txHash string, onProgress flow.ProgressFunc) (*entity.Unlock, error)
	Status(videoID, viewerWallet string) (bool, error)
}

type unlockUseCase struct {
	unlockRepo persistent.UnlockRepository
	verifier   PaymentVerifier
	guard      Locker
	logger     *logger.Logger
}

func NewUnlockUseCase(
	unlockRepo persistent.UnlockRepository,
	verifier PaymentVerifier,
	guard Locker,
	logger *logger.Logger,
) UnlockUseCase {
	return &unlockUseCase{
		unlockRepo: unlockRepo,
		verifier:   verifier,
		guard:      guard,
		logger:     logger,
	}
}

// Unlock verifies a buyer-signed payment for one exclusive video and records
// a durable receipt. The buyer signs and submits the transaction from their
// own wallet; the service only checks it on chain.
func (uc *unlockUseCase) Unlock(ctx context.Context, videoID, buyerWallet, txHash string, onProgress flow.ProgressFunc) (*entity.Unlock, error) {
	buyerWallet = strings.ToLower(buyerWallet)

	video, err := uc.unlockRepo.GetVideo(videoID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("video not found")
		}
		return nil, err
	}

	if !video.IsExclusive {
		return nil, fmt.Errorf("video is not exclusive")
	}
	if video.CreatorWallet == buyerWallet {
		return nil, fmt.Errorf("creators do not need to unlock their own videos")
	}

	// Paying twice must not fail: a prior receipt short-circuits
	exists, err := uc.unlockRepo.Exists(videoID, buyerWallet)
	if err != nil {
		return nil, err
	}
	if exists {
		return &entity.Unlock{VideoID: videoID, BuyerWallet: buyerWallet, TxHash: txHash}, nil
	}

	if uc.guard != nil {
		release, err := uc.guard.Acquire(ctx, buyerWallet, "unlock:"+videoID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	var recipient string
	priceWei := chain.MonToWei(video.Price)
	unlock := &entity.Unlock{
		VideoID:     videoID,
		BuyerWallet: buyerWallet,
		TxHash:      txHash,
		AmountWei:   priceWei.String(),
	}

	steps := []flow.Step{
		{
			Status:  StatusSigning,
			Percent: 40,
			Message: "Processing payment...",
			Run: func(ctx context.Context) error {
				recipient, err = uc.expectedRecipient(video)
				return err
			},
		},
		{
			Status:  StatusConfirming,
			Percent: 70,
			Message: "Confirming transaction...",
			Run: func(ctx context.Context) error {
				return uc.verifier.VerifyPayment(ctx, txHash, buyerWallet, recipient, priceWei)
			},
		},
		{
			Status:  StatusUnlocked,
			Percent: 100,
			Message: "Video unlocked!",
			Run: func(ctx context.Context) error {
				return uc.unlockRepo.Create(unlock)
			},
		},
	}

	if err := flow.Run(ctx, steps, onProgress); err != nil {
		return nil, err
	}
	return unlock, nil
}

// Status reports whether a viewer can play a video. Free videos are always
// unlocked, a creator's own exclusive video is unlocked for them, everything
// else depends on a persisted receipt.
func (uc *unlockUseCase) Status(videoID, viewerWallet string) (bool, error) {
	video, err := uc.unlockRepo.GetVideo(videoID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, fmt.Errorf("video not found")
		}
		return false, err
	}

	if !video.IsExclusive {
		return true, nil
	}

	viewerWallet = strings.ToLower(viewerWallet)
	if viewerWallet == "" {
		return false, nil
	}
	if video.CreatorWallet == viewerWallet {
		return true, nil
	}

	return uc.unlockRepo.Exists(videoID, viewerWallet)
}

// expectedRecipient resolves where an unlock payment must have gone: the
// creator's deployed subscription contract when one exists, the creator
// wallet otherwise.
func (uc *unlockUseCase) expectedRecipient(video *entity.Video) (string, error) {
	creator, err := uc.unlockRepo.GetCreator(video.CreatorWallet)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return video.CreatorWallet, nil
		}
		return "", err
	}
	if creator.SubscriptionContractAddress != "" {
		return creator.SubscriptionContractAddress, nil
	}
	return video.CreatorWallet, nil
}
