package usecase

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"

	"monadtok/pkg/chain"
	"monadtok/pkg/flow"
	"monadtok/pkg/logger"
	"monadtok/pkg/queue"
	"monadtok/services/subscription/internal/entity"
	"monadtok/services/subscription/internal/repo/persistent"

	"github.com/google/uuid"
)

const (
	StatusUploading  flow.Status = "uploading"
	StatusSigning    flow.Status = "signing"
	StatusConfirming flow.Status = "confirming"
	StatusSaving     flow.Status = "saving"
	StatusComplete   flow.Status = "complete"
)

const (
	DefaultMaxSupply    = 1000
	DefaultMaxPerWallet = 1
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)

// Oracle is the chain surface this service needs. *blockchain.Oracle
// satisfies it.
type Oracle interface {
	Deploy(ctx context.Context, p chain.DeployParams) (string, error)
	WaitDeployed(ctx context.Context, txHash string) (string, error)
	TokenDetails(ctx context.Context, contract string) (*chain.TokenDetails, error)
	MintedBy(ctx context.Context, contract, wallet string) (uint64, error)
	HasSubscription(ctx context.Context, contract, wallet string) (bool, error)
	ConfirmMint(ctx context.Context, contract, txHash, buyer string) error
	Owners(ctx context.Context, contract string) ([]chain.Ownership, error)
	Balance(ctx context.Context, address string) (*big.Int, error)
	Withdraw(ctx context.Context, contract string) (string, error)
	WaitMined(ctx context.Context, txHash string) error
}

// Uploader is the blob-store slice the subscription service needs. *s3.Client
// satisfies it.
type Uploader interface {
	UploadFile(key string, file io.Reader, contentType string) (string, error)
}

// Locker serializes flow starts per (wallet, action). *flow.Guard satisfies it.
type Locker interface {
	Acquire(ctx context.Context, wallet, action string) (func(), error)
}

type DeployInput struct {
	Name         string
	Symbol       string
	Price        float64
	MaxSupply    uint64
	MaxPerWallet uint64
	Image        *multipart.FileHeader
}

type SubscriptionUseCase interface {
	Deploy(ctx context.Context, wallet string, input DeployInput, onProgress flow.ProgressFunc) (*entity.DeployResult, error)
	GetDetails(ctx context.Context, contract, viewerWallet string) (*entity.SubscriptionDetails, error)
	ConfirmMint(ctx context.Context, contract, buyerWallet, txHash string) (bool, error)
	Earnings(ctx context.Context, wallet string) (*entity.Earnings, error)
	Withdraw(ctx context.Context, wallet string) (*entity.WithdrawResult, error)
}

type subscriptionUseCase struct {
	deploymentRepo persistent.DeploymentRepository
	profileRepo    persistent.ProfileRepository
	oracle         Oracle
	uploader       Uploader
	guard          Locker
	queueClient    *queue.Client
	logger         *logger.Logger
}

func NewSubscriptionUseCase(
	deploymentRepo persistent.DeploymentRepository,
	profileRepo persistent.ProfileRepository,
	oracle Oracle,
	uploader Uploader,
	guard Locker,
	queueClient *queue.Client,
	logger *logger.Logger,
) SubscriptionUseCase {
	return &subscriptionUseCase{
		deploymentRepo: deploymentRepo,
		profileRepo:    profileRepo,
		oracle:         oracle,
		uploader:       uploader,
		guard:          guard,
		queueClient:    queueClient,
		logger:         logger,
	}
}

// SanitizeSymbol uppercases the ticker, strips everything that is not a
// letter or digit and enforces the 3-10 character contract constraint.
func SanitizeSymbol(symbol string) (string, error) {
	sanitized := nonAlphanumeric.ReplaceAllString(strings.ToUpper(strings.TrimSpace(symbol)), "")
	if len(sanitized) < 3 || len(sanitized) > 10 {
		return "", fmt.Errorf("symbol must be 3-10 alphanumeric characters")
	}
	return sanitized, nil
}

func (uc *subscriptionUseCase) Deploy(ctx context.Context, wallet string, input DeployInput, onProgress flow.ProgressFunc) (*entity.DeployResult, error) {
	wallet = strings.ToLower(wallet)

	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Symbol) == "" {
		return nil, fmt.Errorf("please fill in all required fields")
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("price must be greater than zero")
	}

	symbol, err := SanitizeSymbol(input.Symbol)
	if err != nil {
		return nil, err
	}

	if input.MaxSupply == 0 {
		input.MaxSupply = DefaultMaxSupply
	}
	if input.MaxPerWallet == 0 {
		input.MaxPerWallet = DefaultMaxPerWallet
	}

	if uc.guard != nil {
		release, err := uc.guard.Acquire(ctx, wallet, "deploy")
		if err != nil {
			return nil, err
		}
		defer release()
	}

	var (
		imageURL   string
		deployment *entity.Deployment
	)
	result := &entity.DeployResult{}

	steps := []flow.Step{
		{
			Status:  StatusUploading,
			Percent: 20,
			Message: "Uploading image...",
			Run: func(ctx context.Context) error {
				if input.Image == nil {
					return nil
				}

				contentType := input.Image.Header.Get("Content-Type")
				if !strings.HasPrefix(contentType, "image/") {
					return fmt.Errorf("subscription image must be an image file")
				}

				src, err := input.Image.Open()
				if err != nil {
					return fmt.Errorf("failed to open image: %w", err)
				}
				defer src.Close()

				fileKey := fmt.Sprintf("subscriptions/%s/%s%s", wallet, uuid.New().String(), strings.ToLower(filepath.Ext(input.Image.Filename)))
				url, err := uc.uploader.UploadFile(fileKey, src, contentType)
				if err != nil {
					return fmt.Errorf("failed to upload image: %w", err)
				}
				imageURL = url
				return nil
			},
		},
		{
			Status:  StatusSigning,
			Percent: 40,
			Message: "Signing transaction...",
			Run: func(ctx context.Context) error {
				txHash, err := uc.oracle.Deploy(ctx, chain.DeployParams{
					Name:         input.Name,
					Symbol:       symbol,
					PriceWei:     chain.MonToWei(input.Price),
					MaxSupply:    input.MaxSupply,
					MaxPerWallet: input.MaxPerWallet,
					ImageURI:     imageURL,
				})
				if err != nil {
					return err
				}
				result.TxHash = txHash

				deployment = &entity.Deployment{
					CreatorWallet: wallet,
					TxHash:        txHash,
					Name:          input.Name,
					Symbol:        symbol,
					Price:         input.Price,
					MaxSupply:     input.MaxSupply,
					MaxPerWallet:  input.MaxPerWallet,
					ImageURL:      imageURL,
					Status:        entity.DeploymentPending,
				}
				if err := uc.deploymentRepo.Create(deployment); err != nil {
					return fmt.Errorf("failed to record deployment: %w", err)
				}

				if uc.queueClient != nil {
					go uc.publishReconcileTask(deployment)
				}
				return nil
			},
		},
		{
			Status:  StatusConfirming,
			Percent: 70,
			Message: "Confirming transaction...",
			Run: func(ctx context.Context) error {
				contractAddress, err := uc.oracle.WaitDeployed(ctx, result.TxHash)
				if err != nil {
					return err
				}
				result.ContractAddress = contractAddress
				return uc.deploymentRepo.SetContractAddress(deployment.ID, contractAddress, entity.DeploymentConfirmed)
			},
		},
		{
			Status:  StatusSaving,
			Percent: 90,
			Message: "Saving subscription...",
			Run: func(ctx context.Context) error {
				err := uc.profileRepo.UpsertSubscription(&entity.Profile{
					WalletAddress:               wallet,
					SubscriptionContractAddress: result.ContractAddress,
					SubscriptionName:            input.Name,
					SubscriptionSymbol:          symbol,
					SubscriptionPrice:           input.Price,
					SubscriptionImageURL:        imageURL,
				})
				if err != nil {
					uc.logger.Error("Failed to upsert subscription profile: %v", err)
					return fmt.Errorf("Failed to save subscription to database")
				}
				return uc.deploymentRepo.UpdateStatus(deployment.ID, entity.DeploymentReconciled)
			},
		},
		{
			Status:  StatusComplete,
			Percent: 100,
			Message: "Subscription created!",
		},
	}

	if err := flow.Run(ctx, steps, onProgress); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *subscriptionUseCase) GetDetails(ctx context.Context, contract, viewerWallet string) (*entity.SubscriptionDetails, error) {
	tokenDetails, err := uc.oracle.TokenDetails(ctx, contract)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract: %w", err)
	}

	details := &entity.SubscriptionDetails{
		ContractAddress: strings.ToLower(contract),
		Name:            tokenDetails.Name,
		Symbol:          tokenDetails.Symbol,
		Price:           chain.WeiToMon(tokenDetails.PriceWei),
		TotalSupply:     tokenDetails.TotalSupply,
		MaxSupply:       tokenDetails.MaxSupply,
		MaxPerWallet:    tokenDetails.MaxPerWallet,
	}

	if viewerWallet != "" {
		minted, err := uc.oracle.MintedBy(ctx, contract, viewerWallet)
		if err == nil {
			details.MintedByViewer = minted
		}
		subscribed, err := uc.oracle.HasSubscription(ctx, contract, viewerWallet)
		if err == nil {
			details.ViewerSubscribed = subscribed
		}
	}

	return details, nil
}

// ConfirmMint verifies a buyer-signed mint transaction by hash. The service
// never signs mints itself.
func (uc *subscriptionUseCase) ConfirmMint(ctx context.Context, contract, buyerWallet, txHash string) (bool, error) {
	if err := uc.oracle.ConfirmMint(ctx, contract, txHash, buyerWallet); err != nil {
		return false, err
	}

	subscribed, err := uc.oracle.HasSubscription(ctx, contract, buyerWallet)
	if err != nil {
		// The mint itself is confirmed; status read is best effort
		uc.logger.Warn("Failed to read subscription status after mint: %v", err)
		return true, nil
	}
	return subscribed, nil
}

func (uc *subscriptionUseCase) Earnings(ctx context.Context, wallet string) (*entity.Earnings, error) {
	profile, err := uc.profileRepo.GetByWallet(wallet)
	if err != nil {
		return nil, fmt.Errorf("no subscription contract deployed")
	}
	if profile.SubscriptionContractAddress == "" {
		return nil, fmt.Errorf("no subscription contract deployed")
	}
	contract := profile.SubscriptionContractAddress

	details, err := uc.oracle.TokenDetails(ctx, contract)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract: %w", err)
	}

	balanceWei, err := uc.oracle.Balance(ctx, contract)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract balance: %w", err)
	}

	earnings := &entity.Earnings{
		ContractAddress: contract,
		Balance:         chain.WeiToMon(balanceWei),
		TotalMinted:     details.TotalSupply,
		LifetimeRevenue: float64(details.TotalSupply) * chain.WeiToMon(details.PriceWei),
		Subscribers:     []entity.Subscriber{},
	}

	if details.TotalSupply == 0 {
		return earnings, nil
	}

	owners, err := uc.oracle.Owners(ctx, contract)
	if err != nil {
		// Degrade to counts only rather than failing the whole view
		uc.logger.Warn("Failed to enumerate owners for %s: %v", contract, err)
		return earnings, nil
	}

	wallets := make([]string, len(owners))
	for i, o := range owners {
		wallets[i] = o.Owner
	}

	names, err := uc.profileRepo.GetUsernames(wallets)
	if err != nil {
		uc.logger.Warn("Failed to resolve subscriber names: %v", err)
		names = nil
	}

	for _, o := range owners {
		subscriber := entity.Subscriber{TokenID: o.TokenID, Wallet: o.Owner}
		switch {
		case names == nil:
			subscriber.DisplayName = "Unknown"
		case names[o.Owner] != "":
			subscriber.DisplayName = names[o.Owner]
		default:
			subscriber.DisplayName = truncateAddress(o.Owner)
		}
		earnings.Subscribers = append(earnings.Subscribers, subscriber)
	}

	return earnings, nil
}

func (uc *subscriptionUseCase) Withdraw(ctx context.Context, wallet string) (*entity.WithdrawResult, error) {
	profile, err := uc.profileRepo.GetByWallet(wallet)
	if err != nil || profile.SubscriptionContractAddress == "" {
		return nil, fmt.Errorf("no subscription contract deployed")
	}
	contract := profile.SubscriptionContractAddress

	if uc.guard != nil {
		release, err := uc.guard.Acquire(ctx, wallet, "withdraw")
		if err != nil {
			return nil, err
		}
		defer release()
	}

	txHash, err := uc.oracle.Withdraw(ctx, contract)
	if err != nil {
		return nil, err
	}

	if err := uc.oracle.WaitMined(ctx, txHash); err != nil {
		return nil, err
	}

	balanceWei, err := uc.oracle.Balance(ctx, contract)
	if err != nil {
		uc.logger.Warn("Failed to refresh balance after withdrawal: %v", err)
		balanceWei = big.NewInt(0)
	}

	return &entity.WithdrawResult{
		TxHash:  txHash,
		Balance: chain.WeiToMon(balanceWei),
	}, nil
}

func (uc *subscriptionUseCase) publishReconcileTask(deployment *entity.Deployment) {
	task := map[string]interface{}{
		"deployment_id":  deployment.ID,
		"creator_wallet": deployment.CreatorWallet,
		"tx_hash":        deployment.TxHash,
	}

	if err := uc.queueClient.PublishReconcileTask(task); err != nil {
		uc.logger.Error("Failed to publish reconcile task: %v (deployment_id=%s)", err, deployment.ID)
	}
}

func truncateAddress(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
