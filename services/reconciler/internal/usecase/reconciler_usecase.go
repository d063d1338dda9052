package usecase

import (
	"context"
	"errors"
	"time"

	"monadtok/pkg/chain"
	"monadtok/pkg/logger"
	"monadtok/services/reconciler/internal/entity"
	"monadtok/services/reconciler/internal/repo/persistent"

	"gorm.io/gorm"
)

const (
	// confirmTimeout bounds how long one repair attempt polls the chain for
	// a receipt. A still-missing receipt is retried by a later sweep.
	confirmTimeout = 30 * time.Second

	// sweepGrace keeps the sweep away from deployments the synchronous
	// deploy flow may still be driving.
	sweepGrace = 2 * time.Minute

	sweepBatchSize = 50
)

// Resolver extracts the deployed contract address from a confirmed
// deployment transaction. *chain.Factory satisfies it.
type Resolver interface {
	WaitDeployed(ctx context.Context, txHash string) (string, error)
}

type ReconcilerUseCase interface {
	Reconcile(ctx context.Context, deploymentID string) error
	Sweep(ctx context.Context) (int, error)
}

type reconcilerUseCase struct {
	deploymentRepo persistent.DeploymentRepository
	profileRepo    persistent.ProfileRepository
	resolver       Resolver
	logger         *logger.Logger
}

func NewReconcilerUseCase(
	deploymentRepo persistent.DeploymentRepository,
	profileRepo persistent.ProfileRepository,
	resolver Resolver,
	logger *logger.Logger,
) ReconcilerUseCase {
	return &reconcilerUseCase{
		deploymentRepo: deploymentRepo,
		profileRepo:    profileRepo,
		resolver:       resolver,
		logger:         logger,
	}
}

// Reconcile drives one deployment to a terminal status. The on-chain effect
// is never rolled back: a confirmed deployment whose profile write was lost
// gets the profile repaired; a reverted transaction is marked failed. The
// operation is idempotent, a deployment already terminal is left alone.
func (uc *reconcilerUseCase) Reconcile(ctx context.Context, deploymentID string) error {
	deployment, err := uc.deploymentRepo.GetByID(deploymentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			uc.logger.Warn("Reconcile task references unknown deployment %s, dropping", deploymentID)
			return nil
		}
		return err
	}

	switch deployment.Status {
	case entity.DeploymentReconciled, entity.DeploymentFailed:
		return nil
	}

	contractAddress := deployment.ContractAddress
	if contractAddress == "" {
		waitCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
		defer cancel()

		contractAddress, err = uc.resolver.WaitDeployed(waitCtx, deployment.TxHash)
		if err != nil {
			if errors.Is(err, chain.ErrTxReverted) || errors.Is(err, chain.ErrNoDeployEvent) {
				uc.logger.Warn("Deployment %s unrecoverable: %v", deployment.ID, err)
				return uc.deploymentRepo.MarkFailed(deployment.ID)
			}
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				// Receipt not on chain yet; leave pending for the next sweep
				return nil
			}
			return err
		}
	}

	// A creator who redeployed after this transaction owns a newer contract;
	// repairing the profile would resurrect a replaced reference
	latest, err := uc.deploymentRepo.GetLatestByCreator(deployment.CreatorWallet)
	if err != nil {
		return err
	}
	if latest.ID != deployment.ID {
		uc.logger.Info("Deployment %s superseded by %s, closing without profile write", deployment.ID, latest.ID)
		return uc.deploymentRepo.MarkReconciled(deployment.ID, contractAddress)
	}

	profile := &entity.Profile{
		WalletAddress:               deployment.CreatorWallet,
		SubscriptionContractAddress: contractAddress,
		SubscriptionName:            deployment.Name,
		SubscriptionSymbol:          deployment.Symbol,
		SubscriptionPrice:           deployment.Price,
		SubscriptionImageURL:        deployment.ImageURL,
	}
	if err := uc.profileRepo.UpsertSubscription(profile); err != nil {
		return err
	}

	if err := uc.deploymentRepo.MarkReconciled(deployment.ID, contractAddress); err != nil {
		return err
	}

	uc.logger.Info("Reconciled deployment %s: contract %s for %s", deployment.ID, contractAddress, deployment.CreatorWallet)
	return nil
}

// Sweep repairs deployments whose queue task was lost. Failures on one
// deployment never abort the batch.
func (uc *reconcilerUseCase) Sweep(ctx context.Context) (int, error) {
	stuck, err := uc.deploymentRepo.ListStuck(time.Now().Add(-sweepGrace), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, deployment := range stuck {
		if ctx.Err() != nil {
			return repaired, ctx.Err()
		}
		if err := uc.Reconcile(ctx, deployment.ID); err != nil {
			uc.logger.Error("Sweep failed to reconcile deployment %s: %v", deployment.ID, err)
			continue
		}
		repaired++
	}
	return repaired, nil
}
