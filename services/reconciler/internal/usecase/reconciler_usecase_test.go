package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"monadtok/pkg/chain"
	"monadtok/pkg/logger"
	"monadtok/services/reconciler/internal/entity"
	"monadtok/services/reconciler/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockDeploymentRepository struct {
	mock.Mock
}

var _ persistent.DeploymentRepository = (*MockDeploymentRepository)(nil)

func (m *MockDeploymentRepository) GetByID(id string) (*entity.Deployment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) GetLatestByCreator(wallet string) (*entity.Deployment, error) {
	args := m.Called(wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) ListStuck(olderThan time.Time, limit int) ([]*entity.Deployment, error) {
	args := m.Called(olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) MarkReconciled(id, contractAddress string) error {
	args := m.Called(id, contractAddress)
	return args.Error(0)
}

func (m *MockDeploymentRepository) MarkFailed(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

var _ persistent.ProfileRepository = (*MockProfileRepository)(nil)

func (m *MockProfileRepository) GetByWallet(wallet string) (*entity.Profile, error) {
	args := m.Called(wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpsertSubscription(profile *entity.Profile) error {
	args := m.Called(profile)
	return args.Error(0)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) WaitDeployed(ctx context.Context, txHash string) (string, error) {
	args := m.Called(ctx, txHash)
	return args.String(0), args.Error(1)
}

func pendingDeployment() *entity.Deployment {
	return &entity.Deployment{
		ID:            "dep-1",
		CreatorWallet: "0xcreator",
		TxHash:        "0xtx",
		Name:          "Alice Fans",
		Symbol:        "ALICE",
		Price:         1.5,
		ImageURL:      "https://cdn/img.png",
		Status:        entity.DeploymentPending,
	}
}

func TestReconcile_RepairsPendingDeployment(t *testing.T) {
	deployments := new(MockDeploymentRepository)
	profiles := new(MockProfileRepository)
	resolver := new(MockResolver)

	deployment := pendingDeployment()
	deployments.On("GetByID", "dep-1").Return(deployment, nil)
	resolver.On("WaitDeployed", mock.Anything, "0xtx").Return("0xcontract", nil)
	deployments.On("GetLatestByCreator", "0xcreator").Return(deployment, nil)
	profiles.On("UpsertSubscription", mock.MatchedBy(func(p *entity.Profile) bool {
		return p.WalletAddress == "0xcreator" &&
			p.SubscriptionContractAddress == "0xcontract" &&
			p.SubscriptionName == "Alice Fans" &&
			p.SubscriptionPrice == 1.5
	})).Return(nil)
	deployments.On("MarkReconciled", "dep-1", "0xcontract").Return(nil)

	uc := NewReconcilerUseCase(deployments, profiles, resolver, logger.New())

	err := uc.Reconcile(context.Background(), "dep-1")

	assert.NoError(t, err)
	deployments.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestReconcile_ConfirmedDeploymentSkipsChain(t *testing.T) {
	deployments := new(MockDeploymentRepository)
	profiles := new(MockProfileRepository)
	resolver := new(MockResolver)

	deployment := pendingDeployment()
	deployment.Status = entity.DeploymentConfirmed
	deployment.ContractAddress = "0xcontract"
	deployments.On("GetByID", "dep-1").Return(deployment, nil)
	deployments.On("GetLatestByCreator", "0xcreator").Return(deployment, nil)
	profiles.On("UpsertSubscription", mock.Anything).Return(nil)
	deployments.On("MarkReconciled", "dep-1", "0xcontract").Return(nil)

	uc := NewReconcilerUseCase(deployments, profiles, resolver, logger.New())

	err := uc.Reconcile(context.Background(), "dep-1")

	assert.NoError(t, err)
	resolver.AssertNotCalled(t, "WaitDeployed", mock.Anything, mock.Anything)
}

func TestReconcile_AlreadyTerminal(t *testing.T) {
	for _, status := range []entity.DeploymentStatus{entity.DeploymentReconciled, entity.DeploymentFailed} {
		deployments := new(MockDeploymentRepository)
		profiles := new(MockProfileRepository)

		deployment := pendingDeployment()
		deployment.Status = status
		deployments.On("GetByID", "dep-1").Return(deployment, nil)

		uc := NewReconcilerUseCase(deployments, profiles, new(MockResolver), logger.New())

		err := uc.Reconcile(context.Background(), "dep-1")

		assert.NoError(t, err)
		profiles.AssertNotCalled(t, "UpsertSubscription", mock.Anything)
	}
}

func TestReconcile_UnknownDeploymentDropped(t *testing.T) {
	deployments := new(MockDeploymentRepository)

	deployments.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

	uc := NewReconcilerUseCase(deployments, new(MockProfileRepository), new(MockResolver), logger.New())

	err := uc.Reconcile(context.Background(), "missing")

	assert.NoError(t, err)
}

func TestReconcile_RevertedTransactionMarkedFailed(t *testing.T) {
	deployments := new(MockDeploymentRepository)
	profiles := new(MockProfileRepository)
	resolver := new(MockResolver)

	deployments.On("GetByID", "dep-1").Return(pendingDeployment(), nil)
	resolver.On("WaitDeployed", mock.Anything, "0xtx").Return("", chain.ErrTxReverted)
	deployments.On("MarkFailed", "dep-1").Return(nil)

	uc := NewReconcilerUseCase(deployments, profiles, resolver, logger.New())

	err := uc.Reconcile(context.Background(), "dep-1")

	assert.NoError(t, err)
	deployments.AssertCalled(t, "MarkFailed", "dep-1")
	profiles.AssertNotCalled(t, "UpsertSubscription", mock.Anything)
}

func TestReconcile_MissingDeployEventMarkedFailed(t *testing.T) {
	deployments := new(MockDeploymentRepository)
	resolver := new(MockResolver)

	deployments.On("GetByID", "dep-1").Return(pendingDeployment(), nil)
	resolver.On("WaitDeployed", mock.Anything, "0xtx").Return("", chain.ErrNoDeployEvent)
	deployments.On("MarkFailed", "dep-1").Return(nil)

	uc := NewReconcilerUseCase(deployments, new(MockProfileRepository), resolver, logger.New())

	err := uc.Reconcile(context.Background(), "dep-1")

	assert.NoError(t, err)
	deployments.AssertCalled(t, "MarkFailed", "dep-1")
}

func TestReconcile_ReceiptNotYetAvailable(t *testing.T) {
	deployments := new(MockDeploymentRepository)
	resolver := new(MockResolver)

	deployments.On("GetByID", "dep-1").Return(pendingDeployment(), nil)
	resolver.On("WaitDeployed", mock.Anything, "0xtx").Return("", context.DeadlineExceeded)

	uc := NewReconcilerUseCase(deployments, new(MockProfileRepository), resolver, logger.New())

	err := uc.Reconcile(context.Background(), "dep-1")

	assert.NoError(t, err)
	deployments.AssertNotCalled(t, "MarkFailed", mock.Anything)
	deployments.AssertNotCalled(t, "MarkReconciled", mock.Anything, mock.Anything)
}

func TestReconcile_SupersededDeploymentClosesWithoutProfileWrite(t *testing.T) {
	deployments := new(MockDeploymentRepository)
	profiles := new(MockProfileRepository)
	resolver := new(MockResolver)

	deployment := pendingDeployment()
	newer := pendingDeployment()
	newer.ID = "dep-2"
	deployments.On("GetByID", "dep-1").Return(deployment, nil)
	resolver.On("WaitDeployed", mock.Anything, "0xtx").Return("0xcontract", nil)
	deployments.On("GetLatestByCreator", "0xcreator").Return(newer, nil)
	deployments.On("MarkReconciled", "dep-1", "0xcontract").Return(nil)

	uc := NewReconcilerUseCase(deployments, profiles, resolver, logger.New())

	err := uc.Reconcile(context.Background(), "dep-1")

	assert.NoError(t, err)
	profiles.AssertNotCalled(t, "UpsertSubscription", mock.Anything)
}

func TestSweep(t *testing.T) {
	deployments := new(MockDeploymentRepository)
	profiles := new(MockProfileRepository)
	resolver := new(MockResolver)

	first := pendingDeployment()
	second := pendingDeployment()
	second.ID = "dep-2"
	second.TxHash = "0xtx2"

	deployments.On("ListStuck", mock.Anything, sweepBatchSize).
		Return([]*entity.Deployment{first, second}, nil)
	deployments.On("GetByID", "dep-1").Return(first, nil)
	deployments.On("GetByID", "dep-2").Return(second, nil)
	resolver.On("WaitDeployed", mock.Anything, "0xtx").Return("0xcontract", nil)
	// Second deployment fails resolution with a transient RPC error
	resolver.On("WaitDeployed", mock.Anything, "0xtx2").Return("", errors.New("rpc unavailable"))
	deployments.On("GetLatestByCreator", "0xcreator").Return(second, nil)
	deployments.On("MarkReconciled", "dep-1", "0xcontract").Return(nil)

	uc := NewReconcilerUseCase(deployments, profiles, resolver, logger.New())

	repaired, err := uc.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, repaired)
}
