package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"monadtok/pkg/config"
	"monadtok/pkg/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const receiptPollInterval = 2 * time.Second

var ErrTxReverted = errors.New("transaction reverted")

// Backend is the slice of ethclient the bound contracts and receipt polling
// need. ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Client wraps the RPC connection plus the operator signing key. It is the
// concrete Transaction Oracle the services talk to.
type Client struct {
	backend     Backend
	chainID     *big.Int
	operatorKey *ecdsa.PrivateKey
	logger      *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	eth, err := ethclient.Dial(cfg.ChainRPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain RPC: %w", err)
	}

	chainID := big.NewInt(cfg.ChainID)

	var key *ecdsa.PrivateKey
	if cfg.OperatorKey != "" {
		key, err = crypto.HexToECDSA(strings.TrimPrefix(cfg.OperatorKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid operator key: %w", err)
		}
	}

	log.Info("Connected to chain RPC at %s (chain id %d)", cfg.ChainRPCURL, cfg.ChainID)

	return &Client{
		backend:     eth,
		chainID:     chainID,
		operatorKey: key,
		logger:      log,
	}, nil
}

// NewClientWithBackend wires an existing backend, used by tests and tools
// that bring their own connection.
func NewClientWithBackend(backend Backend, chainID *big.Int, log *logger.Logger) *Client {
	return &Client{backend: backend, chainID: chainID, logger: log}
}

func (c *Client) ChainID() *big.Int {
	return c.chainID
}

// transactOpts builds fresh signing options for one operator transaction.
func (c *Client) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if c.operatorKey == nil {
		return nil, fmt.Errorf("no operator key configured")
	}
	opts, err := bind.NewKeyedTransactorWithChainID(c.operatorKey, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to build transact opts: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

// WaitReceipt polls for a transaction receipt until the context expires.
func (c *Client) WaitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to fetch receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitMined waits for confirmation and fails on a reverted transaction.
func (c *Client) WaitMined(ctx context.Context, txHash string) (*types.Receipt, error) {
	receipt, err := c.WaitReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, ErrTxReverted
	}
	return receipt, nil
}

// Balance returns the current balance of an address in wei.
func (c *Client) Balance(ctx context.Context, address string) (*big.Int, error) {
	return c.backend.BalanceAt(ctx, common.HexToAddress(address), nil)
}

// VerifyPayment checks that a buyer-signed value transfer really happened:
// confirmed, sent by `from`, received by `to`, carrying at least minWei.
func (c *Client) VerifyPayment(ctx context.Context, txHash, from, to string, minWei *big.Int) error {
	hash := common.HexToHash(txHash)

	receipt, err := c.WaitReceipt(ctx, hash)
	if err != nil {
		return err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return ErrTxReverted
	}

	tx, _, err := c.backend.TransactionByHash(ctx, hash)
	if err != nil {
		return fmt.Errorf("failed to fetch transaction: %w", err)
	}

	if tx.To() == nil || !strings.EqualFold(tx.To().Hex(), to) {
		return fmt.Errorf("payment recipient mismatch")
	}
	if tx.Value().Cmp(minWei) < 0 {
		return fmt.Errorf("payment amount below price")
	}

	sender, err := types.Sender(types.LatestSignerForChainID(c.chainID), tx)
	if err != nil {
		return fmt.Errorf("failed to recover payment sender: %w", err)
	}
	if !strings.EqualFold(sender.Hex(), from) {
		return fmt.Errorf("payment sender mismatch")
	}

	return nil
}
