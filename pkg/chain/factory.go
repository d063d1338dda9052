package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrNoDeployEvent is returned when a confirmed deployment receipt carries no
// CreatorTokenDeployed event. The transaction succeeded on-chain; the caller
// surfaces this as a flow error and the reconciler gets another look later.
var ErrNoDeployEvent = errors.New("Failed to get contract address from transaction")

type DeployParams struct {
	Name         string
	Symbol       string
	PriceWei     *big.Int
	MaxSupply    uint64
	MaxPerWallet uint64
	ImageURI     string
}

// Factory is a high-level wrapper around the on-chain SubscriptionFactory.
type Factory struct {
	abi      abi.ABI
	address  common.Address
	contract *bind.BoundContract
	client   *Client
}

func NewFactory(address string, client *Client) (*Factory, error) {
	parsed, err := abi.JSON(strings.NewReader(FactoryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse factory ABI: %w", err)
	}

	addr := common.HexToAddress(address)
	bound := bind.NewBoundContract(addr, parsed, client.backend, client.backend, client.backend)

	return &Factory{
		abi:      parsed,
		address:  addr,
		contract: bound,
		client:   client,
	}, nil
}

// Deploy submits a deployCreatorToken transaction signed by the operator key
// and returns its hash. Confirmation is a separate step.
func (f *Factory) Deploy(ctx context.Context, p DeployParams) (string, error) {
	opts, err := f.client.transactOpts(ctx)
	if err != nil {
		return "", err
	}

	tx, err := f.contract.Transact(opts, "deployCreatorToken",
		p.Name,
		p.Symbol,
		p.PriceWei,
		new(big.Int).SetUint64(p.MaxSupply),
		new(big.Int).SetUint64(p.MaxPerWallet),
		p.ImageURI,
	)
	if err != nil {
		return "", err
	}

	return tx.Hash().Hex(), nil
}

// WaitDeployed waits for the deployment transaction to confirm and extracts
// the deployed contract address from its CreatorTokenDeployed event.
func (f *Factory) WaitDeployed(ctx context.Context, txHash string) (string, error) {
	receipt, err := f.client.WaitMined(ctx, txHash)
	if err != nil {
		return "", err
	}
	return f.ParseDeployedAddress(receipt)
}

// ParseDeployedAddress scans receipt logs for the CreatorTokenDeployed event.
// Logs that do not decode as that event are skipped.
func (f *Factory) ParseDeployedAddress(receipt *types.Receipt) (string, error) {
	event := f.abi.Events["CreatorTokenDeployed"]

	for _, log := range receipt.Logs {
		if len(log.Topics) == 0 || log.Topics[0] != event.ID {
			continue
		}

		values, err := event.Inputs.NonIndexed().Unpack(log.Data)
		if err != nil || len(values) == 0 {
			continue
		}
		addr, ok := values[0].(common.Address)
		if !ok {
			continue
		}
		return strings.ToLower(addr.Hex()), nil
	}

	return "", ErrNoDeployEvent
}
