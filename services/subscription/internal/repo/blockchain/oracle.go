package blockchain

import (
	"context"
	"math/big"

	"monadtok/pkg/chain"
)

// Oracle flattens the factory and per-contract token wrappers into one
// surface the use case can depend on.
type Oracle struct {
	client  *chain.Client
	factory *chain.Factory
}

func NewOracle(client *chain.Client, factoryAddress string) (*Oracle, error) {
	factory, err := chain.NewFactory(factoryAddress, client)
	if err != nil {
		return nil, err
	}
	return &Oracle{client: client, factory: factory}, nil
}

func (o *Oracle) Deploy(ctx context.Context, p chain.DeployParams) (string, error) {
	return o.factory.Deploy(ctx, p)
}

func (o *Oracle) WaitDeployed(ctx context.Context, txHash string) (string, error) {
	return o.factory.WaitDeployed(ctx, txHash)
}

func (o *Oracle) TokenDetails(ctx context.Context, contract string) (*chain.TokenDetails, error) {
	token, err := chain.NewCreatorToken(contract, o.client)
	if err != nil {
		return nil, err
	}
	return token.Details(ctx)
}

func (o *Oracle) MintedBy(ctx context.Context, contract, wallet string) (uint64, error) {
	token, err := chain.NewCreatorToken(contract, o.client)
	if err != nil {
		return 0, err
	}
	return token.MintedBy(ctx, wallet)
}

func (o *Oracle) HasSubscription(ctx context.Context, contract, wallet string) (bool, error) {
	token, err := chain.NewCreatorToken(contract, o.client)
	if err != nil {
		return false, err
	}
	return token.HasSubscription(ctx, wallet)
}

func (o *Oracle) ConfirmMint(ctx context.Context, contract, txHash, buyer string) error {
	token, err := chain.NewCreatorToken(contract, o.client)
	if err != nil {
		return err
	}
	return token.ConfirmMint(ctx, txHash, buyer)
}

func (o *Oracle) Owners(ctx context.Context, contract string) ([]chain.Ownership, error) {
	token, err := chain.NewCreatorToken(contract, o.client)
	if err != nil {
		return nil, err
	}
	return token.Owners(ctx)
}

func (o *Oracle) Balance(ctx context.Context, address string) (*big.Int, error) {
	return o.client.Balance(ctx, address)
}

func (o *Oracle) Withdraw(ctx context.Context, contract string) (string, error) {
	token, err := chain.NewCreatorToken(contract, o.client)
	if err != nil {
		return "", err
	}
	return token.Withdraw(ctx)
}

func (o *Oracle) WaitMined(ctx context.Context, txHash string) error {
	_, err := o.client.WaitMined(ctx, txHash)
	return err
}
