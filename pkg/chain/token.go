package chain

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// TokenDetails is the read-only snapshot of one creator token contract.
type TokenDetails struct {
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol"`
	PriceWei     *big.Int `json:"price_wei"`
	TotalSupply  uint64   `json:"total_supply"`
	MaxSupply    uint64   `json:"max_supply"`
	MaxPerWallet uint64   `json:"max_per_wallet"`
}

// Ownership maps one minted token to its current owner.
type Ownership struct {
	TokenID uint64 `json:"token_id"`
	Owner   string `json:"owner"`
}

// CreatorToken is a high-level wrapper around one deployed per-creator NFT
// subscription contract.
type CreatorToken struct {
	abi      abi.ABI
	address  common.Address
	contract *bind.BoundContract
	client   *Client
}

func NewCreatorToken(address string, client *Client) (*CreatorToken, error) {
	parsed, err := abi.JSON(strings.NewReader(CreatorTokenABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse creator token ABI: %w", err)
	}

	addr := common.HexToAddress(address)
	bound := bind.NewBoundContract(addr, parsed, client.backend, client.backend, client.backend)

	return &CreatorToken{
		abi:      parsed,
		address:  addr,
		contract: bound,
		client:   client,
	}, nil
}

func (t *CreatorToken) Address() string {
	return strings.ToLower(t.address.Hex())
}

// Withdraw submits the zero-argument withdrawal transaction.
func (t *CreatorToken) Withdraw(ctx context.Context) (string, error) {
	opts, err := t.client.transactOpts(ctx)
	if err != nil {
		return "", err
	}

	tx, err := t.contract.Transact(opts, "withdraw")
	if err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}

// Details reads the token metadata in one pass.
func (t *CreatorToken) Details(ctx context.Context) (*TokenDetails, error) {
	opts := &bind.CallOpts{Context: ctx}
	details := &TokenDetails{}

	if err := t.callString(opts, "name", &details.Name); err != nil {
		return nil, err
	}
	if err := t.callString(opts, "symbol", &details.Symbol); err != nil {
		return nil, err
	}

	price, err := t.callUint(opts, "price")
	if err != nil {
		return nil, err
	}
	details.PriceWei = price

	totalSupply, err := t.callUint(opts, "totalSupply")
	if err != nil {
		return nil, err
	}
	details.TotalSupply = totalSupply.Uint64()

	maxSupply, err := t.callUint(opts, "maxSupply")
	if err != nil {
		return nil, err
	}
	details.MaxSupply = maxSupply.Uint64()

	maxPerWallet, err := t.callUint(opts, "maxPerWallet")
	if err != nil {
		return nil, err
	}
	details.MaxPerWallet = maxPerWallet.Uint64()

	return details, nil
}

// Price returns the mint price in wei.
func (t *CreatorToken) Price(ctx context.Context) (*big.Int, error) {
	return t.callUint(&bind.CallOpts{Context: ctx}, "price")
}

// MintedBy returns how many tokens a wallet has minted.
func (t *CreatorToken) MintedBy(ctx context.Context, wallet string) (uint64, error) {
	var out []interface{}
	err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, "mintedBy", common.HexToAddress(wallet))
	if err != nil {
		return 0, err
	}
	return out[0].(*big.Int).Uint64(), nil
}

// HasSubscription reports whether a wallet currently owns a token.
func (t *CreatorToken) HasSubscription(ctx context.Context, wallet string) (bool, error) {
	var out []interface{}
	err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, "hasSubscription", common.HexToAddress(wallet))
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

// ConfirmMint waits for a buyer-signed mint transaction and checks that it
// really minted to the buyer (a Transfer event from the zero address).
func (t *CreatorToken) ConfirmMint(ctx context.Context, txHash, buyer string) error {
	receipt, err := t.client.WaitMined(ctx, txHash)
	if err != nil {
		return err
	}

	event := t.abi.Events["Transfer"]
	buyerAddr := common.HexToAddress(buyer)

	for _, log := range receipt.Logs {
		if log.Address != t.address || len(log.Topics) != 4 || log.Topics[0] != event.ID {
			continue
		}
		from := common.BytesToAddress(log.Topics[1].Bytes())
		to := common.BytesToAddress(log.Topics[2].Bytes())
		if from == (common.Address{}) && to == buyerAddr {
			return nil
		}
	}

	return fmt.Errorf("no mint event for buyer in transaction")
}

// Owners reconstructs current token ownership from Transfer event logs,
// newest token first. Deriving from events avoids guessing the contract's
// token index origin. Malformed logs are discarded rather than failing the
// whole read.
func (t *CreatorToken) Owners(ctx context.Context) ([]Ownership, error) {
	event := t.abi.Events["Transfer"]

	logs, err := t.client.backend.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: big.NewInt(0),
		Addresses: []common.Address{t.address},
		Topics:    [][]common.Hash{{event.ID}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer logs: %w", err)
	}

	current := make(map[uint64]string)
	for _, log := range logs {
		if len(log.Topics) != 4 {
			continue
		}
		to := common.BytesToAddress(log.Topics[2].Bytes())
		tokenID := new(big.Int).SetBytes(log.Topics[3].Bytes()).Uint64()

		if to == (common.Address{}) {
			delete(current, tokenID) // burned
			continue
		}
		current[tokenID] = strings.ToLower(to.Hex())
	}

	owners := make([]Ownership, 0, len(current))
	for tokenID, owner := range current {
		owners = append(owners, Ownership{TokenID: tokenID, Owner: owner})
	}
	sort.Slice(owners, func(i, j int) bool {
		return owners[i].TokenID > owners[j].TokenID
	})

	return owners, nil
}

func (t *CreatorToken) callString(opts *bind.CallOpts, method string, dst *string) error {
	var out []interface{}
	if err := t.contract.Call(opts, &out, method); err != nil {
		return err
	}
	*dst = out[0].(string)
	return nil
}

func (t *CreatorToken) callUint(opts *bind.CallOpts, method string) (*big.Int, error) {
	var out []interface{}
	if err := t.contract.Call(opts, &out, method); err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}
