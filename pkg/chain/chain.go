package chain

import (
	"context"
	"errors"
	"math/big"

	"rootswap/pkg/tokens"
)

var (
	// ErrPoolNotFound is returned when no liquidity pool exists for a pair.
	ErrPoolNotFound = errors.New("liquidity pool not found")
	// ErrNotImplemented is returned by capabilities a backend does not
	// support yet. Callers surface it instead of fabricating a value.
	ErrNotImplemented = errors.New("not implemented for this chain")
)

// PoolReserves is a point-in-time snapshot of a pool's reserves, ordered as
// (input token, output token) for the pair that was requested. Snapshots are
// fetched fresh per quote and never cached.
type PoolReserves struct {
	ReserveIn  *big.Int
	ReserveOut *big.Int
}

// TxStatus describes the on-chain state of a submitted transaction.
type TxStatus struct {
	Hash        string
	Pending     bool
	Success     bool
	BlockNumber uint64
	GasUsed     uint64
}

// Signer authorizes swap transactions for a single address. Concrete
// implementations are chain-family specific and are paired with the matching
// Client at configuration time.
type Signer interface {
	Address() string
}

// Client is the on-chain query and submission boundary used by the quote
// builder and swap executor.
type Client interface {
	// GetPoolReserves returns fresh reserves for the (in, out) pair.
	// Returns ErrPoolNotFound if no pool exists for the pair.
	GetPoolReserves(ctx context.Context, tokenIn, tokenOut tokens.Token) (*PoolReserves, error)

	// GetTokenBalance returns the smallest-unit balance of a token for an
	// address.
	GetTokenBalance(ctx context.Context, address string, token tokens.Token) (*big.Int, error)

	// EstimateSwapGas estimates the gas needed to execute a swap from the
	// given address. Backends without gas estimation return ErrNotImplemented.
	EstimateSwapGas(ctx context.Context, from string, amountIn, minAmountOut *big.Int, route []tokens.Token) (uint64, error)

	// SubmitSwap signs and submits a swap bounded by minAmountOut and waits
	// for inclusion. It returns the transaction hash; a hash may be returned
	// alongside an error if the transaction was broadcast but reverted.
	SubmitSwap(ctx context.Context, signer Signer, amountIn, minAmountOut *big.Int, route []tokens.Token) (string, error)

	// TransactionStatus looks up a submitted transaction by hash.
	TransactionStatus(ctx context.Context, hash string) (*TxStatus, error)
}
