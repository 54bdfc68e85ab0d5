package swap

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"rootswap/pkg/chain"
	"rootswap/pkg/quote"
	"rootswap/pkg/tokens"
)

// DefaultSlippageBps is the minimum-output guard applied when the caller
// does not configure a slippage tolerance (95/100 of the quoted output).
const DefaultSlippageBps = 500

// TransactionResult is the terminal outcome of a swap attempt. It is never
// mutated after creation. Hash may be set even on failure if the transaction
// was broadcast before the error.
type TransactionResult struct {
	Hash    string
	Success bool
	Error   string
}

// Executor submits minimum-output-bounded swaps through a chain client.
type Executor struct {
	client   chain.Client
	registry *tokens.Registry
	log      *zap.Logger
}

// NewExecutor creates a swap executor.
func NewExecutor(client chain.Client, registry *tokens.Registry, log *zap.Logger) *Executor {
	return &Executor{
		client:   client,
		registry: registry,
		log:      log,
	}
}

// Execute submits the swap the user confirmed. The minimum-output bound is
// derived from the quote the user actually saw, not a fresh one. All failures
// are folded into the returned TransactionResult; Execute never panics or
// returns an error value, so the caller can always render an outcome.
func (e *Executor) Execute(ctx context.Context, params quote.Params, q *quote.Quote, signer chain.Signer) *TransactionResult {
	fromToken, err := e.registry.Resolve(params.FromToken)
	if err != nil {
		return failure("", err)
	}
	toToken, err := e.registry.Resolve(params.ToToken)
	if err != nil {
		return failure("", err)
	}

	amountIn, err := fromToken.ToBaseUnits(params.Amount)
	if err != nil {
		return failure("", fmt.Errorf("invalid amount: %w", err))
	}

	minAmountOut := MinAmountOut(q.AmountOutRaw, params.SlippageBps)

	e.log.Info("executing swap",
		zap.String("pair", fromToken.Symbol+"/"+toToken.Symbol),
		zap.String("amount_in", amountIn.String()),
		zap.String("min_amount_out", minAmountOut.String()),
		zap.String("signer", signer.Address()))

	hash, err := e.client.SubmitSwap(ctx, signer, amountIn, minAmountOut, []tokens.Token{fromToken, toToken})
	if err != nil {
		e.log.Warn("swap failed", zap.String("hash", hash), zap.Error(err))
		return failure(hash, err)
	}

	return &TransactionResult{Hash: hash, Success: true}
}

// MinAmountOut computes floor(amountOut * (10000 - slippageBps) / 10000).
// A zero slippageBps selects DefaultSlippageBps.
func MinAmountOut(amountOut *big.Int, slippageBps uint) *big.Int {
	if slippageBps == 0 || slippageBps >= 10000 {
		slippageBps = DefaultSlippageBps
	}
	minOut := new(big.Int).Mul(amountOut, big.NewInt(int64(10000-slippageBps)))
	return minOut.Quo(minOut, big.NewInt(10000))
}

func failure(hash string, err error) *TransactionResult {
	return &TransactionResult{Hash: hash, Success: false, Error: err.Error()}
}
