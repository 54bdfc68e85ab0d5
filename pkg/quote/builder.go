package quote

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rootswap/pkg/amm"
	"rootswap/pkg/chain"
	"rootswap/pkg/tokens"
)

var (
	// ErrInvalidAmount is returned when the requested amount does not parse
	// to a positive decimal.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidPair is returned when the source and destination tokens are
	// the same.
	ErrInvalidPair = errors.New("invalid token pair")
	// ErrInsufficientBalance is returned when the signer's balance cannot
	// cover the requested input amount.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Params holds the user's swap request. Amount is a human-readable decimal
// string; SlippageBps of zero means the default tolerance applies.
type Params struct {
	FromToken   string
	ToToken     string
	Amount      string
	SlippageBps uint
}

// Quote is a point-in-time swap quote. It is derived entirely from one fresh
// reserve snapshot and is stale as soon as the pool moves; callers re-quote
// instead of refreshing.
type Quote struct {
	FromSymbol string
	FromAmount string
	ToSymbol   string
	ToAmount   string

	// Smallest-unit amounts. AmountOutRaw is the basis for the executor's
	// minimum-output bound.
	AmountInRaw  *big.Int
	AmountOutRaw *big.Int

	// Rate is the effective amount of the destination token per unit of the
	// source token.
	Rate               string
	PriceImpactPercent float64
	Route              []string

	// EstimatedGas is empty when the backend cannot estimate gas.
	EstimatedGas string
}

// Builder produces swap quotes from fresh on-chain reserve snapshots.
type Builder struct {
	client   chain.Client
	registry *tokens.Registry
	log      *zap.Logger
}

// NewBuilder creates a quote builder.
func NewBuilder(client chain.Client, registry *tokens.Registry, log *zap.Logger) *Builder {
	return &Builder{
		client:   client,
		registry: registry,
		log:      log,
	}
}

// GetQuote builds a quote for the given parameters. signerAddr is optional;
// when present the signer's balance is checked against the input amount and
// gas estimation is attempted. GetQuote performs network reads only and
// mutates nothing.
func (b *Builder) GetQuote(ctx context.Context, params Params, signerAddr string) (*Quote, error) {
	fromToken, err := b.registry.Resolve(params.FromToken)
	if err != nil {
		return nil, fmt.Errorf("source token: %w", err)
	}
	toToken, err := b.registry.Resolve(params.ToToken)
	if err != nil {
		return nil, fmt.Errorf("destination token: %w", err)
	}
	if fromToken.Symbol == toToken.Symbol {
		return nil, fmt.Errorf("%w: cannot swap %s for itself", ErrInvalidPair, fromToken.Symbol)
	}

	amountIn, err := fromToken.ToBaseUnits(params.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	if signerAddr != "" {
		balance, err := b.client.GetTokenBalance(ctx, signerAddr, fromToken)
		if err != nil {
			return nil, fmt.Errorf("failed to check balance: %w", err)
		}
		if balance.Cmp(amountIn) < 0 {
			return nil, fmt.Errorf("%w: have %s %s, need %s",
				ErrInsufficientBalance, fromToken.FromBaseUnits(balance), fromToken.Symbol, params.Amount)
		}
	}

	reserves, err := b.client.GetPoolReserves(ctx, fromToken, toToken)
	if err != nil {
		return nil, err
	}

	amountOut, err := amm.AmountOut(amountIn, reserves.ReserveIn, reserves.ReserveOut)
	if err != nil {
		if errors.Is(err, amm.ErrNoLiquidity) {
			return nil, fmt.Errorf("%w: %s/%s pool is empty", chain.ErrPoolNotFound, fromToken.Symbol, toToken.Symbol)
		}
		return nil, err
	}

	q := &Quote{
		FromSymbol:         fromToken.Symbol,
		FromAmount:         fromToken.FromBaseUnits(amountIn),
		ToSymbol:           toToken.Symbol,
		ToAmount:           toToken.FromBaseUnits(amountOut),
		AmountInRaw:        amountIn,
		AmountOutRaw:       amountOut,
		Rate:               effectiveRate(amountIn, fromToken, amountOut, toToken),
		PriceImpactPercent: amm.PriceImpactPercent(amountIn, reserves.ReserveIn),
		Route:              []string{fromToken.Symbol, toToken.Symbol},
	}

	if signerAddr != "" {
		gas, err := b.client.EstimateSwapGas(ctx, signerAddr, amountIn, big.NewInt(0), []tokens.Token{fromToken, toToken})
		if err != nil {
			b.log.Debug("gas estimate unavailable", zap.Error(err))
		} else {
			q.EstimatedGas = strconv.FormatUint(gas, 10)
		}
	}

	b.log.Debug("quote built",
		zap.String("pair", fromToken.Symbol+"/"+toToken.Symbol),
		zap.String("amount_in", q.FromAmount),
		zap.String("amount_out", q.ToAmount),
		zap.Float64("price_impact_pct", q.PriceImpactPercent))

	return q, nil
}

// effectiveRate returns amountOut/amountIn in human units to 8 decimal places.
func effectiveRate(amountIn *big.Int, fromToken tokens.Token, amountOut *big.Int, toToken tokens.Token) string {
	in := decimal.NewFromBigInt(amountIn, -fromToken.Decimals)
	out := decimal.NewFromBigInt(amountOut, -toToken.Decimals)
	if in.IsZero() {
		return "0"
	}
	return out.DivRound(in, 8).String()
}
