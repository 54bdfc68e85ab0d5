package quote

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rootswap/pkg/amm"
	"rootswap/pkg/chain"
	"rootswap/pkg/tokens"
)

type fakeClient struct {
	reserves     *chain.PoolReserves
	reservesErr  error
	balance      *big.Int
	balanceErr   error
	gas          uint64
	gasErr       error
	reserveCalls int
}

func (f *fakeClient) GetPoolReserves(ctx context.Context, tokenIn, tokenOut tokens.Token) (*chain.PoolReserves, error) {
	f.reserveCalls++
	if f.reservesErr != nil {
		return nil, f.reservesErr
	}
	return f.reserves, nil
}

func (f *fakeClient) GetTokenBalance(ctx context.Context, address string, token tokens.Token) (*big.Int, error) {
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return f.balance, nil
}

func (f *fakeClient) EstimateSwapGas(ctx context.Context, from string, amountIn, minAmountOut *big.Int, route []tokens.Token) (uint64, error) {
	if f.gasErr != nil {
		return 0, f.gasErr
	}
	return f.gas, nil
}

func (f *fakeClient) SubmitSwap(ctx context.Context, signer chain.Signer, amountIn, minAmountOut *big.Int, route []tokens.Token) (string, error) {
	panic("quote builder must not submit")
}

func (f *fakeClient) TransactionStatus(ctx context.Context, hash string) (*chain.TxStatus, error) {
	panic("quote builder must not look up transactions")
}

func newBuilder(client chain.Client) *Builder {
	return NewBuilder(client, tokens.NewRegistry(), zap.NewNop())
}

func TestGetQuote(t *testing.T) {
	client := &fakeClient{
		reserves: &chain.PoolReserves{
			ReserveIn:  big.NewInt(1_000_000_000_000),
			ReserveOut: big.NewInt(2_000_000_000_000),
		},
	}
	b := newBuilder(client)

	q, err := b.GetQuote(context.Background(), Params{FromToken: "root", ToToken: "usdt", Amount: "10"}, "")
	require.NoError(t, err)

	assert.Equal(t, "ROOT", q.FromSymbol)
	assert.Equal(t, "USDT", q.ToSymbol)
	assert.Equal(t, "10", q.FromAmount)
	assert.Equal(t, []string{"ROOT", "USDT"}, q.Route)
	assert.Equal(t, int64(10_000_000), q.AmountInRaw.Int64())

	wantOut, err := amm.AmountOut(q.AmountInRaw, client.reserves.ReserveIn, client.reserves.ReserveOut)
	require.NoError(t, err)
	assert.Zero(t, q.AmountOutRaw.Cmp(wantOut))

	assert.Greater(t, q.PriceImpactPercent, 0.0)
	assert.NotEmpty(t, q.Rate)
	// No signer: no balance check, no gas estimate.
	assert.Empty(t, q.EstimatedGas)
	assert.Equal(t, 1, client.reserveCalls)
}

func TestGetQuoteUnknownToken(t *testing.T) {
	b := newBuilder(&fakeClient{})

	_, err := b.GetQuote(context.Background(), Params{FromToken: "DOGE", ToToken: "USDT", Amount: "10"}, "")
	assert.ErrorIs(t, err, tokens.ErrUnknownToken)

	_, err = b.GetQuote(context.Background(), Params{FromToken: "ROOT", ToToken: "DOGE", Amount: "10"}, "")
	assert.ErrorIs(t, err, tokens.ErrUnknownToken)
}

func TestGetQuoteSameToken(t *testing.T) {
	b := newBuilder(&fakeClient{})

	_, err := b.GetQuote(context.Background(), Params{FromToken: "ROOT", ToToken: "root", Amount: "10"}, "")
	assert.ErrorIs(t, err, ErrInvalidPair)
}

func TestGetQuoteInvalidAmount(t *testing.T) {
	b := newBuilder(&fakeClient{})

	for _, amount := range []string{"", "abc", "0", "-5"} {
		_, err := b.GetQuote(context.Background(), Params{FromToken: "ROOT", ToToken: "USDT", Amount: amount}, "")
		assert.ErrorIs(t, err, ErrInvalidAmount, amount)
	}
}

func TestGetQuotePoolNotFound(t *testing.T) {
	b := newBuilder(&fakeClient{reservesErr: chain.ErrPoolNotFound})

	_, err := b.GetQuote(context.Background(), Params{FromToken: "ROOT", ToToken: "USDT", Amount: "10"}, "")
	assert.ErrorIs(t, err, chain.ErrPoolNotFound)
}

func TestGetQuoteEmptyPool(t *testing.T) {
	b := newBuilder(&fakeClient{
		reserves: &chain.PoolReserves{ReserveIn: big.NewInt(0), ReserveOut: big.NewInt(0)},
	})

	_, err := b.GetQuote(context.Background(), Params{FromToken: "ROOT", ToToken: "USDT", Amount: "10"}, "")
	assert.ErrorIs(t, err, chain.ErrPoolNotFound)
}

func TestGetQuoteBalanceCheck(t *testing.T) {
	client := &fakeClient{
		reserves: &chain.PoolReserves{
			ReserveIn:  big.NewInt(1_000_000_000_000),
			ReserveOut: big.NewInt(1_000_000_000_000),
		},
		balance: big.NewInt(5_000_000), // 5 ROOT
		gasErr:  chain.ErrNotImplemented,
	}
	b := newBuilder(client)

	_, err := b.GetQuote(context.Background(), Params{FromToken: "ROOT", ToToken: "USDT", Amount: "10"}, "0xabc")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	q, err := b.GetQuote(context.Background(), Params{FromToken: "ROOT", ToToken: "USDT", Amount: "5"}, "0xabc")
	require.NoError(t, err)
	// Gas estimation unavailable stays empty instead of a made-up number.
	assert.Empty(t, q.EstimatedGas)
}

func TestGetQuoteGasEstimate(t *testing.T) {
	client := &fakeClient{
		reserves: &chain.PoolReserves{
			ReserveIn:  big.NewInt(1_000_000_000_000),
			ReserveOut: big.NewInt(1_000_000_000_000),
		},
		balance: big.NewInt(100_000_000),
		gas:     180000,
	}
	b := newBuilder(client)

	q, err := b.GetQuote(context.Background(), Params{FromToken: "ROOT", ToToken: "USDT", Amount: "5"}, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "180000", q.EstimatedGas)
}
