package amm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountOut(t *testing.T) {
	t.Run("known value", func(t *testing.T) {
		// 997000 * 1e6 / (1e6*1000 + 997000) = 996.007 -> floored to 996
		out, err := AmountOut(big.NewInt(1000), big.NewInt(1_000_000), big.NewInt(1_000_000))
		require.NoError(t, err)
		assert.Equal(t, int64(996), out.Int64())
	})

	t.Run("zero input yields zero output", func(t *testing.T) {
		out, err := AmountOut(big.NewInt(0), big.NewInt(1_000_000), big.NewInt(1_000_000))
		require.NoError(t, err)
		assert.Zero(t, out.Sign())
	})

	t.Run("empty pool", func(t *testing.T) {
		_, err := AmountOut(big.NewInt(1000), big.NewInt(0), big.NewInt(1_000_000))
		assert.ErrorIs(t, err, ErrNoLiquidity)

		_, err = AmountOut(big.NewInt(1000), big.NewInt(1_000_000), big.NewInt(0))
		assert.ErrorIs(t, err, ErrNoLiquidity)
	})

	t.Run("negative input", func(t *testing.T) {
		_, err := AmountOut(big.NewInt(-1), big.NewInt(1_000_000), big.NewInt(1_000_000))
		assert.Error(t, err)
	})

	t.Run("deterministic and does not mutate inputs", func(t *testing.T) {
		amountIn := big.NewInt(123456)
		reserveIn := big.NewInt(10_000_000)
		reserveOut := big.NewInt(20_000_000)

		first, err := AmountOut(amountIn, reserveIn, reserveOut)
		require.NoError(t, err)
		second, err := AmountOut(amountIn, reserveIn, reserveOut)
		require.NoError(t, err)

		assert.Zero(t, first.Cmp(second))
		assert.Equal(t, int64(123456), amountIn.Int64())
		assert.Equal(t, int64(10_000_000), reserveIn.Int64())
		assert.Equal(t, int64(20_000_000), reserveOut.Int64())
	})

	t.Run("output never exceeds reserve", func(t *testing.T) {
		// Even an absurdly large trade cannot drain the out reserve.
		huge := new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil)
		out, err := AmountOut(huge, big.NewInt(1_000_000), big.NewInt(1_000_000))
		require.NoError(t, err)
		assert.True(t, out.Cmp(big.NewInt(1_000_000)) < 0)
	})
}

func TestAmountOutSlippageMonotonic(t *testing.T) {
	reserveIn := big.NewInt(1_000_000_000)
	reserveOut := big.NewInt(2_000_000_000)

	var prevIn, prevOut *big.Int
	for _, in := range []int64{1, 10, 1_000, 100_000, 10_000_000, 500_000_000} {
		amountIn := big.NewInt(in)
		out, err := AmountOut(amountIn, reserveIn, reserveOut)
		require.NoError(t, err)

		if prevIn != nil {
			// Effective rate out/in never improves as the trade grows:
			// prevOut/prevIn >= out/in  <=>  prevOut*in >= out*prevIn.
			lhs := new(big.Int).Mul(prevOut, amountIn)
			rhs := new(big.Int).Mul(out, prevIn)
			assert.True(t, lhs.Cmp(rhs) >= 0, "rate improved from %d to %d", prevIn, in)
		}
		prevIn, prevOut = amountIn, out
	}
}

func TestPriceImpactPercent(t *testing.T) {
	// 1000 / (9000 + 1000) * 100 = 10%
	assert.InDelta(t, 10.0, PriceImpactPercent(big.NewInt(1000), big.NewInt(9000)), 1e-9)

	assert.Zero(t, PriceImpactPercent(big.NewInt(0), big.NewInt(9000)))
	assert.Zero(t, PriceImpactPercent(big.NewInt(1000), big.NewInt(0)))

	// Non-decreasing in the input amount.
	reserveIn := big.NewInt(1_000_000)
	prev := 0.0
	for _, in := range []int64{1, 100, 10_000, 1_000_000, 100_000_000} {
		impact := PriceImpactPercent(big.NewInt(in), reserveIn)
		assert.GreaterOrEqual(t, impact, prev)
		assert.Less(t, impact, 100.0)
		prev = impact
	}
}
