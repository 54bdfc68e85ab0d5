package amm

import (
	"errors"
	"math/big"
)

// Constant-product swap fee: 0.3% (997/1000 multiplier).
var (
	feeMul = big.NewInt(997)
	feeDen = big.NewInt(1000)
)

// ErrNoLiquidity is returned when a pool has a zero reserve on either side.
var ErrNoLiquidity = errors.New("pool has no liquidity")

// AmountOut computes the output amount for a constant-product swap with a
// 0.3% fee:
//
//	amountInWithFee = amountIn * 997
//	amountOut       = amountInWithFee * reserveOut / (reserveIn * 1000 + amountInWithFee)
//
// All arithmetic is integer; the division floors. Inputs are never mutated.
func AmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, ErrNoLiquidity
	}
	if amountIn.Sign() < 0 {
		return nil, errors.New("negative input amount")
	}
	if amountIn.Sign() == 0 {
		return big.NewInt(0), nil
	}

	amountInWithFee := new(big.Int).Mul(amountIn, feeMul)
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, feeDen)
	denominator.Add(denominator, amountInWithFee)

	return numerator.Quo(numerator, denominator), nil
}

// PriceImpactPercent returns amountIn / (reserveIn + amountIn) * 100.
//
// This is the share of the post-trade input reserve contributed by the trade,
// not the marginal price deviation. Kept for compatibility with the quoting
// behavior users already see.
func PriceImpactPercent(amountIn, reserveIn *big.Int) float64 {
	if amountIn.Sign() <= 0 || reserveIn.Sign() <= 0 {
		return 0
	}

	num := new(big.Float).SetInt(amountIn)
	den := new(big.Float).SetInt(new(big.Int).Add(reserveIn, amountIn))

	impact, _ := new(big.Float).Quo(num, den).Float64()
	return impact * 100
}
