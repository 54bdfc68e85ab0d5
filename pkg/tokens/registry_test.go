package tokens

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()

	token, err := r.Resolve("root")
	require.NoError(t, err)
	assert.Equal(t, "ROOT", token.Symbol)
	assert.Equal(t, int32(6), token.Decimals)

	_, err = r.Resolve("DOGE")
	assert.ErrorIs(t, err, ErrUnknownToken)
	assert.Contains(t, err.Error(), "DOGE")
}

func TestRegistryOverrides(t *testing.T) {
	r := NewRegistry(
		Token{Symbol: "usdt", Decimals: 18, Address: "0x1"},
		Token{Symbol: "PEPE", Decimals: 18, Address: "0x2"},
	)

	usdt, err := r.Resolve("USDT")
	require.NoError(t, err)
	assert.Equal(t, int32(18), usdt.Decimals)
	assert.Equal(t, "0x1", usdt.Address)

	pepe, err := r.Resolve("pepe")
	require.NoError(t, err)
	assert.Equal(t, "PEPE", pepe.Symbol)
}

func TestRegistryList(t *testing.T) {
	list := NewRegistry().List()
	require.NotEmpty(t, list)

	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Symbol, list[i].Symbol)
	}
}

func TestToBaseUnits(t *testing.T) {
	token := Token{Symbol: "ROOT", Decimals: 6}

	tests := []struct {
		amount string
		want   int64
	}{
		{"1", 1_000_000},
		{"1.5", 1_500_000},
		{"0.000001", 1},
		{"10", 10_000_000},
		// Precision beyond the token's decimals truncates.
		{"1.2345678", 1_234_567},
	}
	for _, tt := range tests {
		got, err := token.ToBaseUnits(tt.amount)
		require.NoError(t, err, tt.amount)
		assert.Equal(t, tt.want, got.Int64(), tt.amount)
	}

	for _, bad := range []string{"", "abc", "-1", "0", "1.2.3"} {
		_, err := token.ToBaseUnits(bad)
		assert.Error(t, err, bad)
	}
}

func TestFromBaseUnits(t *testing.T) {
	token := Token{Symbol: "ROOT", Decimals: 6}

	assert.Equal(t, "1.5", token.FromBaseUnits(big.NewInt(1_500_000)))
	assert.Equal(t, "0.000001", token.FromBaseUnits(big.NewInt(1)))
	assert.Equal(t, "0", token.FromBaseUnits(big.NewInt(0)))
	assert.Equal(t, "123.456789", token.FromBaseUnits(big.NewInt(123_456_789)))
}
