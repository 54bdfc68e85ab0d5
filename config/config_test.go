package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "evm", cfg.Chain)
	assert.Equal(t, uint(defaultSlippageBps), cfg.SlippageBps)
	assert.Equal(t, defaultEVMRPCUrl, cfg.EVM.RPCUrl)
	assert.Equal(t, int64(defaultEVMChainID), cfg.EVM.ChainID)
	assert.Equal(t, defaultRouter, cfg.EVM.RouterAddress)
	assert.Equal(t, defaultFactory, cfg.EVM.FactoryAddress)
	assert.Nil(t, cfg.EVM.GasLimit)
	assert.Nil(t, cfg.EVM.GasPrice)
	assert.Equal(t, "confirmed", cfg.Solana.Commitment)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ROOTSWAP_CHAIN", "solana")
	t.Setenv("ROOTSWAP_SLIPPAGE_BPS", "100")
	t.Setenv("ROOTSWAP_SOLANA_RPC_URL", "http://localhost:8899")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "solana", cfg.Chain)
	assert.Equal(t, uint(100), cfg.SlippageBps)
	assert.Equal(t, "http://localhost:8899", cfg.Solana.RPCUrl)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("unknown chain", func(t *testing.T) {
		t.Setenv("ROOTSWAP_CHAIN", "bitcoin")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("slippage out of range", func(t *testing.T) {
		t.Setenv("ROOTSWAP_SLIPPAGE_BPS", "10000")
		_, err := Load()
		assert.Error(t, err)
	})
}
