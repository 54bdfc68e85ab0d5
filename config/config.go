package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Defaults target The Root Network Porcini testnet, whose DEX exposes a
// UniswapV2-compatible precompile.
const (
	defaultEVMRPCUrl  = "https://porcini.rootnet.app/archive"
	defaultEVMChainID = 7672
	defaultRouter     = "0x000000000000000000000000000000000000DDDD"
	defaultFactory    = "0x000000000000000000000000000000000000DdDE"

	defaultSolanaRPCUrl = "https://api.devnet.solana.com"

	defaultSlippageBps = 500
)

// Config holds the application configuration.
type Config struct {
	// Chain selects the backend family: "evm" or "solana".
	Chain       string
	SlippageBps uint

	EVM    EVMConfig
	Solana SolanaConfig
	Tokens []TokenConfig
}

// EVMConfig configures the EVM backend.
type EVMConfig struct {
	RPCUrl         string
	ChainID        int64
	RouterAddress  string
	FactoryAddress string
	PrivateKey     string
	GasLimit       *uint64
	GasPrice       *int64
}

// SolanaConfig configures the Solana backend.
type SolanaConfig struct {
	RPCUrl     string
	PrivateKey string
	Commitment string
	// Pools maps "BASE/QUOTE" pair keys to their vault token accounts.
	Pools map[string]SolanaPool
}

// SolanaPool identifies the two vault token accounts of a liquidity pool.
type SolanaPool struct {
	BaseVault  string `mapstructure:"base_vault"`
	QuoteVault string `mapstructure:"quote_vault"`
}

// TokenConfig overrides or extends the built-in token table.
type TokenConfig struct {
	Symbol   string `mapstructure:"symbol"`
	Decimals int32  `mapstructure:"decimals"`
	Address  string `mapstructure:"address"`
	Mint     string `mapstructure:"mint"`
}

// Load reads configuration from a .rootswap.yaml config file and
// ROOTSWAP_-prefixed environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".rootswap")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetDefault("chain", "evm")
	v.SetDefault("slippage_bps", defaultSlippageBps)
	v.SetDefault("evm.rpc_url", defaultEVMRPCUrl)
	v.SetDefault("evm.chain_id", defaultEVMChainID)
	v.SetDefault("evm.router_address", defaultRouter)
	v.SetDefault("evm.factory_address", defaultFactory)
	v.SetDefault("solana.rpc_url", defaultSolanaRPCUrl)
	v.SetDefault("solana.commitment", "confirmed")

	v.SetEnvPrefix("ROOTSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; env vars and defaults may be enough.
	_ = v.ReadInConfig()

	cfg := &Config{
		Chain:       strings.ToLower(v.GetString("chain")),
		SlippageBps: v.GetUint("slippage_bps"),
		EVM: EVMConfig{
			RPCUrl:         v.GetString("evm.rpc_url"),
			ChainID:        v.GetInt64("evm.chain_id"),
			RouterAddress:  v.GetString("evm.router_address"),
			FactoryAddress: v.GetString("evm.factory_address"),
			PrivateKey:     v.GetString("evm.private_key"),
		},
		Solana: SolanaConfig{
			RPCUrl:     v.GetString("solana.rpc_url"),
			PrivateKey: v.GetString("solana.private_key"),
			Commitment: v.GetString("solana.commitment"),
		},
	}

	if v.IsSet("evm.gas_limit") {
		gasLimit := v.GetUint64("evm.gas_limit")
		cfg.EVM.GasLimit = &gasLimit
	}
	if v.IsSet("evm.gas_price") {
		gasPrice := v.GetInt64("evm.gas_price")
		cfg.EVM.GasPrice = &gasPrice
	}
	if err := v.UnmarshalKey("solana.pools", &cfg.Solana.Pools); err != nil {
		return nil, fmt.Errorf("invalid solana pool configuration: %w", err)
	}
	if err := v.UnmarshalKey("tokens", &cfg.Tokens); err != nil {
		return nil, fmt.Errorf("invalid token configuration: %w", err)
	}

	if cfg.Chain != "evm" && cfg.Chain != "solana" {
		return nil, fmt.Errorf("unsupported chain %q: must be 'evm' or 'solana'", cfg.Chain)
	}
	if cfg.SlippageBps >= 10000 {
		return nil, fmt.Errorf("slippage_bps must be below 10000, got %d", cfg.SlippageBps)
	}

	return cfg, nil
}
