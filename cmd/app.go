package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"rootswap/config"
	"rootswap/pkg/chain"
	"rootswap/pkg/quote"
	"rootswap/pkg/swap"
	"rootswap/pkg/tokens"
)

// app wires the configured chain backend, token registry and services for a
// command invocation. Everything is explicitly constructed; nothing global.
type app struct {
	cfg      *config.Config
	client   chain.Client
	registry *tokens.Registry
	quotes   *quote.Builder
	executor *swap.Executor
	signer   chain.Signer // nil when no key is configured
	log      *zap.Logger

	closer func()
}

func newApp(verbose bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := newLogger(verbose)

	overrides := make([]tokens.Token, 0, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		overrides = append(overrides, tokens.Token{
			Symbol:   t.Symbol,
			Decimals: t.Decimals,
			Address:  t.Address,
			Mint:     t.Mint,
		})
	}
	registry := tokens.NewRegistry(overrides...)

	a := &app{
		cfg:      cfg,
		registry: registry,
		log:      log,
		closer:   func() {},
	}

	switch cfg.Chain {
	case "solana":
		client, err := chain.NewSolanaClient(cfg.Solana, log)
		if err != nil {
			return nil, err
		}
		a.client = client
		if cfg.Solana.PrivateKey != "" {
			a.signer, err = chain.NewSolanaSigner(cfg.Solana.PrivateKey)
			if err != nil {
				return nil, err
			}
		}
	default:
		client, err := chain.NewEVMClient(cfg.EVM, log)
		if err != nil {
			return nil, err
		}
		a.client = client
		a.closer = client.Close
		if cfg.EVM.PrivateKey != "" {
			a.signer, err = chain.NewEVMSigner(cfg.EVM.PrivateKey)
			if err != nil {
				return nil, err
			}
		}
	}

	a.quotes = quote.NewBuilder(a.client, registry, log)
	a.executor = swap.NewExecutor(a.client, registry, log)
	return a, nil
}

// signerAddress returns the configured signer's address or "".
func (a *app) signerAddress() string {
	if a.signer == nil {
		return ""
	}
	return a.signer.Address()
}

// requireSigner returns the signer or an actionable error.
func (a *app) requireSigner() (chain.Signer, error) {
	if a.signer == nil {
		return nil, fmt.Errorf("no signer configured. Set ROOTSWAP_EVM_PRIVATE_KEY (or solana.private_key) to execute swaps")
	}
	return a.signer, nil
}

func (a *app) close() {
	a.closer()
	_ = a.log.Sync()
}
