package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"rootswap/config"
	"rootswap/pkg/tokens"
)

// SolanaSigner holds a Base58-encoded ed25519 key.
type SolanaSigner struct {
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
}

// NewSolanaSigner parses a Base58-encoded private key.
func NewSolanaSigner(base58Key string) (*SolanaSigner, error) {
	privateKey, err := solana.PrivateKeyFromBase58(base58Key)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &SolanaSigner{
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey(),
	}, nil
}

// Address returns the signer's Base58 public key.
func (s *SolanaSigner) Address() string {
	return s.publicKey.String()
}

// SolanaClient reads pool and balance state from Solana RPC. Pools are
// configured as pairs of vault token accounts. Swap submission is not
// supported yet; SubmitSwap reports that instead of guessing.
type SolanaClient struct {
	config config.SolanaConfig
	client *rpc.Client
	log    *zap.Logger
}

// NewSolanaClient connects to the configured RPC endpoint.
func NewSolanaClient(cfg config.SolanaConfig, log *zap.Logger) (*SolanaClient, error) {
	if cfg.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for Solana")
	}
	return &SolanaClient{
		config: cfg,
		client: rpc.New(cfg.RPCUrl),
		log:    log,
	}, nil
}

// GetPoolReserves reads the vault balances of the configured pool for the
// pair, in either orientation.
func (c *SolanaClient) GetPoolReserves(ctx context.Context, tokenIn, tokenOut tokens.Token) (*PoolReserves, error) {
	vaultIn, vaultOut, err := c.resolveVaults(tokenIn.Symbol, tokenOut.Symbol)
	if err != nil {
		return nil, err
	}

	reserveIn, err := c.vaultBalance(ctx, vaultIn)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s vault: %w", tokenIn.Symbol, err)
	}
	reserveOut, err := c.vaultBalance(ctx, vaultOut)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s vault: %w", tokenOut.Symbol, err)
	}

	return &PoolReserves{ReserveIn: reserveIn, ReserveOut: reserveOut}, nil
}

// GetTokenBalance returns the associated token account balance for a wallet.
func (c *SolanaClient) GetTokenBalance(ctx context.Context, address string, token tokens.Token) (*big.Int, error) {
	if token.Mint == "" {
		return nil, fmt.Errorf("token %s is not available on solana", token.Symbol)
	}

	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}
	mint, err := solana.PublicKeyFromBase58(token.Mint)
	if err != nil {
		return nil, fmt.Errorf("invalid mint for %s: %w", token.Symbol, err)
	}

	tokenAccount, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated token address: %w", err)
	}

	return c.vaultBalance(ctx, tokenAccount)
}

// EstimateSwapGas is not supported on Solana.
func (c *SolanaClient) EstimateSwapGas(ctx context.Context, from string, amountIn, minAmountOut *big.Int, route []tokens.Token) (uint64, error) {
	return 0, fmt.Errorf("gas estimation: %w", ErrNotImplemented)
}

// SubmitSwap is not supported on Solana yet.
func (c *SolanaClient) SubmitSwap(ctx context.Context, signer Signer, amountIn, minAmountOut *big.Int, route []tokens.Token) (string, error) {
	return "", fmt.Errorf("swap submission: %w", ErrNotImplemented)
}

// TransactionStatus looks up a transaction by signature.
func (c *SolanaClient) TransactionStatus(ctx context.Context, hash string) (*TxStatus, error) {
	sig, err := solana.SignatureFromBase58(hash)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction signature: %w", err)
	}

	txInfo, err := c.client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding: solana.EncodingBase64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	status := &TxStatus{
		Hash:        hash,
		BlockNumber: txInfo.Slot,
	}
	if txInfo.Meta != nil {
		status.Success = txInfo.Meta.Err == nil
		status.GasUsed = txInfo.Meta.Fee
	}
	return status, nil
}

func (c *SolanaClient) resolveVaults(symbolIn, symbolOut string) (solana.PublicKey, solana.PublicKey, error) {
	var base, quote string
	pool, ok := c.config.Pools[symbolIn+"/"+symbolOut]
	if ok {
		base, quote = pool.BaseVault, pool.QuoteVault
	} else {
		// Reversed orientation: vault roles flip.
		pool, ok = c.config.Pools[symbolOut+"/"+symbolIn]
		if !ok {
			return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("%w: %s/%s", ErrPoolNotFound, symbolIn, symbolOut)
		}
		base, quote = pool.QuoteVault, pool.BaseVault
	}

	vaultIn, err := solana.PublicKeyFromBase58(base)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("invalid vault address %q: %w", base, err)
	}
	vaultOut, err := solana.PublicKeyFromBase58(quote)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("invalid vault address %q: %w", quote, err)
	}
	return vaultIn, vaultOut, nil
}

func (c *SolanaClient) vaultBalance(ctx context.Context, account solana.PublicKey) (*big.Int, error) {
	balance, err := c.client.GetTokenAccountBalance(ctx, account, c.commitment())
	if err != nil {
		if strings.Contains(err.Error(), "could not find account") {
			return big.NewInt(0), nil
		}
		return nil, fmt.Errorf("failed to get token balance: %w", err)
	}

	amount, ok := new(big.Int).SetString(balance.Value.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("failed to parse token balance %q", balance.Value.Amount)
	}
	return amount, nil
}

func (c *SolanaClient) commitment() rpc.CommitmentType {
	switch strings.ToLower(c.config.Commitment) {
	case "finalized":
		return rpc.CommitmentFinalized
	case "processed":
		return rpc.CommitmentProcessed
	default:
		return rpc.CommitmentConfirmed
	}
}
