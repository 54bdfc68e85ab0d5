package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"rootswap/config"
	"rootswap/pkg/tokens"
)

// UniswapV2-style DEX contract fragments.
const (
	factoryABI = `[{"constant":true,"inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"}],"name":"getPair","outputs":[{"name":"pair","type":"address"}],"type":"function"}]`

	pairABI = `[{"constant":true,"inputs":[],"name":"getReserves","outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}],"type":"function"},{"constant":true,"inputs":[],"name":"token0","outputs":[{"name":"","type":"address"}],"type":"function"}]`

	erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"},{"constant":true,"inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

	routerABI = `[{"inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"name":"swapExactTokensForTokens","outputs":[{"name":"amounts","type":"uint256[]"}],"type":"function"}]`
)

// EVMSigner signs swap transactions with a local private key.
type EVMSigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewEVMSigner parses a hex-encoded private key.
func NewEVMSigner(hexKey string) (*EVMSigner, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &EVMSigner{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Address returns the signer's checksummed hex address.
func (s *EVMSigner) Address() string {
	return s.address.Hex()
}

// EVMClient queries and submits swaps against a UniswapV2-compatible DEX on
// an EVM chain.
type EVMClient struct {
	config  config.EVMConfig
	client  *ethclient.Client
	chainID *big.Int
	router  common.Address
	factory common.Address
	log     *zap.Logger

	factoryABI abi.ABI
	pairABI    abi.ABI
	erc20ABI   abi.ABI
	routerABI  abi.ABI
}

// NewEVMClient connects to the configured RPC endpoint.
func NewEVMClient(cfg config.EVMConfig, log *zap.Logger) (*EVMClient, error) {
	if cfg.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for EVM chain")
	}
	if !common.IsHexAddress(cfg.RouterAddress) {
		return nil, fmt.Errorf("invalid router address: %s", cfg.RouterAddress)
	}
	if !common.IsHexAddress(cfg.FactoryAddress) {
		return nil, fmt.Errorf("invalid factory address: %s", cfg.FactoryAddress)
	}

	client, err := ethclient.Dial(cfg.RPCUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	c := &EVMClient{
		config:  cfg,
		client:  client,
		chainID: big.NewInt(cfg.ChainID),
		router:  common.HexToAddress(cfg.RouterAddress),
		factory: common.HexToAddress(cfg.FactoryAddress),
		log:     log,
	}

	for _, def := range []struct {
		raw string
		dst *abi.ABI
	}{
		{factoryABI, &c.factoryABI},
		{pairABI, &c.pairABI},
		{erc20ABI, &c.erc20ABI},
		{routerABI, &c.routerABI},
	} {
		parsed, err := abi.JSON(strings.NewReader(def.raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
		}
		*def.dst = parsed
	}

	return c, nil
}

// GetPoolReserves resolves the pair contract for (tokenIn, tokenOut) and
// returns its reserves ordered as (in, out).
func (c *EVMClient) GetPoolReserves(ctx context.Context, tokenIn, tokenOut tokens.Token) (*PoolReserves, error) {
	inAddr := common.HexToAddress(tokenIn.Address)
	outAddr := common.HexToAddress(tokenOut.Address)

	results, err := c.call(ctx, c.factory, c.factoryABI, "getPair", inAddr, outAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pair: %w", err)
	}
	pair := results[0].(common.Address)
	if pair == (common.Address{}) {
		return nil, fmt.Errorf("%w: %s/%s", ErrPoolNotFound, tokenIn.Symbol, tokenOut.Symbol)
	}

	results, err = c.call(ctx, pair, c.pairABI, "getReserves")
	if err != nil {
		return nil, fmt.Errorf("failed to get reserves: %w", err)
	}
	reserve0 := results[0].(*big.Int)
	reserve1 := results[1].(*big.Int)

	results, err = c.call(ctx, pair, c.pairABI, "token0")
	if err != nil {
		return nil, fmt.Errorf("failed to get token0: %w", err)
	}
	token0 := results[0].(common.Address)

	if token0 == inAddr {
		return &PoolReserves{ReserveIn: reserve0, ReserveOut: reserve1}, nil
	}
	return &PoolReserves{ReserveIn: reserve1, ReserveOut: reserve0}, nil
}

// GetTokenBalance returns the ERC-20 balance for an address.
func (c *EVMClient) GetTokenBalance(ctx context.Context, address string, token tokens.Token) (*big.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid address: %s", address)
	}

	results, err := c.call(ctx, common.HexToAddress(token.Address), c.erc20ABI, "balanceOf", common.HexToAddress(address))
	if err != nil {
		return nil, fmt.Errorf("failed to get %s balance: %w", token.Symbol, err)
	}
	return results[0].(*big.Int), nil
}

// EstimateSwapGas estimates gas for the swap call with a 20% buffer.
func (c *EVMClient) EstimateSwapGas(ctx context.Context, from string, amountIn, minAmountOut *big.Int, route []tokens.Token) (uint64, error) {
	if !common.IsHexAddress(from) {
		return 0, fmt.Errorf("invalid from address: %s", from)
	}
	fromAddr := common.HexToAddress(from)

	data, err := c.packSwap(amountIn, minAmountOut, route, fromAddr)
	if err != nil {
		return 0, err
	}

	gas, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From: fromAddr,
		To:   &c.router,
		Data: data,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to estimate gas: %w", err)
	}
	return gas * 120 / 100, nil
}

// SubmitSwap signs and submits a minimum-output-bounded swap and waits for
// inclusion. If the transaction was broadcast but the wait is cut short, the
// hash is returned without an error.
func (c *EVMClient) SubmitSwap(ctx context.Context, signer Signer, amountIn, minAmountOut *big.Int, route []tokens.Token) (string, error) {
	es, ok := signer.(*EVMSigner)
	if !ok {
		return "", fmt.Errorf("signer is not compatible with the EVM chain")
	}

	if err := c.ensureAllowance(ctx, es, route[0], amountIn); err != nil {
		return "", err
	}

	data, err := c.packSwap(amountIn, minAmountOut, route, es.address)
	if err != nil {
		return "", err
	}

	signedTx, err := c.signAndSend(ctx, es, c.router, data, nil)
	if err != nil {
		return "", err
	}
	hash := signedTx.Hash().Hex()

	c.log.Debug("swap transaction submitted",
		zap.String("hash", hash),
		zap.String("amount_in", amountIn.String()),
		zap.String("min_amount_out", minAmountOut.String()))

	receipt, err := bind.WaitMined(ctx, c.client, signedTx)
	if err != nil {
		// Broadcast succeeded; the caller holds the hash and can poll later.
		c.log.Warn("gave up waiting for inclusion", zap.String("hash", hash), zap.Error(err))
		return hash, nil
	}
	if receipt.Status == ethtypes.ReceiptStatusFailed {
		return hash, fmt.Errorf("transaction reverted on-chain")
	}
	return hash, nil
}

// TransactionStatus looks up a transaction by hash.
func (c *EVMClient) TransactionStatus(ctx context.Context, hash string) (*TxStatus, error) {
	txHash := common.HexToHash(hash)

	_, isPending, err := c.client.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	status := &TxStatus{Hash: txHash.Hex(), Pending: isPending}
	if isPending {
		return status, nil
	}

	receipt, err := c.client.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}
	status.Success = receipt.Status == ethtypes.ReceiptStatusSuccessful
	status.BlockNumber = receipt.BlockNumber.Uint64()
	status.GasUsed = receipt.GasUsed
	return status, nil
}

// Close closes the underlying RPC connection.
func (c *EVMClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *EVMClient) packSwap(amountIn, minAmountOut *big.Int, route []tokens.Token, to common.Address) ([]byte, error) {
	path := make([]common.Address, len(route))
	for i, t := range route {
		path[i] = common.HexToAddress(t.Address)
	}
	deadline := big.NewInt(time.Now().Add(20 * time.Minute).Unix())

	data, err := c.routerABI.Pack("swapExactTokensForTokens", amountIn, minAmountOut, path, to, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to pack swap call: %w", err)
	}
	return data, nil
}

// ensureAllowance approves the router to spend the input token when the
// current allowance is below amountIn.
func (c *EVMClient) ensureAllowance(ctx context.Context, es *EVMSigner, token tokens.Token, amountIn *big.Int) error {
	tokenAddr := common.HexToAddress(token.Address)

	results, err := c.call(ctx, tokenAddr, c.erc20ABI, "allowance", es.address, c.router)
	if err != nil {
		return fmt.Errorf("failed to check allowance: %w", err)
	}
	allowance := results[0].(*big.Int)
	if allowance.Cmp(amountIn) >= 0 {
		return nil
	}

	data, err := c.erc20ABI.Pack("approve", c.router, amountIn)
	if err != nil {
		return fmt.Errorf("failed to pack approve call: %w", err)
	}

	signedTx, err := c.signAndSend(ctx, es, tokenAddr, data, nil)
	if err != nil {
		return fmt.Errorf("failed to approve %s: %w", token.Symbol, err)
	}

	c.log.Debug("approval transaction submitted", zap.String("hash", signedTx.Hash().Hex()))

	receipt, err := bind.WaitMined(ctx, c.client, signedTx)
	if err != nil {
		return fmt.Errorf("failed waiting for approval: %w", err)
	}
	if receipt.Status == ethtypes.ReceiptStatusFailed {
		return fmt.Errorf("approval transaction reverted")
	}
	return nil
}

func (c *EVMClient) signAndSend(ctx context.Context, es *EVMSigner, to common.Address, data []byte, value *big.Int) (*ethtypes.Transaction, error) {
	nonce, err := c.client.PendingNonceAt(ctx, es.address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := c.gasPrice(ctx)
	if err != nil {
		return nil, err
	}

	gasLimit := uint64(300000)
	if c.config.GasLimit != nil {
		gasLimit = *c.config.GasLimit
	} else {
		estimated, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
			From: es.address,
			To:   &to,
			Data: data,
		})
		if err == nil {
			gasLimit = estimated * 120 / 100
		}
	}

	if value == nil {
		value = big.NewInt(0)
	}
	tx := ethtypes.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)

	signedTx, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(c.chainID), es.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signedTx, nil
}

// call performs a read-only contract call and unpacks the result.
func (c *EVMClient) call(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	output, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	results, err := contractABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return results, nil
}

func (c *EVMClient) gasPrice(ctx context.Context) (*big.Int, error) {
	if c.config.GasPrice != nil {
		return big.NewInt(*c.config.GasPrice), nil
	}
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	return gasPrice, nil
}
