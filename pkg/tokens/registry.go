package tokens

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownToken is returned when a symbol is not in the registry.
var ErrUnknownToken = errors.New("unknown token")

// Token describes a supported token and its per-chain identifiers.
type Token struct {
	Symbol   string
	Decimals int32
	// Address is the ERC-20 (precompile) address on the EVM side.
	Address string
	// Mint is the SPL token mint on the Solana side, if the token exists there.
	Mint string
}

// Registry maps token symbols to their metadata. Lookups are case-insensitive;
// symbols are stored uppercased.
type Registry struct {
	tokens map[string]Token
}

// Default tokens for the Porcini testnet. Asset precompile addresses follow
// the 0xCCCCCCCC<assetId> derivation used by the network.
var defaultTokens = []Token{
	{Symbol: "ROOT", Decimals: 6, Address: "0xcCcCCccC00000001000000000000000000000000"},
	{Symbol: "XRP", Decimals: 6, Address: "0xCCCCcCCc00000002000000000000000000000000"},
	{Symbol: "USDT", Decimals: 6, Address: "0xccCcCCcC000007C0000000000000000000000000"},
	{Symbol: "USDC", Decimals: 6, Address: "0xCcCCccCC00000880000000000000000000000000"},
}

// NewRegistry builds a registry from the default token table plus any
// overrides. An override with a known symbol replaces the default entry.
func NewRegistry(overrides ...Token) *Registry {
	r := &Registry{tokens: make(map[string]Token)}
	for _, t := range defaultTokens {
		r.add(t)
	}
	for _, t := range overrides {
		r.add(t)
	}
	return r
}

func (r *Registry) add(t Token) {
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
	if t.Symbol == "" {
		return
	}
	r.tokens[t.Symbol] = t
}

// Resolve returns the token for a symbol.
func (r *Registry) Resolve(symbol string) (Token, error) {
	t, ok := r.tokens[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Token{}, fmt.Errorf("%w: %s", ErrUnknownToken, strings.ToUpper(symbol))
	}
	return t, nil
}

// List returns all registered tokens sorted by symbol.
func (r *Registry) List() []Token {
	out := make([]Token, 0, len(r.tokens))
	for _, t := range r.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// ToBaseUnits converts a human-readable decimal amount to the token's
// smallest-unit integer representation, truncating any precision beyond
// the token's decimals.
func (t Token) ToBaseUnits(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %q", amount)
	}
	return d.Shift(t.Decimals).Truncate(0).BigInt(), nil
}

// FromBaseUnits converts a smallest-unit integer amount back to a
// human-readable decimal string.
func (t Token) FromBaseUnits(amount *big.Int) string {
	return decimal.NewFromBigInt(amount, -t.Decimals).String()
}
