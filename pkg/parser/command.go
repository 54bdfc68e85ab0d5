package parser

import (
	"fmt"
	"regexp"
	"strings"

	"rootswap/pkg/quote"
)

// Pattern: <amount> <source_token> TO <dest_token>
// Matches: "1 ROOT TO USDT", "1.5 XRP TO USDC", "100.25 USDT TO ROOT"
var swapPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 1 ROOT to USDT"
//   - "1.5 XRP to USDC"
//   - "100 USDT to ROOT"
func ParseSwapCommand(command string) (*quote.Params, error) {
	// Normalize the command
	command = strings.TrimSpace(strings.ToUpper(command))

	// Remove the word "SWAP" if present at the beginning
	command = strings.TrimPrefix(command, "SWAP ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: '<amount> <token> to <token>' (e.g., '1 ROOT to USDT')")
	}

	params := &quote.Params{
		Amount:    matches[1],
		FromToken: matches[2],
		ToToken:   matches[3],
	}
	if params.FromToken == params.ToToken {
		return nil, fmt.Errorf("source and destination tokens must differ")
	}
	return params, nil
}
