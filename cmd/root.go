package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "rootswap",
	Short: "A CLI for swapping tokens on The Root Network testnet DEX",
	Long: `rootswap is a command-line tool for swapping tokens against the
constant-product DEX on The Root Network's Porcini testnet. Swaps can be
driven by one-shot commands or through an interactive chat session.

Examples:
  rootswap chat
  rootswap swap 10 ROOT to USDT
  rootswap quote 10 ROOT to USDT
  rootswap list-tokens
  rootswap status <tx-hash>`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

// newLogger builds the diagnostic logger. User-facing output goes through
// fmt/color; zap is for debugging with --verbose.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
