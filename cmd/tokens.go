package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rootswap/pkg/tokens"
)

var filterSymbol string

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List all supported tokens",
	Long: `List the tokens in the registry, including any overrides from your
configuration.

Examples:
  rootswap list-tokens
  rootswap list-tokens --symbol USDT`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	list := a.registry.List()
	if filterSymbol != "" {
		var filtered []tokens.Token
		for _, t := range list {
			if strings.Contains(t.Symbol, strings.ToUpper(filterSymbol)) {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}

	if jsonOutput {
		type tokenOut struct {
			Symbol   string `json:"symbol"`
			Decimals int32  `json:"decimals"`
			Address  string `json:"address,omitempty"`
			Mint     string `json:"mint,omitempty"`
		}
		out := make([]tokenOut, 0, len(list))
		for _, t := range list {
			out = append(out, tokenOut{Symbol: t.Symbol, Decimals: t.Decimals, Address: t.Address, Mint: t.Mint})
		}
		jsonData, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayTokens(list)
}

func displayTokens(list []tokens.Token) {
	if len(list) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	color.Green("                          SUPPORTED TOKENS")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	for _, t := range list {
		address := t.Address
		if address == "" {
			address = t.Mint
		}
		fmt.Printf("  %-10s  %2d decimals  %s\n",
			color.YellowString(t.Symbol),
			t.Decimals,
			color.HiBlackString(address))
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Printf("\nTotal: %d tokens\n\n", len(list))
}
