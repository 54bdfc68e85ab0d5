package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rootswap/pkg/parser"
	"rootswap/pkg/quote"
)

var (
	slippageBps uint
	noConfirm   bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Swap tokens on the DEX",
	Long: `Swap tokens against the constant-product DEX. The swap is quoted first
and executed only after confirmation. The submitted transaction is bounded by
a minimum output derived from the quote and your slippage tolerance.

Examples:
  rootswap swap 10 ROOT to USDT
  rootswap swap 0.5 XRP to USDC --slippage-bps 100
  rootswap swap 10 ROOT to USDT --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().UintVar(&slippageBps, "slippage-bps", 0, "Slippage tolerance in basis points (default 500 = 5%)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	params, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if slippageBps > 0 {
		params.SlippageBps = slippageBps
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	if params.SlippageBps == 0 {
		params.SlippageBps = a.cfg.SlippageBps
	}

	signer, err := a.requireSigner()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Get quote with spinner
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	q, err := a.quotes.GetQuote(cmd.Context(), *params, a.signerAddress())
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !jsonOutput {
		displayQuote(q)
		if !noConfirm && !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
		s.Suffix = " Submitting swap..."
		s.Start()
	}

	result := a.executor.Execute(cmd.Context(), *params, q, signer)
	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		output := map[string]interface{}{
			"from_amount":  q.FromAmount,
			"from_token":   q.FromSymbol,
			"to_amount":    q.ToAmount,
			"to_token":     q.ToSymbol,
			"price_impact": q.PriceImpactPercent,
			"hash":         result.Hash,
			"success":      result.Success,
		}
		if result.Error != "" {
			output["error"] = result.Error
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		if !result.Success {
			os.Exit(1)
		}
		return
	}

	if !result.Success {
		color.Red("\nSwap failed: %s", result.Error)
		if result.Hash != "" {
			fmt.Printf("  Transaction hash: %s\n", color.CyanString(result.Hash))
		}
		os.Exit(1)
	}

	color.Green("\n✓ Swap submitted!")
	fmt.Printf("  Transaction hash: %s\n", color.CyanString(result.Hash))
	fmt.Println("\nYou can check the transaction status using:")
	color.Cyan("  rootswap status %s\n", result.Hash)
}

func displayQuote(q *quote.Quote) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:          %s %s\n", q.FromAmount, color.YellowString(q.FromSymbol))
	fmt.Printf("  To:            ~%s %s\n", q.ToAmount, color.YellowString(q.ToSymbol))
	fmt.Printf("  Rate:          1 %s = %s %s\n", q.FromSymbol, q.Rate, q.ToSymbol)
	fmt.Printf("  Price Impact:  %.2f%%\n", q.PriceImpactPercent)
	fmt.Printf("  Route:         %s\n", strings.Join(q.Route, " → "))
	if q.EstimatedGas != "" {
		fmt.Printf("  Est. Gas:      %s\n", q.EstimatedGas)
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
