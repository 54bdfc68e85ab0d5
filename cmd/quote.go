package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"rootswap/pkg/parser"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Get a swap quote without executing",
	Long: `Fetch a quote for a swap from fresh pool reserves, without submitting
anything on-chain.

Examples:
  rootswap quote 10 ROOT to USDT
  rootswap quote 0.5 XRP to USDC --json`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) {
	params, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

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

	if jsonOutput {
		output := map[string]interface{}{
			"from_amount":  q.FromAmount,
			"from_token":   q.FromSymbol,
			"to_amount":    q.ToAmount,
			"to_token":     q.ToSymbol,
			"rate":         q.Rate,
			"price_impact": q.PriceImpactPercent,
			"route":        q.Route,
		}
		if q.EstimatedGas != "" {
			output["estimated_gas"] = q.EstimatedGas
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayQuote(q)
}
