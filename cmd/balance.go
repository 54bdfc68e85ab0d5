package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var balanceToken string

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show token balances for an address",
	Long: `Show the token balances of an address. Without an argument the
configured signer's address is used.

Examples:
  rootswap balance
  rootswap balance 0x1234...abcd
  rootswap balance --token ROOT`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVar(&balanceToken, "token", "", "Only show this token's balance")
}

func runBalance(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	address := a.signerAddress()
	if len(args) > 0 {
		address = args[0]
	}
	if address == "" {
		printError(fmt.Errorf("no address given and no signer configured"))
		os.Exit(1)
	}

	list := a.registry.List()
	if balanceToken != "" {
		t, err := a.registry.Resolve(balanceToken)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		list = list[:0]
		list = append(list, t)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching balances..."
		s.Start()
	}

	balances := make(map[string]string, len(list))
	for _, t := range list {
		amount, err := a.client.GetTokenBalance(cmd.Context(), address, t)
		if err != nil {
			// A token may simply not exist on the selected chain.
			a.log.Debug(fmt.Sprintf("skipping %s: %v", t.Symbol, err))
			continue
		}
		balances[t.Symbol] = t.FromBaseUnits(amount)
	}

	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		output := map[string]interface{}{
			"address":  address,
			"balances": balances,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                        BALANCES")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n  Address: %s\n\n", color.CyanString(address))

	for _, t := range list {
		if amount, ok := balances[t.Symbol]; ok {
			fmt.Printf("  %-10s %s\n", color.YellowString(t.Symbol), amount)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
