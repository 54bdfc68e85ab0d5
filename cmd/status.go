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

	"rootswap/pkg/chain"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Check the status of a swap transaction",
	Long: `Check the on-chain status of a submitted swap transaction by its hash.

Examples:
  rootswap status 0x1234...abcd
  rootswap status 0x1234...abcd --watch
  rootswap status 0x1234...abcd --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	txHash := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	if watchStatus {
		watchTxStatus(cmd, a.client, txHash, jsonOutput)
	} else {
		checkTxStatus(cmd, a.client, txHash, jsonOutput)
	}
}

func checkTxStatus(cmd *cobra.Command, client chain.Client, txHash string, jsonOutput bool) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking transaction status..."
		s.Start()
	}

	status, err := client.TransactionStatus(cmd.Context(), txHash)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTxStatus(status)
	}
}

func watchTxStatus(cmd *cobra.Command, client chain.Client, txHash string, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching transaction %s\n", color.CyanString(txHash))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	for {
		status, err := client.TransactionStatus(cmd.Context(), txHash)
		if err != nil {
			color.Red("Error: %v", err)
		} else {
			displayTxStatus(status)
			if !status.Pending {
				return
			}
		}

		select {
		case <-ticker.C:
		case <-cmd.Context().Done():
			return
		}
	}
}

func displayTxStatus(status *chain.TxStatus) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                     TRANSACTION STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Hash:    %s\n", color.CyanString(status.Hash))
	fmt.Printf("  Status:  %s\n", coloredTxState(status))
	if !status.Pending {
		fmt.Printf("  Block:   %d\n", status.BlockNumber)
		fmt.Printf("  Gas:     %d\n", status.GasUsed)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func coloredTxState(status *chain.TxStatus) string {
	switch {
	case status.Pending:
		return color.YellowString("PENDING")
	case status.Success:
		return color.GreenString("SUCCESS")
	default:
		return color.RedString("REVERTED")
	}
}
