package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rootswap/pkg/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive swap chat session",
	Long: `Start a chat-style session where swaps are driven conversationally.
The /swap command collects the amount and token pair across turns, shows a
quote, and executes once you type /confirm.

Examples (inside the session):
  /swap
  /swap 10
  /swap 10 ROOT
  /swap 10 ROOT to USDT
  /confirm`,
	Run: runChat,
}

const chatHelp = `Commands:
  /swap [amount] [token] [to token]   start or continue a swap
  /confirm                            execute the pending swap
  /help                               show this help
  /exit                               leave the session`

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	a, err := newApp(verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	session := chat.NewSession(a.quotes, a.executor, a.signer, a.cfg.SlippageBps, a.log)

	color.Green("\nWelcome to rootswap chat.")
	if addr := a.signerAddress(); addr != "" {
		fmt.Printf("Signer: %s\n", color.CyanString(addr))
	} else {
		color.Yellow("No signer configured: quotes only, /confirm is disabled.")
	}
	fmt.Println(chatHelp)
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.HiBlackString("you> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "/exit", "/quit":
			fmt.Println("Bye!")
			return
		case "/help":
			fmt.Println(chatHelp)
			continue
		}

		reply, handled := session.HandleMessage(cmd.Context(), line)
		if !handled {
			color.Yellow("I didn't catch that. Try /help for the supported commands.")
			continue
		}
		if reply != "" {
			fmt.Printf("%s %s\n", color.GreenString("bot>"), reply)
		}
	}
}
