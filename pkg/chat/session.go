package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"rootswap/pkg/chain"
	"rootswap/pkg/quote"
	"rootswap/pkg/swap"
	"rootswap/pkg/tokens"
)

// step is the parameter-collection state of the swap conversation. The enum
// makes invalid combinations unrepresentable: each state says exactly which
// parameter is awaited next.
type step int

const (
	stepIdle step = iota
	stepAwaitingAmount
	stepAwaitingFromToken
	stepAwaitingToToken
)

const (
	promptAmount       = "How many tokens would you like to swap?"
	promptInvalidValue = "Please enter a valid number for the amount."
	promptConfirm      = "Type /confirm to execute this swap."
	promptNoPending    = "There is no pending swap to confirm."
	msgPoolNotFound    = "No liquidity pool exists for this token pair."
)

// pendingSwap holds a displayed quote awaiting /confirm. The executor's
// minimum-output bound comes from this quote, so the user gets what they saw.
type pendingSwap struct {
	params quote.Params
	quote  *quote.Quote
}

// Session is a single-user swap conversation. It collects swap parameters
// across turns, fetches a quote once they are complete and executes on
// /confirm. Messages are processed synchronously on the caller's goroutine,
// so no quote request can race another within a session.
type Session struct {
	quotes      *quote.Builder
	executor    *swap.Executor
	signer      chain.Signer // nil when no key is configured
	slippageBps uint
	log         *zap.Logger

	step      step
	amount    string
	fromToken string
	toToken   string
	pending   *pendingSwap
}

// NewSession creates a chat session. signer may be nil for quote-only use.
func NewSession(quotes *quote.Builder, executor *swap.Executor, signer chain.Signer, slippageBps uint, log *zap.Logger) *Session {
	return &Session{
		quotes:      quotes,
		executor:    executor,
		signer:      signer,
		slippageBps: slippageBps,
		log:         log,
	}
}

// HandleMessage processes one user message. The reply is the bot's response;
// handled reports whether the message matched the swap grammar (or was
// consumed as an awaited parameter). Errors never escape this boundary: every
// failure becomes a reply and leaves the session usable.
func (s *Session) HandleMessage(ctx context.Context, text string) (reply string, handled bool) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "", false
	}

	switch strings.ToLower(words[0]) {
	case "/swap":
		s.resetCollection()
		s.step = stepAwaitingAmount

		// The /swap form validates its amount inline; a bad amount aborts
		// the command rather than starting a collection.
		if len(words) > 1 && !isNumeric(words[1]) {
			s.resetCollection()
			return promptInvalidValue, true
		}
		return s.advance(ctx, words[1:]), true

	case "/confirm":
		return s.confirm(ctx), true

	default:
		if strings.HasPrefix(words[0], "/") {
			// Unrelated command: abandon any half-collected swap.
			s.resetCollection()
			return "", false
		}
		if s.step == stepIdle {
			// Free text outside a collection is not ours to answer.
			return "", false
		}
		return s.advance(ctx, words), true
	}
}

// advance consumes message words as awaited parameters until either the words
// run out (reply with the prompt for the next parameter) or the parameter set
// is complete (fetch a quote).
func (s *Session) advance(ctx context.Context, words []string) string {
	for len(words) > 0 {
		word, rest := words[0], words[1:]

		switch s.step {
		case stepAwaitingAmount:
			if !isNumeric(word) {
				return promptInvalidValue
			}
			s.amount = word
			s.step = stepAwaitingFromToken

		case stepAwaitingFromToken:
			s.fromToken = strings.ToUpper(word)
			s.step = stepAwaitingToToken

		case stepAwaitingToToken:
			if strings.EqualFold(word, "to") {
				break
			}
			s.toToken = strings.ToUpper(word)
			return s.completeAndQuote(ctx)

		default:
			return ""
		}
		words = rest
	}

	switch s.step {
	case stepAwaitingAmount:
		return promptAmount
	case stepAwaitingFromToken:
		return fmt.Sprintf("Swap %s of which token?", s.amount)
	case stepAwaitingToToken:
		return fmt.Sprintf("Swap %s %s to which token?", s.amount, s.fromToken)
	default:
		return ""
	}
}

// completeAndQuote turns the collected parameters into a quote and stores it
// as the pending swap.
func (s *Session) completeAndQuote(ctx context.Context) string {
	params := quote.Params{
		FromToken:   s.fromToken,
		ToToken:     s.toToken,
		Amount:      s.amount,
		SlippageBps: s.slippageBps,
	}
	s.resetCollection()

	var signerAddr string
	if s.signer != nil {
		signerAddr = s.signer.Address()
	}

	q, err := s.quotes.GetQuote(ctx, params, signerAddr)
	if err != nil {
		s.log.Debug("quote request failed", zap.Error(err))
		return quoteErrorReply(err)
	}

	s.pending = &pendingSwap{params: params, quote: q}

	var b strings.Builder
	fmt.Fprintf(&b, "Here's your swap quote:\n\n")
	fmt.Fprintf(&b, "  %s %s → %s %s\n", q.FromAmount, q.FromSymbol, q.ToAmount, q.ToSymbol)
	fmt.Fprintf(&b, "  Rate: 1 %s = %s %s\n", q.FromSymbol, q.Rate, q.ToSymbol)
	fmt.Fprintf(&b, "  Price impact: %.2f%%\n", q.PriceImpactPercent)
	if q.EstimatedGas != "" {
		fmt.Fprintf(&b, "  Estimated gas: %s\n", q.EstimatedGas)
	}
	fmt.Fprintf(&b, "\n%s", promptConfirm)
	return b.String()
}

// confirm executes the pending swap, if any. The pending quote is cleared
// whatever the outcome; a failed swap must be re-quoted, not retried blindly.
func (s *Session) confirm(ctx context.Context) string {
	if s.pending == nil {
		return promptNoPending
	}
	if s.signer == nil {
		return "No signer is configured. Set a private key to execute swaps."
	}

	pending := s.pending
	s.pending = nil

	result := s.executor.Execute(ctx, pending.params, pending.quote, s.signer)
	if !result.Success {
		if result.Hash != "" {
			return fmt.Sprintf("Swap failed: %s\nTransaction hash: %s", result.Error, result.Hash)
		}
		return fmt.Sprintf("Swap failed: %s", result.Error)
	}
	return fmt.Sprintf("Swap submitted!\nTransaction hash: %s", result.Hash)
}

func (s *Session) resetCollection() {
	s.step = stepIdle
	s.amount = ""
	s.fromToken = ""
	s.toToken = ""
}

// isNumeric mirrors the parser's amount check: the word must parse as a
// finite number. Formatting quirks (leading zeros, exponents) pass through
// untouched; the decimal conversion deals with them later.
func isNumeric(word string) bool {
	_, err := strconv.ParseFloat(word, 64)
	return err == nil
}

func quoteErrorReply(err error) string {
	switch {
	case errors.Is(err, chain.ErrPoolNotFound):
		return msgPoolNotFound
	case errors.Is(err, tokens.ErrUnknownToken):
		return fmt.Sprintf("Sorry, I don't recognize that token (%v).", err)
	case errors.Is(err, quote.ErrInvalidPair):
		return "You can't swap a token for itself. Pick a different destination token."
	case errors.Is(err, quote.ErrInsufficientBalance):
		return fmt.Sprintf("You don't have enough for this swap: %v.", err)
	case errors.Is(err, quote.ErrInvalidAmount):
		return promptInvalidValue
	default:
		return fmt.Sprintf("Couldn't fetch a quote: %v.", err)
	}
}
