// Package command interprets chat messages sent to the bot.
package command

import (
	"context"
	"strings"

	"github.com/dvloznov/ledger-bot/internal/logger"
	"github.com/dvloznov/ledger-bot/internal/query"
	"github.com/rs/zerolog"
)

// QueryPrefix starts a transaction lookup: "查詢 <name> <id>".
const QueryPrefix = "查詢"

// Reply texts for messages that are not a well-formed query.
const (
	MsgHelp      = "請輸入 '查詢 客戶姓名 客戶ID' 來查詢交易紀錄。"
	MsgBadFormat = "指令格式不正確。\n請輸入 '查詢 客戶姓名 客戶ID'。"
)

// Kind identifies what a message asks for.
type Kind int

const (
	// KindHelp is any message that does not start with QueryPrefix.
	KindHelp Kind = iota
	// KindQuery is a well-formed lookup.
	KindQuery
	// KindMalformed starts with QueryPrefix but has the wrong number of parts.
	KindMalformed
)

// Command is a parsed chat message.
type Command struct {
	Kind       Kind
	Name       string
	CustomerID string
}

// Parse interprets text. The message is trimmed and split on single spaces into at most
// three parts, so the customer id keeps any further spaces.
func Parse(text string) Command {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, QueryPrefix) {
		return Command{Kind: KindHelp}
	}

	parts := strings.SplitN(text, " ", 3)
	if len(parts) != 3 {
		return Command{Kind: KindMalformed}
	}

	return Command{Kind: KindQuery, Name: parts[1], CustomerID: parts[2]}
}

// Searcher runs a transaction lookup.
type Searcher interface {
	Search(ctx context.Context, name, id string) query.Result
}

// Responder turns an incoming chat message into the reply text.
type Responder struct {
	searcher Searcher
	log      zerolog.Logger
}

// NewResponder creates a Responder backed by searcher.
func NewResponder(searcher Searcher, log zerolog.Logger) *Responder {
	return &Responder{searcher: searcher, log: log}
}

// Respond returns the reply for text. The searcher is only consulted for well-formed queries.
// A logger carried by ctx takes precedence over the one given to NewResponder.
func (r *Responder) Respond(ctx context.Context, text string) string {
	cmd := Parse(text)

	switch cmd.Kind {
	case KindQuery:
		res := r.searcher.Search(ctx, cmd.Name, cmd.CustomerID)
		log := logger.FromContextOr(ctx, r.log)
		log.Info().
			Str("customer_name", cmd.Name).
			Str("customer_id", cmd.CustomerID).
			Str("outcome", res.Outcome.String()).
			Int("matches", res.Matches).
			Msg("Answered transaction query")
		return res.Text
	case KindMalformed:
		return MsgBadFormat
	default:
		return MsgHelp
	}
}
