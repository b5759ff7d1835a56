// Package query answers customer transaction lookups against the ledger.
package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/dvloznov/ledger-bot/internal/ledger"
	"github.com/dvloznov/ledger-bot/internal/logger"
	"github.com/rs/zerolog"
)

// RecentLimit is the number of most recent transactions shown for a customer.
const RecentLimit = 3

// RecordSource supplies a fresh snapshot of every ledger row.
type RecordSource interface {
	Fetch(ctx context.Context) ([]ledger.Record, error)
}

// Outcome classifies how a search ended.
type Outcome int

const (
	// OutcomeFound means at least one transaction was rendered.
	OutcomeFound Outcome = iota
	// OutcomeNotFound means no row matched the customer.
	OutcomeNotFound
	// OutcomeUnavailable means the ledger is not configured or could not be read.
	OutcomeUnavailable
	// OutcomeFailed means summarising the matches failed unexpectedly.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the reply for one search. Text is always displayable.
type Result struct {
	Outcome Outcome
	Text    string
	Matches int
}

// Engine looks up a customer's transactions and formats the reply.
type Engine struct {
	source RecordSource
	log    zerolog.Logger
}

// NewEngine creates an engine over source. A nil source is allowed and makes every
// search report the ledger as unreachable.
func NewEngine(source RecordSource, log zerolog.Logger) *Engine {
	return &Engine{source: source, log: log}
}

// Available reports whether a record source is configured.
func (e *Engine) Available() bool {
	return e.source != nil
}

// Search returns the customer's three most recent transactions plus any other unsettled
// ones. It never returns an error; failures map to fixed reply texts.
func (e *Engine) Search(ctx context.Context, name, id string) (res Result) {
	if e.source == nil {
		return Result{Outcome: OutcomeUnavailable, Text: MsgUnavailable}
	}

	log := logger.FromContextOr(ctx, e.log)

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Str("customer_name", name).Str("customer_id", id).Msg("Transaction query panicked")
			res = Result{Outcome: OutcomeFailed, Text: MsgUnknownError}
		}
	}()

	records, err := e.source.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Str("customer_name", name).Str("customer_id", id).Msg("Failed to fetch ledger records")
		return Result{Outcome: OutcomeUnavailable, Text: MsgUnavailable}
	}

	res, err = summarize(records, name, id)
	if err != nil {
		log.Error().Err(err).Str("customer_name", name).Str("customer_id", id).Msg("Transaction query failed")
		return Result{Outcome: OutcomeFailed, Text: MsgUnknownError}
	}

	log.Debug().
		Str("customer_name", name).
		Str("customer_id", id).
		Int("records", len(records)).
		Int("matches", res.Matches).
		Str("outcome", res.Outcome.String()).
		Msg("Transaction query completed")

	return res
}

func summarize(records []ledger.Record, name, id string) (Result, error) {
	var matches []ledger.Record
	for _, r := range records {
		if r.MatchesCustomer(name, id) {
			matches = append(matches, r)
		}
	}

	notFound := Result{Outcome: OutcomeNotFound, Text: NotFoundMessage(name, id)}
	if len(matches) == 0 {
		return notFound, nil
	}

	// Dates compare as strings; ties keep ledger order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.Value > matches[j].Date.Value
	})

	recent := matches
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}

	shown := make(map[string]bool, len(recent))
	for _, r := range recent {
		key, err := r.Key()
		if err != nil {
			return Result{}, fmt.Errorf("summarize: %w", err)
		}
		shown[key] = true
	}

	var unsettled []ledger.Record
	for _, r := range matches {
		if !r.IsUnsettled() {
			continue
		}
		key, err := r.Key()
		if err != nil {
			return Result{}, fmt.Errorf("summarize: %w", err)
		}
		if !shown[key] {
			unsettled = append(unsettled, r)
		}
	}

	var parts []string
	parts = renderBlock(parts, recentHeader, recent)
	parts = renderBlock(parts, unsettledHeader, unsettled)

	text := compose(parts)
	if text == "" {
		return notFound, nil
	}

	return Result{Outcome: OutcomeFound, Text: text, Matches: len(matches)}, nil
}
