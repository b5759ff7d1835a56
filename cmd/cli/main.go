package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dvloznov/ledger-bot/internal/command"
	"github.com/dvloznov/ledger-bot/internal/config"
	"github.com/dvloznov/ledger-bot/internal/infra"
	"github.com/dvloznov/ledger-bot/internal/logger"
	"github.com/dvloznov/ledger-bot/internal/query"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const fetchTimeout = 2 * time.Minute

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var backend string

	rootCmd := &cobra.Command{
		Use:           "ledger-cli",
		Short:         "Query the customer ledger without going through LINE",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "", "Ledger backend (sheets, bigquery, notion, gcs); defaults to LEDGER_BACKEND")

	rootCmd.AddCommand(queryCmd(&backend))
	rootCmd.AddCommand(replyCmd(&backend))
	rootCmd.AddCommand(recordsCmd(&backend))

	return rootCmd
}

func queryCmd(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "query <name> <customer-id>",
		Short: "Print the transaction summary for one customer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), *backend, func(ctx context.Context, engine *query.Engine, log zerolog.Logger) error {
				res := engine.Search(ctx, args[0], args[1])
				log.Debug().Str("outcome", res.Outcome.String()).Int("matches", res.Matches).Msg("Search finished")
				fmt.Fprintln(cmd.OutOrStdout(), res.Text)
				return nil
			})
		},
	}
}

func replyCmd(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reply <message>",
		Short: "Print the reply the bot would send for a chat message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), *backend, func(ctx context.Context, engine *query.Engine, log zerolog.Logger) error {
				fmt.Fprintln(cmd.OutOrStdout(), command.NewResponder(engine, log).Respond(ctx, args[0]))
				return nil
			})
		},
	}
}

func recordsCmd(backend *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Fetch the ledger and print its rows as cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, log, err := loadConfig(*backend)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
			defer cancel()

			src, err := infra.OpenSource(ctx, cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			records, err := src.Fetch(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d rows from %s\n", len(records), cfg.LedgerBackend)
			for i, rec := range records {
				if limit > 0 && i >= limit {
					break
				}
				fmt.Fprintf(out, "\n%s\n", query.RenderCard(rec))
			}
			log.Debug().Int("rows", len(records)).Msg("Ledger fetched")
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 10, "Maximum rows to print (0 for all)")

	return cmd
}

// withEngine opens the configured source, runs fn against an engine over it, and closes it.
func withEngine(ctx context.Context, backend string, fn func(context.Context, *query.Engine, zerolog.Logger) error) error {
	cfg, log, err := loadConfig(backend)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var source query.RecordSource
	src, err := infra.OpenSource(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.LedgerBackend).Msg("Failed to open ledger source")
	} else {
		defer src.Close()
		source = src
	}

	return fn(ctx, query.NewEngine(source, log), log)
}

func loadConfig(backend string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if backend != "" {
		cfg.LedgerBackend = backend
	}

	// stdout carries the replies, logs go to stderr
	log := logger.NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(logger.ParseLevel(cfg.LogLevel))
	return cfg, log, nil
}
