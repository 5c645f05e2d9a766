package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/aurora-go/internal/app"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(build Builder) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the utterance audit log",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(build),
		newHistoryClearCommand(build),
		newHistoryExportCommand(build),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(build Builder) *cobra.Command {
	var limit int
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent utterances",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, query)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	cmd.Flags().StringVar(&query, "query", "", "Filter by utterance or intent text")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all audit records",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			if container.Audit == nil {
				return errors.New(ErrAuditDisabled)
			}
			if err := container.Audit.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgHistoryCleared)
			return nil
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export audit records to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			if container.Audit == nil {
				return errors.New(ErrAuditDisabled)
			}
			if err := container.Audit.ExportJSON(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
			return nil
		},
	}
}

// listHistoryEntries prints recent audit records, newest first
func listHistoryEntries(out io.Writer, container *app.Container, limit int, query string) error {
	if container.Audit == nil {
		return errors.New(ErrAuditDisabled)
	}

	records, err := container.Audit.Records(limit, query)
	if err != nil {
		return fmt.Errorf("failed to retrieve audit records: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%-16s | %-12s | %-12s | %.0f%% | %s\n",
			humanize.Time(rec.Timestamp),
			rec.Status,
			rec.Intent,
			rec.Confidence*100,
			rec.Utterance)
	}

	return nil
}
