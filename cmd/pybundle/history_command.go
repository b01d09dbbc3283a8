package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"pybundle/internal/engine"
	"pybundle/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past build sessions",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent build sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No build sessions recorded")
				return nil
			}
			fmt.Fprintln(out, renderSessionTable(records, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions to show")
	return cmd
}

// renderSessionTable lays out finished sessions newest first. Exit code and
// duration are right-aligned; the outcome column is colorized on terminals.
func renderSessionTable(records []history.Record, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Finished", "Script", "Outcome", "Exit", "Duration", "Diagnosis"})
	for _, rec := range records {
		tw.AppendRow(table.Row{
			rec.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Script,
			rec.Outcome,
			rec.ExitCode,
			rec.Duration.Round(timeRounding),
			rec.SignatureID,
		})
	}

	configs := []table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	}
	if colorize {
		configs = append(configs, table.ColumnConfig{
			Number:      3,
			Transformer: outcomeCell,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func outcomeCell(val interface{}) string {
	outcome := fmt.Sprint(val)
	switch outcome {
	case string(engine.OutcomeSucceeded):
		return text.Colors{text.FgGreen}.Sprint(outcome)
	case string(engine.OutcomeCancelled):
		return text.Colors{text.FgYellow}.Sprint(outcome)
	case string(engine.OutcomeFailed):
		return text.Colors{text.FgRed}.Sprint(outcome)
	default:
		return outcome
	}
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one build session in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session:    %s\n", rec.SessionID)
			fmt.Fprintf(out, "Script:     %s\n", rec.Script)
			fmt.Fprintf(out, "Output dir: %s\n", rec.OutputDir)
			fmt.Fprintf(out, "Layout:     %s / %s\n", rec.Mode, rec.Runtime)
			fmt.Fprintf(out, "Name:       %s\n", rec.Name)
			fmt.Fprintf(out, "Outcome:    %s (exit %d)\n", rec.Outcome, rec.ExitCode)
			fmt.Fprintf(out, "Duration:   %s\n", rec.Duration.Round(timeRounding))
			fmt.Fprintf(out, "Finished:   %s\n", rec.FinishedAt.Local().Format("2006-01-02 15:04:05"))
			if rec.SignatureID != "" {
				fmt.Fprintf(out, "Diagnosis:  %s\n", rec.SignatureID)
			}
			if rec.Advisory != "" {
				fmt.Fprintf(out, "Advisory:   %s\n", rec.Advisory)
			}
			return nil
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all recorded build sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d session(s)\n", removed)
			return nil
		},
	}
}
