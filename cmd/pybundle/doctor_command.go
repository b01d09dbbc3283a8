package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pybundle/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the build environment is usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := []deps.Status{
				deps.CheckInterpreter(cfg.Tool.Python),
				deps.CheckPackagingModule(cmd.Context(), cfg.Tool.Python, cfg.Tool.Module),
				deps.CheckCompressor(cfg.UPX.BundledDir),
			}

			required := 0
			for _, status := range statuses {
				kind := statusOK
				if !status.Available {
					if status.Optional {
						kind = statusWarn
					} else {
						kind = statusError
						required++
					}
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, statusMessage(status), colorize))
			}

			if required > 0 {
				return fmt.Errorf("%d required dependency check(s) failed", required)
			}
			return nil
		},
	}
}

func statusMessage(status deps.Status) string {
	switch {
	case status.Available && status.Detail != "":
		return status.Detail
	case status.Available:
		return status.Command
	default:
		return status.Detail
	}
}
