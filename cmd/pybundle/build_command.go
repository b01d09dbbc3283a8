package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"pybundle/internal/buildspec"
	"pybundle/internal/engine"
	"pybundle/internal/history"
	"pybundle/internal/logging"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir string
		onedir    bool
		console   bool
		name      string
		icon      string
		admin     bool
		clean     bool
		noConfirm bool
		noUPX     bool
		upxDir    string
		specPath  string
		workPath  string
	)

	cmd := &cobra.Command{
		Use:   "build <script.py>",
		Short: "Build a standalone executable from a Python script",
		Long: `Build runs the packaging tool against the given script and streams its
output. A first interrupt (Ctrl+C) cancels the running build and tears down
its process tree; the command then exits with the cancelled status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			opts := buildspec.Options{
				Script:                 args[0],
				OutputDir:              outputDir,
				Name:                   name,
				IconPath:               icon,
				AdminPrivilege:         admin,
				CleanCache:             clean,
				OverwriteWithoutPrompt: noConfirm,
				SpecPath:               specPath,
				WorkPath:               workPath,
				UPX: buildspec.UPX{
					Enabled:   !noUPX,
					CustomDir: upxDir,
				},
			}
			if onedir {
				opts.Mode = buildspec.ModeOneDir
			}
			if console {
				opts.Runtime = buildspec.RuntimeConsole
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			eng, err := engine.New(cfg, logger, engine.WithRecorder(store))
			if err != nil {
				return err
			}

			sink := newStreamSink(cmd.OutOrStdout())
			if _, err := eng.Start(cmd.Context(), opts, sink); err != nil {
				return err
			}

			interrupts := make(chan os.Signal, 1)
			signal.Notify(interrupts, os.Interrupt)
			defer signal.Stop(interrupts)

			go func() {
				for range interrupts {
					_ = eng.Cancel()
				}
			}()

			result := sink.wait()
			printResult(cmd.OutOrStdout(), result, shouldColorize(cmd.OutOrStdout()))

			switch result.Outcome {
			case engine.OutcomeSucceeded:
				return nil
			case engine.OutcomeCancelled:
				return fmt.Errorf("build cancelled")
			default:
				return fmt.Errorf("build failed")
			}
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "dist", "Directory receiving the executable")
	cmd.Flags().BoolVar(&onedir, "onedir", false, "Produce a directory instead of a single file")
	cmd.Flags().BoolVar(&console, "console", false, "Keep a console window attached to the executable")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Executable name (defaults to the script stem)")
	cmd.Flags().StringVar(&icon, "icon", "", "Path to an .ico file")
	cmd.Flags().BoolVar(&admin, "admin", false, "Request administrator privileges on launch (Windows)")
	cmd.Flags().BoolVar(&clean, "clean", false, "Clear the packaging tool cache before building")
	cmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Overwrite previous output without prompting")
	cmd.Flags().BoolVar(&noUPX, "no-upx", false, "Disable executable compression")
	cmd.Flags().StringVar(&upxDir, "upx-dir", "", "Directory holding the UPX executable")
	cmd.Flags().StringVar(&specPath, "specpath", "", "Directory receiving the generated spec file")
	cmd.Flags().StringVar(&workPath, "workpath", "", "Directory for build scratch files")

	return cmd
}
