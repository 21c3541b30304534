// Package cli defines the voxcli command surface and its exit behavior.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"voxcli/internal/app"
	"voxcli/internal/config"
	"voxcli/internal/logging"
	"voxcli/internal/version"
)

// Dependencies holds everything commands need at run time. The App is
// populated by the root PersistentPreRunE once config and logging exist.
type Dependencies struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	App *app.App

	configPath  string
	largeModels bool

	logClose func() error
}

// NewRootCmd builds the full command tree.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "voxcli",
		Short: "Record, transcribe, translate, and rephrase speech from the terminal",
		Long: "voxcli records microphone audio, transcribes it with the Mistral API,\n" +
			"and offers translation and tone rewriting of arbitrary text.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return deps.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			deps.teardown()
		},
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.PersistentFlags().StringVar(&deps.configPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/voxcli/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&deps.largeModels, "large-model", false, "use the larger remote models")

	rootCmd.AddCommand(newRecordCmd(deps))
	rootCmd.AddCommand(newTranslateCmd(deps))
	rootCmd.AddCommand(newChangeToneCmd(deps))
	rootCmd.AddCommand(newDevicesCmd(deps))
	rootCmd.AddCommand(newDoctorCmd(deps))
	rootCmd.AddCommand(newVersionCmd(deps))

	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)
	rootCmd.SetIn(deps.Stdin)

	return rootCmd
}

// setup loads .env, logging, and config, then wires the App. Version-only
// invocations skip the heavy path.
func (d *Dependencies) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		d.App = app.New(d.Stdout, d.Stderr, d.Stdin, nil, config.Loaded{}, d.largeModels)
		return nil
	}

	// Missing .env is normal; the credential may come from the environment.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(d.Stderr, "warning: logging unavailable: %v\n", err)
	} else {
		logger = logRuntime.Logger
		d.logClose = logRuntime.Close
	}

	loaded, err := config.Load(d.configPath)
	if err != nil {
		logger.Error("load config failed", slog.String("error", err.Error()))
		return err
	}
	for _, w := range loaded.Warnings {
		fmt.Fprintf(d.Stderr, "warning: %s\n", w.Message)
		logger.Warn("config warning", slog.String("message", w.Message))
	}

	logger.Info("command start",
		slog.String("command", cmd.Name()),
		slog.String("config", loaded.Path),
		slog.Bool("large_models", d.largeModels),
	)

	d.App = app.New(d.Stdout, d.Stderr, d.Stdin, logger, loaded, d.largeModels)
	return nil
}

// teardown closes the log sink opened by setup.
func (d *Dependencies) teardown() {
	if d.logClose != nil {
		_ = d.logClose()
		d.logClose = nil
	}
}

// Execute runs the CLI and maps outcomes to process exit codes. Recognized
// errors exit non-zero with a one-line diagnostic; an unknown subcommand
// prints usage and exits zero.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, stdin io.Reader) int {
	deps := &Dependencies{Stdout: stdout, Stderr: stderr, Stdin: stdin}
	rootCmd := NewRootCmd(deps)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if isUnknownCommand(err) {
			fmt.Fprintf(stderr, "%v\n\n", err)
			fmt.Fprint(stderr, rootCmd.UsageString())
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// isUnknownCommand detects cobra's unrecognized-subcommand error.
func isUnknownCommand(err error) bool {
	return strings.HasPrefix(err.Error(), "unknown command")
}
