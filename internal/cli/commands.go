package cli

import (
	"github.com/spf13/cobra"

	"voxcli/internal/version"
)

func newRecordCmd(deps *Dependencies) *cobra.Command {
	var toClipboard bool

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record from the microphone and transcribe",
		Long: "Record microphone audio until Enter (keep) or Escape (cancel).\n" +
			"Recordings longer than the configured threshold ask for confirmation\n" +
			"before the transcription request is sent.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return deps.App.RunRecord(cmd.Context(), toClipboard)
		},
	}

	cmd.Flags().BoolVar(&toClipboard, "to-clipboard", false, "copy the transcription to the clipboard")
	return cmd
}

func newTranslateCmd(deps *Dependencies) *cobra.Command {
	var targetLanguage string

	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate text via the chat API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.App.RunTranslate(cmd.Context(), args[0], targetLanguage)
		},
	}

	cmd.Flags().StringVar(&targetLanguage, "target-language", "English", "language to translate into (e.g. 'French', 'Spanish')")
	return cmd
}

func newChangeToneCmd(deps *Dependencies) *cobra.Command {
	var tonePrompt string

	cmd := &cobra.Command{
		Use:   "change-tone <text>",
		Short: "Rephrase text in a different tone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.App.RunChangeTone(cmd.Context(), args[0], tonePrompt)
		},
	}

	cmd.Flags().StringVar(&tonePrompt, "custom-tone-prompt", "", "prompt describing the desired tone (e.g. 'Rephrase this as a polite email')")
	_ = cmd.MarkFlagRequired("custom-tone-prompt")
	return cmd
}

func newDevicesCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio input devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return deps.App.RunDevices(cmd.Context())
		},
	}
}

func newDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run configuration and environment checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return deps.App.RunDoctor(cmd.Context())
		},
	}
}

func newVersionCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println(version.String())
			return nil
		},
	}
}
