// Package app implements command behavior behind the CLI surface.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"voxcli/internal/audio"
	"voxcli/internal/config"
	"voxcli/internal/doctor"
	"voxcli/internal/gate"
	"voxcli/internal/keymon"
	"voxcli/internal/mistral"
	"voxcli/internal/output"
	"voxcli/internal/record"
	"voxcli/internal/session"
)

// App executes one command against loaded config and wired collaborators.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Logger *slog.Logger

	Config config.Loaded

	// LargeModels selects the larger remote model pair for this invocation.
	LargeModels bool

	// newRecorder is swappable for tests; nil means live Pulse capture.
	newRecorder func(cfg config.Config) session.Recorder
}

// New builds an app around the standard process streams.
func New(stdout, stderr io.Writer, stdin io.Reader, logger *slog.Logger, loaded config.Loaded, large bool) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{
		Stdout:      stdout,
		Stderr:      stderr,
		Stdin:       stdin,
		Logger:      logger,
		Config:      loaded,
		LargeModels: large,
	}
}

// recorder returns the configured recording session, defaulting to live capture.
func (a *App) recorder(cfg config.Config) session.Recorder {
	if a.newRecorder != nil {
		return a.newRecorder(cfg)
	}

	backend := record.BackendFunc(func(ctx context.Context) (record.Stream, error) {
		selection, err := audio.SelectDevice(ctx, cfg.Audio.Input, cfg.Audio.Fallback)
		if err != nil {
			return nil, err
		}
		if selection.Warning != "" {
			fmt.Fprintf(a.Stderr, "warning: %s\n", selection.Warning)
			a.Logger.Warn("audio device fallback", slog.String("warning", selection.Warning))
		}
		return audio.StartCapture(ctx, selection.Device)
	})

	return record.NewSession(
		record.Config{FilePath: cfg.AudioFile},
		backend,
		keymon.New(),
		a.Logger,
	)
}

// RunRecord drives one record, confirm, transcribe, commit cycle.
func (a *App) RunRecord(ctx context.Context, toClipboard bool) error {
	cfg := a.Config.Config
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	client := mistral.NewClient(cfg, a.LargeModels, a.Logger)
	lengthGate := &gate.Gate{
		Threshold: time.Duration(cfg.ThresholdSeconds * float64(time.Second)),
		In:        a.Stdin,
		Out:       a.Stdout,
		Logger:    a.Logger,
	}
	committer := output.NewCommitter(a.Stdout, a.Logger)

	controller := session.NewController(
		a.Logger,
		a.recorder(cfg),
		lengthGate,
		session.TranscribeFunc(client.Transcribe),
		committer,
		toClipboard,
	)

	fmt.Fprintln(a.Stdout, "Recording... press Enter to stop, Escape to cancel.")

	result := controller.Run(ctx)
	a.logSessionResult(result)

	switch {
	case result.Err != nil:
		return result.Err
	case result.Cancelled:
		fmt.Fprintln(a.Stdout, "Recording cancelled.")
	case result.Discarded:
		fmt.Fprintln(a.Stdout, "Recording deleted.")
	}
	return nil
}

// RunTranslate sends text through the chat API into the target language.
func (a *App) RunTranslate(ctx context.Context, text string, targetLanguage string) error {
	cfg := a.Config.Config
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	client := mistral.NewClient(cfg, a.LargeModels, a.Logger)
	translated, err := client.Translate(ctx, text, targetLanguage)
	if err != nil {
		return err
	}

	committer := output.NewCommitter(a.Stdout, a.Logger)
	return committer.Commit(fmt.Sprintf("Translated Text (%s)", targetLanguage), translated, false)
}

// RunChangeTone rephrases text per the user-supplied tone prompt.
func (a *App) RunChangeTone(ctx context.Context, text string, tonePrompt string) error {
	cfg := a.Config.Config
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	client := mistral.NewClient(cfg, a.LargeModels, a.Logger)
	rephrased, err := client.ChangeTone(ctx, text, tonePrompt)
	if err != nil {
		return err
	}

	committer := output.NewCommitter(a.Stdout, a.Logger)
	return committer.Commit("Rephrased Text", rephrased, false)
}

// RunDevices lists input devices with default/availability markers.
func (a *App) RunDevices(ctx context.Context) error {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return fmt.Errorf("no audio devices found")
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		availability := "yes"
		if !device.Available {
			availability = "no"
		}
		muted := "no"
		if device.Muted {
			muted = "yes"
		}
		fmt.Fprintf(
			a.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			availability,
			muted,
		)
	}
	return nil
}

// RunDoctor prints the readiness report; a failing report is an error so
// the command exits non-zero.
func (a *App) RunDoctor(_ context.Context) error {
	report := doctor.Run(a.Config)
	fmt.Fprintln(a.Stdout, report.String())
	if !report.OK() {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}

// logSessionResult records one lifecycle outcome for diagnostics.
func (a *App) logSessionResult(result session.Result) {
	attrs := []any{
		slog.String("state", string(result.State)),
		slog.Bool("cancelled", result.Cancelled),
		slog.Bool("discarded", result.Discarded),
		slog.Duration("duration", result.Duration),
		slog.Int64("bytes_captured", result.BytesCaptured),
		slog.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	}
	if result.AudioDevice != "" {
		attrs = append(attrs, slog.String("device", result.AudioDevice))
	}
	if result.Err != nil {
		attrs = append(attrs, slog.String("error", result.Err.Error()))
		a.Logger.Error("session finished with error", attrs...)
		return
	}
	a.Logger.Info("session finished", attrs...)
}
