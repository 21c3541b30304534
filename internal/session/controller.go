// Package session coordinates the record, confirm, transcribe, commit lifecycle.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"voxcli/internal/fsm"
	"voxcli/internal/gate"
	"voxcli/internal/record"
)

// Recorder runs one keypress-controlled capture session.
type Recorder interface {
	Run(ctx context.Context) (record.Result, error)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context) (record.Result, error)

func (f RecorderFunc) Run(ctx context.Context) (record.Result, error) {
	return f(ctx)
}

// Gate decides whether a recording proceeds to transcription.
type Gate interface {
	Evaluate(ctx context.Context, duration time.Duration) (gate.Decision, error)
}

// Transcriber turns one audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// TranscribeFunc adapts a function to Transcriber.
type TranscribeFunc func(ctx context.Context, audioPath string) (string, error)

func (f TranscribeFunc) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return f(ctx, audioPath)
}

// Committer delivers the final text to the user.
type Committer interface {
	Commit(heading string, text string, toClipboard bool) error
}

// CommitFunc adapts a function to Committer.
type CommitFunc func(heading string, text string, toClipboard bool) error

func (f CommitFunc) Commit(heading string, text string, toClipboard bool) error {
	return f(heading, text, toClipboard)
}

// Result is the complete lifecycle output of one Run invocation.
type Result struct {
	State         fsm.State
	Transcript    string
	Cancelled     bool
	Discarded     bool
	Err           error
	Duration      time.Duration
	AudioDevice   string
	BytesCaptured int64
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Controller orchestrates session state transitions and side effects.
type Controller struct {
	logger      *slog.Logger
	recorder    Recorder
	gate        Gate
	transcriber Transcriber
	committer   Committer
	toClipboard bool

	mu    sync.RWMutex
	state fsm.State
}

// NewController wires a controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	recorder Recorder,
	lengthGate Gate,
	transcriber Transcriber,
	committer Committer,
	toClipboard bool,
) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if committer == nil {
		committer = CommitFunc(func(string, string, bool) error { return nil })
	}
	return &Controller{
		logger:      logger,
		recorder:    recorder,
		gate:        lengthGate,
		transcriber: transcriber,
		committer:   committer,
		toClipboard: toClipboard,
		state:       fsm.StateIdle,
	}
}

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// transition applies one FSM event to the controller state.
func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// toErrorAndReset routes the state machine through Error back to Idle.
func (c *Controller) toErrorAndReset() {
	_ = c.transition(fsm.EventFail)
	_ = c.transition(fsm.EventReset)
}

// Run executes one full lifecycle: record until Enter or Escape, gate long
// recordings behind a confirmation prompt, transcribe, and commit the text.
// The working audio file never survives the call once transcription is
// attempted, regardless of API outcome.
func (c *Controller) Run(ctx context.Context) Result {
	result := Result{StartedAt: time.Now()}
	finish := func() Result {
		result.State = c.State()
		result.FinishedAt = time.Now()
		return result
	}

	if err := c.transition(fsm.EventStart); err != nil {
		result.Err = err
		return finish()
	}

	recResult, err := c.recorder.Run(ctx)
	result.Duration = recResult.Duration
	result.AudioDevice = recResult.Device
	result.BytesCaptured = recResult.BytesCaptured

	if err != nil {
		// Cancel-equivalent failures (closed input, dead capture) were
		// already normalized by the recorder; only capture startup
		// failures and context errors reach the user as errors.
		if errors.Is(err, record.ErrCaptureUnavailable) ||
			errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.toErrorAndReset()
			result.Err = err
			return finish()
		}
		c.logger.Warn("recording ended abnormally; treating as cancel", slog.String("error", err.Error()))
		_ = c.transition(fsm.EventCancel)
		result.Cancelled = true
		return finish()
	}

	if !recResult.Accepted {
		_ = c.transition(fsm.EventCancel)
		result.Cancelled = true
		return finish()
	}

	if err := c.transition(fsm.EventStop); err != nil {
		c.toErrorAndReset()
		result.Err = err
		return finish()
	}

	decision, err := c.gate.Evaluate(ctx, recResult.Duration)
	if err != nil || !decision.Proceed {
		_ = os.Remove(recResult.FilePath)
		_ = c.transition(fsm.EventDiscard)
		result.Discarded = true
		result.Err = err
		return finish()
	}

	if err := c.transition(fsm.EventProceed); err != nil {
		_ = os.Remove(recResult.FilePath)
		c.toErrorAndReset()
		result.Err = err
		return finish()
	}

	transcript, err := func() (string, error) {
		// The working file is consumed here; it must not outlive the
		// attempt even when the API call fails.
		defer func() {
			_ = os.Remove(recResult.FilePath)
		}()
		return c.transcriber.Transcribe(ctx, recResult.FilePath)
	}()
	if err != nil {
		c.toErrorAndReset()
		result.Err = err
		return finish()
	}

	result.Transcript = transcript
	if err := c.committer.Commit("Transcription", transcript, c.toClipboard); err != nil {
		c.toErrorAndReset()
		result.Err = err
		return finish()
	}

	if err := c.transition(fsm.EventTranscribed); err != nil {
		result.Err = err
		return finish()
	}
	return finish()
}
