// Package record runs one microphone capture session controlled by keypresses.
package record

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"voxcli/internal/audio"
	"voxcli/internal/keymon"
)

// ErrCaptureUnavailable indicates the capture backend could not start at all.
var ErrCaptureUnavailable = errors.New("audio capture is unavailable")

// ErrCaptureInterrupted indicates the capture stream died mid-recording
// before the user pressed a terminal key.
var ErrCaptureInterrupted = errors.New("audio capture stopped unexpectedly")

// Stream is an active PCM capture feeding Chunks until Stop.
type Stream interface {
	Chunks() <-chan []byte
	Stop() error
	BytesCaptured() int64
	Description() string
}

// Backend starts a capture stream.
type Backend interface {
	Start(ctx context.Context) (Stream, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context) (Stream, error)

func (f BackendFunc) Start(ctx context.Context) (Stream, error) {
	return f(ctx)
}

// KeyMonitor is the session-facing subset of keypress monitoring.
type KeyMonitor interface {
	Start() error
	Events() <-chan keymon.Event
	Err() <-chan error
	Stop() error
}

// Config carries per-session recording parameters.
type Config struct {
	FilePath string
}

// Result is the outcome of one recording session.
type Result struct {
	Accepted      bool
	Duration      time.Duration
	FilePath      string
	Device        string
	BytesCaptured int64
}

// Session records from a backend into a WAV file until Enter or Escape.
type Session struct {
	cfg     Config
	backend Backend
	keys    KeyMonitor
	logger  *slog.Logger
}

// NewSession wires a recording session. A nil logger is replaced with a
// discard logger so callers can skip log plumbing in tests.
func NewSession(cfg Config, backend Backend, keys KeyMonitor, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{cfg: cfg, backend: backend, keys: keys, logger: logger}
}

// Run captures audio until the user confirms (Enter), cancels (Escape),
// the input stream closes, the capture dies, or the context ends. On
// confirm the WAV file is kept and the result reports its duration; on
// every other outcome the file is removed and Accepted is false.
func (s *Session) Run(ctx context.Context) (Result, error) {
	// A stale file from a crashed run must not survive into this session.
	if err := os.Remove(s.cfg.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Result{}, fmt.Errorf("remove stale recording: %w", err)
	}

	stream, err := s.backend.Start(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}

	sink, err := audio.NewSink(s.cfg.FilePath)
	if err != nil {
		_ = stream.Stop()
		return Result{}, err
	}

	drainDone := make(chan error, 1)
	go func() {
		for chunk := range stream.Chunks() {
			if werr := sink.Write(chunk); werr != nil {
				drainDone <- werr
				return
			}
		}
		drainDone <- nil
	}()

	discard := func() Result {
		_ = sink.Close()
		_ = os.Remove(s.cfg.FilePath)
		return Result{
			FilePath:      s.cfg.FilePath,
			Device:        stream.Description(),
			BytesCaptured: stream.BytesCaptured(),
		}
	}

	if err := s.keys.Start(); err != nil {
		s.logger.Warn("key monitor unavailable; cancelling recording", slog.String("error", err.Error()))
		_ = stream.Stop()
		<-drainDone
		return discard(), err
	}
	defer func() { _ = s.keys.Stop() }()

	var (
		confirmed bool
		runErr    error
	)

	select {
	case ev := <-s.keys.Events():
		confirmed = ev == keymon.EventConfirm
	case kerr := <-s.keys.Err():
		runErr = kerr
	case derr := <-drainDone:
		// Capture closed before any keypress.
		drainDone <- derr
		if derr != nil {
			runErr = derr
		} else {
			runErr = ErrCaptureInterrupted
		}
	case <-ctx.Done():
		runErr = ctx.Err()
	}

	_ = stream.Stop()
	if derr := <-drainDone; derr != nil && runErr == nil {
		runErr = derr
	}

	if runErr != nil || !confirmed {
		s.logger.Info("recording discarded",
			slog.Bool("confirmed", confirmed),
			slog.Int64("bytes_captured", stream.BytesCaptured()),
		)
		return discard(), runErr
	}

	frames := sink.Frames()
	duration := sink.Duration()
	if err := sink.Close(); err != nil {
		_ = os.Remove(s.cfg.FilePath)
		return Result{}, err
	}
	if frames == 0 {
		s.logger.Warn("recording confirmed but captured no audio")
		_ = os.Remove(s.cfg.FilePath)
		return Result{
			FilePath:      s.cfg.FilePath,
			Device:        stream.Description(),
			BytesCaptured: stream.BytesCaptured(),
		}, ErrCaptureInterrupted
	}

	s.logger.Info("recording kept",
		slog.Duration("duration", duration),
		slog.Int64("bytes_captured", stream.BytesCaptured()),
		slog.String("device", stream.Description()),
	)

	return Result{
		Accepted:      true,
		Duration:      duration,
		FilePath:      s.cfg.FilePath,
		Device:        stream.Description(),
		BytesCaptured: stream.BytesCaptured(),
	}, nil
}
