// Package gate confirms whether long recordings should still be transcribed.
package gate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Decision is the gate outcome for one recording.
type Decision struct {
	Proceed bool
	Asked   bool
}

// Gate prompts before transcribing recordings longer than Threshold.
// Recordings at or under the threshold pass without interaction.
type Gate struct {
	Threshold time.Duration
	In        io.Reader
	Out       io.Writer
	Logger    *slog.Logger
}

// Evaluate decides whether a recording of the given duration proceeds to
// transcription. Over-threshold recordings require an explicit "y";
// "d" discards, anything else re-prompts, and EOF or context
// cancellation counts as discard.
func (g *Gate) Evaluate(ctx context.Context, duration time.Duration) (Decision, error) {
	logger := g.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if duration <= g.Threshold {
		return Decision{Proceed: true}, nil
	}

	logger.Info("long recording gate",
		slog.Duration("duration", duration),
		slog.Duration("threshold", g.Threshold),
	)

	fmt.Fprintf(g.Out, "Recording is %.1fs long (threshold %.0fs).\n",
		duration.Seconds(), g.Threshold.Seconds())

	answers := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(g.In)
		for scanner.Scan() {
			answers <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			readErr <- err
			return
		}
		readErr <- io.EOF
	}()

	for {
		fmt.Fprint(g.Out, "Transcribe anyway (y) or delete recording (d)? ")

		select {
		case <-ctx.Done():
			fmt.Fprintln(g.Out)
			return Decision{Asked: true}, ctx.Err()
		case err := <-readErr:
			fmt.Fprintln(g.Out)
			logger.Info("gate input closed; discarding recording")
			if err == io.EOF {
				return Decision{Asked: true}, nil
			}
			return Decision{Asked: true}, err
		case answer := <-answers:
			switch strings.ToLower(strings.TrimSpace(answer)) {
			case "y":
				return Decision{Proceed: true, Asked: true}, nil
			case "d":
				logger.Info("long recording discarded at gate")
				return Decision{Asked: true}, nil
			default:
				fmt.Fprintln(g.Out, "Please answer y or d.")
			}
		}
	}
}
