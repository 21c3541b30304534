// Package output prints result text and applies optional clipboard side effects.
package output

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
)

// Committer delivers result text to the user: always printed as a titled
// block, optionally copied to the clipboard.
type Committer struct {
	out    io.Writer
	logger *slog.Logger

	// writeClipboard is swappable for tests; defaults to clipboard.WriteAll.
	writeClipboard func(text string) error
}

// NewCommitter constructs a committer writing to out.
func NewCommitter(out io.Writer, logger *slog.Logger) *Committer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Committer{
		out:            out,
		logger:         logger,
		writeClipboard: clipboard.WriteAll,
	}
}

// Commit prints text under a titled divider and copies it to the clipboard
// when requested. Clipboard failure is reported but never fatal; the text
// already reached stdout.
func (c *Committer) Commit(heading string, text string, toClipboard bool) error {
	fmt.Fprintf(c.out, "\n--- %s ---\n", heading)
	fmt.Fprintln(c.out, text)

	if !toClipboard {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if err := c.writeClipboard(text); err != nil {
		c.logger.Warn("clipboard copy failed", slog.String("error", err.Error()))
		fmt.Fprintln(c.out, "Could not copy to clipboard.")
		return nil
	}
	fmt.Fprintln(c.out, "Copied to clipboard.")
	return nil
}
