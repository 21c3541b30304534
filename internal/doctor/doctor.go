// Package doctor runs runtime readiness diagnostics for config, audio, and output.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"voxcli/internal/audio"
	"voxcli/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	if cfg.Exists {
		checks = append(checks, Check{
			Name:    "config",
			Pass:    true,
			Message: fmt.Sprintf("loaded %q", cfg.Path),
		})
	} else {
		checks = append(checks, Check{
			Name:    "config",
			Pass:    true,
			Message: fmt.Sprintf("no file at %q; using defaults", cfg.Path),
		})
	}

	checks = append(checks, checkAPIKey(cfg.Config))
	checks = append(checks, checkWorkingFile(cfg.Config))
	checks = append(checks, checkAudioSelection(cfg.Config))
	checks = append(checks, checkClipboard())

	return Report{Checks: checks}
}

// checkAPIKey validates credential presence without revealing its value.
func checkAPIKey(cfg config.Config) Check {
	if err := cfg.RequireAPIKey(); err != nil {
		return Check{Name: "api_key", Pass: false, Message: err.Error()}
	}
	return Check{Name: "api_key", Pass: true, Message: "MISTRAL_API_KEY is set"}
}

// checkWorkingFile validates the working audio file's directory is writable.
func checkWorkingFile(cfg config.Config) Check {
	dir := filepath.Dir(cfg.AudioFile)
	info, err := os.Stat(dir)
	if err != nil {
		return Check{Name: "audio_file", Pass: false, Message: fmt.Sprintf("directory %q: %v", dir, err)}
	}
	if !info.IsDir() {
		return Check{Name: "audio_file", Pass: false, Message: fmt.Sprintf("%q is not a directory", dir)}
	}
	probe, err := os.CreateTemp(dir, "voxcli-doctor-*")
	if err != nil {
		return Check{Name: "audio_file", Pass: false, Message: fmt.Sprintf("directory %q is not writable: %v", dir, err)}
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return Check{Name: "audio_file", Pass: true, Message: fmt.Sprintf("working file directory %q is writable", dir)}
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(cfg config.Config) Check {
	selection, err := audio.SelectDevice(context.Background(), cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message += " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkClipboard reports whether a clipboard backend is usable on this host.
func checkClipboard() Check {
	if clipboard.Unsupported {
		return Check{Name: "clipboard", Pass: false, Message: "no clipboard utility found (xclip/xsel/wl-clipboard)"}
	}
	return Check{Name: "clipboard", Pass: true, Message: "clipboard backend available"}
}
