package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Loaded captures resolved config path, parsed values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// fileConfig is the on-disk TOML shape. Every field is optional; zero
// values fall back to Default().
type fileConfig struct {
	TranscriptionURL string  `toml:"transcription_url"`
	ChatURL          string  `toml:"chat_url"`
	AudioFile        string  `toml:"audio_file"`
	ThresholdSeconds float64 `toml:"threshold_seconds"`

	Audio struct {
		Input    string `toml:"input"`
		Fallback string `toml:"fallback"`
	} `toml:"audio"`

	Models struct {
		Transcription      string `toml:"transcription"`
		TranscriptionLarge string `toml:"transcription_large"`
		Chat               string `toml:"chat"`
		ChatLarge          string `toml:"chat_large"`
	} `toml:"models"`
}

// Load resolves, reads, parses, and validates the runtime configuration.
// The API credential is read from the process environment, never from disk.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	cfg := Default()
	warnings := []Warning{}
	exists := true

	content, err := os.ReadFile(resolvedPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
		}
		exists = false
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
		})
	} else {
		var fc fileConfig
		if err := toml.Unmarshal(content, &fc); err != nil {
			return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, err)
		}
		applyFile(&cfg, fc)
	}

	applyEnv(&cfg)

	validationWarnings, err := Validate(cfg)
	if err != nil {
		return Loaded{}, fmt.Errorf("config %q: %w", resolvedPath, err)
	}
	warnings = append(warnings, validationWarnings...)

	return Loaded{
		Path:     resolvedPath,
		Config:   cfg,
		Warnings: warnings,
		Exists:   exists,
	}, nil
}

// applyFile overlays non-zero file values onto the defaults.
func applyFile(cfg *Config, fc fileConfig) {
	if fc.TranscriptionURL != "" {
		cfg.TranscriptionURL = fc.TranscriptionURL
	}
	if fc.ChatURL != "" {
		cfg.ChatURL = fc.ChatURL
	}
	if fc.AudioFile != "" {
		cfg.AudioFile = fc.AudioFile
	}
	if fc.ThresholdSeconds != 0 {
		cfg.ThresholdSeconds = fc.ThresholdSeconds
	}
	if fc.Audio.Input != "" {
		cfg.Audio.Input = fc.Audio.Input
	}
	if fc.Audio.Fallback != "" {
		cfg.Audio.Fallback = fc.Audio.Fallback
	}
	if fc.Models.Transcription != "" {
		cfg.Models.Transcription = fc.Models.Transcription
	}
	if fc.Models.TranscriptionLarge != "" {
		cfg.Models.TranscriptionLarge = fc.Models.TranscriptionLarge
	}
	if fc.Models.Chat != "" {
		cfg.Models.Chat = fc.Models.Chat
	}
	if fc.Models.ChatLarge != "" {
		cfg.Models.ChatLarge = fc.Models.ChatLarge
	}
}

// applyEnv overlays process-environment values onto the config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("MISTRAL_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("VOXCLI_AUDIO_FILE"); v != "" {
		cfg.AudioFile = v
	}
}
