package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is the fatal pre-flight error for commands that talk
// to the remote API.
var ErrMissingAPIKey = errors.New("MISTRAL_API_KEY is not set; export it or add it to a .env file")

// RequireAPIKey enforces credential presence before any API-using command runs.
func (c Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	if strings.TrimSpace(cfg.TranscriptionURL) == "" {
		return nil, fmt.Errorf("transcription_url must not be empty")
	}
	if strings.TrimSpace(cfg.ChatURL) == "" {
		return nil, fmt.Errorf("chat_url must not be empty")
	}
	if strings.TrimSpace(cfg.AudioFile) == "" {
		return nil, fmt.Errorf("audio_file must not be empty")
	}
	if cfg.ThresholdSeconds <= 0 {
		return nil, fmt.Errorf("threshold_seconds must be > 0")
	}
	if strings.TrimSpace(cfg.Models.Transcription) == "" {
		return nil, fmt.Errorf("models.transcription must not be empty")
	}
	if strings.TrimSpace(cfg.Models.TranscriptionLarge) == "" {
		return nil, fmt.Errorf("models.transcription_large must not be empty")
	}
	if strings.TrimSpace(cfg.Models.Chat) == "" {
		return nil, fmt.Errorf("models.chat must not be empty")
	}
	if strings.TrimSpace(cfg.Models.ChatLarge) == "" {
		return nil, fmt.Errorf("models.chat_large must not be empty")
	}

	warnings := []Warning{}
	if cfg.ThresholdSeconds > 600 {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("threshold_seconds=%.0f is unusually high; long recordings are expensive to transcribe", cfg.ThresholdSeconds),
		})
	}
	return warnings, nil
}
