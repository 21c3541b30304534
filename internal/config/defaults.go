package config

import (
	"os"
	"path/filepath"
)

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		TranscriptionURL: "https://api.mistral.ai/v1/audio/transcriptions",
		ChatURL:          "https://api.mistral.ai/v1/chat/completions",
		AudioFile:        filepath.Join(os.TempDir(), "voxcli-recording.wav"),
		ThresholdSeconds: 30,
		Audio: AudioConfig{
			Input:    "default",
			Fallback: "default",
		},
		Models: ModelConfig{
			Transcription:      "voxtral-mini-2507",
			TranscriptionLarge: "voxtral-large-latest",
			Chat:               "mistral-small-latest",
			ChatLarge:          "mistral-large-latest",
		},
	}
}
