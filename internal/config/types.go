// Package config resolves, parses, validates, and defaults voxcli configuration.
package config

// Config is the fully materialized runtime configuration used by voxcli.
type Config struct {
	// APIKey comes from the process environment only, never from the
	// config file on disk.
	APIKey string

	TranscriptionURL string
	ChatURL          string

	// AudioFile is the single working recording path; the file never
	// survives one command invocation.
	AudioFile string

	// ThresholdSeconds separates short recordings from long ones that
	// need explicit confirmation before transcription.
	ThresholdSeconds float64

	Audio  AudioConfig
	Models ModelConfig
}

// AudioConfig controls preferred and fallback input-source selection.
type AudioConfig struct {
	Input    string
	Fallback string
}

// ModelConfig holds the small/large model pairs selected by --large-model.
type ModelConfig struct {
	Transcription      string
	TranscriptionLarge string
	Chat               string
	ChatLarge          string
}

// TranscriptionModel returns the transcription model for the requested tier.
func (m ModelConfig) TranscriptionModel(large bool) string {
	if large {
		return m.TranscriptionLarge
	}
	return m.Transcription
}

// ChatModel returns the chat model for the requested tier.
func (m ModelConfig) ChatModel(large bool) string {
	if large {
		return m.ChatLarge
	}
	return m.Chat
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Message string
}
