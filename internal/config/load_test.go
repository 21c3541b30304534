package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathPrefersExplicit(t *testing.T) {
	path, err := ResolvePath("/tmp/custom.toml")
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.toml", path)
}

func TestResolvePathUsesXDGConfigHome(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	path, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xdg, "voxcli", "config.toml"), path)
}

func TestResolvePathFallsBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)

	path, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "voxcli", "config.toml"), path)
}

func TestLoadMissingFileUsesDefaultsWithWarning(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MISTRAL_API_KEY", "")
	t.Setenv("VOXCLI_AUDIO_FILE", "")

	loaded, err := Load("")
	require.NoError(t, err)
	require.False(t, loaded.Exists)
	require.Len(t, loaded.Warnings, 1)
	require.Contains(t, loaded.Warnings[0].Message, "not found")
	require.Equal(t, Default().ThresholdSeconds, loaded.Config.ThresholdSeconds)
	require.Equal(t, "voxtral-mini-2507", loaded.Config.Models.Transcription)
}

func TestLoadParsesTOMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
threshold_seconds = 45.5
audio_file = "/tmp/other.wav"

[audio]
input = "elgato"

[models]
transcription = "voxtral-mini-latest"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("MISTRAL_API_KEY", "")
	t.Setenv("VOXCLI_AUDIO_FILE", "")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Equal(t, 45.5, loaded.Config.ThresholdSeconds)
	require.Equal(t, "/tmp/other.wav", loaded.Config.AudioFile)
	require.Equal(t, "elgato", loaded.Config.Audio.Input)
	require.Equal(t, "default", loaded.Config.Audio.Fallback)
	require.Equal(t, "voxtral-mini-latest", loaded.Config.Models.Transcription)
	require.Equal(t, "voxtral-large-latest", loaded.Config.Models.TranscriptionLarge)
}

func TestLoadRejectsInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("threshold_seconds = ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config")
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("threshold_seconds = -5"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "threshold_seconds must be > 0")
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MISTRAL_API_KEY", "sk-test")
	t.Setenv("VOXCLI_AUDIO_FILE", "/tmp/env-recording.wav")

	loaded, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "sk-test", loaded.Config.APIKey)
	require.Equal(t, "/tmp/env-recording.wav", loaded.Config.AudioFile)
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Default()
	require.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)

	cfg.APIKey = "sk-test"
	require.NoError(t, cfg.RequireAPIKey())
}

func TestValidateHighThresholdWarns(t *testing.T) {
	cfg := Default()
	cfg.ThresholdSeconds = 1200

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "unusually high")
}

func TestModelSelection(t *testing.T) {
	models := Default().Models
	require.Equal(t, "voxtral-mini-2507", models.TranscriptionModel(false))
	require.Equal(t, "voxtral-large-latest", models.TranscriptionModel(true))
	require.Equal(t, "mistral-small-latest", models.ChatModel(false))
	require.Equal(t, "mistral-large-latest", models.ChatModel(true))
}
