package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"voxcli/internal/config"
	"voxcli/internal/record"
	"voxcli/internal/session"
)

func appUnder(t *testing.T, cfg config.Config, stdin string) (*App, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	a := New(&stdout, &bytes.Buffer{}, strings.NewReader(stdin), nil, config.Loaded{Config: cfg}, false)
	return a, &stdout
}

func fixedRecorder(t *testing.T, duration time.Duration, accepted bool) session.Recorder {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rec.wav")
	return session.RecorderFunc(func(context.Context) (record.Result, error) {
		if !accepted {
			return record.Result{}, nil
		}
		require.NoError(t, os.WriteFile(path, []byte("RIFF payload"), 0o644))
		return record.Result{
			Accepted: true,
			Duration: duration,
			FilePath: path,
			Device:   "Fake Mic",
		}, nil
	})
}

func transcriptionServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": text})
	}))
	t.Cleanup(server.Close)
	return server
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRunRecordHappyPath(t *testing.T) {
	server := transcriptionServer(t, "hello from the microphone")
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.TranscriptionURL = server.URL

	a, stdout := appUnder(t, cfg, "")
	a.newRecorder = func(config.Config) session.Recorder {
		return fixedRecorder(t, 5*time.Second, true)
	}

	require.NoError(t, a.RunRecord(context.Background(), false))
	require.Contains(t, stdout.String(), "Recording... press Enter to stop, Escape to cancel.")
	require.Contains(t, stdout.String(), "--- Transcription ---")
	require.Contains(t, stdout.String(), "hello from the microphone")
}

func TestRunRecordCancelled(t *testing.T) {
	cfg := config.Default()
	cfg.APIKey = "sk-test"

	a, stdout := appUnder(t, cfg, "")
	a.newRecorder = func(config.Config) session.Recorder {
		return fixedRecorder(t, 0, false)
	}

	require.NoError(t, a.RunRecord(context.Background(), false))
	require.Contains(t, stdout.String(), "Recording cancelled.")
}

func TestRunRecordLongRecordingDiscarded(t *testing.T) {
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.ThresholdSeconds = 30

	a, stdout := appUnder(t, cfg, "d\n")
	a.newRecorder = func(config.Config) session.Recorder {
		return fixedRecorder(t, 45*time.Second, true)
	}

	require.NoError(t, a.RunRecord(context.Background(), false))
	require.Contains(t, stdout.String(), "Transcribe anyway (y) or delete recording (d)?")
	require.Contains(t, stdout.String(), "Recording deleted.")
	require.NotContains(t, stdout.String(), "--- Transcription ---")
}

func TestRunRecordLongRecordingConfirmed(t *testing.T) {
	server := transcriptionServer(t, "a long dictation")
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.TranscriptionURL = server.URL
	cfg.ThresholdSeconds = 30

	a, stdout := appUnder(t, cfg, "y\n")
	a.newRecorder = func(config.Config) session.Recorder {
		return fixedRecorder(t, 45*time.Second, true)
	}

	require.NoError(t, a.RunRecord(context.Background(), false))
	require.Contains(t, stdout.String(), "a long dictation")
}

func TestRunRecordMissingAPIKey(t *testing.T) {
	a, _ := appUnder(t, config.Default(), "")
	err := a.RunRecord(context.Background(), false)
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestRunRecordTranscriptionFailureDeletesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.TranscriptionURL = server.URL

	var recordedPath string
	a, _ := appUnder(t, cfg, "")
	a.newRecorder = func(config.Config) session.Recorder {
		path := filepath.Join(t.TempDir(), "rec.wav")
		recordedPath = path
		return session.RecorderFunc(func(context.Context) (record.Result, error) {
			require.NoError(t, os.WriteFile(path, []byte("RIFF payload"), 0o644))
			return record.Result{Accepted: true, Duration: 3 * time.Second, FilePath: path}, nil
		})
	}

	err := a.RunRecord(context.Background(), false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 500")
	require.NoFileExists(t, recordedPath)
}

func TestRunTranslatePrintsBlock(t *testing.T) {
	server := chatServer(t, "Bonjour le monde")
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.ChatURL = server.URL

	a, stdout := appUnder(t, cfg, "")
	require.NoError(t, a.RunTranslate(context.Background(), "Hello world", "French"))
	require.Contains(t, stdout.String(), "--- Translated Text (French) ---")
	require.Contains(t, stdout.String(), "Bonjour le monde")
}

func TestRunChangeTonePrintsBlock(t *testing.T) {
	server := chatServer(t, "Would you kindly fix this?")
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.ChatURL = server.URL

	a, stdout := appUnder(t, cfg, "")
	require.NoError(t, a.RunChangeTone(context.Background(), "fix this now", "Rephrase politely"))
	require.Contains(t, stdout.String(), "--- Rephrased Text ---")
	require.Contains(t, stdout.String(), "Would you kindly fix this?")
}

func TestRunTranslateMissingAPIKey(t *testing.T) {
	a, _ := appUnder(t, config.Default(), "")
	err := a.RunTranslate(context.Background(), "Hello", "French")
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestRunDoctorReportsFailures(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	a, stdout := appUnder(t, config.Default(), "")
	a.Config = config.Loaded{Path: "/tmp/config.toml", Config: config.Default()}

	err := a.RunDoctor(context.Background())
	require.Error(t, err)
	require.Contains(t, stdout.String(), "[FAIL]")
}
