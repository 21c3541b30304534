package doctor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"voxcli/internal/config"
)

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, "[OK] one: good")
	require.Contains(t, text, "[FAIL] two: bad")
}

func TestReportOKAllPassing(t *testing.T) {
	report := Report{Checks: []Check{{Name: "one", Pass: true}, {Name: "two", Pass: true}}}
	require.True(t, report.OK())
}

func TestCheckAPIKey(t *testing.T) {
	cfg := config.Default()
	check := checkAPIKey(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "MISTRAL_API_KEY")

	cfg.APIKey = "sk-test"
	check = checkAPIKey(cfg)
	require.True(t, check.Pass)
}

func TestCheckWorkingFileWritableDir(t *testing.T) {
	cfg := config.Default()
	cfg.AudioFile = filepath.Join(t.TempDir(), "rec.wav")

	check := checkWorkingFile(cfg)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "writable")
}

func TestCheckWorkingFileMissingDir(t *testing.T) {
	cfg := config.Default()
	cfg.AudioFile = filepath.Join(t.TempDir(), "missing", "rec.wav")

	check := checkWorkingFile(cfg)
	require.False(t, check.Pass)
}

func TestCheckAudioSelectionFailureWithInvalidPulseServer(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	check := checkAudioSelection(config.Default())
	require.False(t, check.Pass)
	require.Contains(t, check.Name, "audio.device")
}

func TestRunReportsAllCoreChecks(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.AudioFile = filepath.Join(t.TempDir(), "rec.wav")

	report := Run(config.Loaded{Path: "/tmp/config.toml", Config: cfg, Exists: true})

	names := map[string]bool{}
	for _, check := range report.Checks {
		names[check.Name] = true
	}
	require.True(t, names["config"])
	require.True(t, names["api_key"])
	require.True(t, names["audio_file"])
	require.True(t, names["audio.device"])
	require.True(t, names["clipboard"])
}

func TestRunMentionsDefaultsWhenConfigMissing(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	report := Run(config.Loaded{Path: "/tmp/config.toml", Config: config.Default()})
	require.Contains(t, report.Checks[0].Message, "using defaults")
}
