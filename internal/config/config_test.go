package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxmeet/internal/meeting"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Account)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "primary", cfg.CalendarID)
	assert.Equal(t, meeting.DefaultMaxAlternatives, cfg.MaxAlternatives)
	assert.True(t, cfg.DraftReplies)
	assert.Equal(t, 5*time.Minute, cfg.Watch.Interval)
	assert.Equal(t, DefaultImportanceKeywords, cfg.Watch.ImportanceKeywords)
	assert.Equal(t, ":9090", cfg.Instrumentation.MetricsAddr)

	hours, err := cfg.MeetingWorkingHours()
	require.NoError(t, err)
	assert.Equal(t, meeting.DefaultWorkingHours, hours)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
timezone: Asia/Kolkata
working_hours:
  start: "08:30"
  end: "18:00"
max_alternatives: 5
signal:
  account: "+15551234567"
  group: Team
watch:
  interval: 90s
instrumentation:
  enabled: false
`)
	t.Setenv("INBOXMEET_WORKING_HOURS_END", "16:00")
	t.Setenv("INBOXMEET_WATCH_IMPORTANCE_KEYWORDS", "urgent,deadline")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)
	assert.Equal(t, 5, cfg.MaxAlternatives)
	assert.Equal(t, "Team", cfg.Signal.Group)
	assert.Equal(t, 90*time.Second, cfg.Watch.Interval)
	assert.Equal(t, []string{"urgent", "deadline"}, cfg.Watch.ImportanceKeywords)
	assert.False(t, cfg.InstrumentationConfig("test").Enabled)

	hours, err := cfg.MeetingWorkingHours()
	require.NoError(t, err)
	assert.Equal(t, meeting.WorkingHours{Start: 8*time.Hour + 30*time.Minute, End: 16 * time.Hour}, hours)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoad_NegativeAlternativesDisablesCap(t *testing.T) {
	cfg, err := Load(writeConfig(t, "max_alternatives: -1"))
	require.NoError(t, err)

	assert.Equal(t, -1, cfg.MaxAlternatives)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown timezone", "timezone: Mars/Olympus"},
		{"bad clock", "working_hours:\n  start: nine"},
		{"empty window", "working_hours:\n  start: \"17:00\"\n  end: \"09:00\""},
		{"signal without target", "signal:\n  account: \"+15551234567\""},
		{"zero interval", "watch:\n  interval: 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestInstrumentationConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	inst := cfg.InstrumentationConfig("1.2.3")
	assert.Equal(t, "1.2.3", inst.ServiceVersion)
	assert.Equal(t, "inboxmeet", inst.ServiceName)
	assert.NoError(t, inst.Validate())
}

func TestGoogleCredentials(t *testing.T) {
	cfg := &Config{Google: Google{ClientID: "id", ClientSecret: "secret"}}
	assert.NoError(t, cfg.GoogleCredentials().Validate())
}
