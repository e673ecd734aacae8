package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, SourceJSON, cfg.Content.Source)
	assert.Equal(t, NotifyDisabled, cfg.Notifications.Mode)
	assert.Equal(t, 5*time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, 2*time.Minute, cfg.Refresh.Timeout)
	assert.Empty(t, cfg.Refresh.Token)
	assert.Equal(t, time.Hour, cfg.Reminders.Interval)
	assert.Equal(t, "https://25fcyber.vercel.app/deadlines", cfg.Reminders.URL)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.Notifications.Relays, 2)
	assert.Equal(t, "/api/send-notification", cfg.Notifications.Relays[0].Path)
	assert.Equal(t, "https://25fcyber.netlify.app", cfg.Notifications.Relays[1].DefaultURL)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("HUB_ONESIGNAL_KEY", "secret-key")
	t.Setenv("HUB_ONESIGNAL_APP", "app-123")

	cfg, err := Load(writeConfig(t, `
notifications:
  mode: direct
  onesignal:
    app_id: ${HUB_ONESIGNAL_APP}
    api_key: ${HUB_ONESIGNAL_KEY}
site:
  subjects:
    - name: Calculus
      drive_link: https://drive.example.com/calc
`))
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.Notifications.OneSignal.APIKey)
	assert.Equal(t, "app-123", cfg.Notifications.OneSignal.AppID)
	require.Len(t, cfg.Site.Subjects, 1)
	assert.Equal(t, "https://drive.example.com/calc", cfg.Site.Subjects[0].DriveLink)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown source", "content:\n  source: ftp\n"},
		{"github without repo", "content:\n  source: github\n"},
		{"direct without keys", "notifications:\n  mode: direct\n"},
		{"unknown mode", "notifications:\n  mode: carrier-pigeon\n"},
		{"bad timezone", "site:\n  timezone: Mars/Olympus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "hub", Password: "pw", DBName: "hub", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=hub password=pw dbname=hub sslmode=disable", d.DSN())
}
