package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 15s

database:
  path: "test.db"

storage:
  dir: "testdata/docs"

notifications:
  ops_recipients:
    - "ops@example.com"
    - "maintenance@example.com"
  webhook_url: "https://hooks.example.com/ops"

logger:
  level: "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "test.db", cfg.Database.Path)
	assert.Equal(t, "testdata/docs", cfg.Storage.Dir)
	assert.Equal(t, []string{"ops@example.com", "maintenance@example.com"}, cfg.Notifications.OpsRecipients)
	assert.Equal(t, "https://hooks.example.com/ops", cfg.Notifications.WebhookURL)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, "data/documents", cfg.Storage.Dir)
	assert.False(t, cfg.Notifications.Email.Enabled)
	assert.Equal(t, 587, cfg.Notifications.Email.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmailEnabledRequiresHost(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "test.db"

notifications:
  email:
    enabled: true
    from: "noreply@example.com"
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "notifications.email.host")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "missing storage dir",
			mutate:  func(c *Config) { c.Storage.Dir = "" },
			wantErr: "storage.dir",
		},
		{
			name: "email enabled without from",
			mutate: func(c *Config) {
				c.Notifications.Email.Enabled = true
				c.Notifications.Email.Host = "smtp.example.com"
				c.Notifications.Email.From = ""
			},
			wantErr: "notifications.email.from",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{Path: "test.db"},
				Storage:  StorageConfig{Dir: "docs"},
			}
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}
