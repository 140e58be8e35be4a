// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalYAML = `
database:
  postgres:
    host: localhost
    database: eligibility
    user: assessor
  redis:
    address: localhost:6379
`

// ==========================
// LoadFromFile
// ==========================

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "eb2niw-assessor", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "eligibility-assessments", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, 5, cfg.Assessment.RateLimits.Assess)
	assert.Equal(t, 10, cfg.Assessment.RateLimits.History)
	assert.Equal(t, 20, cfg.Assessment.RateLimits.Info)
	assert.Equal(t, 10, cfg.Assessment.HistoryLimit)
	assert.Equal(t, 0, cfg.Assessment.CacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Camunda.Enabled)
}

func TestLoadFromFile_ExpandsEnvironment(t *testing.T) {
	t.Setenv("ASSESSOR_DB_HOST", "db.internal")

	cfg, err := LoadFromFile(writeConfig(t, `
database:
  postgres:
    host: ${ASSESSOR_DB_HOST}
    database: eligibility
    user: assessor
  redis:
    address: localhost:6379
`))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
}

func TestLoadFromFile_OverridesEmptySecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "password=s3cret")
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing postgres host",
			yaml:    "database:\n  redis:\n    address: localhost:6379\n",
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "camunda enabled without broker",
			yaml:    minimalYAML + "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "elasticsearch enabled without address",
			yaml:    "database:\n  postgres:\n    host: h\n    database: d\n    user: u\n  redis:\n    address: r\n  elasticsearch:\n    enabled: true\n",
			wantErr: "elasticsearch",
		},
		{
			name:    "sns enabled without topic",
			yaml:    minimalYAML + "integrations:\n  aws:\n    sns:\n      enabled: true\n",
			wantErr: "topic_arn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// ==========================
// Helpers
// ==========================

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"assess-eb2-eligibility": {Enabled: false, MaxJobsActive: 2, Timeout: 1000, MaxRetries: 1},
	}}

	got := GetWorkerConfig(cfg, "assess-eb2-eligibility")
	assert.Equal(t, 2, got.MaxJobsActive)
	assert.False(t, IsWorkerEnabled(cfg, "assess-eb2-eligibility"))

	fallback := GetWorkerConfig(cfg, "unknown")
	assert.True(t, fallback.Enabled)
	assert.Equal(t, 5, fallback.MaxJobsActive)
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))
}

func TestElasticsearchConfig_GetURL(t *testing.T) {
	assert.Equal(t, "http://u", ElasticsearchConfig{URL: "http://u", Addresses: []string{"http://a"}}.GetURL())
	assert.Equal(t, "http://a", ElasticsearchConfig{Addresses: []string{"http://a"}}.GetURL())
	assert.Empty(t, ElasticsearchConfig{}.GetURL())
}
