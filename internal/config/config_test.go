package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotoba-dev/kotoba/internal/testutil"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		want    func(t *testing.T, cfg *Config)
		wantErr string
	}{
		{
			name:    "defaults when file is empty",
			content: "",
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 3306, cfg.Database.Port)
				assert.Equal(t, 20, cfg.Scheduler.DueLimit)
				assert.Equal(t, 7, cfg.Scheduler.ForecastDays)
				assert.Equal(t, 60, cfg.RateLimit.WindowSeconds)
				assert.Equal(t, 120, cfg.RateLimit.MaxRequests)
				assert.Equal(t, "reports", cfg.Reports.Directory)
			},
		},
		{
			name: "explicit values override defaults",
			content: `database:
  host: db.internal
  port: 3307
  database: vocab
scheduler:
  due_limit: 50
  forecast_days: 14
rate_limit:
  window_seconds: 10
  max_requests: 5
`,
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "db.internal", cfg.Database.Host)
				assert.Equal(t, 3307, cfg.Database.Port)
				assert.Equal(t, "vocab", cfg.Database.Database)
				assert.Equal(t, 50, cfg.Scheduler.DueLimit)
				assert.Equal(t, 14, cfg.Scheduler.ForecastDays)
				assert.Equal(t, 10, cfg.RateLimit.WindowSeconds)
				assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
			},
		},
		{
			name:    "database password comes from environment only",
			content: "",
			env:     map[string]string{"DB_PASSWORD": "s3cret"},
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "s3cret", cfg.Database.Password)
			},
		},
		{
			name: "rejects non-positive due limit",
			content: `scheduler:
  due_limit: 0
`,
			wantErr: "invalid configuration",
		},
		{
			name: "rejects forecast beyond a year",
			content: `scheduler:
  forecast_days: 400
`,
			wantErr: "invalid configuration",
		},
		{
			name: "rejects non-positive rate limit window",
			content: `rate_limit:
  window_seconds: -1
`,
			wantErr: "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(writeConfigFile(t, tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.want(t, cfg)
		})
	}
}

func TestLoad_TestFixture(t *testing.T) {
	cfgPath := testutil.SetupTestConfig(t, t.TempDir())

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "kotoba_test", cfg.Database.Database)
	assert.Equal(t, 10, cfg.Scheduler.DueLimit)
	assert.DirExists(t, cfg.Reports.Directory)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Scheduler.DueLimit)
}
