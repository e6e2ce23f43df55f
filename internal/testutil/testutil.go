// Package testutil provides shared test helpers for creating config files.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file and the directories it points
// at for testing. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	reportsDir := filepath.Join(tmpDir, "reports")
	require.NoError(t, os.MkdirAll(reportsDir, 0755))

	configContent := fmt.Sprintf(`database:
  host: localhost
  port: 3306
  username: kotoba
  database: kotoba_test
scheduler:
  due_limit: 10
  forecast_days: 7
rate_limit:
  window_seconds: 60
  max_requests: 120
reports:
  directory: %s
`, reportsDir)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}
