package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_LoadsFileFromConfigFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"storage_backend":               "postgres",
		"database_dsn":                  "postgres://u:p@db:5432/core",
		"sqlite_path":                   "core.db",
		"secret_key":                    "my_secret_key",
		"session_validity_duration":     "12h",
		"reset_token_validity_duration": "30m",
		"code_validity_duration":        "5m",
		"sweep_interval":                "1m",
		"tx_max_retries":                7,
		"log_level":                     "debug",
	})
	os.Args = []string{"app", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, BackendPostgres, c.StorageBackend)
	assert.Equal(t, "postgres://u:p@db:5432/core", c.DatabaseDSN)
	assert.Equal(t, "core.db", c.SQLitePath)
	assert.Equal(t, "my_secret_key", c.SecretKey)
	assert.Equal(t, 12*time.Hour, c.SessionValidityDuration)
	assert.Equal(t, 30*time.Minute, c.ResetTokenValidityDuration)
	assert.Equal(t, 5*time.Minute, c.CodeValidityDuration)
	assert.Equal(t, 1*time.Minute, c.SweepInterval)
	assert.Equal(t, 7, c.TxMaxRetries)
	assert.Equal(t, "debug", c.LogLevel)
}

func Test_parseJson_NoFlagLeavesDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"app"}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, BackendSQLite, c.StorageBackend)
	assert.Equal(t, 24*time.Hour, c.SessionValidityDuration)
}
