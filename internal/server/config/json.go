package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/flagx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which
// allows parsing both string values such as "30s" and integer
// nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into
// the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	StorageBackend             string         `json:"storage_backend"`
	DatabaseDSN                string         `json:"database_dsn"`
	SQLitePath                 string         `json:"sqlite_path"`
	SecretKey                  string         `json:"secret_key"`
	SessionValidityDuration    timex.Duration `json:"session_validity_duration"`
	ResetTokenValidityDuration timex.Duration `json:"reset_token_validity_duration"`
	CodeValidityDuration       timex.Duration `json:"code_validity_duration"`
	SweepInterval              timex.Duration `json:"sweep_interval"`
	TxMaxRetries               int            `json:"tx_max_retries"`
	LogLevel                   string         `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into the
// provided Config instance.
//
// The JSON file path comes from the -c or -config command-line flags.
// If neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.StorageBackend = c.StorageBackend
	config.DatabaseDSN = c.DatabaseDSN
	config.SQLitePath = c.SQLitePath
	config.SecretKey = c.SecretKey
	config.SessionValidityDuration = time.Duration(c.SessionValidityDuration.Duration)
	config.ResetTokenValidityDuration = time.Duration(c.ResetTokenValidityDuration.Duration)
	config.CodeValidityDuration = time.Duration(c.CodeValidityDuration.Duration)
	config.SweepInterval = time.Duration(c.SweepInterval.Duration)
	config.TxMaxRetries = c.TxMaxRetries
	config.LogLevel = c.LogLevel
}
