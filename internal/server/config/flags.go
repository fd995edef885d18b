package config

import (
	"flag"
	"os"
	"time"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   storage backend ("postgres" or "sqlite")
//	-d string   PostgreSQL DSN
//	-f string   sqlite database file path (or ":memory:")
//	-s string   JWT HMAC secret key
//	-t int      dashboard session validity, minutes
//	-r int      password reset token validity, minutes
//	-o int      passwordless code validity, minutes
//	-w int      expired-row sweep interval, minutes
//	-x int      transaction retries after a conflict
//	-l string   log level ("debug", "info", "warn", "error")
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-f", "-s", "-t", "-r", "-o", "-w", "-x", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SQLitePath, "f", config.SQLitePath, "sqlite database file path")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session_validity_duration (in minutes)")
	resetTokenValidity := fs.Int("r", int(config.ResetTokenValidityDuration.Minutes()), "reset_token_validity_duration (in minutes)")
	codeValidity := fs.Int("o", int(config.CodeValidityDuration.Minutes()), "code_validity_duration (in minutes)")
	sweepInterval := fs.Int("w", int(config.SweepInterval.Minutes()), "sweep_interval (in minutes)")

	fs.IntVar(&config.TxMaxRetries, "x", config.TxMaxRetries, "transaction retries after a conflict")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
	config.ResetTokenValidityDuration = time.Duration(*resetTokenValidity) * time.Minute
	config.CodeValidityDuration = time.Duration(*codeValidity) * time.Minute
	config.SweepInterval = time.Duration(*sweepInterval) * time.Minute
}
