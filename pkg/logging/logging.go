// Package logging configures the global zerolog logger for dotmngr.
// Output goes to a human-readable console writer on stderr and, when the
// state directory is writable, to a size-rotated log file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation limits. A reconciliation run logs a handful of lines
// per item, so these are generous.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// SetupLogger configures the global logger based on verbosity level.
// It sets up dual output to both console and a rotated log file.
func SetupLogger(verbosity int) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}

	writers := []io.Writer{consoleWriter}
	if logFile := LogFilePath(); logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    logMaxSizeMB,
				MaxBackups: logMaxBackups,
				MaxAge:     logMaxAgeDays,
			})
		}
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()

	// Caller information helps when chasing a specific decision at -vv
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Msg("logger initialized")
}

// GetLogger returns a contextualized logger with the given component name.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogFilePath returns the path of the log file. It respects XDG_STATE_HOME
// when set and falls back to ~/.local/state/dotmngr. An empty string means
// no usable location exists and file logging is skipped.
func LogFilePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "dotmngr", "dotmngr.log")
}
