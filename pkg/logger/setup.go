package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// SetupLogger initializes the default logger from command line settings.
func SetupLogger(logLevel string, logJSON, logSource bool) Logger {
	cfg := &Config{
		Level:      ParseLevel(logLevel),
		Output:     os.Stderr,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	}
	l := NewLogger(cfg)
	defaultLoggerMu.Lock()
	defaultLogger = l
	defaultLoggerMu.Unlock()
	return l
}

// SetupFileLogger routes logs to path so they never draw over a full-screen
// TUI. An empty path discards everything.
func SetupFileLogger(path, logLevel string, logJSON bool) (Logger, io.Closer, error) {
	if path == "" {
		l := NewLogger(&Config{Level: DisabledLevel, Output: io.Discard, TimeFormat: "15:04:05"})
		return l, io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := NewLogger(&Config{
		Level:      ParseLevel(logLevel),
		Output:     f,
		JSON:       logJSON,
		TimeFormat: "2006-01-02 15:04:05",
	})
	return l, f, nil
}

func GetLoggerConfig(cmd *cobra.Command) (string, bool, bool, error) {
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return "", false, false, fmt.Errorf("failed to get log-level flag: %w", err)
	}

	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return "", false, false, fmt.Errorf("failed to get log-json flag: %w", err)
	}

	logSource, err := cmd.Flags().GetBool("log-source")
	if err != nil {
		return "", false, false, fmt.Errorf("failed to get log-source flag: %w", err)
	}

	return logLevel, logJSON, logSource, nil
}
