package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retailcat/catalogadmin/cli/tui/models"
	"github.com/retailcat/catalogadmin/cli/tui/styles"
	"github.com/retailcat/catalogadmin/pkg/logger"
)

// OutputWriter writes command results in the active mode.
type OutputWriter struct {
	writer io.Writer
	mode   models.Mode
}

func NewOutputWriter(writer io.Writer, mode models.Mode) *OutputWriter {
	return &OutputWriter{writer: writer, mode: mode}
}

// WriteJSON writes data as indented JSON
func (ow *OutputWriter) WriteJSON(data any) error {
	enc := json.NewEncoder(ow.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// WriteText writes a rendered line, used by TUI-mode one-shot commands.
func (ow *OutputWriter) WriteText(s string) error {
	_, err := fmt.Fprintln(ow.writer, s)
	return err
}

func (ow *OutputWriter) Mode() models.Mode {
	return ow.mode
}

// FormatError renders err for the given output mode.
func FormatError(err error, mode models.Mode) string {
	if err == nil {
		return ""
	}
	var cliErr *CliError
	isCli := errors.As(err, &cliErr)
	switch mode {
	case models.ModeJSON:
		resp := map[string]any{"error": err.Error(), "details": ""}
		if isCli {
			resp = map[string]any{"code": cliErr.Code, "error": cliErr.Message, "details": cliErr.Details}
			if len(cliErr.Context) > 0 {
				resp["context"] = cliErr.Context
			}
		}
		data, mErr := json.MarshalIndent(resp, "", "  ")
		if mErr != nil {
			return `{"error": "JSON marshaling failed", "details": ""}`
		}
		return string(data)
	case models.ModeTUI:
		message, details := err.Error(), ""
		if isCli {
			message, details = cliErr.Message, cliErr.Details
		}
		out := styles.ErrorStyle.Render("Error " + message)
		if details != "" {
			out += "\n" + styles.HelpStyle.Italic(true).Render("Details: "+details)
		}
		return out
	default:
		return err.Error()
	}
}

func FprintError(w io.Writer, err error, mode models.Mode) {
	if err != nil {
		fmt.Fprintln(w, FormatError(err, mode))
	}
}

// OutputError writes err to stderr.
func OutputError(err error, mode models.Mode) {
	FprintError(os.Stderr, err, mode)
}

// LogOperation runs fn, logging its duration and outcome at debug level.
func LogOperation(ctx context.Context, operation string, fn func() error) error {
	log := logger.FromContext(ctx).With("operation", operation)
	start := time.Now()
	err := fn()
	if err != nil {
		log.Error("Operation failed", "duration", time.Since(start), "error", err)
		return err
	}
	log.Debug("Operation completed", "duration", time.Since(start))
	return nil
}
