package helpers

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/retailcat/catalogadmin/cli/tui/models"
	"github.com/retailcat/catalogadmin/pkg/config"
)

// ciMarkers are environment variables set by common CI runners.
var ciMarkers = []string{
	"CI", "CONTINUOUS_INTEGRATION", "GITHUB_ACTIONS", "GITLAB_CI",
	"BUILDKITE", "CIRCLECI", "JENKINS_URL", "TF_BUILD",
}

func inCI() bool {
	for _, v := range ciMarkers {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

func tty(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// interactive reports whether a person can drive the terminal.
func interactive(cfg *config.Config) bool {
	if !cfg.CLI.Interactive || inCI() || !tty(os.Stdin) || !tty(os.Stdout) {
		return false
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// ConfigFromCommand returns the configuration the root command loaded.
func ConfigFromCommand(cmd *cobra.Command) *config.Config {
	return config.FromContext(cmd.Context())
}

// DetectMode picks TUI or JSON output. An explicit --format wins; otherwise
// TUI is used only on an interactive terminal.
func DetectMode(cmd *cobra.Command) models.Mode {
	cfg := ConfigFromCommand(cmd)
	if cfg == nil {
		return models.ModeJSON
	}
	switch OutputFormat(cfg.CLI.Format) {
	case OutputFormatJSON:
		return models.ModeJSON
	case OutputFormatTUI:
		return models.ModeTUI
	}
	if interactive(cfg) {
		return models.ModeTUI
	}
	return models.ModeJSON
}
