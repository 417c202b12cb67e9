// Package cli wires the catalogadmin commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailcat/catalogadmin/cli/cmd/config"
	"github.com/retailcat/catalogadmin/cli/cmd/dev"
	"github.com/retailcat/catalogadmin/cli/cmd/entity"
	"github.com/retailcat/catalogadmin/cli/cmd/ui"
	versioncmd "github.com/retailcat/catalogadmin/cli/cmd/version"
	"github.com/retailcat/catalogadmin/cli/helpers"
	pkgconfig "github.com/retailcat/catalogadmin/pkg/config"
	"github.com/retailcat/catalogadmin/pkg/logger"
	"github.com/retailcat/catalogadmin/pkg/version"
)

func RootCmd() *cobra.Command {
	uiCmd := ui.NewUICommand(version.Get().Version)
	root := &cobra.Command{
		Use:   "catalogadmin",
		Short: "Manage products and brands of the retail catalog",
		Long: `catalogadmin browses and edits the products and brands of the retail
catalog. Run "catalogadmin ui" for the interactive admin, or use the
products and brands commands from scripts.`,
		Version:            version.Get().Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  setupCommand,
		PersistentPostRunE: teardownCommand,
		RunE:               uiCmd.RunE,
		Annotations:        uiCmd.Annotations,
	}
	addPersistentFlags(root)
	root.AddCommand(
		uiCmd,
		entity.ProductsCommand(),
		entity.BrandsCommand(),
		config.NewConfigCommand(),
		dev.NewDevBackendCommand(version.Get().Version),
		versioncmd.NewVersionCommand(),
	)
	return root
}

func addPersistentFlags(root *cobra.Command) {
	defaults := pkgconfig.Default()
	f := root.PersistentFlags()
	f.String("config", pkgconfig.DefaultConfigFile, "Path to the configuration file")
	f.String("env-file", ".env", "Environment file to load before reading configuration")
	f.String("format", defaults.CLI.Format, "Output format (auto, json, tui)")
	f.String("log-level", defaults.Runtime.LogLevel, "Log level (debug, info, warn, error, disabled)")
	f.Bool("log-json", false, "Emit logs as JSON")
	f.Bool("log-source", false, "Include source locations in logs")
	f.String("log-file", "", "Write interactive-mode logs to this file")
	f.String("products-url", defaults.URLs.Products, "Base URL of the products API")
	f.String("brands-url", defaults.URLs.Brands, "Base URL of the brands API")
	f.Int("page-size", defaults.API.PageSize, "Rows per page requested from the backend")
	f.Duration("timeout", defaults.API.Timeout, "Per-request timeout")
	f.String("environment", defaults.Runtime.Environment, "Runtime environment (development, staging, production)")
	f.Bool("watch-config", false, "Reload the interactive admin when the configuration file changes")
	f.String("prefs-file", "", "Where UI preferences are stored")
}

// setupCommand loads configuration and attaches it with a logger to the
// command context.
func setupCommand(cmd *cobra.Command, _ []string) error {
	if _, err := loadEnvFile(cmd); err != nil {
		return err
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	mgr := pkgconfig.NewManager(nil)
	_, loadErr := mgr.Load(cmd.Context(),
		pkgconfig.NewFileProvider(path, cmd.Flags().Changed("config")),
		pkgconfig.NewCLIProvider(extractCLIFlags(cmd)),
	)

	level, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return err
	}
	if cfg := mgr.Get(); cfg != nil {
		level = cfg.Runtime.LogLevel
	}
	log := logger.SetupLogger(level, logJSON, logSource)
	ctx := logger.ContextWithLogger(pkgconfig.ContextWithManager(cmd.Context(), mgr), log)
	cmd.SetContext(ctx)

	if loadErr != nil {
		if cmd.Annotations[ui.DeferConfigAnnotation] != "" {
			log.Debug("Deferring configuration error to the command", "error", loadErr)
			return nil
		}
		cliErr := helpers.NewCliError("INVALID_CONFIG", "Configuration could not be loaded", loadErr.Error()).
			WithCause(loadErr)
		helpers.OutputError(cliErr, helpers.DetectMode(cmd))
		return cliErr
	}
	log.Debug("Configuration loaded", "file", path)
	return nil
}

func teardownCommand(cmd *cobra.Command, _ []string) error {
	if mgr := pkgconfig.ManagerFromContext(cmd.Context()); mgr != nil {
		return mgr.Close(cmd.Context())
	}
	return nil
}
