package config

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/retailcat/catalogadmin/cli/cmd"
	"github.com/retailcat/catalogadmin/cli/helpers"
	"github.com/retailcat/catalogadmin/cli/tui/models"
	"github.com/retailcat/catalogadmin/cli/tui/styles"
	"github.com/retailcat/catalogadmin/pkg/config"
	"github.com/retailcat/catalogadmin/pkg/logger"
)

// NewConfigCommand creates the config command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the admin configuration",
	}
	cmd.AddCommand(
		NewConfigShowCommand(),
		NewConfigValidateCommand(),
		NewConfigInitCommand(),
	)
	return cmd
}

// NewConfigShowCommand creates the config show subcommand
func NewConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values",
		Long: `Display the effective configuration after defaults, file, environment
and flags are merged. Supports JSON, YAML, and table output.`,
		Args: cobra.NoArgs,
		RunE: executeConfigShowCommand,
	}
	cmd.Flags().StringP("output", "o", "table", "Output format (json, yaml, table)")
	cmd.Flags().Bool("sources", false, "Show which source supplied each value")
	return cmd
}

func executeConfigShowCommand(cobraCmd *cobra.Command, args []string) error {
	handler := func(ctx context.Context, c *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
		logger.FromContext(ctx).Debug("executing config show command", "mode", e.GetMode())
		output := helpers.GetFlagStringWithDefault(c, "output", "table")
		if err := helpers.ValidateEnum(output, []string{"json", "yaml", "table"}, "output"); err != nil {
			return err
		}
		var sources map[string]config.SourceType
		if helpers.GetFlagBoolWithDefault(c, "sources", false) {
			sources = collectSources(ctx, flattenConfig(e.GetConfig()))
		}
		return formatConfigOutput(c.OutOrStdout(), e.GetConfig(), sources, output)
	}
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: handler,
		TUI:  handler,
	}, args)
}

func collectSources(ctx context.Context, flat map[string]string) map[string]config.SourceType {
	mgr := config.ManagerFromContext(ctx)
	out := make(map[string]config.SourceType, len(flat))
	for key := range flat {
		out[key] = config.SourceDefault
		if mgr != nil {
			out[key] = mgr.Service.GetSource(key)
		}
	}
	return out
}

// NewConfigValidateCommand creates the config validate subcommand
func NewConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: handleConfigValidateJSON,
				TUI:  handleConfigValidateTUI,
			}, args)
		},
	}
}

func validateLoaded(ctx context.Context, cfg *config.Config) error {
	mgr := config.ManagerFromContext(ctx)
	if mgr == nil {
		return helpers.NewCliError("INVALID_CONFIG", "configuration not loaded")
	}
	return mgr.Service.Validate(cfg)
}

func handleConfigValidateJSON(ctx context.Context, _ *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
	if err := validateLoaded(ctx, e.GetConfig()); err != nil {
		return e.Output().WriteJSON(map[string]any{"valid": false, "message": err.Error()})
	}
	return e.Output().WriteJSON(map[string]any{"valid": true, "message": "Configuration is valid"})
}

func handleConfigValidateTUI(ctx context.Context, _ *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
	if err := validateLoaded(ctx, e.GetConfig()); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return e.Output().WriteText(styles.SuccessStyle.Render("Configuration is valid"))
}

// formatConfigOutput writes cfg in the requested format
func formatConfigOutput(
	w io.Writer,
	cfg *config.Config,
	sources map[string]config.SourceType,
	format string,
) error {
	switch format {
	case "json":
		return outputJSON(w, cfg, sources)
	case "yaml":
		return outputYAML(w, cfg, sources)
	case "table":
		return outputTable(w, cfg, sources)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func document(cfg *config.Config, sources map[string]config.SourceType) map[string]any {
	output := map[string]any{"config": flattenConfig(cfg)}
	if len(sources) > 0 {
		output["sources"] = sources
	}
	return output
}

func outputJSON(w io.Writer, cfg *config.Config, sources map[string]config.SourceType) error {
	return helpers.NewOutputWriter(w, models.ModeJSON).WriteJSON(document(cfg, sources))
}

func outputYAML(w io.Writer, cfg *config.Config, sources map[string]config.SourceType) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(document(cfg, sources)); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return encoder.Close()
}

func outputTable(w io.Writer, cfg *config.Config, sources map[string]config.SourceType) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	flatMap := flattenConfig(cfg)
	keys := make([]string, 0, len(flatMap))
	for k := range flatMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	showSources := len(sources) > 0
	if showSources {
		fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
		fmt.Fprintln(tw, "---\t-----\t------")
	} else {
		fmt.Fprintln(tw, "KEY\tVALUE")
		fmt.Fprintln(tw, "---\t-----")
	}
	for _, key := range keys {
		if showSources {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", key, flatMap[key], sources[key])
		} else {
			fmt.Fprintf(tw, "%s\t%s\n", key, flatMap[key])
		}
	}
	return tw.Flush()
}

// flattenConfig converts nested config to flat key-value map
func flattenConfig(cfg *config.Config) map[string]string {
	return map[string]string{
		"urls.products":       redactURL(cfg.URLs.Products),
		"urls.brands":         redactURL(cfg.URLs.Brands),
		"api.page_size":       strconv.Itoa(cfg.API.PageSize),
		"api.timeout":         cfg.API.Timeout.String(),
		"runtime.environment": cfg.Runtime.Environment,
		"runtime.log_level":   cfg.Runtime.LogLevel,
		"runtime.log_file":    cfg.Runtime.LogFile,
		"cli.format":          cfg.CLI.Format,
		"cli.interactive":     strconv.FormatBool(cfg.CLI.Interactive),
		"cli.watch_config":    strconv.FormatBool(cfg.CLI.WatchConfig),
		"prefs.path":          cfg.Prefs.Path,
	}
}

// redactURL hides credentials embedded in a backend URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.User("REDACTED")
	return u.String()
}
