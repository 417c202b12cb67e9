package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/retailcat/catalogadmin/cli/cmd"
	"github.com/retailcat/catalogadmin/cli/helpers"
	"github.com/retailcat/catalogadmin/cli/tui/components"
	"github.com/retailcat/catalogadmin/cli/tui/models"
	"github.com/retailcat/catalogadmin/cli/tui/styles"
	"github.com/retailcat/catalogadmin/pkg/config"
)

// FileData is what config init writes to disk.
type FileData struct {
	URLs struct {
		Products string `json:"products"`
		Brands   string `json:"brands"`
	} `json:"urls"`
	API struct {
		PageSize int    `json:"page_size"`
		Timeout  string `json:"timeout"`
	} `json:"api"`
	Runtime struct {
		Environment string `json:"environment"`
		LogLevel    string `json:"log_level"`
	} `json:"runtime"`
}

// NewFileData seeds the form from the effective configuration.
func NewFileData(cfg *config.Config) *FileData {
	if cfg == nil {
		cfg = config.Default()
	}
	d := &FileData{}
	d.URLs.Products = cfg.URLs.Products
	d.URLs.Brands = cfg.URLs.Brands
	d.API.PageSize = cfg.API.PageSize
	d.API.Timeout = cfg.API.Timeout.String()
	d.Runtime.Environment = cfg.Runtime.Environment
	d.Runtime.LogLevel = cfg.Runtime.LogLevel
	return d
}

// NewConfigInitCommand creates the config init subcommand
func NewConfigInitCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file",
		Long: `Create catalogadmin.json from the current settings. In a terminal an
interactive form lets you adjust the values first.`,
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: handleInitJSON,
				TUI:  handleInitTUI,
			}, args)
		},
	}
	c.Flags().String("path", config.DefaultConfigFile, "Where to write the file")
	c.Flags().Bool("force", false, "Overwrite an existing file")
	return c
}

func handleInitJSON(_ context.Context, c *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
	path := helpers.GetFlagStringWithDefault(c, "path", config.DefaultConfigFile)
	data := NewFileData(e.GetConfig())
	if err := WriteFile(afero.NewOsFs(), path, data, helpers.GetFlagBoolWithDefault(c, "force", false)); err != nil {
		return err
	}
	return e.Output().WriteJSON(map[string]any{"path": path, "config": data})
}

func handleInitTUI(ctx context.Context, c *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
	path := helpers.GetFlagStringWithDefault(c, "path", config.DefaultConfigFile)
	data := NewFileData(e.GetConfig())
	submitted, err := components.NewFormWrapper(ctx, "Configure catalogadmin", NewInitForm(data)).Run()
	if err != nil {
		return err
	}
	if !submitted {
		return e.Output().WriteText(styles.HelpStyle.Render("Nothing written"))
	}
	if err := WriteFile(afero.NewOsFs(), path, data, helpers.GetFlagBoolWithDefault(c, "force", false)); err != nil {
		return err
	}
	return e.Output().WriteText(styles.SuccessStyle.Render("Wrote " + path))
}

// NewInitForm builds the interactive configuration form
func NewInitForm(data *FileData) *huh.Form {
	pageSize := strconv.Itoa(data.API.PageSize)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Products URL").
				Description("Base URL of the products API").
				Value(&data.URLs.Products).
				Validate(validateBaseURL),
			huh.NewInput().
				Title("Brands URL").
				Description("Base URL of the brands API").
				Value(&data.URLs.Brands).
				Validate(validateBaseURL),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Page size").
				Value(&pageSize).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 || n > 100 {
						return errors.New("enter a number between 1 and 100")
					}
					data.API.PageSize = n
					return nil
				}),
			huh.NewInput().
				Title("Request timeout").
				Description("For example 30s or 1m").
				Value(&data.API.Timeout).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Environment").
				Description("Production hides the API version line").
				Options(huh.NewOptions("development", "staging", "production")...).
				Value(&data.Runtime.Environment),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error", "disabled")...).
				Value(&data.Runtime.LogLevel),
		),
	)
}

func validateBaseURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("enter an absolute http(s) URL")
	}
	return nil
}

// WriteFile stores data as indented JSON. An existing file is kept unless
// overwrite is set.
func WriteFile(fs afero.Fs, path string, data *FileData, overwrite bool) error {
	if !overwrite {
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
		if exists {
			return helpers.NewCliError("FILE_EXISTS", path+" already exists", "use --force to overwrite")
		}
	}
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := helpers.NewOutputWriter(f, models.ModeJSON).WriteJSON(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
