// Package ui starts the interactive admin.
package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/retailcat/catalogadmin/cli/tui/app"
	"github.com/retailcat/catalogadmin/pkg/config"
	"github.com/retailcat/catalogadmin/pkg/logger"
	"github.com/retailcat/catalogadmin/pkg/prefs"
)

// DeferConfigAnnotation marks commands that report configuration errors
// themselves instead of failing before they run.
const DeferConfigAnnotation = "catalogadmin/defer-config"

func NewUICommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:         "ui",
		Short:       "Open the interactive products and brands admin",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{DeferConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), version)
		},
	}
}

func run(ctx context.Context, version string) error {
	mgr := config.ManagerFromContext(ctx)
	if mgr == nil {
		return fmt.Errorf("configuration manager not initialized")
	}
	runtime := config.Default().Runtime
	prefsPath := ""
	cfg := mgr.Get()
	if cfg != nil {
		runtime = cfg.Runtime
		prefsPath = cfg.Prefs.Path
	}

	fileLog, closer, err := logger.SetupFileLogger(runtime.LogFile, runtime.LogLevel, false)
	if err != nil {
		return err
	}
	defer closer.Close()
	ctx = logger.ContextWithLogger(ctx, fileLog)

	store, err := prefs.NewDefault(prefsPath)
	if err != nil {
		fileLog.Warn("Preferences unavailable", "error", err)
		store = nil
	}

	opts := app.Options{
		Load:    Loader(mgr),
		Prefs:   store,
		Version: version,
	}
	if cfg != nil && cfg.CLI.WatchConfig {
		opts.Changes = watch(ctx, mgr)
	}
	program := tea.NewProgram(app.New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("ui failed: %w", err)
	}
	return nil
}

// Loader returns the configuration already loaded by mgr, or retries the
// load when startup failed.
func Loader(mgr *config.Manager) app.LoadFunc {
	return func(ctx context.Context) (*config.Config, error) {
		if cfg := mgr.Get(); cfg != nil {
			return cfg, nil
		}
		if err := mgr.Reload(ctx); err != nil {
			return nil, err
		}
		return mgr.Get(), nil
	}
}

func watch(ctx context.Context, mgr *config.Manager) <-chan *config.Config {
	ch := make(chan *config.Config, 1)
	mgr.OnChange(func(cfg *config.Config) {
		select {
		case ch <- cfg:
		default:
			// the app has not consumed the previous reload yet
			select {
			case <-ch:
			default:
			}
			ch <- cfg
		}
	})
	mgr.Watch(ctx)
	return ch
}
