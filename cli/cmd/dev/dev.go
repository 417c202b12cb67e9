package dev

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/retailcat/catalogadmin/cli/cmd"
	"github.com/retailcat/catalogadmin/cli/helpers"
	"github.com/retailcat/catalogadmin/pkg/config"
	"github.com/retailcat/catalogadmin/pkg/logger"
	"github.com/retailcat/catalogadmin/server"
)

// NewDevBackendCommand creates the dev-backend command
func NewDevBackendCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev-backend",
		Short: "Run an in-memory products and brands API for local use",
		Long: `Serve the catalog REST API from memory. Point --products-url and
--brands-url at it to try the admin without a real backend.`,
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return executeDevBackendCommand(cobraCmd, args, version)
		},
	}
	cmd.Flags().String("host", "127.0.0.1", "Address to listen on")
	cmd.Flags().Int("port", 8080, "Port to listen on")
	cmd.Flags().Duration("latency", 0, "Artificial delay added to every response")
	cmd.Flags().Bool("seed", true, "Start with sample products and brands")
	cmd.Flags().String("seed-file", "", "JSON file with products and brands to serve")
	cmd.Flags().Bool("watch", false, "Reload --seed-file when it changes")
	cmd.Flags().Bool("cors", false, "Allow cross-origin requests")
	return cmd
}

func executeDevBackendCommand(cobraCmd *cobra.Command, args []string, version string) error {
	handler := func(ctx context.Context, c *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
		return runDevBackend(ctx, c, version)
	}
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: handler,
		TUI:  handler,
	}, args)
}

func serverConfig(c *cobra.Command, version string) (*server.Config, error) {
	latency, err := c.Flags().GetDuration("latency")
	if err != nil {
		return nil, fmt.Errorf("failed to get latency flag: %w", err)
	}
	if latency < 0 {
		return nil, helpers.NewCliError("INVALID_FLAG", "latency cannot be negative")
	}
	port := helpers.GetFlagIntWithDefault(c, "port", 8080)
	if port < 1 || port > 65535 {
		return nil, helpers.NewCliError("INVALID_FLAG", fmt.Sprintf("port %d is out of range", port))
	}
	return &server.Config{
		Host:        helpers.GetFlagStringWithDefault(c, "host", "127.0.0.1"),
		Port:        port,
		Latency:     latency,
		Version:     version,
		CORSEnabled: helpers.GetFlagBoolWithDefault(c, "cors", false),
		Seed:        helpers.GetFlagBoolWithDefault(c, "seed", true),
	}, nil
}

// runDevBackend serves until interrupted
func runDevBackend(ctx context.Context, c *cobra.Command, version string) error {
	log := logger.FromContext(ctx)
	cfg, err := serverConfig(c, version)
	if err != nil {
		return err
	}
	srv := server.NewServer(cfg, log)

	seedFile := helpers.GetFlagStringWithDefault(c, "seed-file", "")
	if seedFile != "" {
		if err := reseed(srv, seedFile); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if seedFile != "" && helpers.GetFlagBoolWithDefault(c, "watch", false) {
		watcher, err := config.WatchFile(ctx, seedFile, fileChangeDebounceDelay)
		if err != nil {
			return err
		}
		defer watcher.Close()
		watcher.OnChange(func() {
			if err := reseed(srv, seedFile); err != nil {
				log.Error("Failed to reload seed file", "path", seedFile, "error", err)
			}
		})
		log.Info("Watching seed file", "path", seedFile)
	}
	return srv.Run(ctx)
}

func reseed(srv *server.Server, path string) error {
	seed, err := server.LoadSeed(afero.NewOsFs(), path)
	if err != nil {
		return err
	}
	srv.Reseed(seed)
	return nil
}

const fileChangeDebounceDelay = 200 * time.Millisecond
