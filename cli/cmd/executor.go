package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailcat/catalogadmin/cli/api"
	"github.com/retailcat/catalogadmin/cli/helpers"
	"github.com/retailcat/catalogadmin/cli/tui/models"
	"github.com/retailcat/catalogadmin/pkg/config"
	"github.com/retailcat/catalogadmin/pkg/logger"
)

// CommandExecutor carries what a one-shot command needs: the output mode,
// the loaded configuration, a result writer and, on request, the entity
// API clients.
type CommandExecutor struct {
	mode    models.Mode
	cfg     *config.Config
	out     *helpers.OutputWriter
	clients *api.Clients
}

type HandlerFunc func(ctx context.Context, cmd *cobra.Command, executor *CommandExecutor, args []string) error

// ModeHandlers holds one handler per output mode. A missing TUI handler
// falls back to JSON.
type ModeHandlers struct {
	JSON HandlerFunc
	TUI  HandlerFunc
}

type ExecutorOptions struct {
	RequireClients bool
}

func NewCommandExecutor(cmd *cobra.Command, opts ExecutorOptions) (*CommandExecutor, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, helpers.NewCliError("INVALID_CONFIG", "configuration not loaded")
	}
	mode := helpers.DetectMode(cmd)
	logger.FromContext(ctx).Debug("Running command", "command", cmd.CommandPath(), "mode", mode)
	e := &CommandExecutor{
		mode: mode,
		cfg:  cfg,
		out:  helpers.NewOutputWriter(cmd.OutOrStdout(), mode),
	}
	if opts.RequireClients {
		clients, err := api.NewClients(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create API clients: %w", err)
		}
		e.clients = clients
	}
	return e, nil
}

func (e *CommandExecutor) handler(handlers ModeHandlers) (HandlerFunc, error) {
	switch e.mode {
	case models.ModeTUI:
		if handlers.TUI != nil {
			return handlers.TUI, nil
		}
		fallthrough
	case models.ModeJSON:
		if handlers.JSON != nil {
			return handlers.JSON, nil
		}
		return nil, fmt.Errorf("no handler for %s mode", e.mode)
	default:
		return nil, fmt.Errorf("unsupported mode: %s", e.mode)
	}
}

// Execute runs the handler for the detected mode. The handler's context is
// cancelled when it returns.
func (e *CommandExecutor) Execute(ctx context.Context, cmd *cobra.Command, handlers ModeHandlers, args []string) error {
	h, err := e.handler(handlers)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return h(ctx, cmd, e, args)
}

func (e *CommandExecutor) GetClients() *api.Clients { return e.clients }

func (e *CommandExecutor) GetConfig() *config.Config { return e.cfg }

func (e *CommandExecutor) Output() *helpers.OutputWriter { return e.out }

func (e *CommandExecutor) GetMode() models.Mode { return e.mode }

// ExecuteCommand builds an executor for cmd and runs the matching handler,
// reporting any failure on the command's error stream.
func ExecuteCommand(cmd *cobra.Command, opts ExecutorOptions, handlers ModeHandlers, args []string) error {
	e, err := NewCommandExecutor(cmd, opts)
	if err != nil {
		return HandleCommonErrors(cmd, err, helpers.DetectMode(cmd))
	}
	return HandleCommonErrors(cmd, e.Execute(cmd.Context(), cmd, handlers, args), e.GetMode())
}

// HandleCommonErrors converts err to a *CliError when it maps to one and
// prints it in the given mode.
func HandleCommonErrors(cmd *cobra.Command, err error, mode models.Mode) error {
	if err == nil {
		return nil
	}
	if cliErr := helpers.ToCliError(err); cliErr != nil {
		err = cliErr
	}
	helpers.FprintError(cmd.ErrOrStderr(), err, mode)
	return err
}
