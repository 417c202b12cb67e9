package version

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailcat/catalogadmin/cli/api"
	"github.com/retailcat/catalogadmin/cli/cmd"
	"github.com/retailcat/catalogadmin/cli/tui/styles"
	buildinfo "github.com/retailcat/catalogadmin/pkg/version"
)

// Report combines the build info with the backend versions.
type Report struct {
	buildinfo.Info
	Backends *api.Versions `json:"backends,omitempty"`
}

func NewVersionCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Short: "Show the CLI version and, with --remote, the backend API versions",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			remote, _ := cobraCmd.Flags().GetBool("remote")
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireClients: remote}, cmd.ModeHandlers{
				JSON: func(ctx context.Context, _ *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
					return e.Output().WriteJSON(collect(ctx, e))
				},
				TUI: func(ctx context.Context, _ *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
					return e.Output().WriteText(render(collect(ctx, e)))
				},
			}, args)
		},
	}
	c.Flags().Bool("remote", false, "Also ask the backends for their version")
	return c
}

func collect(ctx context.Context, e *cmd.CommandExecutor) Report {
	r := Report{Info: buildinfo.Get()}
	if clients := e.GetClients(); clients != nil {
		v := clients.FetchVersions(ctx)
		r.Backends = &v
	}
	return r
}

func render(r Report) string {
	out := styles.TitleStyle.Render("catalogadmin "+r.Version) + "\n" +
		styles.HelpStyle.Render(fmt.Sprintf("commit %s, built %s", r.CommitHash, r.BuildDate))
	if r.Backends != nil {
		out += "\n" + backendLine("Products API", r.Backends.Products, r.Backends.ProductsErr)
		out += "\n" + backendLine("Brands API", r.Backends.Brands, r.Backends.BrandsErr)
	}
	return out
}

func backendLine(label, v, errText string) string {
	if errText != "" {
		return styles.ErrorStyle.Render(label + ": " + errText)
	}
	return styles.InfoStyle.Render(label + ": v" + v)
}
