// Package entity builds the products and brands command groups from one
// generic definition.
package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/retailcat/catalogadmin/cli/api"
	"github.com/retailcat/catalogadmin/cli/cmd"
	"github.com/retailcat/catalogadmin/cli/helpers"
	"github.com/retailcat/catalogadmin/cli/tui/components"
	"github.com/retailcat/catalogadmin/cli/tui/models"
	"github.com/retailcat/catalogadmin/cli/tui/styles"
	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/catalogapi"
	"github.com/retailcat/catalogadmin/pkg/logger"
)

// Spec describes one entity kind for the command line.
type Spec[T catalog.Entity] struct {
	Desc    catalog.Descriptor[T]
	Client  func(*api.Clients) *catalogapi.Client[T]
	Columns func() []components.Column[T]
	// BindFlags registers the field flags shared by add and update.
	BindFlags func(fs *pflag.FlagSet)
	// ApplyFlags copies explicitly set field flags onto e.
	ApplyFlags func(fs *pflag.FlagSet, e *T) error
}

// ListResult is the JSON shape of a list command.
type ListResult[T catalog.Entity] struct {
	Items       []T          `json:"items"`
	TotalItems  int          `json:"totalItems"`
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
	Sort        catalog.Sort `json:"sort"`
	Search      string       `json:"search,omitempty"`
}

type MutationResult[T catalog.Entity] struct {
	Action string `json:"action"`
	Entity T      `json:"entity"`
}

type DeleteResult struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

func NewCommand[T catalog.Entity](spec Spec[T]) *cobra.Command {
	group := &cobra.Command{
		Use:   spec.Desc.Plural,
		Short: fmt.Sprintf("Manage %s", spec.Desc.Plural),
	}
	group.AddCommand(
		newListCommand(spec),
		newAddCommand(spec),
		newUpdateCommand(spec),
		newDeleteCommand(spec),
		newVersionCommand(spec),
	)
	return group
}

func clientFor[T catalog.Entity](spec Spec[T], executor *cmd.CommandExecutor) *catalogapi.Client[T] {
	return spec.Client(executor.GetClients())
}

func run(cobraCmd *cobra.Command, args []string, json, tui cmd.HandlerFunc) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireClients: true}, cmd.ModeHandlers{
		JSON: json,
		TUI:  tui,
	}, args)
}

func newListCommand[T catalog.Entity](spec Spec[T]) *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List one page of %s", spec.Desc.Plural),
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return run(cobraCmd, args,
				func(ctx context.Context, c *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
					res, err := listPage(ctx, c, spec, e)
					if err != nil {
						return err
					}
					return e.Output().WriteJSON(res)
				},
				func(ctx context.Context, c *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
					res, err := listPage(ctx, c, spec, e)
					if err != nil {
						return err
					}
					return e.Output().WriteText(renderList(spec, res))
				})
		},
	}
	c.Flags().Int("page", 1, "Page number to fetch")
	c.Flags().String("sort", string(spec.Desc.DefaultSort.Column),
		fmt.Sprintf("Column to order by (%s)", joinColumns(spec.Desc.SortColumns)))
	c.Flags().Bool("desc", false, "Order descending")
	c.Flags().String("search", "", "Only show rows of the fetched page whose name contains this text")
	return c
}

func joinColumns(cols []catalog.SortColumn) string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = string(col)
	}
	return strings.Join(out, ", ")
}

func listPage[T catalog.Entity](
	ctx context.Context,
	c *cobra.Command,
	spec Spec[T],
	e *cmd.CommandExecutor,
) (*ListResult[T], error) {
	page := helpers.GetFlagIntWithDefault(c, "page", 1)
	if page < 1 {
		return nil, helpers.NewCliError("INVALID_FLAG", "page must be 1 or greater")
	}
	col, err := spec.Desc.ParseSortColumn(helpers.GetFlagStringWithDefault(c, "sort", string(spec.Desc.DefaultSort.Column)))
	if err != nil {
		return nil, helpers.NewCliError("INVALID_FLAG", err.Error())
	}
	sort := catalog.Sort{Column: col, Ascending: !helpers.GetFlagBoolWithDefault(c, "desc", false)}
	search := helpers.GetFlagStringWithDefault(c, "search", "")

	var result *catalog.Page[T]
	err = helpers.LogOperation(ctx, "list "+spec.Desc.Plural, func() error {
		var listErr error
		result, listErr = clientFor(spec, e).List(ctx, page, sort)
		return listErr
	})
	if err != nil {
		return nil, err
	}
	if result.Superseded() {
		return nil, catalogapi.ErrCancelled
	}
	return &ListResult[T]{
		Items:       catalog.FilterByName(result.Items, search),
		TotalItems:  result.TotalItems,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
		Sort:        sort,
		Search:      search,
	}, nil
}

func renderList[T catalog.Entity](spec Spec[T], res *ListResult[T]) string {
	if len(res.Items) == 0 {
		return styles.HelpStyle.Render(components.NoResultsText)
	}
	table := components.NewDataTable(spec.Columns(), false)
	table.SetSize(0, len(res.Items)+2)
	table.SetRows(res.Items)
	footer := fmt.Sprintf("Page %d of %d • %d %s",
		res.CurrentPage, max(res.TotalPages, 1), res.TotalItems,
		helpers.Pluralize(res.TotalItems, spec.Desc.Name, spec.Desc.Plural))
	return table.View() + "\n" + styles.PaginationStyle.Render(footer)
}

func newAddCommand[T catalog.Entity](spec Spec[T]) *cobra.Command {
	c := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Create a %s", spec.Desc.Name),
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			handler := func(ctx context.Context, c *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
				draft := spec.Desc.Blank()
				if err := spec.ApplyFlags(c.Flags(), &draft); err != nil {
					return err
				}
				if err := save(ctx, spec, e, draft); err != nil {
					return err
				}
				return report(e, "created", draft, fmt.Sprintf("Added %s %s", spec.Desc.Name, draft.DisplayName()))
			}
			return run(cobraCmd, args, handler, handler)
		},
	}
	spec.BindFlags(c.Flags())
	return c
}

func newUpdateCommand[T catalog.Entity](spec Spec[T]) *cobra.Command {
	c := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s; only the given fields change", spec.Desc.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			handler := func(ctx context.Context, c *cobra.Command, e *cmd.CommandExecutor, args []string) error {
				existing, err := FindByID(ctx, clientFor(spec, e), args[0])
				if err != nil {
					return err
				}
				if err := spec.ApplyFlags(c.Flags(), &existing); err != nil {
					return err
				}
				if err := save(ctx, spec, e, existing); err != nil {
					return err
				}
				return report(e, "updated", existing, fmt.Sprintf("Saved %s %s", spec.Desc.Name, existing.GetID()))
			}
			return run(cobraCmd, args, handler, handler)
		},
	}
	spec.BindFlags(c.Flags())
	return c
}

func save[T catalog.Entity](ctx context.Context, spec Spec[T], e *cmd.CommandExecutor, draft T) error {
	if err := spec.Desc.Validate(draft); err != nil {
		return err
	}
	return helpers.LogOperation(ctx, "save "+spec.Desc.Name, func() error {
		return clientFor(spec, e).Save(ctx, draft)
	})
}

func report[T catalog.Entity](e *cmd.CommandExecutor, action string, entity T, text string) error {
	if e.GetMode() == models.ModeJSON {
		return e.Output().WriteJSON(MutationResult[T]{Action: action, Entity: entity})
	}
	return e.Output().WriteText(styles.SuccessStyle.Render(text))
}

func newDeleteCommand[T catalog.Entity](spec Spec[T]) *cobra.Command {
	c := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", spec.Desc.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return run(cobraCmd, args,
				func(ctx context.Context, c *cobra.Command, e *cmd.CommandExecutor, args []string) error {
					if !helpers.GetFlagBoolWithDefault(c, "force", false) {
						return fmt.Errorf("delete %s %s: %w", spec.Desc.Name, args[0], helpers.ErrConfirmationRequired)
					}
					if err := remove(ctx, spec, e, args[0]); err != nil {
						return err
					}
					return e.Output().WriteJSON(DeleteResult{Action: "deleted", ID: args[0]})
				},
				func(ctx context.Context, c *cobra.Command, e *cmd.CommandExecutor, args []string) error {
					id := args[0]
					if !helpers.GetFlagBoolWithDefault(c, "force", false) {
						ok, err := confirmDelete(ctx, spec, e, id)
						if err != nil {
							return err
						}
						if !ok {
							return e.Output().WriteText(styles.HelpStyle.Render("Delete cancelled"))
						}
					}
					if err := remove(ctx, spec, e, id); err != nil {
						return err
					}
					return e.Output().WriteText(styles.SuccessStyle.Render(
						fmt.Sprintf("Deleted %s %s", spec.Desc.Name, id)))
				})
		},
	}
	c.Flags().Bool("force", false, "Delete without asking for confirmation")
	return c
}

func remove[T catalog.Entity](ctx context.Context, spec Spec[T], e *cmd.CommandExecutor, id string) error {
	return helpers.LogOperation(ctx, "delete "+spec.Desc.Name, func() error {
		return clientFor(spec, e).Delete(ctx, id)
	})
}

func confirmDelete[T catalog.Entity](ctx context.Context, spec Spec[T], e *cmd.CommandExecutor, id string) (bool, error) {
	name := id
	if row, err := FindByID(ctx, clientFor(spec, e), id); err == nil {
		name = row.DisplayName()
	} else {
		logger.FromContext(ctx).Debug("Could not resolve name before delete", "id", id, "error", err)
	}
	dialog := components.NewDeleteDialog(cases.Title(language.English).String(spec.Desc.Name), id, name)
	var confirmed bool
	confirm := huh.NewConfirm().
		Title(dialog.Title).
		Description(dialog.Body).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirmed)
	err := huh.NewForm(huh.NewGroup(confirm)).WithShowHelp(false).RunWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("confirmation aborted: %w", err)
	}
	return confirmed, nil
}

func newVersionCommand[T catalog.Entity](spec Spec[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: fmt.Sprintf("Show the %s API version", spec.Desc.Plural),
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return run(cobraCmd, args,
				func(ctx context.Context, _ *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
					v, err := clientFor(spec, e).Version(ctx)
					if err != nil {
						return err
					}
					return e.Output().WriteJSON(map[string]string{"entity": spec.Desc.Name, "version": v})
				},
				func(ctx context.Context, _ *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
					v, err := clientFor(spec, e).Version(ctx)
					if err != nil {
						return err
					}
					return e.Output().WriteText(fmt.Sprintf("%s API %s", spec.Desc.Title, v))
				})
		},
	}
}
