package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dashwright/dashwright/pkg/catalog"
	"github.com/dashwright/dashwright/pkg/errors"
)

// catalogCommand creates the catalog command with list/show/delete subcommands.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse published dashboards",
		Long:  "Browse the local catalog of published dashboards.",
	}
	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogShowCommand())
	cmd.AddCommand(c.catalogDeleteCommand())
	return cmd
}

func (c *CLI) catalogListCommand() *cobra.Command {
	var (
		owner       string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published dashboards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(ctx, owner)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No dashboards in the catalog yet")
				printNextStep("Generate one", fmt.Sprintf("%s generate <prompt> -d <dataset> --publish", appName))
				return nil
			}

			if interactive {
				model := NewCatalogListModel(entries)
				final, err := tea.NewProgram(model).Run()
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "run dashboard picker")
				}
				selected := final.(CatalogListModel).Selected
				if selected == nil {
					return nil
				}
				printEntry(selected)
				return nil
			}

			for i := range entries {
				e := &entries[i]
				printInline("%s %s %s\n",
					StyleValue.Render(e.Name),
					StyleDim.Render(e.ID),
					StyleDim.Render(formatRelativeTime(e.UpdatedAt)))
			}
			printNewline()
			printDetail("%d dashboards", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "only list dashboards owned by this user")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a dashboard interactively")

	return cmd
}

func (c *CLI) catalogShowCommand() *cobra.Command {
	var showDefinition bool

	cmd := &cobra.Command{
		Use:   "show <dashboard-id>",
		Short: "Show a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if entry == nil {
				return errors.New(errors.ErrCodeDashboardNotFound, "dashboard %s is not in the catalog", args[0])
			}

			if showDefinition {
				fmt.Println(string(entry.Definition))
				return nil
			}
			printEntry(entry)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDefinition, "definition", false, "print the stored definition JSON")

	return cmd
}

func (c *CLI) catalogDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <dashboard-id>",
		Short: "Remove a dashboard from the catalog",
		Long:  "Remove a dashboard from the local catalog. The workspace dashboard itself is not touched.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Removed %s from the catalog", args[0])
			return nil
		},
	}
}

// openCatalog loads config and opens the configured catalog store.
func (c *CLI) openCatalog(ctx context.Context) (catalog.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.OpenCatalog(ctx)
}

func printEntry(e *catalog.Entry) {
	printKeyValue("Name", e.Name)
	printKeyValue("Dashboard", e.ID)
	if e.Owner != "" {
		printKeyValue("Owner", e.Owner)
	}
	if e.EmbedURL != "" {
		printKeyValue("Embed URL", StyleLink.Render(e.EmbedURL))
	}
	if !e.CreatedAt.IsZero() {
		printKeyValue("Created", e.CreatedAt.Local().Format("Jan 2, 2006 15:04"))
	}
	if !e.UpdatedAt.IsZero() {
		printKeyValue("Updated", e.UpdatedAt.Local().Format("Jan 2, 2006 15:04"))
	}
}
