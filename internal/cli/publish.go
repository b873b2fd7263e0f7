package cli

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dashwright/dashwright/pkg/catalog"
	"github.com/dashwright/dashwright/pkg/dashboard"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/integrations/boards"
)

// publishCommand creates the publish command for existing definition files.
func (c *CLI) publishCommand() *cobra.Command {
	var (
		displayName string
		warehouseID string
		parentPath  string
		embedCreds  bool
	)

	cmd := &cobra.Command{
		Use:   "publish <definition.json>",
		Short: "Publish a dashboard definition to the workspace",
		Long: `Publish a dashboard definition to the workspace.

The definition file is typically produced by "generate --output". The
dashboard is created in the workspace, published, and recorded in the
local catalog.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					return errors.New(errors.ErrCodeFileNotFound, "definition file not found: %s", path)
				}
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "read definition file %s", path)
			}
			def, err := dashboard.Parse(data)
			if err != nil {
				return err
			}
			if displayName == "" {
				displayName = def.DisplayName()
			}
			if err := errors.ValidateDashboardName(displayName); err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if warehouseID == "" {
				warehouseID = cfg.Workspace.WarehouseID
			}
			if warehouseID == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "a warehouse id is required to publish (set --warehouse or workspace.warehouse_id)")
			}
			if parentPath == "" {
				parentPath = cfg.Workspace.ParentPath
			}

			client, err := c.newBoards(cfg)
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, spinnerPublishing)
			spinner.Start()

			created, err := client.Create(ctx, boards.CreateRequest{
				DisplayName:         displayName,
				WarehouseID:         warehouseID,
				SerializedDashboard: string(data),
				ParentPath:          parentPath,
			})
			if err != nil {
				spinner.StopWithError("Publish failed")
				return err
			}
			if _, err := client.Publish(ctx, created.DashboardID, embedCreds); err != nil {
				spinner.StopWithError("Publish failed")
				return err
			}
			spinner.Stop()

			embedURL := client.EmbedURL(created.DashboardID)
			printSuccess("Published %s", StyleHighlight.Render(displayName))
			printKeyValue("Dashboard", created.DashboardID)
			printKeyValue("Embed URL", StyleLink.Render(embedURL))

			store, err := cfg.OpenCatalog(ctx)
			if err != nil {
				printWarning("Catalog update failed: %v", err)
				return nil
			}
			defer store.Close()
			now := time.Now().UTC()
			if err := store.Put(ctx, &catalog.Entry{
				ID:         created.DashboardID,
				Name:       displayName,
				EmbedURL:   embedURL,
				Definition: json.RawMessage(data),
				CreatedAt:  now,
				UpdatedAt:  now,
			}); err != nil {
				printWarning("Catalog update failed: %v", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "dashboard display name (defaults to the definition's first page)")
	cmd.Flags().StringVar(&warehouseID, "warehouse", "", "SQL warehouse id (defaults to workspace.warehouse_id)")
	cmd.Flags().StringVar(&parentPath, "parent-path", "", "workspace folder for the dashboard")
	cmd.Flags().BoolVar(&embedCreds, "embed-credentials", false, "published viewers query with the publisher's credentials")

	return cmd
}
