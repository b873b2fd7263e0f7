package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dashwright/dashwright/pkg/catalog"
	"github.com/dashwright/dashwright/pkg/config"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/integrations/assistant"
	"github.com/dashwright/dashwright/pkg/pipeline"
)

// datasetFile is the on-disk dataset description, accepted as JSON or
// YAML.
type datasetFile struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Query       string `json:"query" yaml:"query"`
	Columns     []struct {
		Name string `json:"name" yaml:"name"`
		Type string `json:"type" yaml:"type"`
	} `json:"columns" yaml:"columns"`
}

// generateCommand creates the generate command: prompt in, dashboard out.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		datasetPath string
		output      string
		displayName string
		maxWidgets  int
		publish     bool
		embedCreds  bool
		noCache     bool
		refresh     bool
	)

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a dashboard from a natural language prompt",
		Long: `Generate a dashboard from a natural language prompt.

The assistant designs widgets for the dataset described by --dataset, the
layout engine places them on the grid, and the resulting definition is
printed or written to --output. With --publish the dashboard is also
created and published in the configured workspace.

Generation results are cached locally; use --refresh to force a new
assistant call.

Example dataset file (YAML):

  name: tickets
  query: SELECT * FROM support.tickets
  columns:
    - {name: ticket_id, type: string}
    - {name: created_at, type: timestamp}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := readDatasetFile(datasetPath)
			if err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				Prompt:           args[0],
				Dataset:          ds,
				MaxWidgets:       maxWidgets,
				Refresh:          refresh,
				DisplayName:      displayName,
				Publish:          publish,
				WarehouseID:      cfg.Workspace.WarehouseID,
				ParentPath:       cfg.Workspace.ParentPath,
				EmbedCredentials: embedCreds,
				Logger:           loggerFromContext(cmd.Context()),
			}
			return c.runGenerate(cmd.Context(), cfg, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&datasetPath, "dataset", "d", "", "dataset description file (JSON or YAML)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the definition to this file")
	cmd.Flags().StringVar(&displayName, "name", "", "dashboard display name (overrides the assistant's suggestion)")
	cmd.Flags().IntVar(&maxWidgets, "max-widgets", 0, "cap the suggested widget count")
	cmd.Flags().BoolVar(&publish, "publish", false, "create and publish the dashboard in the workspace")
	cmd.Flags().BoolVar(&embedCreds, "embed-credentials", false, "published viewers query with the publisher's credentials")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the generation cache")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

// runGenerate executes the pipeline and reports the result.
func (c *CLI) runGenerate(ctx context.Context, cfg *config.Config, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, spinnerGenerating)
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	printSuccess("Generated %s", StyleHighlight.Render(result.Definition.DisplayName()))
	printStats(result.Stats.WidgetCount, result.Stats.TotalHeight, result.CacheInfo.GenerateHit)
	if result.Suggestion.Reasoning != "" {
		printDetail("%s", result.Suggestion.Reasoning)
	}

	if output != "" {
		serialized, err := result.Definition.JSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, []byte(serialized+"\n"), 0644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
		}
		printFile(output)
	}

	if result.Dashboard != nil {
		printKeyValue("Dashboard", result.Dashboard.DashboardID)
		printKeyValue("Embed URL", StyleLink.Render(result.EmbedURL))
		if err := c.recordInCatalog(ctx, cfg, result); err != nil {
			printWarning("Catalog update failed: %v", err)
		}
	} else if !opts.Publish && output == "" {
		printNextStep("Publish it", fmt.Sprintf("%s generate %q -d <dataset> --publish", appName, opts.Prompt))
	}

	return nil
}

// recordInCatalog stores a published dashboard in the configured catalog.
func (c *CLI) recordInCatalog(ctx context.Context, cfg *config.Config, result *pipeline.Result) error {
	store, err := cfg.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	serialized, err := result.Definition.JSON()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return store.Put(ctx, &catalog.Entry{
		ID:         result.Dashboard.DashboardID,
		Name:       result.Definition.DisplayName(),
		EmbedURL:   result.EmbedURL,
		Definition: json.RawMessage(serialized),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// readDatasetFile loads a dataset description, accepted as JSON or YAML.
func readDatasetFile(path string) (pipeline.DatasetOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pipeline.DatasetOptions{}, errors.New(errors.ErrCodeFileNotFound, "dataset file not found: %s", path)
		}
		return pipeline.DatasetOptions{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read dataset file %s", path)
	}

	var df datasetFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &df)
	default:
		err = json.Unmarshal(data, &df)
	}
	if err != nil {
		return pipeline.DatasetOptions{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse dataset file %s", path)
	}

	ds := pipeline.DatasetOptions{
		Name:        df.Name,
		DisplayName: df.DisplayName,
		Query:       df.Query,
		Columns:     make([]assistant.Column, len(df.Columns)),
	}
	for i, col := range df.Columns {
		ds.Columns[i] = assistant.Column{Name: col.Name, Type: col.Type}
	}
	return ds, nil
}
