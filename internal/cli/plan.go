package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/layout"
)

// planFile is the on-disk widget plan format, accepted as JSON or YAML.
type planFile struct {
	Widgets []planWidget `json:"widgets" yaml:"widgets"`
}

type planWidget struct {
	ID       string `json:"id" yaml:"id"`
	Category string `json:"category" yaml:"category"`
}

// planCommand creates the plan command for computing grid layouts.
func (c *CLI) planCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "plan <widgets.json|widgets.yaml>",
		Short: "Compute a grid layout for a widget plan file",
		Long: `Compute a grid layout for a widget plan file.

The plan file lists widgets in order, each with an id and a category
(filter, counter, bar, line, pie, pivot, table). The command places them
on the 6-unit grid and prints the resulting positions, including the
spacer rows inserted at section breaks.

Example plan file (YAML):

  widgets:
    - {id: status_filter, category: filter}
    - {id: total_tickets, category: counter}
    - {id: by_priority, category: bar}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			widgets, err := readPlanFile(args[0])
			if err != nil {
				return err
			}
			logger.Infof("Planning %d widgets from %s", len(widgets), args[0])

			prog := newProgress(logger)
			plan, err := layout.New().Plan(widgets)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Placed %d entries across %d grid units", len(plan.Items), plan.TotalHeight))

			if output != "" {
				if err := writeJSONFile(output, plan); err != nil {
					return err
				}
				printSuccess("Planned %d entries", len(plan.Items))
				printFile(output)
				return nil
			}

			printPlan(plan)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the plan as JSON instead of printing it")
	return cmd
}

// readPlanFile loads and validates a widget plan file. YAML and JSON are
// both accepted, keyed on the file extension.
func readPlanFile(path string) ([]layout.Widget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "plan file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read plan file %s", path)
	}

	var pf planFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &pf)
	default:
		err = json.Unmarshal(data, &pf)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse plan file %s", path)
	}
	if len(pf.Widgets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "plan file %s lists no widgets", path)
	}

	widgets := make([]layout.Widget, len(pf.Widgets))
	for i, w := range pf.Widgets {
		if w.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "widget %d has no id", i)
		}
		widgets[i] = layout.Widget{ID: w.ID, Category: layout.Category(w.Category)}
	}
	return widgets, nil
}

// printPlan prints the computed placements, one line per entry.
func printPlan(plan *layout.Plan) {
	printInfo("Computed layout")
	for _, item := range plan.Items {
		label := item.Widget.ID
		if item.Spacer {
			label = StyleDim.Render(item.Widget.ID + " (spacer)")
		} else {
			label = StyleValue.Render(label)
		}
		pos := fmt.Sprintf("x=%d y=%-3d %dx%d", item.Cell.X, item.Cell.Y, item.Cell.Width, item.Cell.Height)
		fmt.Printf("  %s %s %s\n", StyleNumber.Render(pos), StyleDim.Render(string(item.Widget.Category)), label)
	}
	printStats(len(plan.Items), plan.TotalHeight, false)
}

// writeJSONFile writes v as indented JSON.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal %s", path)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
