package pipeline

import (
	"strings"

	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/integrations/assistant"
	"github.com/dashwright/dashwright/pkg/widgets"
)

// defaultTableTitle names the detail table when the assistant suggests
// one; table suggestions carry columns only.
const defaultTableTitle = "Details"

// BuildWidgets converts an assistant suggestion into ordered widget
// payloads for the given dataset. The emitted order is what the layout
// engine expects: filter, counters, charts, table.
func BuildWidgets(s assistant.Suggestion, ds DatasetOptions) ([]widgets.Widget, error) {
	var built []widgets.Widget

	if s.Filter != nil {
		w, err := widgets.NewFilter(widgets.FilterOptions{
			Dataset: ds.Name,
			Column:  s.Filter.Column,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "build filter")
		}
		built = append(built, w)
	}

	for i, c := range s.Counters {
		w, err := widgets.NewCounter(widgets.CounterOptions{
			Dataset:     ds.Name,
			Column:      c.ValueColumn,
			Aggregation: parseAggregation(c.Aggregation),
			Title:       c.Label,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "build counter %d", i)
		}
		built = append(built, w)
	}

	if s.BarChart != nil {
		w, err := widgets.NewBar(widgets.BarOptions{
			Dataset:         ds.Name,
			MeasureColumn:   s.BarChart.XColumn,
			DimensionColumn: s.BarChart.YColumn,
			Aggregation:     parseAggregation(s.BarChart.Aggregation),
			ColorColumn:     s.BarChart.ColorColumn,
			Title:           s.BarChart.Title,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "build bar chart")
		}
		built = append(built, w)
	}

	if s.LineChart != nil {
		w, err := widgets.NewLine(widgets.LineOptions{
			Dataset:       ds.Name,
			TimeColumn:    s.LineChart.XColumn,
			MeasureColumn: s.LineChart.YColumn,
			Aggregation:   parseAggregation(s.LineChart.Aggregation),
			Granularity:   parseGranularity(s.LineChart.TimeGranularity),
			ColorColumn:   s.LineChart.ColorColumn,
			Title:         s.LineChart.Title,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "build line chart")
		}
		built = append(built, w)
	}

	if s.PieChart != nil {
		w, err := widgets.NewPie(widgets.PieOptions{
			Dataset:        ds.Name,
			ValueColumn:    s.PieChart.ValueColumn,
			CategoryColumn: s.PieChart.CategoryColumn,
			Aggregation:    parseAggregation(s.PieChart.Aggregation),
			Title:          s.PieChart.Title,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "build pie chart")
		}
		built = append(built, w)
	}

	if s.Pivot != nil {
		w, err := widgets.NewPivot(widgets.PivotOptions{
			Dataset:     ds.Name,
			RowColumns:  s.Pivot.RowColumns,
			ValueColumn: s.Pivot.ValueColumn,
			Aggregation: parseAggregation(s.Pivot.Aggregation),
			Title:       s.Pivot.Title,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "build pivot")
		}
		built = append(built, w)
	}

	if s.Table != nil {
		w, err := widgets.NewTable(widgets.TableOptions{
			Dataset:    ds.Name,
			Title:      defaultTableTitle,
			Columns:    s.Table.Columns,
			AllColumns: ds.ColumnNames(),
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "build table")
		}
		built = append(built, w)
	}

	return built, nil
}

// WidgetCount returns how many widgets a suggestion describes.
func WidgetCount(s assistant.Suggestion) int {
	n := len(s.Counters)
	for _, present := range []bool{
		s.Filter != nil,
		s.BarChart != nil,
		s.LineChart != nil,
		s.PieChart != nil,
		s.Pivot != nil,
		s.Table != nil,
	} {
		if present {
			n++
		}
	}
	return n
}

// parseAggregation maps the assistant's free-form aggregation string to
// a widget aggregation. Empty input keeps the builder's default; unknown
// values pass through and fail the builder's validation.
func parseAggregation(s string) widgets.Aggregation {
	return widgets.Aggregation(strings.ToUpper(strings.TrimSpace(s)))
}

// parseGranularity maps the assistant's time granularity string the same
// way.
func parseGranularity(s string) widgets.Granularity {
	return widgets.Granularity(strings.ToUpper(strings.TrimSpace(s)))
}
