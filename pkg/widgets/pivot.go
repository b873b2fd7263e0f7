package widgets

import (
	"fmt"
	"strings"

	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/layout"
)

// PivotOptions configures a pivot table widget.
type PivotOptions struct {
	Dataset string

	// RowColumns are the row dimensions, outermost first.
	RowColumns []string

	// ValueColumn is aggregated into the cells.
	ValueColumn string

	// Aggregation defaults to SUM.
	Aggregation Aggregation

	Title string
	Name  string
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
func (o *PivotOptions) ValidateAndSetDefaults() error {
	if o.Dataset == "" {
		return errors.New(errors.ErrCodeInvalidInput, "pivot: dataset is required")
	}
	if len(o.RowColumns) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "pivot: at least one row column is required")
	}
	if o.ValueColumn == "" {
		return errors.New(errors.ErrCodeInvalidInput, "pivot: value column is required")
	}
	if o.Aggregation == "" {
		o.Aggregation = AggregationSum
	}
	if !o.Aggregation.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "pivot: unknown aggregation %q", o.Aggregation)
	}
	if o.Name == "" {
		n := o.RowColumns
		if len(n) > 2 {
			n = n[:2]
		}
		o.Name = strings.ToLower("pivot_" + strings.Join(n, "_"))
	}
	if o.Title == "" {
		rows := make([]string, len(o.RowColumns))
		for i, c := range o.RowColumns {
			rows[i] = titleize(c)
		}
		o.Title = fmt.Sprintf("%s by %s", titleize(o.ValueColumn), strings.Join(rows, ", "))
		if prefix := o.Aggregation.display(); prefix != "" {
			o.Title = prefix + " " + o.Title
		}
	}
	return nil
}

// pivotEncodings places the row dimensions and a single text cell per
// aggregated value.
type pivotEncodings struct {
	Rows []pivotRow `json:"rows"`
	Cell pivotCell  `json:"cell"`
}

type pivotRow struct {
	FieldName string `json:"fieldName"`
}

type pivotCell struct {
	Type   string           `json:"type"`
	Fields []pivotCellField `json:"fields"`
}

type pivotCellField struct {
	FieldName string `json:"fieldName"`
	CellType  string `json:"cellType"`
}

// NewPivot builds a pivot table widget. The query cubes on the row
// columns with an extra empty grouping set for grand totals.
func NewPivot(opts PivotOptions) (Widget, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Widget{}, err
	}

	value := Field{
		Name:       opts.Aggregation.fieldName(opts.ValueColumn),
		Expression: opts.Aggregation.expression(opts.ValueColumn),
	}

	fields := make([]Field, 0, len(opts.RowColumns)+1)
	rows := make([]pivotRow, 0, len(opts.RowColumns))
	for _, c := range opts.RowColumns {
		fields = append(fields, Field{Name: c, Expression: "`" + c + "`"})
		rows = append(rows, pivotRow{FieldName: c})
	}
	fields = append(fields, value)

	return Widget{
		Name: opts.Name,
		Queries: []NamedQuery{{
			Name: "main_query",
			Query: Query{
				DatasetName: opts.Dataset,
				Fields:      fields,
				CubeGroupingSets: &GroupingSets{
					Sets: []GroupingSet{{FieldNames: opts.RowColumns}, {}},
				},
				Orders: []Order{{Direction: "ASC", Expression: "`" + opts.RowColumns[0] + "`"}},
			},
		}},
		Spec: visualizationSpec{
			Version:    3,
			WidgetType: "pivot",
			Encodings: pivotEncodings{
				Rows: rows,
				Cell: pivotCell{
					Type:   "multi-cell",
					Fields: []pivotCellField{{FieldName: value.Name, CellType: "text"}},
				},
			},
			Frame: Frame{Title: opts.Title, ShowTitle: true},
		},
		category: layout.CategoryPivot,
	}, nil
}
