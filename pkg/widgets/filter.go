package widgets

import (
	"fmt"
	"strings"

	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/layout"
)

// FilterOptions configures a single-select filter widget.
type FilterOptions struct {
	// Dataset is the name of the dataset the filter applies to.
	Dataset string

	// Column is the column to filter on.
	Column string

	// DashboardID scopes the generated query name. Defaults to
	// "temp_dashboard" for definitions built before the dashboard exists.
	DashboardID string

	// Name overrides the generated "filter_<column>" widget name.
	Name string
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
func (o *FilterOptions) ValidateAndSetDefaults() error {
	if o.Dataset == "" {
		return errors.New(errors.ErrCodeInvalidInput, "filter: dataset is required")
	}
	if o.Column == "" {
		return errors.New(errors.ErrCodeInvalidInput, "filter: column is required")
	}
	if o.DashboardID == "" {
		o.DashboardID = "temp_dashboard"
	}
	if o.Name == "" {
		o.Name = "filter_" + strings.ToLower(o.Column)
	}
	return nil
}

// filterEncodings binds the filter to its backing query field.
type filterEncodings struct {
	Fields []filterField `json:"fields"`
}

type filterField struct {
	FieldName string `json:"fieldName"`
	QueryName string `json:"queryName"`
}

// NewFilter builds a single-select filter widget. The associativity
// field lets the platform grey out values excluded by sibling filters.
func NewFilter(opts FilterOptions) (Widget, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Widget{}, err
	}

	queryName := fmt.Sprintf("dashboards/%s/datasets/%s_%s", opts.DashboardID, opts.Dataset, opts.Column)

	return Widget{
		Name: opts.Name,
		Queries: []NamedQuery{{
			Name: queryName,
			Query: Query{
				DatasetName: opts.Dataset,
				Fields: []Field{
					{Name: opts.Column, Expression: "`" + opts.Column + "`"},
					{Name: opts.Column + "_associativity", Expression: "COUNT_IF(`associative_filter_predicate_group`)"},
				},
			},
		}},
		Spec: visualizationSpec{
			Version:    2,
			WidgetType: "filter-single-select",
			Encodings: filterEncodings{
				Fields: []filterField{{FieldName: opts.Column, QueryName: queryName}},
			},
			Frame: Frame{ShowTitle: true},
		},
		category: layout.CategoryFilter,
	}, nil
}
