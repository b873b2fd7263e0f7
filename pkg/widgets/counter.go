package widgets

import (
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/layout"
)

// CounterOptions configures a KPI counter widget.
type CounterOptions struct {
	// Dataset is the name of the dataset the counter queries.
	Dataset string

	// Column is the column to aggregate and display.
	Column string

	// Aggregation defaults to COUNT.
	Aggregation Aggregation

	// Title overrides the generated "Total Fare Amount" style title.
	Title string

	// Name overrides the generated widget name.
	Name string
}

// ValidateAndSetDefaults checks required fields and fills in the
// generated name and title.
func (o *CounterOptions) ValidateAndSetDefaults() error {
	if o.Dataset == "" {
		return errors.New(errors.ErrCodeInvalidInput, "counter: dataset is required")
	}
	if o.Column == "" {
		return errors.New(errors.ErrCodeInvalidInput, "counter: column is required")
	}
	if o.Aggregation == "" {
		o.Aggregation = AggregationCount
	}
	if !o.Aggregation.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "counter: unknown aggregation %q", o.Aggregation)
	}
	if o.Name == "" {
		o.Name = randomName()
	}
	if o.Title == "" {
		o.Title = o.Aggregation.displayTotal() + " " + titleize(o.Column)
	}
	return nil
}

// counterEncodings maps the aggregated field onto the single value slot.
type counterEncodings struct {
	Value struct {
		FieldName string `json:"fieldName"`
	} `json:"value"`
}

// NewCounter builds a counter widget.
func NewCounter(opts CounterOptions) (Widget, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Widget{}, err
	}

	field := Field{
		Name:       opts.Aggregation.fieldName(opts.Column),
		Expression: opts.Aggregation.expression(opts.Column),
	}

	var enc counterEncodings
	enc.Value.FieldName = field.Name

	return Widget{
		Name: opts.Name,
		Queries: []NamedQuery{{
			Name: "main_query",
			Query: Query{
				DatasetName: opts.Dataset,
				Fields:      []Field{field},
			},
		}},
		Spec: visualizationSpec{
			Version:    2,
			WidgetType: "counter",
			Encodings:  enc,
			Frame:      Frame{Title: opts.Title, ShowTitle: true},
		},
		category: layout.CategoryCounter,
	}, nil
}
