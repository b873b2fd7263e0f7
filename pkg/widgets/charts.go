package widgets

import (
	"fmt"
	"strings"

	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/layout"
)

// Granularity is the DATE_TRUNC bucket applied to a line chart's time
// axis.
type Granularity string

const (
	GranularityYear    Granularity = "YEAR"
	GranularityQuarter Granularity = "QUARTER"
	GranularityMonth   Granularity = "MONTH"
	GranularityWeek    Granularity = "WEEK"
	GranularityDay     Granularity = "DAY"
	GranularityHour    Granularity = "HOUR"
	GranularityMinute  Granularity = "MINUTE"
)

// Valid reports whether g is a known granularity.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityYear, GranularityQuarter, GranularityMonth, GranularityWeek, GranularityDay, GranularityHour, GranularityMinute:
		return true
	}
	return false
}

// ============================================================================
// BAR
// ============================================================================

// BarOptions configures a horizontal bar chart: a categorical dimension
// on the y axis against an aggregated measure on the x axis.
type BarOptions struct {
	Dataset string

	// MeasureColumn is aggregated onto the x axis.
	MeasureColumn string

	// DimensionColumn buckets the bars on the y axis.
	DimensionColumn string

	// Aggregation defaults to COUNT.
	Aggregation Aggregation

	// ColorColumn optionally splits each bar by a second dimension.
	ColorColumn string

	Title string
	Name  string
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
func (o *BarOptions) ValidateAndSetDefaults() error {
	if o.Dataset == "" {
		return errors.New(errors.ErrCodeInvalidInput, "bar: dataset is required")
	}
	if o.MeasureColumn == "" || o.DimensionColumn == "" {
		return errors.New(errors.ErrCodeInvalidInput, "bar: measure and dimension columns are required")
	}
	if o.Aggregation == "" {
		o.Aggregation = AggregationCount
	}
	if !o.Aggregation.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "bar: unknown aggregation %q", o.Aggregation)
	}
	if o.Name == "" {
		o.Name = strings.ToLower(fmt.Sprintf("bar_%s_%s", o.DimensionColumn, o.MeasureColumn))
	}
	if o.Title == "" {
		o.Title = fmt.Sprintf("%s %s by %s", o.Aggregation.display(), titleize(o.MeasureColumn), titleize(o.DimensionColumn))
	}
	return nil
}

// barEncodings lays the aggregated measure along x and the dimension
// along y.
type barEncodings struct {
	X     Axis  `json:"x"`
	Y     Axis  `json:"y"`
	Color *Axis `json:"color,omitempty"`
}

// NewBar builds a bar chart widget.
func NewBar(opts BarOptions) (Widget, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Widget{}, err
	}

	measure := Field{
		Name:       opts.Aggregation.fieldName(opts.MeasureColumn),
		Expression: opts.Aggregation.expression(opts.MeasureColumn),
	}

	fields := []Field{
		{Name: opts.DimensionColumn, Expression: "`" + opts.DimensionColumn + "`"},
	}
	enc := barEncodings{
		X: Axis{FieldName: measure.Name, Scale: &Scale{Type: scaleQuantitative}},
		Y: Axis{FieldName: opts.DimensionColumn, Scale: &Scale{Type: scaleCategorical}},
	}
	if opts.ColorColumn != "" {
		enc.Color = &Axis{FieldName: opts.ColorColumn, Scale: &Scale{Type: scaleCategorical}}
		if opts.ColorColumn != opts.DimensionColumn {
			fields = append(fields, Field{Name: opts.ColorColumn, Expression: "`" + opts.ColorColumn + "`"})
		}
	}
	fields = append(fields, measure)

	return Widget{
		Name: opts.Name,
		Queries: []NamedQuery{{
			Name:  "main_query",
			Query: Query{DatasetName: opts.Dataset, Fields: fields},
		}},
		Spec: visualizationSpec{
			Version:    3,
			WidgetType: "bar",
			Encodings:  enc,
			Frame:      Frame{Title: opts.Title, ShowTitle: true},
		},
		category: layout.CategoryBar,
	}, nil
}

// ============================================================================
// LINE
// ============================================================================

// LineOptions configures a time series line chart.
type LineOptions struct {
	Dataset string

	// TimeColumn is truncated to Granularity and laid along x.
	TimeColumn string

	// MeasureColumn is aggregated onto the y axis.
	MeasureColumn string

	// Aggregation defaults to COUNT.
	Aggregation Aggregation

	// Granularity defaults to MONTH.
	Granularity Granularity

	// ColorColumn optionally draws one line per dimension value.
	ColorColumn string

	Title string
	Name  string
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
func (o *LineOptions) ValidateAndSetDefaults() error {
	if o.Dataset == "" {
		return errors.New(errors.ErrCodeInvalidInput, "line: dataset is required")
	}
	if o.TimeColumn == "" || o.MeasureColumn == "" {
		return errors.New(errors.ErrCodeInvalidInput, "line: time and measure columns are required")
	}
	if o.Aggregation == "" {
		o.Aggregation = AggregationCount
	}
	if !o.Aggregation.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "line: unknown aggregation %q", o.Aggregation)
	}
	if o.Granularity == "" {
		o.Granularity = GranularityMonth
	}
	if !o.Granularity.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "line: unknown granularity %q", o.Granularity)
	}
	if o.Name == "" {
		o.Name = strings.ToLower(fmt.Sprintf("line_%s_%s", o.TimeColumn, o.MeasureColumn))
	}
	if o.Title == "" {
		o.Title = fmt.Sprintf("%s %s Over Time", o.Aggregation.display(), titleize(o.MeasureColumn))
	}
	return nil
}

// lineEncodings lays the truncated time field along x and the measure
// along y.
type lineEncodings struct {
	X     Axis  `json:"x"`
	Y     Axis  `json:"y"`
	Color *Axis `json:"color,omitempty"`
}

// NewLine builds a line chart widget.
func NewLine(opts LineOptions) (Widget, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Widget{}, err
	}

	timeField := Field{
		Name:       strings.ToLower(string(opts.Granularity)) + "(" + opts.TimeColumn + ")",
		Expression: fmt.Sprintf("DATE_TRUNC(%q, `%s`)", opts.Granularity, opts.TimeColumn),
	}
	measure := Field{
		Name:       opts.Aggregation.fieldName(opts.MeasureColumn),
		Expression: opts.Aggregation.expression(opts.MeasureColumn),
	}

	fields := []Field{timeField}
	enc := lineEncodings{
		X: Axis{FieldName: timeField.Name, Scale: &Scale{Type: scaleTemporal}},
		Y: Axis{FieldName: measure.Name, Scale: &Scale{Type: scaleQuantitative}},
	}
	if opts.ColorColumn != "" {
		enc.Color = &Axis{FieldName: opts.ColorColumn, Scale: &Scale{Type: scaleCategorical}}
		fields = append(fields, Field{Name: opts.ColorColumn, Expression: "`" + opts.ColorColumn + "`"})
	}
	fields = append(fields, measure)

	return Widget{
		Name: opts.Name,
		Queries: []NamedQuery{{
			Name:  "main_query",
			Query: Query{DatasetName: opts.Dataset, Fields: fields},
		}},
		Spec: visualizationSpec{
			Version:    3,
			WidgetType: "line",
			Encodings:  enc,
			Frame:      Frame{Title: opts.Title, ShowTitle: true},
		},
		category: layout.CategoryLine,
	}, nil
}

// ============================================================================
// PIE
// ============================================================================

// PieOptions configures a pie chart: slice angles from an aggregated
// measure, slice colors from a categorical column.
type PieOptions struct {
	Dataset string

	// ValueColumn is aggregated into slice sizes.
	ValueColumn string

	// CategoryColumn partitions the slices.
	CategoryColumn string

	// Aggregation defaults to COUNT.
	Aggregation Aggregation

	Title string
	Name  string
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
func (o *PieOptions) ValidateAndSetDefaults() error {
	if o.Dataset == "" {
		return errors.New(errors.ErrCodeInvalidInput, "pie: dataset is required")
	}
	if o.ValueColumn == "" || o.CategoryColumn == "" {
		return errors.New(errors.ErrCodeInvalidInput, "pie: value and category columns are required")
	}
	if o.Aggregation == "" {
		o.Aggregation = AggregationCount
	}
	if !o.Aggregation.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "pie: unknown aggregation %q", o.Aggregation)
	}
	if o.Name == "" {
		o.Name = randomName()
	}
	if o.Title == "" {
		o.Title = fmt.Sprintf("%s by %s", titleize(o.ValueColumn), titleize(o.CategoryColumn))
		if prefix := o.Aggregation.displayTotal(); prefix != "" {
			o.Title = prefix + " " + o.Title
		}
	}
	return nil
}

// pieEncodings maps the measure to slice angle and the category to
// slice color.
type pieEncodings struct {
	Angle Axis `json:"angle"`
	Color Axis `json:"color"`
}

// NewPie builds a pie chart widget.
func NewPie(opts PieOptions) (Widget, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Widget{}, err
	}

	value := Field{
		Name:       opts.Aggregation.fieldName(opts.ValueColumn),
		Expression: opts.Aggregation.expression(opts.ValueColumn),
	}

	return Widget{
		Name: opts.Name,
		Queries: []NamedQuery{{
			Name: "main_query",
			Query: Query{
				DatasetName: opts.Dataset,
				Fields: []Field{
					value,
					{Name: opts.CategoryColumn, Expression: "`" + opts.CategoryColumn + "`"},
				},
			},
		}},
		Spec: visualizationSpec{
			Version:    3,
			WidgetType: "pie",
			Encodings: pieEncodings{
				Angle: Axis{FieldName: value.Name, Scale: &Scale{Type: scaleQuantitative}},
				Color: Axis{FieldName: opts.CategoryColumn, Scale: &Scale{Type: scaleCategorical}},
			},
			Frame: Frame{Title: opts.Title, ShowTitle: true},
		},
		category: layout.CategoryPie,
	}, nil
}
