package widgets

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/layout"
)

// ============================================================================
// AGGREGATIONS
// ============================================================================

// Aggregation is a SQL aggregation applied to a widget's value column.
// AggregationNone targets metric views, where the value is wrapped in
// MEASURE() instead of an aggregate function.
type Aggregation string

const (
	AggregationCount Aggregation = "COUNT"
	AggregationSum   Aggregation = "SUM"
	AggregationAvg   Aggregation = "AVG"
	AggregationMax   Aggregation = "MAX"
	AggregationMin   Aggregation = "MIN"
	AggregationNone  Aggregation = "NONE"
)

// Valid reports whether a is a known aggregation.
func (a Aggregation) Valid() bool {
	switch a {
	case AggregationCount, AggregationSum, AggregationAvg, AggregationMax, AggregationMin, AggregationNone:
		return true
	}
	return false
}

// fieldName returns the query field name for the aggregated column,
// e.g. "sum(fare_amount)" or "measure(revenue)".
func (a Aggregation) fieldName(column string) string {
	if a == AggregationNone {
		return "measure(" + column + ")"
	}
	return strings.ToLower(string(a)) + "(" + column + ")"
}

// expression returns the SQL expression for the aggregated column,
// e.g. "SUM(`fare_amount`)" or "MEASURE(`revenue`)".
func (a Aggregation) expression(column string) string {
	if a == AggregationNone {
		return "MEASURE(`" + column + "`)"
	}
	return string(a) + "(`" + column + "`)"
}

// display returns the human label used in generated chart titles.
func (a Aggregation) display() string {
	switch a {
	case AggregationCount:
		return "Count"
	case AggregationSum:
		return "Total"
	case AggregationAvg:
		return "Average"
	case AggregationMax:
		return "Maximum"
	case AggregationMin:
		return "Minimum"
	case AggregationNone:
		return ""
	}
	return titleize(string(a))
}

// displayTotal is the KPI variant of display: counters and pie slices
// label COUNT as "Total" rather than "Count".
func (a Aggregation) displayTotal() string {
	if a == AggregationCount {
		return "Total"
	}
	return a.display()
}

// titleize converts a snake_case column name into a readable label
// ("trip_distance" becomes "Trip Distance").
func titleize(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// randomName generates an 8 character widget name in the platform's
// lowercase hex format.
func randomName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// ============================================================================
// SHARED WIRE TYPES
// ============================================================================

// Field is a named query projection.
type Field struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// Order is a query-level sort directive.
type Order struct {
	Direction  string `json:"direction"`
	Expression string `json:"expression"`
}

// GroupingSet names the fields of one CUBE grouping set. An empty set
// produces grand totals.
type GroupingSet struct {
	FieldNames []string `json:"fieldNames,omitempty"`
}

// GroupingSets is the cubeGroupingSets clause used by pivot queries.
type GroupingSets struct {
	Sets []GroupingSet `json:"sets"`
}

// Query is the dataset query a widget renders.
type Query struct {
	DatasetName      string        `json:"datasetName"`
	Fields           []Field       `json:"fields"`
	CubeGroupingSets *GroupingSets `json:"cubeGroupingSets,omitempty"`
	Disaggregated    bool          `json:"disaggregated"`
	Orders           []Order       `json:"orders,omitempty"`
}

// NamedQuery binds a query to its name within the widget.
type NamedQuery struct {
	Name  string `json:"name"`
	Query Query  `json:"query"`
}

// Frame is the widget chrome (title bar).
type Frame struct {
	Title     string `json:"title,omitempty"`
	ShowTitle bool   `json:"showTitle"`
}

// Scale describes how an encoding maps values to the axis.
type Scale struct {
	Type string `json:"type"`
}

const (
	scaleQuantitative = "quantitative"
	scaleCategorical  = "categorical"
	scaleTemporal     = "temporal"
)

// Axis binds a query field to a visual channel.
type Axis struct {
	FieldName string `json:"fieldName"`
	Scale     *Scale `json:"scale,omitempty"`
}

// visualizationSpec is the common {version, widgetType, encodings, frame}
// envelope shared by counters, filters, and charts. Tables carry extra
// top-level settings and use their own spec type.
type visualizationSpec struct {
	Version    int    `json:"version"`
	WidgetType string `json:"widgetType"`
	Encodings  any    `json:"encodings"`
	Frame      Frame  `json:"frame"`
}

// TextboxSpec is the body of a markdown text widget.
type TextboxSpec struct {
	Lines []string `json:"lines"`
}

// ============================================================================
// WIDGET
// ============================================================================

// Widget is a fully built Lakeview widget body. Exactly one of Spec or
// MultilineTextbox is set.
type Widget struct {
	Name             string       `json:"name"`
	Queries          []NamedQuery `json:"queries,omitempty"`
	Spec             any          `json:"spec,omitempty"`
	MultilineTextbox *TextboxSpec `json:"multilineTextboxSpec,omitempty"`

	category layout.Category
}

// Category returns the layout category the widget was built as.
func (w Widget) Category() layout.Category {
	return w.category
}

// Item converts the widget into the positionable form the layout engine
// consumes, with the serialized body carried as the payload.
func (w Widget) Item() (layout.Widget, error) {
	payload, err := json.Marshal(w)
	if err != nil {
		return layout.Widget{}, errors.Wrap(errors.ErrCodeInternal, err, "marshal widget %q", w.Name)
	}
	return layout.Widget{ID: w.Name, Category: w.category, Payload: payload}, nil
}

// Items builds the positionable forms of a batch of widgets, preserving
// order.
func Items(ws []Widget) ([]layout.Widget, error) {
	items := make([]layout.Widget, 0, len(ws))
	for _, w := range ws {
		item, err := w.Item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
