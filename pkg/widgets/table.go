package widgets

import (
	"strings"

	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/layout"
)

// TableOptions configures a detail table widget.
type TableOptions struct {
	Dataset string

	// Title is required and also seeds the generated widget name.
	Title string

	// Columns are displayed, in order.
	Columns []string

	// AllColumns lists every dataset column. Columns not shown are
	// carried as invisible so users can toggle them on later. Defaults
	// to Columns.
	AllColumns []string

	Name string
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
func (o *TableOptions) ValidateAndSetDefaults() error {
	if o.Dataset == "" {
		return errors.New(errors.ErrCodeInvalidInput, "table: dataset is required")
	}
	if o.Title == "" {
		return errors.New(errors.ErrCodeInvalidInput, "table: title is required")
	}
	if len(o.Columns) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "table: at least one column is required")
	}
	if len(o.AllColumns) == 0 {
		o.AllColumns = o.Columns
	}
	if o.Name == "" {
		o.Name = "table_" + strings.ToLower(strings.ReplaceAll(o.Title, " ", "_"))
	}
	return nil
}

// TableColumn is the per-column display configuration, shared between
// visible and invisible columns.
type TableColumn struct {
	FieldName          string `json:"fieldName,omitempty"`
	Name               string `json:"name,omitempty"`
	BooleanValues      []string `json:"booleanValues"`
	ImageURLTemplate   string `json:"imageUrlTemplate"`
	ImageTitleTemplate string `json:"imageTitleTemplate"`
	ImageWidth         string `json:"imageWidth"`
	ImageHeight        string `json:"imageHeight"`
	LinkURLTemplate    string `json:"linkUrlTemplate"`
	LinkTextTemplate   string `json:"linkTextTemplate"`
	LinkTitleTemplate  string `json:"linkTitleTemplate"`
	LinkOpenInNewTab   bool   `json:"linkOpenInNewTab"`
	AllowSearch        bool   `json:"allowSearch"`
	AllowHTML          bool   `json:"allowHTML"`
	HighlightLinks     bool   `json:"highlightLinks"`
	UseMonospaceFont   bool   `json:"useMonospaceFont"`
	PreserveWhitespace bool   `json:"preserveWhitespace"`
	Type               string `json:"type"`
	DisplayAs          string `json:"displayAs"`
	AlignContent       string `json:"alignContent"`
	NumberFormat       string `json:"numberFormat,omitempty"`
	DateTimeFormat     string `json:"dateTimeFormat,omitempty"`
	Visible            bool   `json:"visible,omitempty"`
	Order              int    `json:"order"`
	Title              string `json:"title"`
}

// tableSpec carries table-specific display settings alongside the usual
// envelope.
type tableSpec struct {
	Version            int           `json:"version"`
	WidgetType         string        `json:"widgetType"`
	Encodings          tableColumns  `json:"encodings"`
	InvisibleColumns   []TableColumn `json:"invisibleColumns"`
	AllowHTMLByDefault bool          `json:"allowHTMLByDefault"`
	ItemsPerPage       int           `json:"itemsPerPage"`
	PaginationSize     string        `json:"paginationSize"`
	Condensed          bool          `json:"condensed"`
	WithRowNumber      bool          `json:"withRowNumber"`
}

type tableColumns struct {
	Columns []TableColumn `json:"columns"`
}

// columnSettings infers the display type of a column from its name.
// Schema metadata is not available at build time, so this mirrors the
// naming conventions of the warehouse tables the generator targets.
func columnSettings(column string) TableColumn {
	c := TableColumn{
		BooleanValues:      []string{"false", "true"},
		ImageURLTemplate:   "{{ @ }}",
		ImageTitleTemplate: "{{ @ }}",
		LinkURLTemplate:    "{{ @ }}",
		LinkTextTemplate:   "{{ @ }}",
		LinkTitleTemplate:  "{{ @ }}",
		LinkOpenInNewTab:   true,
	}
	lower := strings.ToLower(column)
	contains := func(keywords ...string) bool {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("time", "date", "timestamp", "created", "updated", "close"):
		c.Type, c.DisplayAs = "datetime", "datetime"
		c.DateTimeFormat = "DD/MM/YYYY HH:mm:ss.SSS"
		c.AlignContent = "right"
	case strings.Contains(lower, "id") && !contains("latitude", "longitude"):
		c.Type, c.DisplayAs = "integer", "number"
		c.NumberFormat = "0"
		c.AlignContent = "right"
	case contains("latitude", "longitude", "survey", "interactions", "adjusted"):
		c.Type, c.DisplayAs = "float", "number"
		c.NumberFormat = "0.00"
		c.AlignContent = "right"
	case contains("sla", "resolution", "response") && !strings.Contains(lower, "for"):
		c.Type, c.DisplayAs = "datetime", "datetime"
		c.DateTimeFormat = "DD/MM/YYYY HH:mm:ss.SSS"
		c.AlignContent = "right"
	default:
		c.Type, c.DisplayAs = "string", "string"
		c.AlignContent = "left"
	}
	return c
}

// NewTable builds a detail table widget with a disaggregated query over
// the visible columns.
func NewTable(opts TableOptions) (Widget, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Widget{}, err
	}

	visible := make(map[string]bool, len(opts.Columns))
	fields := make([]Field, 0, len(opts.Columns))
	columns := make([]TableColumn, 0, len(opts.Columns))
	for i, col := range opts.Columns {
		visible[col] = true
		fields = append(fields, Field{Name: col, Expression: "`" + col + "`"})

		c := columnSettings(col)
		c.FieldName = col
		c.Visible = true
		c.Order = 100000 + i
		c.Title = col
		columns = append(columns, c)
	}

	invisible := make([]TableColumn, 0)
	order := 100000 + len(opts.Columns)
	for _, col := range opts.AllColumns {
		if visible[col] {
			continue
		}
		c := columnSettings(col)
		c.Name = col
		c.Order = order
		c.Title = col
		invisible = append(invisible, c)
		order++
	}

	return Widget{
		Name: opts.Name,
		Queries: []NamedQuery{{
			Name: "main_query",
			Query: Query{
				DatasetName:   opts.Dataset,
				Fields:        fields,
				Disaggregated: true,
			},
		}},
		Spec: tableSpec{
			Version:          1,
			WidgetType:       "table",
			Encodings:        tableColumns{Columns: columns},
			InvisibleColumns: invisible,
			ItemsPerPage:     25,
			PaginationSize:   "default",
			Condensed:        true,
		},
		category: layout.CategoryTable,
	}, nil
}
