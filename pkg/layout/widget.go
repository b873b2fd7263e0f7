package layout

import (
	"encoding/json"
)

// Category tags a widget with its layout class. The engine treats the
// payload as opaque; only the category and input order drive placement.
type Category string

// Recognized widget categories.
const (
	CategoryFilter  Category = "filter"
	CategoryCounter Category = "counter"
	CategoryBar     Category = "bar"
	CategoryLine    Category = "line"
	CategoryPie     Category = "pie"
	CategoryPivot   Category = "pivot"
	CategoryTable   Category = "table"

	// CategorySpacer marks the synthetic section-break entries the engine
	// injects into a Plan. It is never valid on input.
	CategorySpacer Category = "spacer"
)

// Valid reports whether c is an accepted input category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFilter, CategoryCounter, CategoryBar, CategoryLine, CategoryPie, CategoryPivot, CategoryTable:
		return true
	}
	return false
}

// IsChart reports whether c is laid out in the chart section.
// Pivots are layout-equivalent to charts.
func (c Category) IsChart() bool {
	switch c {
	case CategoryBar, CategoryLine, CategoryPie, CategoryPivot:
		return true
	}
	return false
}

// Widget is one abstract widget descriptor handed to the engine. Payload
// carries the platform widget document produced upstream; the engine never
// reads or mutates it.
type Widget struct {
	ID       string          `json:"id"`
	Category Category        `json:"category"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}
