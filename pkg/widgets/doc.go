// Package widgets builds Lakeview widget bodies (queries, visualization
// specs, frames) for the widget categories the layout engine understands.
//
// Each constructor takes an options struct, validates it, fills in
// defaults such as generated names and friendly titles, and returns a
// [Widget] whose Item method yields the positionable form consumed by
// [github.com/dashwright/dashwright/pkg/layout].
package widgets
