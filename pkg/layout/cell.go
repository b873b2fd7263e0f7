package layout

// GridWidth is the fixed horizontal extent of the dashboard grid, in grid
// units. Every cell the engine produces satisfies X+Width <= GridWidth.
const GridWidth = 6

// Standard widget extents, in grid units.
const (
	filterWidth   = 2
	filterHeight  = 2
	counterWidth  = 2
	counterHeight = 2
	chartHeight   = 6
	splitWidth    = 3 // half-width chart in a shared row
	tableHeight   = 8
	spacerHeight  = 1
)

// Cell is an absolute rectangle on the grid.
type Cell struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge of the cell.
func (c Cell) Right() int { return c.X + c.Width }

// Bottom returns the exclusive bottom edge of the cell.
func (c Cell) Bottom() int { return c.Y + c.Height }

// Overlaps reports whether two cells intersect as open rectangles.
func (c Cell) Overlaps(o Cell) bool {
	return c.X < o.Right() && o.X < c.Right() &&
		c.Y < o.Bottom() && o.Y < c.Bottom()
}

// Positioned pairs a widget with its computed grid cell. Spacer entries are
// synthetic: a generated identifier, empty payload, and Spacer set.
type Positioned struct {
	Widget Widget `json:"widget"`
	Cell   Cell   `json:"position"`
	Spacer bool   `json:"spacer,omitempty"`
}

// Plan is the fully positioned layout for one widget sequence.
// Items are in emission order: KPI section, charts, table, with spacers
// interleaved at section breaks.
type Plan struct {
	Items       []Positioned `json:"items"`
	TotalHeight int          `json:"total_height"`
}

// Geometry returns the plan's cells in emission order. Comparisons that must
// ignore generated spacer identifiers compare geometries, not plans.
func (p *Plan) Geometry() []Cell {
	cells := make([]Cell, len(p.Items))
	for i, item := range p.Items {
		cells[i] = item.Cell
	}
	return cells
}
