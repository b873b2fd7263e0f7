package layout

import (
	"github.com/dashwright/dashwright/pkg/errors"
)

// accumulate walks the ordered row list and assigns each row the running
// cursor value as its absolute vertical offset, then advances the cursor by
// the row's height. The cursor is threaded explicitly so the engine stays a
// pure function of its input.
//
// Horizontal extents are validated as cells are emitted: slots must be
// left-to-right with no overlap and must not cross the right edge of the
// grid. A violation indicates a defect in a packing rule table, never bad
// user data, so it fails the whole computation rather than being clamped.
func accumulate(rows []row) ([]Positioned, int, error) {
	var items []Positioned
	cursor := 0
	for _, r := range rows {
		nextX := 0
		for _, s := range r.slots {
			if s.x < nextX || s.x+s.width > GridWidth {
				return nil, 0, errors.New(errors.ErrCodeLayoutOverflow,
					"row at y=%d: cell x=%d width=%d overflows the %d-unit grid",
					cursor, s.x, s.width, GridWidth)
			}
			nextX = s.x + s.width
			items = append(items, Positioned{
				Widget: s.widget,
				Cell:   Cell{X: s.x, Y: cursor, Width: s.width, Height: s.height},
				Spacer: s.spacer,
			})
		}
		cursor += r.height
	}
	return items, cursor, nil
}
