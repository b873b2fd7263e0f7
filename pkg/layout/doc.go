// Package layout computes dashboard grid layouts.
//
// The engine takes an ordered sequence of widget descriptors (filter,
// counters, charts, table) and produces absolute, non-overlapping positions
// on a fixed 6-unit-wide grid, including the synthetic spacer rows that
// create visual section breaks.
//
// # Architecture
//
// The computation is a pure, single-pass pipeline over the input order:
//
//  1. Classify: partition widgets into ordered buckets (filter, counters,
//     charts, table), preserving relative order within each bucket
//  2. Pack: select a per-bucket strategy from a count-indexed table and emit
//     rows of cells with relative horizontal offsets
//  3. Spacers: inject full-width height-1 placeholder rows between sections
//  4. Accumulate: thread a running vertical cursor through the row list,
//     assigning absolute positions and checking the grid-width invariant
//  5. Assemble: zip widgets with their cells into the final Plan
//
// Data flows strictly forward; no stage mutates a prior stage's output.
// The engine holds no state across invocations and is safe for concurrent
// use from multiple goroutines.
//
// # Usage
//
//	engine := layout.New()
//	plan, err := engine.Plan(widgets)
//	if err != nil {
//	    return err
//	}
//	for _, item := range plan.Items {
//	    fmt.Println(item.Widget.ID, item.Cell)
//	}
//
// For reproducible plans (e.g. in tests), inject a deterministic identifier
// source for the spacer entries:
//
//	engine := layout.New(layout.WithIDSource(layout.NewSequenceSource("spacer")))
package layout
