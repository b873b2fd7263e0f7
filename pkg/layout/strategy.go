package layout

// Layout strategies are selected from count-indexed tables rather than ad hoc
// branching, so that every special case (the 3-counter row, the 3-chart hero)
// is an explicit, independently testable variant and count changes cannot
// fall through silently.

// counterStrategy selects how the counter bucket is arranged.
type counterStrategy int

const (
	countersNone counterStrategy = iota

	// countersColumns is the default 2-per-row grid in the two columns to
	// the right of the filter slot: (2,0), (4,0), (2,2), (4,2), ...
	countersColumns

	// countersTriple places exactly three counters on one shared row below
	// the filter row, at x offsets 0, 2, 4.
	countersTriple
)

// counterStrategyTable maps small counter counts to strategies; counts past
// the end of the table use the default columns grid.
var counterStrategyTable = []counterStrategy{
	countersNone,    // 0
	countersColumns, // 1
	countersColumns, // 2
	countersTriple,  // 3
}

func counterStrategyFor(n int) counterStrategy {
	if n < len(counterStrategyTable) {
		return counterStrategyTable[n]
	}
	return countersColumns
}

// chartStrategy selects how the chart bucket is arranged.
type chartStrategy int

const (
	chartsNone chartStrategy = iota

	// chartsSingle gives a lone chart the full grid width.
	chartsSingle

	// chartsSplitPair puts two charts side by side at half width.
	chartsSplitPair

	// chartsHero gives the first chart a full-width row and splits the
	// remaining two across a second row.
	chartsHero

	// chartsGrid is the standard 2-per-row grid; an odd count leaves a
	// single half-width cell on the last row.
	chartsGrid
)

// chartStrategyTable maps small chart counts to strategies; counts past the
// end of the table use the standard grid.
var chartStrategyTable = []chartStrategy{
	chartsNone,      // 0
	chartsSingle,    // 1
	chartsSplitPair, // 2
	chartsHero,      // 3
}

func chartStrategyFor(n int) chartStrategy {
	if n < len(chartStrategyTable) {
		return chartStrategyTable[n]
	}
	return chartsGrid
}
