package layout

import (
	"github.com/dashwright/dashwright/pkg/errors"
)

// section identifies which part of the dashboard a row belongs to.
type section int

const (
	sectionKPI section = iota
	sectionCharts
	sectionTable
)

// slot is a cell shape within a row: horizontal placement is decided here,
// the absolute vertical offset is assigned later by the accumulator.
type slot struct {
	x      int
	width  int
	height int
	widget Widget
	spacer bool
}

// row is one horizontal band of the layout.
type row struct {
	section section
	height  int
	slots   []slot
}

// packRows emits the ordered row list for all buckets: KPI section first,
// then charts, then the table. Within a bucket, slots are assigned to
// widgets in input order; there is no reordering for visual preference.
func packRows(b Buckets) ([]row, error) {
	rows, err := packKPI(b.Filter, b.Counters)
	if err != nil {
		return nil, err
	}
	rows = append(rows, packCharts(b.Charts)...)
	tableRows, err := packTable(b.Table)
	if err != nil {
		return nil, err
	}
	return append(rows, tableRows...), nil
}

// packKPI lays out the filter and counter widgets. The filter, if present,
// always occupies a 2x2 cell at the start of row 0; counters fill around it
// per the strategy selected by counterStrategyFor.
func packKPI(filter, counters []Widget) ([]row, error) {
	if len(filter) > 1 {
		return nil, errors.New(errors.ErrCodeInvalidPlan,
			"a plan may contain at most one filter widget, got %d", len(filter))
	}
	hasFilter := len(filter) == 1
	strategy := counterStrategyFor(len(counters))

	var rowCount int
	switch strategy {
	case countersNone:
		if !hasFilter {
			return nil, nil
		}
		rowCount = 1
	case countersTriple:
		// The shared counter row sits below the filter row even when no
		// filter is present, leaving row 0 open for one.
		rowCount = 2
	case countersColumns:
		rowCount = (len(counters) + 1) / 2
	}
	if hasFilter && rowCount < 1 {
		rowCount = 1
	}

	rows := make([]row, rowCount)
	for i := range rows {
		rows[i] = row{section: sectionKPI, height: counterHeight}
	}

	if hasFilter {
		rows[0].slots = append(rows[0].slots, slot{
			x: 0, width: filterWidth, height: filterHeight, widget: filter[0],
		})
	}

	switch strategy {
	case countersTriple:
		for i, w := range counters {
			rows[1].slots = append(rows[1].slots, slot{
				x: i * counterWidth, width: counterWidth, height: counterHeight, widget: w,
			})
		}
	case countersColumns:
		for i, w := range counters {
			rows[i/2].slots = append(rows[i/2].slots, slot{
				x:      filterWidth + (i%2)*counterWidth,
				width:  counterWidth,
				height: counterHeight,
				widget: w,
			})
		}
	}

	return rows, nil
}

// packCharts lays out the chart bucket (bar, line, pie, pivot) per the
// strategy selected by chartStrategyFor.
func packCharts(charts []Widget) []row {
	full := func(w Widget) row {
		return row{section: sectionCharts, height: chartHeight, slots: []slot{
			{x: 0, width: GridWidth, height: chartHeight, widget: w},
		}}
	}
	split := func(ws []Widget) row {
		r := row{section: sectionCharts, height: chartHeight}
		for i, w := range ws {
			r.slots = append(r.slots, slot{
				x: i * splitWidth, width: splitWidth, height: chartHeight, widget: w,
			})
		}
		return r
	}

	switch chartStrategyFor(len(charts)) {
	case chartsNone:
		return nil
	case chartsSingle:
		return []row{full(charts[0])}
	case chartsSplitPair:
		return []row{split(charts)}
	case chartsHero:
		return []row{full(charts[0]), split(charts[1:3])}
	default: // chartsGrid
		var rows []row
		for i := 0; i < len(charts); i += 2 {
			end := min(i+2, len(charts))
			rows = append(rows, split(charts[i:end]))
		}
		return rows
	}
}

// packTable lays out the table widget as its own full-width row.
func packTable(table []Widget) ([]row, error) {
	switch len(table) {
	case 0:
		return nil, nil
	case 1:
		return []row{{section: sectionTable, height: tableHeight, slots: []slot{
			{x: 0, width: GridWidth, height: tableHeight, widget: table[0]},
		}}}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidPlan,
			"a plan may contain at most one table widget, got %d", len(table))
	}
}
