package layout

// spacerRow is a synthetic full-width, height-1 row that produces a visual
// break between sections. The widget identity is filled in by the assembler.
func spacerRow() row {
	return row{height: spacerHeight, slots: []slot{
		{x: 0, width: GridWidth, height: spacerHeight, spacer: true},
	}}
}

// insertSpacers returns rows with section-break spacers injected:
//
//   - after the KPI section's last row, when a chart or table section follows
//   - between every pair of consecutive chart rows
//   - immediately before the table row, when at least one chart row exists
//
// No spacer is ever inserted between cells of the same row, or after the
// table (the terminal section).
func insertSpacers(rows []row) []row {
	out := make([]row, 0, len(rows))
	for i, r := range rows {
		if i > 0 {
			prev := rows[i-1]
			switch {
			case prev.section == sectionKPI && r.section != sectionKPI:
				out = append(out, spacerRow())
			case prev.section == sectionCharts && r.section == sectionCharts:
				out = append(out, spacerRow())
			case prev.section == sectionCharts && r.section == sectionTable:
				out = append(out, spacerRow())
			}
		}
		out = append(out, r)
	}
	return out
}
