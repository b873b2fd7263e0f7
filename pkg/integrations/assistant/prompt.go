package assistant

import (
	"fmt"
	"strings"
)

// systemPrompt builds the instruction the model answers to. The answer
// schema mirrors the Suggestion type; keep the two in sync.
func systemPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("You are a data dashboard expert. Design a well-organized dashboard for the user's request.\n\n")

	if len(req.Dataset.Columns) > 0 {
		cols := make([]string, len(req.Dataset.Columns))
		for i, c := range req.Dataset.Columns {
			cols[i] = fmt.Sprintf("%s (%s)", c.Name, c.Type)
		}
		b.WriteString("Available columns with types: " + strings.Join(cols, ", ") + "\n\n")
		b.WriteString("Use the column types when choosing widgets:\n")
		b.WriteString("- NUMERICAL types (bigint, double, decimal, int, float): SUM/AVG/MAX/MIN aggregations\n")
		b.WriteString("- TIMESTAMP/DATE types: the only valid line chart x_column (DATE_TRUNC is applied)\n")
		b.WriteString("- STRING types: grouping, filtering, and COUNT aggregations only\n\n")
	}

	fmt.Fprintf(&b, "Select only widgets relevant to the request, at most %d in total. ", req.MaxWidgets)
	b.WriteString("Prioritize KPIs, then charts, then tables. Set unused widgets to null (empty array for counters).\n\n")

	b.WriteString(`Respond with JSON only, in this structure:
{
  "reasoning": "your approach in a few sentences",
  "counters": [{"value_column": "...", "aggregation": "COUNT|SUM|AVG|MAX|MIN", "label": "short title"}],
  "filter": {"column": "categorical_column"} OR null,
  "table": {"columns": ["col1", "col2"]} OR null,
  "bar_chart": {"x_column": "measure", "y_column": "category", "aggregation": "...", "color_column": null, "title": "..."} OR null,
  "line_chart": {"x_column": "date_column", "y_column": "measure", "aggregation": "...", "time_granularity": "YEAR|QUARTER|MONTH|WEEK|DAY|HOUR", "title": "..."} OR null,
  "pie_chart": {"value_column": "measure", "aggregation": "...", "category_column": "category", "title": "..."} OR null,
  "pivot": {"row_columns": ["dim1"], "value_column": "measure", "aggregation": "...", "title": "..."} OR null,
  "dashboard_name": "descriptive name"
}`)

	return b.String()
}
