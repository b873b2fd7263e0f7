package pipeline

import (
	"testing"

	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/integrations/assistant"
	"github.com/dashwright/dashwright/pkg/layout"
)

func sampleDataset() DatasetOptions {
	return DatasetOptions{
		Name:  "tickets",
		Query: "SELECT * FROM support.tickets",
		Columns: []assistant.Column{
			{Name: "ticket_id", Type: "string"},
			{Name: "status", Type: "string"},
			{Name: "priority", Type: "string"},
			{Name: "created_at", Type: "timestamp"},
			{Name: "resolution_hours", Type: "double"},
		},
	}
}

func sampleSuggestion() assistant.Suggestion {
	return assistant.Suggestion{
		DashboardName: "Ticket Overview",
		Filter:        &assistant.FilterSuggestion{Column: "status"},
		Counters: []assistant.CounterSuggestion{
			{ValueColumn: "ticket_id", Aggregation: "COUNT", Label: "Total Tickets"},
			{ValueColumn: "resolution_hours", Aggregation: "AVG"},
		},
		BarChart: &assistant.BarSuggestion{
			XColumn:     "ticket_id",
			YColumn:     "priority",
			Aggregation: "COUNT",
			Title:       "Tickets by Priority",
		},
		LineChart: &assistant.LineSuggestion{
			XColumn:         "created_at",
			YColumn:         "ticket_id",
			Aggregation:     "COUNT",
			TimeGranularity: "week",
		},
		Table: &assistant.TableSuggestion{Columns: []string{"ticket_id", "status"}},
	}
}

func TestBuildWidgetsOrder(t *testing.T) {
	built, err := BuildWidgets(sampleSuggestion(), sampleDataset())
	if err != nil {
		t.Fatalf("BuildWidgets: %v", err)
	}

	want := []layout.Category{
		layout.CategoryFilter,
		layout.CategoryCounter,
		layout.CategoryCounter,
		layout.CategoryBar,
		layout.CategoryLine,
		layout.CategoryTable,
	}
	if len(built) != len(want) {
		t.Fatalf("built %d widgets, want %d", len(built), len(want))
	}
	for i, w := range built {
		if w.Category() != want[i] {
			t.Errorf("widget %d category = %s, want %s", i, w.Category(), want[i])
		}
	}
}

func TestBuildWidgetsCounterQueries(t *testing.T) {
	built, err := BuildWidgets(sampleSuggestion(), sampleDataset())
	if err != nil {
		t.Fatalf("BuildWidgets: %v", err)
	}

	if got := built[1].Queries[0].Query.Fields[0].Expression; got != "COUNT(`ticket_id`)" {
		t.Errorf("first counter expression = %q", got)
	}
	if got := built[2].Queries[0].Query.Fields[0].Expression; got != "AVG(`resolution_hours`)" {
		t.Errorf("second counter expression = %q", got)
	}
	if got := built[1].Queries[0].Query.DatasetName; got != "tickets" {
		t.Errorf("counter dataset = %q", got)
	}
}

func TestBuildWidgetsInvalidAggregation(t *testing.T) {
	s := sampleSuggestion()
	s.Counters[0].Aggregation = "MEDIAN"

	_, err := BuildWidgets(s, sampleDataset())
	if err == nil {
		t.Fatal("BuildWidgets accepted unknown aggregation")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %s, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestBuildWidgetsEmptySuggestion(t *testing.T) {
	built, err := BuildWidgets(assistant.Suggestion{}, sampleDataset())
	if err != nil {
		t.Fatalf("BuildWidgets: %v", err)
	}
	if len(built) != 0 {
		t.Errorf("built %d widgets from empty suggestion", len(built))
	}
}

func TestWidgetCount(t *testing.T) {
	tests := []struct {
		name string
		s    assistant.Suggestion
		want int
	}{
		{name: "empty", s: assistant.Suggestion{}, want: 0},
		{name: "sample", s: sampleSuggestion(), want: 6},
		{name: "counters only", s: assistant.Suggestion{Counters: make([]assistant.CounterSuggestion, 3)}, want: 3},
		{name: "pivot and pie", s: assistant.Suggestion{
			Pivot:    &assistant.PivotSuggestion{},
			PieChart: &assistant.PieSuggestion{},
		}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WidgetCount(tt.s); got != tt.want {
				t.Errorf("WidgetCount = %d, want %d", got, tt.want)
			}
		})
	}
}
