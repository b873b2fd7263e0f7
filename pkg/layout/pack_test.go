package layout

import (
	"testing"

	"github.com/dashwright/dashwright/pkg/errors"
)

// shape is the (x, width, height) triple of a slot, for compact assertions.
type shape struct{ x, w, h int }

func rowShapes(rows []row) [][]shape {
	out := make([][]shape, len(rows))
	for i, r := range rows {
		out[i] = make([]shape, len(r.slots))
		for j, s := range r.slots {
			out[i][j] = shape{s.x, s.width, s.height}
		}
	}
	return out
}

func assertShapes(t *testing.T, got, want [][]shape) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("row %d: got %d cells, want %d (%v)", i, len(got[i]), len(want[i]), got[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("row %d cell %d = %v, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func counters(n int) []Widget {
	ws := make([]Widget, n)
	for i := range ws {
		ws[i] = Widget{ID: string(rune('a' + i)), Category: CategoryCounter}
	}
	return ws
}

func charts(n int) []Widget {
	ws := make([]Widget, n)
	for i := range ws {
		ws[i] = Widget{ID: string(rune('a' + i)), Category: CategoryBar}
	}
	return ws
}

func TestPackKPI(t *testing.T) {
	filter := []Widget{wid("f", CategoryFilter)}

	tests := []struct {
		name     string
		filter   []Widget
		counters []Widget
		want     [][]shape
	}{
		{
			name: "nothing",
			want: nil,
		},
		{
			name:   "filter only",
			filter: filter,
			want:   [][]shape{{{0, 2, 2}}},
		},
		{
			name:     "one counter",
			counters: counters(1),
			want:     [][]shape{{{2, 2, 2}}},
		},
		{
			name:     "filter and two counters share row zero",
			filter:   filter,
			counters: counters(2),
			want:     [][]shape{{{0, 2, 2}, {2, 2, 2}, {4, 2, 2}}},
		},
		{
			name:     "three counters share the second row",
			filter:   filter,
			counters: counters(3),
			want: [][]shape{
				{{0, 2, 2}},
				{{0, 2, 2}, {2, 2, 2}, {4, 2, 2}},
			},
		},
		{
			name:     "three counters without filter leave row zero open",
			counters: counters(3),
			want: [][]shape{
				{},
				{{0, 2, 2}, {2, 2, 2}, {4, 2, 2}},
			},
		},
		{
			name:     "four counters wrap two per row",
			filter:   filter,
			counters: counters(4),
			want: [][]shape{
				{{0, 2, 2}, {2, 2, 2}, {4, 2, 2}},
				{{2, 2, 2}, {4, 2, 2}},
			},
		},
		{
			name:     "five counters leave a single trailing cell",
			counters: counters(5),
			want: [][]shape{
				{{2, 2, 2}, {4, 2, 2}},
				{{2, 2, 2}, {4, 2, 2}},
				{{2, 2, 2}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := packKPI(tt.filter, tt.counters)
			if err != nil {
				t.Fatalf("packKPI() error = %v", err)
			}
			assertShapes(t, rowShapes(rows), tt.want)
			for _, r := range rows {
				if r.section != sectionKPI {
					t.Errorf("row section = %v, want sectionKPI", r.section)
				}
			}
		})
	}
}

func TestPackKPITwoFilters(t *testing.T) {
	_, err := packKPI([]Widget{wid("f1", CategoryFilter), wid("f2", CategoryFilter)}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidPlan) {
		t.Errorf("packKPI() error = %v, want %s", err, errors.ErrCodeInvalidPlan)
	}
}

func TestPackCharts(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  [][]shape
	}{
		{
			name:  "none",
			count: 0,
			want:  nil,
		},
		{
			name:  "single chart takes the full width",
			count: 1,
			want:  [][]shape{{{0, 6, 6}}},
		},
		{
			name:  "two charts split one row",
			count: 2,
			want:  [][]shape{{{0, 3, 6}, {3, 3, 6}}},
		},
		{
			name:  "three charts use the hero layout",
			count: 3,
			want: [][]shape{
				{{0, 6, 6}},
				{{0, 3, 6}, {3, 3, 6}},
			},
		},
		{
			name:  "four charts form a grid",
			count: 4,
			want: [][]shape{
				{{0, 3, 6}, {3, 3, 6}},
				{{0, 3, 6}, {3, 3, 6}},
			},
		},
		{
			name:  "five charts leave a single trailing cell",
			count: 5,
			want: [][]shape{
				{{0, 3, 6}, {3, 3, 6}},
				{{0, 3, 6}, {3, 3, 6}},
				{{0, 3, 6}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := packCharts(charts(tt.count))
			assertShapes(t, rowShapes(rows), tt.want)
		})
	}
}

func TestPackChartsOrderIsStable(t *testing.T) {
	ws := []Widget{
		wid("first", CategoryPie),
		wid("second", CategoryBar),
		wid("third", CategoryLine),
	}
	rows := packCharts(ws)

	// Hero layout: the first chart in encounter order gets the full row.
	if rows[0].slots[0].widget.ID != "first" {
		t.Errorf("hero row widget = %s, want first", rows[0].slots[0].widget.ID)
	}
	if rows[1].slots[0].widget.ID != "second" || rows[1].slots[1].widget.ID != "third" {
		t.Errorf("split row order = %s, %s; want second, third",
			rows[1].slots[0].widget.ID, rows[1].slots[1].widget.ID)
	}
}

func TestPackTable(t *testing.T) {
	rows, err := packTable([]Widget{wid("t", CategoryTable)})
	if err != nil {
		t.Fatalf("packTable() error = %v", err)
	}
	assertShapes(t, rowShapes(rows), [][]shape{{{0, 6, 8}}})

	rows, err = packTable(nil)
	if err != nil || rows != nil {
		t.Errorf("packTable(nil) = %v, %v; want nil, nil", rows, err)
	}

	_, err = packTable([]Widget{wid("t1", CategoryTable), wid("t2", CategoryTable)})
	if !errors.Is(err, errors.ErrCodeInvalidPlan) {
		t.Errorf("packTable() error = %v, want %s", err, errors.ErrCodeInvalidPlan)
	}
}

func TestStrategyTables(t *testing.T) {
	counterCases := []struct {
		n    int
		want counterStrategy
	}{
		{0, countersNone},
		{1, countersColumns},
		{2, countersColumns},
		{3, countersTriple},
		{4, countersColumns},
		{12, countersColumns},
	}
	for _, tt := range counterCases {
		if got := counterStrategyFor(tt.n); got != tt.want {
			t.Errorf("counterStrategyFor(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}

	chartCases := []struct {
		n    int
		want chartStrategy
	}{
		{0, chartsNone},
		{1, chartsSingle},
		{2, chartsSplitPair},
		{3, chartsHero},
		{4, chartsGrid},
		{9, chartsGrid},
	}
	for _, tt := range chartCases {
		if got := chartStrategyFor(tt.n); got != tt.want {
			t.Errorf("chartStrategyFor(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
