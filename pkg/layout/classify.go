package layout

import (
	"github.com/dashwright/dashwright/pkg/errors"
)

// Buckets holds the category-partitioned widget sequences. Every input
// widget appears in exactly one bucket, in its original relative order.
type Buckets struct {
	Filter   []Widget // 0 or 1
	Counters []Widget
	Charts   []Widget // bar, line, pie, pivot — order preserving
	Table    []Widget // 0 or 1
}

// Empty reports whether no widget was classified.
func (b Buckets) Empty() bool {
	return len(b.Filter) == 0 && len(b.Counters) == 0 && len(b.Charts) == 0 && len(b.Table) == 0
}

// KPIEmpty reports whether the filter/counter section is empty.
func (b Buckets) KPIEmpty() bool {
	return len(b.Filter) == 0 && len(b.Counters) == 0
}

// Classify partitions widgets into ordered buckets. A widget with an
// unrecognized category is a hard error; the classifier never silently
// drops anything.
func Classify(widgets []Widget) (Buckets, error) {
	var b Buckets
	for i, w := range widgets {
		switch {
		case w.Category == CategoryFilter:
			b.Filter = append(b.Filter, w)
		case w.Category == CategoryCounter:
			b.Counters = append(b.Counters, w)
		case w.Category.IsChart():
			b.Charts = append(b.Charts, w)
		case w.Category == CategoryTable:
			b.Table = append(b.Table, w)
		default:
			return Buckets{}, errors.New(errors.ErrCodeInvalidCategory,
				"widget %d (%s): unknown category %q", i, w.ID, w.Category)
		}
	}
	return b, nil
}
