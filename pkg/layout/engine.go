package layout

// Engine computes layout plans. It is stateless between invocations; a
// single Engine may be shared by concurrent goroutines as long as its
// IDSource is safe for concurrent use (both provided sources are).
type Engine struct {
	ids IDSource
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDSource replaces the identifier source used for spacer entries.
func WithIDSource(ids IDSource) Option {
	return func(e *Engine) { e.ids = ids }
}

// New creates an Engine. By default spacer identifiers are random.
func New(opts ...Option) *Engine {
	e := &Engine{ids: NewUUIDSource()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan computes the layout for an ordered widget sequence.
//
// An empty input is valid and yields an empty plan with TotalHeight 0. An
// unknown category or an over-full bucket rejects the whole computation; no
// partial plan is ever returned. The input slice is never mutated.
func (e *Engine) Plan(widgets []Widget) (*Plan, error) {
	buckets, err := Classify(widgets)
	if err != nil {
		return nil, err
	}

	rows, err := packRows(buckets)
	if err != nil {
		return nil, err
	}
	rows = insertSpacers(rows)

	items, total, err := accumulate(rows)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Spacer {
			items[i].Widget = Widget{ID: e.ids.NewID(), Category: CategorySpacer}
		}
	}

	return &Plan{Items: items, TotalHeight: total}, nil
}
