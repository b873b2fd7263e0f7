package widgets

import "github.com/dashwright/dashwright/pkg/layout"

// NewText builds a markdown text widget. When title is non-empty it is
// prepended as a level 2 heading.
func NewText(title string, lines ...string) Widget {
	if title != "" {
		lines = append([]string{"## " + title}, lines...)
	}
	return Widget{
		Name:             randomName(),
		MultilineTextbox: &TextboxSpec{Lines: lines},
		category:         layout.CategorySpacer,
	}
}

// NewSpacer builds the empty text widget used to pad rows between
// dashboard sections. The name comes from the caller so that planned
// spacer identifiers survive into the published definition.
func NewSpacer(name string) Widget {
	return Widget{
		Name:             name,
		MultilineTextbox: &TextboxSpec{Lines: []string{""}},
		category:         layout.CategorySpacer,
	}
}
