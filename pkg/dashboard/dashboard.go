// Package dashboard assembles planned widgets into serialized Lakeview
// dashboard definitions.
package dashboard

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/layout"
	"github.com/dashwright/dashwright/pkg/widgets"
)

// Dataset is a named SQL query backing the dashboard's widgets.
type Dataset struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	QueryLines  []string `json:"queryLines"`
}

// NewDataset builds a dataset from a single SQL string, splitting it
// into the line-per-entry form the platform stores.
func NewDataset(name, displayName, query string) Dataset {
	return Dataset{
		Name:        name,
		DisplayName: displayName,
		QueryLines:  SplitQuery(query),
	}
}

// SplitQuery splits a SQL string into query lines. Every line except the
// last keeps its trailing newline.
func SplitQuery(query string) []string {
	lines := strings.SplitAfter(strings.TrimRight(query, "\n"), "\n")
	return lines
}

// Position is a widget's cell on the dashboard grid.
type Position struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Item places one widget body at a grid position.
type Item struct {
	Widget   json.RawMessage `json:"widget"`
	Position Position        `json:"position"`
}

// Page is one dashboard canvas.
type Page struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Layout      []Item `json:"layout"`
	PageType    string `json:"pageType"`
}

// Definition is the full serialized dashboard.
type Definition struct {
	Datasets   []Dataset       `json:"datasets"`
	Pages      []Page          `json:"pages"`
	UISettings json.RawMessage `json:"uiSettings,omitempty"`
}

// PageOptions configures the single canvas page of a generated
// dashboard.
type PageOptions struct {
	// Name defaults to a generated 8 character identifier.
	Name string

	// DisplayName defaults to "Overview".
	DisplayName string
}

// ValidateAndSetDefaults fills in generated page defaults.
func (o *PageOptions) ValidateAndSetDefaults() error {
	if o.Name == "" {
		o.Name = strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	if o.DisplayName == "" {
		o.DisplayName = "Overview"
	}
	return nil
}

// FromPlan converts a layout plan into page layout items. Planned
// spacers carry no body, so one is synthesized from the spacer's
// identifier; every other widget must have been built with a payload.
func FromPlan(plan layout.Plan) ([]Item, error) {
	items := make([]Item, 0, len(plan.Items))
	for _, p := range plan.Items {
		body := p.Widget.Payload
		if len(body) == 0 {
			if !p.Spacer {
				return nil, errors.New(errors.ErrCodeInvalidInput, "widget %q has no body", p.Widget.ID)
			}
			var err error
			body, err = json.Marshal(widgets.NewSpacer(p.Widget.ID))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal spacer %q", p.Widget.ID)
			}
		}
		items = append(items, Item{
			Widget: body,
			Position: Position{
				X:      p.Cell.X,
				Y:      p.Cell.Y,
				Width:  p.Cell.Width,
				Height: p.Cell.Height,
			},
		})
	}
	return items, nil
}

// New assembles a single-page dashboard definition from datasets and a
// layout plan.
func New(datasets []Dataset, plan layout.Plan, opts PageOptions) (Definition, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Definition{}, err
	}
	items, err := FromPlan(plan)
	if err != nil {
		return Definition{}, err
	}
	return Definition{
		Datasets: datasets,
		Pages: []Page{{
			Name:        opts.Name,
			DisplayName: opts.DisplayName,
			Layout:      items,
			PageType:    "PAGE_TYPE_CANVAS",
		}},
	}, nil
}

// DisplayName returns the display name of the first page, which for
// generated single-page dashboards doubles as the dashboard name.
func (d Definition) DisplayName() string {
	if len(d.Pages) == 0 {
		return ""
	}
	return d.Pages[0].DisplayName
}

// JSON serializes the definition in the indented form used for previews
// and catalog entries.
func (d Definition) JSON() (string, error) {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal dashboard definition")
	}
	return string(raw), nil
}

// Parse deserializes a dashboard definition.
func Parse(raw []byte) (Definition, error) {
	var d Definition
	if err := json.Unmarshal(raw, &d); err != nil {
		return Definition{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse dashboard definition")
	}
	return d, nil
}
