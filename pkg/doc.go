// Package pkg provides the core libraries for Dashwright dashboard generation.
//
// # Overview
//
// Dashwright turns natural language prompts into laid-out, published analytics
// dashboards. The pkg directory is organized into five main areas:
//
//  1. [layout] - The deterministic 6-unit grid layout engine
//  2. [widgets] - Widget definition builders (counters, charts, tables)
//  3. [dashboard] - Dashboard definition assembly and serialization
//  4. [integrations] - External API clients (assistant, workspace dashboards)
//  5. [pipeline] - Orchestration (generate → layout → assemble → publish)
//
// # Architecture
//
// The typical data flow through Dashwright:
//
//	Prompt + Dataset
//	         ↓
//	    [integrations/assistant] package (suggest widgets)
//	         ↓
//	    [widgets] package (build widget definitions)
//	         ↓
//	    [layout] package (place widgets on the grid)
//	         ↓
//	    [dashboard] package (assemble the definition)
//	         ↓
//	    [integrations/boards] package (create + publish)
//
// # Quick Start
//
// Lay out widgets and assemble a dashboard definition:
//
//	import (
//	    "github.com/dashwright/dashwright/pkg/dashboard"
//	    "github.com/dashwright/dashwright/pkg/layout"
//	    "github.com/dashwright/dashwright/pkg/widgets"
//	)
//
//	// 1. Build widgets
//	counter, _ := widgets.NewCounter(widgets.CounterOptions{
//	    Dataset: "tickets",
//	    Column:  "ticket_id",
//	})
//	bar, _ := widgets.NewBar(widgets.BarOptions{
//	    Dataset:         "tickets",
//	    MeasureColumn:   "ticket_id",
//	    DimensionColumn: "status",
//	})
//
//	// 2. Compute the layout
//	plan, _ := layout.New().Plan(widgets.Items([]widgets.Widget{counter, bar}))
//
//	// 3. Assemble the definition
//	ds, _ := dashboard.NewDataset("tickets", "Tickets", "SELECT * FROM tickets")
//	def, _ := dashboard.New([]dashboard.Dataset{ds}, plan, dashboard.PageOptions{})
//	serialized, _ := def.JSON()
//
// # Main Packages
//
// ## Core Domain Logic
//
// [layout] - The grid layout engine. Places widgets on a 6-unit wide grid by
// category (filter, counter, charts, table) with deterministic positions and
// spacer fill for partial rows.
//
// [widgets] - Builders for the supported widget categories. Each builder
// validates its options and produces the widget body that the layout engine
// positions and the dashboard assembler serializes.
//
// [dashboard] - Dashboard definition types: datasets, pages, positioned
// widgets, and JSON serialization.
//
// ## External Integrations
//
// [integrations/assistant] - Client for the model serving endpoint that
// designs widgets for a dataset from a prompt.
//
// [integrations/boards] - Client for the workspace dashboard API: create,
// update, publish, trash, and embed URLs.
//
// ## Infrastructure
//
// [pipeline] - Complete generation pipeline (generate → layout → assemble →
// publish) used by the CLI and the HTTP API. Ensures consistent behavior
// across entry points.
//
// [cache] - Content-addressed caching with file, Redis, and null backends,
// plus key derivation for each pipeline stage.
//
// [catalog] - The catalog of published dashboards with file and MongoDB
// backends.
//
// [config] - TOML configuration with environment variable overrides.
//
// [errors] - Structured errors with stable codes and input validation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/layout/...       # Specific package
//	go test -run Example           # Examples only
//
// [layout]: https://pkg.go.dev/github.com/dashwright/dashwright/pkg/layout
// [widgets]: https://pkg.go.dev/github.com/dashwright/dashwright/pkg/widgets
// [dashboard]: https://pkg.go.dev/github.com/dashwright/dashwright/pkg/dashboard
// [integrations]: https://pkg.go.dev/github.com/dashwright/dashwright/pkg/integrations
// [integrations/assistant]: https://pkg.go.dev/github.com/dashwright/dashwright/pkg/integrations/assistant
// [integrations/boards]: https://pkg.go.dev/github.com/dashwright/dashwright/pkg/integrations/boards
// [pipeline]: https://pkg.go.dev/github.com/dashwright/dashwright/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/dashwright/dashwright/pkg/cache
// [catalog]: https://pkg.go.dev/github.com/dashwright/dashwright/pkg/catalog
// [config]: https://pkg.go.dev/github.com/dashwright/dashwright/pkg/config
// [errors]: https://pkg.go.dev/github.com/dashwright/dashwright/pkg/errors
package pkg
