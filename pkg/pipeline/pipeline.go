// Package pipeline provides the prompt-to-dashboard pipeline for
// dashwright.
//
// This package implements the complete generate → layout → assemble →
// publish pipeline shared by the CLI and the HTTP API. Centralizing it
// keeps caching and observability behavior identical across entry
// points.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Generate: Ask the assistant for a widget suggestion for the prompt
//  2. Layout: Place the suggested widgets on the 6-unit grid
//  3. Assemble: Build the serialized dashboard definition
//  4. Publish: Create and publish the dashboard in the workspace
//
// Each stage can be run independently or as part of the complete
// pipeline; publish only runs when requested.
//
// # Usage
//
//	runner := pipeline.NewRunner(gen, pub, cache, nil, logger)
//	opts := pipeline.Options{
//	    Prompt: "support ticket overview with SLA breakdown",
//	    Dataset: pipeline.DatasetOptions{
//	        Name:  "tickets",
//	        Query: "SELECT * FROM support.tickets",
//	        Columns: []assistant.Column{{Name: "ticket_id", Type: "string"}},
//	    },
//	    Publish:     true,
//	    WarehouseID: "wh-123",
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dashwright/dashwright/pkg/cache"
	"github.com/dashwright/dashwright/pkg/dashboard"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/integrations/assistant"
	"github.com/dashwright/dashwright/pkg/integrations/boards"
	"github.com/dashwright/dashwright/pkg/layout"
	"github.com/dashwright/dashwright/pkg/widgets"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxWidgets caps the assistant's suggestion. More widgets
	// than this rarely fit a readable single page.
	DefaultMaxWidgets = 8

	// DefaultDisplayName is used when neither the caller nor the
	// assistant names the dashboard.
	DefaultDisplayName = "Generated Dashboard"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// DatasetOptions describes the dataset the dashboard is built over.
type DatasetOptions struct {
	// Name is the dataset identifier used in widget queries.
	Name string `json:"name"`

	// DisplayName defaults to a titleized Name.
	DisplayName string `json:"display_name,omitempty"`

	// Query is the SQL statement that produces the dataset.
	Query string `json:"query"`

	// Columns are shown to the assistant so it suggests real fields.
	Columns []assistant.Column `json:"columns"`
}

// ColumnNames returns the dataset column names in order.
func (d DatasetOptions) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Prompt     string         `json:"prompt"`
	Dataset    DatasetOptions `json:"dataset"`
	MaxWidgets int            `json:"max_widgets,omitempty"`
	Refresh    bool           `json:"refresh,omitempty"` // bypass generation cache

	// Assemble options
	DisplayName string `json:"display_name,omitempty"` // overrides the assistant's name
	PageName    string `json:"page_name,omitempty"`

	// Publish options
	Publish          bool   `json:"publish,omitempty"`
	WarehouseID      string `json:"warehouse_id,omitempty"`
	ParentPath       string `json:"parent_path,omitempty"`
	EmbedCredentials bool   `json:"embed_credentials,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	IDSource layout.IDSource `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Suggestion is the assistant's parsed answer.
	Suggestion assistant.Suggestion

	// Widgets are the built widget payloads, in layout order.
	Widgets []widgets.Widget

	// WidgetsHash is the content hash of the built widgets.
	WidgetsHash string

	// Plan is the computed grid layout.
	Plan *layout.Plan

	// Definition is the assembled dashboard definition.
	Definition dashboard.Definition

	// Dashboard is the created workspace dashboard. Nil unless the
	// publish stage ran.
	Dashboard *boards.Dashboard

	// EmbedURL is the published iframe URL. Empty unless published.
	EmbedURL string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	WidgetCount  int
	TotalHeight  int
	GenerateTime time.Duration
	LayoutTime   time.Duration
	PublishTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit   bool // Whether the suggestion came from cache
	DefinitionHit bool // Whether the assembled definition came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForPublish(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks required fields for the generation stage.
func (o *Options) ValidateForGenerate() error {
	if err := errors.ValidatePrompt(o.Prompt); err != nil {
		return err
	}
	if err := errors.ValidateDatasetName(o.Dataset.Name); err != nil {
		return err
	}
	if o.Dataset.Query == "" {
		return errors.New(errors.ErrCodeInvalidInput, "dataset query is required")
	}
	if len(o.Dataset.Columns) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dataset columns are required")
	}

	if o.MaxWidgets == 0 {
		o.MaxWidgets = DefaultMaxWidgets
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForPublish checks required fields for the publish stage.
// A no-publish run needs no workspace settings.
func (o *Options) ValidateForPublish() error {
	if !o.Publish {
		return nil
	}
	if o.WarehouseID == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "warehouse id is required to publish")
	}
	if o.ParentPath != "" {
		return errors.ValidateParentPath(o.ParentPath)
	}
	return nil
}

// GenerationKeyOpts returns the cache key options for the generation
// stage.
func (o *Options) GenerationKeyOpts() cache.GenerationKeyOpts {
	return cache.GenerationKeyOpts{
		Dataset:    o.Dataset.Name,
		MaxWidgets: o.MaxWidgets,
	}
}

// Request returns the assistant request for these options.
func (o *Options) Request() assistant.Request {
	return assistant.Request{
		Prompt: o.Prompt,
		Dataset: assistant.DatasetInfo{
			Name:    o.Dataset.Name,
			Columns: o.Dataset.Columns,
		},
		MaxWidgets: o.MaxWidgets,
	}
}
