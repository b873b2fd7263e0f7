package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dashwright/dashwright/pkg/cache"
	"github.com/dashwright/dashwright/pkg/dashboard"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/integrations/assistant"
	"github.com/dashwright/dashwright/pkg/integrations/boards"
	"github.com/dashwright/dashwright/pkg/layout"
	"github.com/dashwright/dashwright/pkg/observability"
	"github.com/dashwright/dashwright/pkg/widgets"
)

// Generator produces widget suggestions for a prompt. Satisfied by
// *assistant.Client.
type Generator interface {
	Generate(ctx context.Context, req assistant.Request) (assistant.Suggestion, error)
	Model() string
}

// Publisher creates and publishes workspace dashboards. Satisfied by
// *boards.Client.
type Publisher interface {
	Create(ctx context.Context, req boards.CreateRequest) (boards.Dashboard, error)
	Publish(ctx context.Context, dashboardID string, embedCredentials bool) (boards.PublishedDashboard, error)
	EmbedURL(dashboardID string) string
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Generator Generator
	Publisher Publisher
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger

	// GenerationTTL and DefinitionTTL override the stage default TTLs
	// (cache.TTLGeneration, cache.TTLDefinition) when positive.
	GenerationTTL time.Duration
	DefinitionTTL time.Duration
}

// NewRunner creates a runner with the given collaborators.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// Publisher may be nil for runners that never publish.
func NewRunner(gen Generator, pub Publisher, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Generator: gen,
		Publisher: pub,
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
	}
}

// Execute runs the complete generate → layout → assemble → publish
// pipeline with caching. The publish stage runs only when opts.Publish
// is set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Generate
	generateStart := time.Now()
	suggestion, generateHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Suggestion = suggestion
	result.Stats.GenerateTime = time.Since(generateStart)
	result.CacheInfo.GenerateHit = generateHit

	r.Logger.Info("generated suggestion",
		"widgets", WidgetCount(suggestion),
		"cached", generateHit,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	built, plan, err := r.ComputeLayout(ctx, suggestion, opts)
	if err != nil {
		return nil, err
	}
	result.Widgets = built
	result.Plan = plan
	result.Stats.WidgetCount = len(built)
	result.Stats.TotalHeight = plan.TotalHeight
	result.Stats.LayoutTime = time.Since(layoutStart)

	if data, err := json.Marshal(built); err == nil {
		result.WidgetsHash = cache.Hash(data)
	}

	r.Logger.Info("computed layout",
		"entries", len(plan.Items),
		"height", plan.TotalHeight,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Assemble. Definitions are keyed by the widget content
	// hash so repeated runs over an unchanged plan reuse the same
	// serialized definition, page name included.
	defKey := r.Keyer.DefinitionKey(result.WidgetsHash, cache.DefinitionKeyOpts{
		PageName:    opts.PageName,
		DisplayName: displayNameFor(suggestion, opts),
	})
	var def dashboard.Definition
	definitionHit := false
	if result.WidgetsHash != "" && !opts.Refresh {
		if raw, hit, err := r.Cache.Get(ctx, defKey); err == nil && hit {
			if cached, perr := dashboard.Parse(raw); perr == nil {
				def = cached
				definitionHit = true
			}
		}
	}
	if !definitionHit {
		def, err = r.Assemble(*plan, suggestion, opts)
		if err != nil {
			return nil, err
		}
		if result.WidgetsHash != "" {
			ttl := r.DefinitionTTL
			if ttl <= 0 {
				ttl = cache.TTLDefinition
			}
			if serialized, serr := def.JSON(); serr == nil {
				_ = r.Cache.Set(ctx, defKey, []byte(serialized), ttl)
			}
		}
	}
	result.Definition = def
	result.CacheInfo.DefinitionHit = definitionHit

	// Stage 4: Publish
	if opts.Publish {
		publishStart := time.Now()
		d, embedURL, err := r.PublishDashboard(ctx, def, opts)
		if err != nil {
			return nil, err
		}
		result.Dashboard = d
		result.EmbedURL = embedURL
		result.Stats.PublishTime = time.Since(publishStart)

		r.Logger.Info("published dashboard",
			"id", d.DashboardID,
			"url", embedURL,
			"duration", result.Stats.PublishTime)
	}

	return result, nil
}

// GenerateWithCacheInfo asks the assistant for a suggestion, with
// caching, and reports whether the result came from cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (assistant.Suggestion, bool, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return assistant.Suggestion{}, false, err
	}
	if r.Generator == nil {
		return assistant.Suggestion{}, false, errors.New(errors.ErrCodeInvalidConfig, "no generator configured")
	}

	model := r.Generator.Model()
	cacheKey := r.Keyer.GenerationKey(model, opts.Prompt, opts.GenerationKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached assistant.Suggestion
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil // Cache hit
			}
		}
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, model, opts.Dataset.Name)
	start := time.Now()

	suggestion, err := r.Generator.Generate(ctx, opts.Request())
	hooks.OnGenerateComplete(ctx, model, opts.Dataset.Name, WidgetCount(suggestion), time.Since(start), err)
	if err != nil {
		return assistant.Suggestion{}, false, err
	}
	if suggestion.Empty() {
		return assistant.Suggestion{}, false, errors.New(errors.ErrCodeInvalidPlan, "assistant suggested no widgets for prompt")
	}

	ttl := r.GenerationTTL
	if ttl <= 0 {
		ttl = cache.TTLGeneration
	}
	if data, err := json.Marshal(suggestion); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, ttl)
	}

	return suggestion, false, nil // Cache miss
}

// Generate is a convenience wrapper that discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (assistant.Suggestion, error) {
	s, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return s, err
}

// ComputeLayout builds widget payloads from a suggestion and places
// them on the grid.
func (r *Runner) ComputeLayout(ctx context.Context, suggestion assistant.Suggestion, opts Options) ([]widgets.Widget, *layout.Plan, error) {
	built, err := BuildWidgets(suggestion, opts.Dataset)
	if err != nil {
		return nil, nil, err
	}

	items, err := widgets.Items(built)
	if err != nil {
		return nil, nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(items))
	start := time.Now()

	engine := layout.New()
	if opts.IDSource != nil {
		engine = layout.New(layout.WithIDSource(opts.IDSource))
	}
	plan, err := engine.Plan(items)

	height := 0
	if plan != nil {
		height = plan.TotalHeight
	}
	hooks.OnLayoutComplete(ctx, height, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return built, plan, nil
}

// displayNameFor resolves the display name: explicit option, then the
// assistant's suggested name, then the fallback default.
func displayNameFor(suggestion assistant.Suggestion, opts Options) string {
	if opts.DisplayName != "" {
		return opts.DisplayName
	}
	if suggestion.DashboardName != "" {
		return suggestion.DashboardName
	}
	return DefaultDisplayName
}

// Assemble builds the dashboard definition for a computed plan.
func (r *Runner) Assemble(plan layout.Plan, suggestion assistant.Suggestion, opts Options) (dashboard.Definition, error) {
	displayName := displayNameFor(suggestion, opts)
	if err := errors.ValidateDashboardName(displayName); err != nil {
		return dashboard.Definition{}, err
	}

	ds := dashboard.NewDataset(opts.Dataset.Name, opts.Dataset.DisplayName, opts.Dataset.Query)
	return dashboard.New([]dashboard.Dataset{ds}, plan, dashboard.PageOptions{
		Name:        opts.PageName,
		DisplayName: displayName,
	})
}

// PublishDashboard creates the dashboard in the workspace, publishes
// it, and returns the created dashboard and its embed URL.
func (r *Runner) PublishDashboard(ctx context.Context, def dashboard.Definition, opts Options) (*boards.Dashboard, string, error) {
	if r.Publisher == nil {
		return nil, "", errors.New(errors.ErrCodeInvalidConfig, "no publisher configured")
	}
	if err := opts.ValidateForPublish(); err != nil {
		return nil, "", err
	}

	displayName := def.DisplayName()
	serialized, err := def.JSON()
	if err != nil {
		return nil, "", err
	}

	hooks := observability.Pipeline()
	hooks.OnPublishStart(ctx, displayName)
	start := time.Now()

	d, err := r.Publisher.Create(ctx, boards.CreateRequest{
		DisplayName:         displayName,
		WarehouseID:         opts.WarehouseID,
		SerializedDashboard: serialized,
		ParentPath:          opts.ParentPath,
	})
	if err != nil {
		hooks.OnPublishComplete(ctx, "", time.Since(start), err)
		return nil, "", err
	}

	_, err = r.Publisher.Publish(ctx, d.DashboardID, opts.EmbedCredentials)
	hooks.OnPublishComplete(ctx, d.DashboardID, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}

	return &d, r.Publisher.EmbedURL(d.DashboardID), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
