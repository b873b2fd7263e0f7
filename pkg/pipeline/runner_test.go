package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dashwright/dashwright/pkg/cache"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/integrations/assistant"
	"github.com/dashwright/dashwright/pkg/integrations/boards"
	"github.com/dashwright/dashwright/pkg/layout"
)

type fakeGenerator struct {
	calls      int
	suggestion assistant.Suggestion
	err        error
}

func (f *fakeGenerator) Generate(ctx context.Context, req assistant.Request) (assistant.Suggestion, error) {
	f.calls++
	return f.suggestion, f.err
}

func (f *fakeGenerator) Model() string { return "fake-model" }

type fakePublisher struct {
	created   []boards.CreateRequest
	published []string
	createErr error
}

func (f *fakePublisher) Create(ctx context.Context, req boards.CreateRequest) (boards.Dashboard, error) {
	if f.createErr != nil {
		return boards.Dashboard{}, f.createErr
	}
	f.created = append(f.created, req)
	return boards.Dashboard{DashboardID: "d-123", DisplayName: req.DisplayName}, nil
}

func (f *fakePublisher) Publish(ctx context.Context, dashboardID string, embedCredentials bool) (boards.PublishedDashboard, error) {
	f.published = append(f.published, dashboardID)
	return boards.PublishedDashboard{DisplayName: "Ticket Overview"}, nil
}

func (f *fakePublisher) EmbedURL(dashboardID string) string {
	return "https://example.cloud.databricks.com/embed/dashboardsv3/" + dashboardID + "?o=0"
}

func sampleOptions() Options {
	return Options{
		Prompt:   "support ticket overview",
		Dataset:  sampleDataset(),
		IDSource: layout.NewSequenceSource("gap"),
	}
}

func TestExecute(t *testing.T) {
	gen := &fakeGenerator{suggestion: sampleSuggestion()}
	r := NewRunner(gen, nil, nil, nil, nil)

	result, err := r.Execute(context.Background(), sampleOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.WidgetCount != 6 {
		t.Errorf("WidgetCount = %d, want 6", result.Stats.WidgetCount)
	}
	// filter row (2) + spacer + chart row (6) + spacer + table (8)
	if result.Stats.TotalHeight != 18 {
		t.Errorf("TotalHeight = %d, want 18", result.Stats.TotalHeight)
	}
	if len(result.Plan.Items) != 8 {
		t.Errorf("plan has %d items, want 8 (6 widgets + 2 spacers)", len(result.Plan.Items))
	}
	if result.WidgetsHash == "" {
		t.Error("WidgetsHash is empty")
	}
	if result.Definition.DisplayName() != "Ticket Overview" {
		t.Errorf("DisplayName = %q", result.Definition.DisplayName())
	}
	if result.Dashboard != nil || result.EmbedURL != "" {
		t.Error("publish stage ran without Publish option")
	}
	if result.CacheInfo.GenerateHit {
		t.Error("GenerateHit on first run")
	}
}

func TestExecuteCachesGeneration(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	gen := &fakeGenerator{suggestion: sampleSuggestion()}
	r := NewRunner(gen, nil, fc, nil, nil)

	if _, err := r.Execute(context.Background(), sampleOptions()); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	result, err := r.Execute(context.Background(), sampleOptions())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}

	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
	if !result.CacheInfo.GenerateHit {
		t.Error("second run did not hit the generation cache")
	}
}

// ttlRecorder wraps a cache and records the TTL of every Set, keyed by
// the key's stage prefix ("gen", "def").
type ttlRecorder struct {
	cache.Cache
	ttls map[string]time.Duration
}

func newTTLRecorder(t *testing.T) *ttlRecorder {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return &ttlRecorder{Cache: fc, ttls: map[string]time.Duration{}}
}

func (r *ttlRecorder) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	r.ttls[strings.SplitN(key, ":", 2)[0]] = ttl
	return r.Cache.Set(ctx, key, data, ttl)
}

func TestExecuteStageTTLDefaults(t *testing.T) {
	rec := newTTLRecorder(t)
	gen := &fakeGenerator{suggestion: sampleSuggestion()}
	r := NewRunner(gen, nil, rec, nil, nil)

	if _, err := r.Execute(context.Background(), sampleOptions()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := rec.ttls["gen"]; got != cache.TTLGeneration {
		t.Errorf("generation TTL = %v, want %v", got, cache.TTLGeneration)
	}
	if got := rec.ttls["def"]; got != cache.TTLDefinition {
		t.Errorf("definition TTL = %v, want %v", got, cache.TTLDefinition)
	}
}

func TestExecuteConfiguredTTL(t *testing.T) {
	rec := newTTLRecorder(t)
	gen := &fakeGenerator{suggestion: sampleSuggestion()}
	r := NewRunner(gen, nil, rec, nil, nil)
	r.GenerationTTL = 42 * time.Minute
	r.DefinitionTTL = time.Hour

	if _, err := r.Execute(context.Background(), sampleOptions()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := rec.ttls["gen"]; got != 42*time.Minute {
		t.Errorf("generation TTL = %v, want 42m", got)
	}
	if got := rec.ttls["def"]; got != time.Hour {
		t.Errorf("definition TTL = %v, want 1h", got)
	}
}

func TestExecuteCachesDefinition(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	gen := &fakeGenerator{suggestion: sampleSuggestion()}
	r := NewRunner(gen, nil, fc, nil, nil)

	first, err := r.Execute(context.Background(), sampleOptions())
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.DefinitionHit {
		t.Error("DefinitionHit on first run")
	}

	second, err := r.Execute(context.Background(), sampleOptions())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.DefinitionHit {
		t.Error("second run did not hit the definition cache")
	}

	firstJSON, err := first.Definition.JSON()
	if err != nil {
		t.Fatalf("first JSON: %v", err)
	}
	secondJSON, err := second.Definition.JSON()
	if err != nil {
		t.Fatalf("second JSON: %v", err)
	}
	if firstJSON != secondJSON {
		t.Error("cached definition differs from the assembled one")
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	gen := &fakeGenerator{suggestion: sampleSuggestion()}
	r := NewRunner(gen, nil, fc, nil, nil)

	if _, err := r.Execute(context.Background(), sampleOptions()); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	opts := sampleOptions()
	opts.Refresh = true
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}

	if gen.calls != 2 {
		t.Errorf("generator called %d times, want 2", gen.calls)
	}
	if result.CacheInfo.GenerateHit {
		t.Error("refresh run reported a cache hit")
	}
}

func TestExecutePublish(t *testing.T) {
	gen := &fakeGenerator{suggestion: sampleSuggestion()}
	pub := &fakePublisher{}
	r := NewRunner(gen, pub, nil, nil, nil)

	opts := sampleOptions()
	opts.Publish = true
	opts.WarehouseID = "wh-1"
	opts.ParentPath = "/Workspace/Shared"

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(pub.created) != 1 {
		t.Fatalf("Create called %d times, want 1", len(pub.created))
	}
	req := pub.created[0]
	if req.DisplayName != "Ticket Overview" {
		t.Errorf("created DisplayName = %q", req.DisplayName)
	}
	if req.WarehouseID != "wh-1" || req.ParentPath != "/Workspace/Shared" {
		t.Errorf("created request = %+v", req)
	}
	if req.SerializedDashboard == "" {
		t.Error("created without serialized definition")
	}
	if len(pub.published) != 1 || pub.published[0] != "d-123" {
		t.Errorf("published = %v, want [d-123]", pub.published)
	}
	if result.Dashboard == nil || result.Dashboard.DashboardID != "d-123" {
		t.Errorf("result dashboard = %+v", result.Dashboard)
	}
	if want := "https://example.cloud.databricks.com/embed/dashboardsv3/d-123?o=0"; result.EmbedURL != want {
		t.Errorf("EmbedURL = %q, want %q", result.EmbedURL, want)
	}
}

func TestExecutePublishRequiresWarehouse(t *testing.T) {
	gen := &fakeGenerator{suggestion: sampleSuggestion()}
	r := NewRunner(gen, &fakePublisher{}, nil, nil, nil)

	opts := sampleOptions()
	opts.Publish = true

	_, err := r.Execute(context.Background(), opts)
	if err == nil {
		t.Fatal("Execute published without warehouse id")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %s, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestExecuteEmptySuggestion(t *testing.T) {
	gen := &fakeGenerator{suggestion: assistant.Suggestion{Reasoning: "nothing fits"}}
	r := NewRunner(gen, nil, nil, nil, nil)

	_, err := r.Execute(context.Background(), sampleOptions())
	if err == nil {
		t.Fatal("Execute accepted an empty suggestion")
	}
	if !errors.Is(err, errors.ErrCodeInvalidPlan) {
		t.Errorf("error code = %s, want INVALID_PLAN", errors.GetCode(err))
	}
}

func TestExecuteDisplayNameOverride(t *testing.T) {
	gen := &fakeGenerator{suggestion: sampleSuggestion()}
	r := NewRunner(gen, nil, nil, nil, nil)

	opts := sampleOptions()
	opts.DisplayName = "Support SLA Board"

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Definition.DisplayName() != "Support SLA Board" {
		t.Errorf("DisplayName = %q", result.Definition.DisplayName())
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Options)
		wantCode errors.Code
	}{
		{name: "empty prompt", mutate: func(o *Options) { o.Prompt = " " }, wantCode: errors.ErrCodeInvalidPrompt},
		{name: "no dataset name", mutate: func(o *Options) { o.Dataset.Name = "" }, wantCode: errors.ErrCodeInvalidInput},
		{name: "no query", mutate: func(o *Options) { o.Dataset.Query = "" }, wantCode: errors.ErrCodeInvalidInput},
		{name: "no columns", mutate: func(o *Options) { o.Dataset.Columns = nil }, wantCode: errors.ErrCodeInvalidInput},
		{name: "relative parent path", mutate: func(o *Options) {
			o.Publish = true
			o.WarehouseID = "wh-1"
			o.ParentPath = "Workspace/Shared"
		}, wantCode: errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := sampleOptions()
			tt.mutate(&opts)
			err := opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := sampleOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.MaxWidgets != DefaultMaxWidgets {
		t.Errorf("MaxWidgets = %d, want %d", opts.MaxWidgets, DefaultMaxWidgets)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
}
