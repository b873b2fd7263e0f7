package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dashwright/dashwright/pkg/catalog"
	"github.com/dashwright/dashwright/pkg/integrations/assistant"
	"github.com/dashwright/dashwright/pkg/integrations/boards"
	"github.com/dashwright/dashwright/pkg/pipeline"
)

type fakeGenerator struct {
	suggestion assistant.Suggestion
}

func (f *fakeGenerator) Generate(ctx context.Context, req assistant.Request) (assistant.Suggestion, error) {
	return f.suggestion, nil
}

func (f *fakeGenerator) Model() string { return "fake-model" }

type fakePublisher struct{}

func (fakePublisher) Create(ctx context.Context, req boards.CreateRequest) (boards.Dashboard, error) {
	return boards.Dashboard{DashboardID: "d-9", DisplayName: req.DisplayName}, nil
}

func (fakePublisher) Publish(ctx context.Context, dashboardID string, embedCredentials bool) (boards.PublishedDashboard, error) {
	return boards.PublishedDashboard{}, nil
}

func (fakePublisher) EmbedURL(dashboardID string) string {
	return "https://example.cloud.databricks.com/embed/dashboardsv3/" + dashboardID + "?o=0"
}

func testSuggestion() assistant.Suggestion {
	return assistant.Suggestion{
		DashboardName: "Ticket Overview",
		Counters: []assistant.CounterSuggestion{
			{ValueColumn: "ticket_id", Aggregation: "COUNT", Label: "Total Tickets"},
		},
		BarChart: &assistant.BarSuggestion{
			XColumn:     "ticket_id",
			YColumn:     "priority",
			Aggregation: "COUNT",
		},
	}
}

func newTestServer(t *testing.T) (*Server, *catalog.FileStore) {
	t.Helper()
	store, err := catalog.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	runner := pipeline.NewRunner(&fakeGenerator{suggestion: testSuggestion()}, fakePublisher{}, nil, nil, nil)
	s, err := New(Options{Runner: runner, Catalog: store})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, store
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorResponse](t, rec).Error.Code
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	body := map[string]any{"widgets": []map[string]string{
		{"id": "f1", "category": "filter"},
		{"id": "c1", "category": "bar"},
		{"id": "c2", "category": "line"},
	}}
	rec := do(t, s, http.MethodPost, "/api/v1/layout", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decode[layoutResponse](t, rec)
	// filter row (2) + spacer (1) + one shared chart row (6)
	if resp.TotalHeight != 9 {
		t.Errorf("total_height = %d, want 9", resp.TotalHeight)
	}
	if len(resp.Items) != 4 {
		t.Errorf("items = %d, want 4", len(resp.Items))
	}
}

func TestLayoutEndpointBadCategory(t *testing.T) {
	s, _ := newTestServer(t)

	body := map[string]any{"widgets": []map[string]string{
		{"id": "x", "category": "gauge"},
	}}
	rec := do(t, s, http.MethodPost, "/api/v1/layout", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := errCode(t, rec); code != "INVALID_CATEGORY" {
		t.Errorf("error code = %s", code)
	}
}

func dashboardRequest(publish bool) map[string]any {
	req := map[string]any{
		"prompt": "ticket overview",
		"dataset": map[string]any{
			"name":  "tickets",
			"query": "SELECT * FROM support.tickets",
			"columns": []map[string]string{
				{"name": "ticket_id", "type": "string"},
				{"name": "priority", "type": "string"},
			},
		},
	}
	if publish {
		req["publish"] = true
		req["warehouse_id"] = "wh-1"
	}
	return req
}

func TestCreateDashboard(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/dashboards", dashboardRequest(false))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decode[dashboardResponse](t, rec)
	if resp.DisplayName != "Ticket Overview" {
		t.Errorf("display_name = %q", resp.DisplayName)
	}
	if resp.Stats.WidgetCount != 2 {
		t.Errorf("widget_count = %d, want 2", resp.Stats.WidgetCount)
	}
	if resp.DashboardID != "" {
		t.Errorf("dashboard_id = %q on non-publish run", resp.DashboardID)
	}
	if len(resp.Definition) == 0 {
		t.Error("definition missing")
	}
}

func TestCreateDashboardPublish(t *testing.T) {
	s, store := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/dashboards", dashboardRequest(true))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decode[dashboardResponse](t, rec)
	if resp.DashboardID != "d-9" {
		t.Errorf("dashboard_id = %q", resp.DashboardID)
	}
	if resp.EmbedURL == "" {
		t.Error("embed_url missing")
	}

	entry, err := store.Get(context.Background(), "d-9")
	if err != nil {
		t.Fatalf("catalog Get: %v", err)
	}
	if entry == nil {
		t.Fatal("published dashboard not recorded in catalog")
	}
	if entry.Name != "Ticket Overview" {
		t.Errorf("catalog entry name = %q", entry.Name)
	}
}

func TestCreateDashboardValidation(t *testing.T) {
	s, _ := newTestServer(t)

	req := dashboardRequest(false)
	req["prompt"] = "  "
	rec := do(t, s, http.MethodPost, "/api/v1/dashboards", req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := errCode(t, rec); code != "INVALID_PROMPT" {
		t.Errorf("error code = %s", code)
	}
}

func TestCreateDashboardRejectsUnknownFields(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/dashboards", map[string]any{"promt": "typo"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetDashboardNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/dashboards/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := errCode(t, rec); code != "DASHBOARD_NOT_FOUND" {
		t.Errorf("error code = %s", code)
	}
}

func TestListAndDeleteDashboards(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		entry := &catalog.Entry{ID: fmt.Sprintf("d-%d", i), Name: fmt.Sprintf("Board %d", i)}
		if err := store.Put(ctx, entry); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	rec := do(t, s, http.MethodGet, "/api/v1/dashboards", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decode[struct {
		Dashboards []catalog.Entry `json:"dashboards"`
	}](t, rec)
	if len(list.Dashboards) != 2 {
		t.Errorf("listed %d dashboards, want 2", len(list.Dashboards))
	}

	rec = do(t, s, http.MethodDelete, "/api/v1/dashboards/d-0", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	entry, err := store.Get(ctx, "d-0")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry != nil {
		t.Error("entry still present after delete")
	}
}
