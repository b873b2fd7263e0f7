// Package assistant is the client for the model serving endpoint that
// turns a natural language prompt into a widget suggestion.
//
// The endpoint speaks the OpenAI chat completion protocol. The model is
// instructed to answer with a single JSON document describing the
// widgets to build; the client extracts and parses that document.
package assistant

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dashwright/dashwright/pkg/cache"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/integrations"
)

// DefaultModel is used when the configuration names no model.
const DefaultModel = "databricks-gpt-5"

// Column describes one dataset column shown to the model.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// DatasetInfo describes the dataset the model designs widgets for.
type DatasetInfo struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Request carries one generation request.
type Request struct {
	Prompt  string
	Dataset DatasetInfo

	// MaxWidgets caps the suggested widget count. Defaults to 8.
	MaxWidgets int
}

// CounterSuggestion is a suggested KPI counter.
type CounterSuggestion struct {
	ValueColumn string `json:"value_column"`
	Aggregation string `json:"aggregation"`
	Label       string `json:"label"`
	Reason      string `json:"reason,omitempty"`
}

// FilterSuggestion is a suggested filter.
type FilterSuggestion struct {
	Column string `json:"column"`
	Reason string `json:"reason,omitempty"`
}

// TableSuggestion is a suggested detail table.
type TableSuggestion struct {
	Columns []string `json:"columns"`
	Reason  string   `json:"reason,omitempty"`
}

// BarSuggestion is a suggested bar chart.
type BarSuggestion struct {
	XColumn     string `json:"x_column"`
	YColumn     string `json:"y_column"`
	Aggregation string `json:"aggregation"`
	ColorColumn string `json:"color_column,omitempty"`
	Title       string `json:"title"`
	Reason      string `json:"reason,omitempty"`
}

// LineSuggestion is a suggested line chart.
type LineSuggestion struct {
	XColumn         string `json:"x_column"`
	YColumn         string `json:"y_column"`
	Aggregation     string `json:"aggregation"`
	TimeGranularity string `json:"time_granularity,omitempty"`
	ColorColumn     string `json:"color_column,omitempty"`
	Title           string `json:"title"`
	Reason          string `json:"reason,omitempty"`
}

// PieSuggestion is a suggested pie chart.
type PieSuggestion struct {
	ValueColumn    string `json:"value_column"`
	Aggregation    string `json:"aggregation"`
	CategoryColumn string `json:"category_column"`
	Title          string `json:"title"`
	Reason         string `json:"reason,omitempty"`
}

// PivotSuggestion is a suggested pivot table.
type PivotSuggestion struct {
	RowColumns  []string `json:"row_columns"`
	ValueColumn string   `json:"value_column"`
	Aggregation string   `json:"aggregation"`
	Title       string   `json:"title"`
	Reason      string   `json:"reason,omitempty"`
}

// Suggestion is the model's parsed answer.
type Suggestion struct {
	Reasoning     string              `json:"reasoning,omitempty"`
	DashboardName string              `json:"dashboard_name"`
	Counters      []CounterSuggestion `json:"counters"`
	Filter        *FilterSuggestion   `json:"filter"`
	Table         *TableSuggestion    `json:"table"`
	BarChart      *BarSuggestion      `json:"bar_chart"`
	LineChart     *LineSuggestion     `json:"line_chart"`
	PieChart      *PieSuggestion      `json:"pie_chart"`
	Pivot         *PivotSuggestion    `json:"pivot"`
}

// Empty reports whether the model suggested no widgets at all.
func (s Suggestion) Empty() bool {
	return len(s.Counters) == 0 && s.Filter == nil && s.Table == nil &&
		s.BarChart == nil && s.LineChart == nil && s.PieChart == nil && s.Pivot == nil
}

// Client talks to one serving endpoint.
type Client struct {
	base     *integrations.Client
	endpoint string
	model    string
}

// NewClient creates a generation client. The endpoint is the
// OpenAI-compatible base URL of the serving endpoint; the cache may be
// nil to disable caching.
func NewClient(endpoint, token, model string, c cache.Cache) (*Client, error) {
	normalized := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if normalized == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "assistant endpoint is required")
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		base:     integrations.NewClient(c, "assistant", 24*time.Hour, integrations.AuthHeaders(token)),
		endpoint: normalized,
		model:    model,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for a widget suggestion.
func (c *Client) Generate(ctx context.Context, req Request) (Suggestion, error) {
	if err := errors.ValidatePrompt(req.Prompt); err != nil {
		return Suggestion{}, err
	}
	if req.Dataset.Name == "" {
		return Suggestion{}, errors.New(errors.ErrCodeInvalidInput, "dataset is required")
	}
	if req.MaxWidgets <= 0 {
		req.MaxWidgets = 8
	}

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(req)},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens: 1000,
	}

	var resp chatResponse
	if err := c.base.Post(ctx, c.endpoint+"/chat/completions", body, &resp); err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeNetwork
		}
		return Suggestion{}, errors.Wrap(code, err, "generate widgets for prompt")
	}
	if len(resp.Choices) == 0 {
		return Suggestion{}, errors.New(errors.ErrCodeInternal, "assistant returned no choices")
	}

	return parseSuggestion(resp.Choices[0].Message.Content)
}

// parseSuggestion extracts the JSON document from the model's answer.
// Models wrap answers in prose or markdown fences often enough that the
// parser scans for the outermost braces instead of trusting the whole
// content.
func parseSuggestion(content string) (Suggestion, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return Suggestion{}, errors.New(errors.ErrCodeInternal, "assistant answer contains no JSON")
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(content[start:end+1]), &s); err != nil {
		return Suggestion{}, errors.Wrap(errors.ErrCodeInternal, err, "parse assistant answer")
	}
	return s, nil
}
