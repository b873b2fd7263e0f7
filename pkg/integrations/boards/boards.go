// Package boards is the client for the workspace Lakeview dashboard
// API. It covers the draft lifecycle (create, get, update), publishing,
// trashing, and embed URL construction.
package boards

import (
	"context"
	"fmt"
	"time"

	"github.com/dashwright/dashwright/pkg/cache"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/integrations"
)

// Dashboard is the API representation of a Lakeview dashboard.
type Dashboard struct {
	DashboardID         string `json:"dashboard_id"`
	DisplayName         string `json:"display_name"`
	WarehouseID         string `json:"warehouse_id,omitempty"`
	ParentPath          string `json:"parent_path,omitempty"`
	Path                string `json:"path,omitempty"`
	SerializedDashboard string `json:"serialized_dashboard,omitempty"`
	Etag                string `json:"etag,omitempty"`
	LifecycleState      string `json:"lifecycle_state,omitempty"`
	CreateTime          string `json:"create_time,omitempty"`
	UpdateTime          string `json:"update_time,omitempty"`
}

// PublishedDashboard is the API representation of a published dashboard
// revision.
type PublishedDashboard struct {
	DisplayName        string `json:"display_name,omitempty"`
	EmbedCredentials   bool   `json:"embed_credentials"`
	WarehouseID        string `json:"warehouse_id,omitempty"`
	RevisionCreateTime string `json:"revision_create_time,omitempty"`
}

// Client talks to one workspace's Lakeview API.
type Client struct {
	base *integrations.Client
	host string
}

// NewClient creates a dashboard API client for the given workspace host
// and token. The cache may be nil to disable response caching.
func NewClient(host, token string, c cache.Cache) (*Client, error) {
	normalized, err := integrations.NormalizeHost(host)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: integrations.NewClient(c, "boards", 5*time.Minute, integrations.AuthHeaders(token)),
		host: normalized,
	}, nil
}

func (c *Client) url(format string, args ...any) string {
	return c.host + "/api/2.0/lakeview/dashboards" + fmt.Sprintf(format, args...)
}

// CreateRequest holds the fields for a new draft dashboard.
type CreateRequest struct {
	DisplayName         string `json:"display_name"`
	WarehouseID         string `json:"warehouse_id"`
	SerializedDashboard string `json:"serialized_dashboard"`
	ParentPath          string `json:"parent_path,omitempty"`
}

// Create creates a new draft dashboard and returns its API
// representation, including the assigned dashboard ID.
func (c *Client) Create(ctx context.Context, req CreateRequest) (Dashboard, error) {
	if req.DisplayName == "" {
		return Dashboard{}, errors.New(errors.ErrCodeInvalidInput, "display name is required")
	}
	if req.WarehouseID == "" {
		return Dashboard{}, errors.New(errors.ErrCodeInvalidInput, "warehouse id is required")
	}

	var d Dashboard
	if err := c.base.Post(ctx, c.url(""), req, &d); err != nil {
		return Dashboard{}, wrapAPIError(err, "create dashboard %q", req.DisplayName)
	}
	return d, nil
}

// Get fetches a draft dashboard by ID, serving recent responses from
// the cache when one is configured.
func (c *Client) Get(ctx context.Context, dashboardID string) (Dashboard, error) {
	var d Dashboard
	if err := c.base.GetCached(ctx, c.url("/%s", integrations.URLEncode(dashboardID)), false, &d); err != nil {
		return Dashboard{}, wrapAPIError(err, "get dashboard %s", dashboardID)
	}
	return d, nil
}

// fetch retrieves a draft dashboard bypassing the response cache, for
// callers that need the current etag.
func (c *Client) fetch(ctx context.Context, dashboardID string) (Dashboard, error) {
	var d Dashboard
	if err := c.base.Get(ctx, c.url("/%s", integrations.URLEncode(dashboardID)), &d); err != nil {
		return Dashboard{}, wrapAPIError(err, "get dashboard %s", dashboardID)
	}
	return d, nil
}

// Update replaces a draft dashboard's serialized definition. The API
// requires the current etag, so the dashboard is fetched first; a
// concurrent writer between the fetch and the patch surfaces as an API
// error rather than a silent overwrite.
func (c *Client) Update(ctx context.Context, dashboardID, serialized string) (Dashboard, error) {
	current, err := c.fetch(ctx, dashboardID)
	if err != nil {
		return Dashboard{}, err
	}

	body := struct {
		SerializedDashboard string `json:"serialized_dashboard"`
		Etag                string `json:"etag,omitempty"`
	}{serialized, current.Etag}

	var d Dashboard
	if err := c.base.Patch(ctx, c.url("/%s", integrations.URLEncode(dashboardID)), body, &d); err != nil {
		return Dashboard{}, wrapAPIError(err, "update dashboard %s", dashboardID)
	}
	return d, nil
}

// Publish makes the current draft revision available to viewers. With
// embedCredentials, viewers run queries with the publisher's
// credentials instead of their own.
func (c *Client) Publish(ctx context.Context, dashboardID string, embedCredentials bool) (PublishedDashboard, error) {
	body := struct {
		EmbedCredentials bool `json:"embed_credentials"`
	}{embedCredentials}

	var p PublishedDashboard
	if err := c.base.Post(ctx, c.url("/%s/published", integrations.URLEncode(dashboardID)), body, &p); err != nil {
		return PublishedDashboard{}, wrapAPIError(err, "publish dashboard %s", dashboardID)
	}
	return p, nil
}

// Trash moves a dashboard to the workspace trash.
func (c *Client) Trash(ctx context.Context, dashboardID string) error {
	if err := c.base.Delete(ctx, c.url("/%s", integrations.URLEncode(dashboardID))); err != nil {
		return wrapAPIError(err, "trash dashboard %s", dashboardID)
	}
	return nil
}

// EmbedURL returns the iframe URL for a published dashboard.
func (c *Client) EmbedURL(dashboardID string) string {
	return fmt.Sprintf("%s/embed/dashboardsv3/%s?o=0", c.host, dashboardID)
}

// wrapAPIError adds operation context while keeping the original error
// code, so callers can still match on not-found and friends.
func wrapAPIError(err error, format string, args ...any) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeNetwork
	}
	if code == errors.ErrCodeNotFound {
		code = errors.ErrCodeDashboardNotFound
	}
	return errors.Wrap(code, err, format, args...)
}
