package integrations

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dashwright/dashwright/pkg/errors"
)

const httpTimeout = 30 * time.Second

// NewHTTPClient creates an HTTP client with a standard timeout for
// workspace API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizeHost converts a workspace host into canonical
// "https://host" form with no trailing slash.
func NormalizeHost(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New(errors.ErrCodeInvalidConfig, "workspace host is required")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", errors.New(errors.ErrCodeInvalidConfig, "invalid workspace host %q", raw)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", errors.New(errors.ErrCodeInvalidConfig, "invalid workspace host scheme %q", u.Scheme)
	}
	return u.Scheme + "://" + u.Host, nil
}

// AuthHeaders builds the bearer token headers for workspace requests.
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token,
		"User-Agent":    "dashwright",
	}
}

// URLEncode percent-encodes a string for use in URL paths.
func URLEncode(s string) string { return url.PathEscape(s) }
