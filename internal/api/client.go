// Package api is the HTTP client for the monitoring backend.
//
// Every call takes a context and returns structured errors:
//
//   - transport failures carry errors.ErrTransport
//   - malformed bodies carry errors.ErrDecode
//   - non-2xx responses are *APIError values (errors.ErrAPI)
//
// Read paths do not retry. The dashboard treats the next poll tick as the
// retry, and mutating calls surface the error to the user instead.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/koltont40/networkmonitoring/internal/errors"
	"github.com/koltont40/networkmonitoring/internal/logger"
)

// DefaultTimeout bounds a single request when no other timeout is configured.
const DefaultTimeout = 5 * time.Second

// maxErrorBody caps how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

var (
	// ErrNotTracked is returned by GetHost when the backend answers with a
	// non-success status: the host is no longer monitored.
	ErrNotTracked = stderrors.New("host not tracked")

	// ErrNotFound matches any 404 response.
	ErrNotFound = stderrors.New("not found")
)

// APIError is a non-success HTTP response.
type APIError struct {
	Method string
	Path   string
	Status int
	// Detail is the backend's {"detail": ...} message, if any.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// DetailOf returns the backend's error detail carried by err, or "".
func DetailOf(err error) string {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// DialContextFunc matches net.Dialer.DialContext. It lets API traffic be
// routed through an SSH tunnel.
type DialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Client talks to the backend's /api endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithDialContext routes connections through dial.
func WithDialContext(dial DialContextFunc) Option {
	return func(c *Client) {
		c.http.Transport = &http.Transport{
			DialContext:       dial,
			DisableKeepAlives: false,
			MaxIdleConns:      4,
			IdleConnTimeout:   30 * time.Second,
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the backend at baseURL (e.g. http://127.0.0.1:8000).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListHosts fetches every tracked host, optionally only the reachable ones.
func (c *Client) ListHosts(ctx context.Context, reachableOnly bool) ([]HostSnapshot, error) {
	path := "/api/hosts"
	if reachableOnly {
		path += "?reachable_only=true"
	}
	var hosts []HostSnapshot
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// GetHost fetches one host. Any non-success status wraps ErrNotTracked.
func (c *Client) GetHost(ctx context.Context, address string) (*HostSnapshot, error) {
	var host HostSnapshot
	err := c.doJSON(ctx, http.MethodGet, hostPath(address), nil, &host)
	if err != nil {
		var apiErr *APIError
		if stderrors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: %w", ErrNotTracked, err)
		}
		return nil, err
	}
	return &host, nil
}

// History fetches the ascending sample series for a host.
func (c *Client) History(ctx context.Context, address string) ([]HistorySample, error) {
	var samples []HistorySample
	if err := c.doJSON(ctx, http.MethodGet, hostPath(address)+"/history", nil, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// AddHosts asks the backend to track every address in req.Range.
// On failure the returned error carries the backend's detail, see DetailOf.
func (c *Client) AddHosts(ctx context.Context, req AddHostsRequest) (*AddHostsResult, error) {
	var result AddHostsResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/hosts", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteHost stops tracking a host.
func (c *Client) DeleteHost(ctx context.Context, address string) error {
	return c.doJSON(ctx, http.MethodDelete, hostPath(address), nil, nil)
}

// Rescan triggers an immediate backend probe cycle. The response body is ignored.
func (c *Client) Rescan(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/rescan", nil, nil)
}

// SaveSettings posts a settings payload.
func (c *Client) SaveSettings(ctx context.Context, settings Settings) error {
	return c.doJSON(ctx, http.MethodPost, "/api/settings", settings, nil)
}

func hostPath(address string) string {
	return "/api/hosts/" + url.PathEscape(address)
}

// doJSON performs one request. body is JSON-encoded when non-nil; out, when
// non-nil, receives the decoded success body.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrInput,
				"Failed to encode request body", "")
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to build request for "+path,
			"Check server.url in netmon.yaml")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("%s %s failed after %s: %v", method, path, time.Since(start).Round(time.Millisecond), err)
		return errors.WrapWithCode(err, errors.ErrTransport,
			"Cannot reach the monitoring backend",
			"Check that the backend is running at "+c.baseURL)
	}
	defer resp.Body.Close()

	c.log.Debug("%s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr.Detail = parseDetail(raw)
		return errors.WrapWithCode(apiErr, errors.ErrAPI,
			fmt.Sprintf("Backend rejected %s %s (%d)", method, path, resp.StatusCode), "")
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapWithCode(err, errors.ErrDecode,
			fmt.Sprintf("Malformed response from %s %s", method, path),
			"Check that server.url points at the monitoring backend")
	}
	return nil
}

// parseDetail extracts {"detail": "..."} from an error body. Validation
// errors carry a structured detail, which is returned as compact JSON.
func parseDetail(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, envelope.Detail); err != nil {
		return ""
	}
	return buf.String()
}
