package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/koltont40/networkmonitoring/internal/errors"
)

// HostLister is the part of the API client the backend check needs.
type HostLister interface {
	ListHosts(ctx context.Context, reachableOnly bool) ([]api.HostSnapshot, error)
}

// BackendCheck lists hosts once to prove the backend answers with the
// expected API.
type BackendCheck struct {
	URL string
	// Connect builds the client. It fails when the tunnel can't be opened.
	Connect func() (HostLister, error)
}

func (c *BackendCheck) Name() string     { return "backend" }
func (c *BackendCheck) Category() string { return CategoryBackend }

func (c *BackendCheck) Run(ctx context.Context) CheckResult {
	client, err := c.Connect()
	if err != nil {
		return failure(c.Name(), err, "Fix the tunnel checks above first")
	}

	start := time.Now()
	hosts, err := client.ListHosts(ctx, false)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		return c.classify(err)
	}

	result := CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Backend at %s answered in %s, %d host%s tracked", c.URL, elapsed, len(hosts), pluralize(len(hosts))),
	}
	if len(hosts) == 0 {
		result.Status = StatusWarn
		result.Suggestion = "Start monitoring with: netmon hosts add 10.0.0.0/28"
	}
	return result
}

func (c *BackendCheck) Fix() error { return nil }

func (c *BackendCheck) classify(err error) CheckResult {
	var apiErr *api.APIError
	switch {
	case stderrors.As(err, &apiErr):
		msg := fmt.Sprintf("Backend at %s answered HTTP %d", c.URL, apiErr.Status)
		if apiErr.Detail != "" {
			msg += ": " + apiErr.Detail
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    msg,
			Suggestion: "Check the backend log, and that server.url has no extra path",
		}
	case errors.IsCode(err, errors.ErrDecode):
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s doesn't look like the monitoring backend", c.URL),
			Suggestion: "Check server.url points at the backend, not a proxy or UI",
		}
	}
	return failure(c.Name(), err, "Check that the backend is running at "+c.URL)
}

// NewBackendChecks creates the backend checks.
func NewBackendChecks(url string, connect func() (HostLister, error)) []Check {
	return []Check{&BackendCheck{URL: url, Connect: connect}}
}
