// Package doctor runs the diagnostics behind 'netmon doctor': config,
// backend reachability and, when a tunnel is configured, SSH.
package doctor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText makes the status render as its name in JSON.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name written by MarshalText.
func (s *CheckStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pass":
		*s = StatusPass
	case "warn":
		*s = StatusWarn
	case "fail":
		*s = StatusFail
	default:
		return fmt.Errorf("unknown check status %q", text)
	}
	return nil
}

// Categories in report order.
const (
	CategoryConfig  = "CONFIG"
	CategoryTunnel  = "TUNNEL"
	CategoryBackend = "BACKEND"
)

// CategoryOrder is the order categories are reported in.
var CategoryOrder = []string{CategoryConfig, CategoryTunnel, CategoryBackend}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Fixable    bool        `json:"fixable,omitempty"` // Whether --fix can address this
}

// Check defines the interface for diagnostic checks.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Category returns the check's category (e.g., "CONFIG", "TUNNEL").
	Category() string

	// Run executes the check and returns the result.
	Run(ctx context.Context) CheckResult

	// Fix attempts to automatically fix the issue (if supported).
	// Returns nil if fix was successful or not applicable.
	Fix() error
}

// maxParallelChecks bounds how many checks run at once.
const maxParallelChecks = 4

// RunAll executes all checks concurrently. Results keep the order of checks.
func RunAll(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	var g errgroup.Group
	g.SetLimit(maxParallelChecks)
	for i, check := range checks {
		g.Go(func() error {
			results[i] = check.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// FixAll runs Fix on every fixable issue and re-runs the check.
func FixAll(ctx context.Context, checks []Check, results []CheckResult) []CheckResult {
	for i, result := range results {
		if result.Fixable && result.Status != StatusPass {
			if err := checks[i].Fix(); err == nil {
				results[i] = checks[i].Run(ctx)
			}
		}
	}
	return results
}

// GroupByCategory maps each category to the indices of its checks.
func GroupByCategory(checks []Check) map[string][]int {
	grouped := make(map[string][]int)
	for i, check := range checks {
		cat := check.Category()
		grouped[cat] = append(grouped[cat], i)
	}
	return grouped
}

// CountByStatus counts results by status.
func CountByStatus(results []CheckResult) map[CheckStatus]int {
	counts := make(map[CheckStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// HasFailures returns true if any result has a fail status.
func HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// HasIssues returns true if any result has a fail or warn status.
func HasIssues(results []CheckResult) bool {
	for _, r := range results {
		if r.Status != StatusPass {
			return true
		}
	}
	return false
}

// FixableCount returns the number of issues that can be fixed automatically.
func FixableCount(results []CheckResult) int {
	count := 0
	for _, r := range results {
		if r.Fixable && r.Status != StatusPass {
			count++
		}
	}
	return count
}

// Summary returns a summary string of the check results.
func Summary(results []CheckResult) string {
	counts := CountByStatus(results)
	total := counts[StatusWarn] + counts[StatusFail]
	if total == 0 {
		return "Everything looks good"
	}
	return fmt.Sprintf("%d issue%s found", total, pluralize(total))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
