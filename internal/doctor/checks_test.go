package doctor

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status   CheckStatus
		expected string
	}{
		{StatusPass, "pass"},
		{StatusWarn, "warn"},
		{StatusFail, "fail"},
		{CheckStatus(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
		})
	}
}

func TestCheckResult_JSON(t *testing.T) {
	data, err := json.Marshal(CheckResult{Name: "tunnel", Status: StatusWarn, Message: "slow"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"tunnel","status":"warn","message":"slow"}`, string(data))
}

// mockCheck is a test implementation of Check.
type mockCheck struct {
	name     string
	category string
	result   CheckResult
	fixed    CheckResult
	fixErr   error
	fixCalls int
	runs     atomic.Int32
}

func (m *mockCheck) Name() string     { return m.name }
func (m *mockCheck) Category() string { return m.category }
func (m *mockCheck) Run(context.Context) CheckResult {
	m.runs.Add(1)
	if m.fixCalls > 0 && m.fixErr == nil {
		return m.fixed
	}
	return m.result
}
func (m *mockCheck) Fix() error {
	m.fixCalls++
	return m.fixErr
}

func TestRunAll(t *testing.T) {
	checks := []Check{
		&mockCheck{name: "a", category: CategoryConfig, result: CheckResult{Name: "a", Status: StatusPass}},
		&mockCheck{name: "b", category: CategoryTunnel, result: CheckResult{Name: "b", Status: StatusFail}},
		&mockCheck{name: "c", category: CategoryBackend, result: CheckResult{Name: "c", Status: StatusWarn}},
		&mockCheck{name: "d", category: CategoryBackend, result: CheckResult{Name: "d", Status: StatusPass}},
		&mockCheck{name: "e", category: CategoryBackend, result: CheckResult{Name: "e", Status: StatusPass}},
	}

	results := RunAll(context.Background(), checks)

	require.Len(t, results, len(checks))
	for i, r := range results {
		assert.Equal(t, checks[i].Name(), r.Name, "results keep check order")
		assert.EqualValues(t, 1, checks[i].(*mockCheck).runs.Load())
	}
}

func TestFixAll(t *testing.T) {
	fixable := &mockCheck{
		name:   "perm",
		result: CheckResult{Name: "perm", Status: StatusWarn, Fixable: true},
		fixed:  CheckResult{Name: "perm", Status: StatusPass},
	}
	notFixable := &mockCheck{
		name:   "agent",
		result: CheckResult{Name: "agent", Status: StatusWarn},
	}
	brokenFix := &mockCheck{
		name:   "broken",
		result: CheckResult{Name: "broken", Status: StatusFail, Fixable: true},
		fixErr: assert.AnError,
	}
	checks := []Check{fixable, notFixable, brokenFix}

	results := FixAll(context.Background(), checks, RunAll(context.Background(), checks))

	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, 1, fixable.fixCalls)
	assert.Equal(t, 0, notFixable.fixCalls)
	assert.Equal(t, 1, brokenFix.fixCalls)
	assert.Equal(t, StatusFail, results[2].Status, "a failed fix keeps the old result")
}

func TestGroupByCategory(t *testing.T) {
	checks := []Check{
		&mockCheck{name: "a", category: CategoryConfig},
		&mockCheck{name: "b", category: CategoryBackend},
		&mockCheck{name: "c", category: CategoryConfig},
	}

	assert.Equal(t, map[string][]int{
		CategoryConfig:  {0, 2},
		CategoryBackend: {1},
	}, GroupByCategory(checks))
}

func TestCountsAndSummary(t *testing.T) {
	results := []CheckResult{
		{Status: StatusPass},
		{Status: StatusWarn, Fixable: true},
		{Status: StatusFail},
		{Status: StatusPass, Fixable: true},
	}

	counts := CountByStatus(results)
	assert.Equal(t, 2, counts[StatusPass])
	assert.Equal(t, 1, counts[StatusWarn])
	assert.Equal(t, 1, counts[StatusFail])
	assert.True(t, HasFailures(results))
	assert.True(t, HasIssues(results))
	assert.Equal(t, 1, FixableCount(results))
	assert.Equal(t, "2 issues found", Summary(results))

	warnOnly := []CheckResult{{Status: StatusPass}, {Status: StatusWarn}}
	assert.False(t, HasFailures(warnOnly))
	assert.True(t, HasIssues(warnOnly))
	assert.Equal(t, "1 issue found", Summary(warnOnly))

	clean := []CheckResult{{Status: StatusPass}}
	assert.False(t, HasIssues(clean))
	assert.Equal(t, "Everything looks good", Summary(clean))
}
