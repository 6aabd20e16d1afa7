package monitor

import (
	"time"

	"github.com/koltont40/networkmonitoring/internal/api"
)

// ShouldFetchHistory reports whether a snapshot carries a sample the charts
// have not rendered yet. With nothing rendered the answer is always yes.
// Otherwise last_checked must be strictly newer than the last rendered
// sample; a missing last_checked never triggers a fetch.
func ShouldFetchHistory(lastChecked *api.Timestamp, lastRendered *time.Time) bool {
	if lastRendered == nil {
		return true
	}
	if lastChecked == nil {
		return false
	}
	return lastChecked.After(*lastRendered)
}
