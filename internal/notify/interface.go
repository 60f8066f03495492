package notify

import (
	"context"

	"codeberg.org/mutker/hostwatch/internal/metrics"
)

// Severity selects the report icon and marks alerts apart from routine
// status updates.
type Severity string

const (
	SeverityAlert Severity = "alert"
	SeverityInfo  Severity = "info"
)

// Notifier formats a report from a snapshot and dispatches it to the
// messaging backend. A returned error is informational: callers log it and
// rely on the next scheduled tick, never on retries.
type Notifier interface {
	Notify(ctx context.Context, title string, snap metrics.Snapshot, severity Severity) error
}
