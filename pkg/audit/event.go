// Package audit provides audit logging for banner configuration changes.
package audit

import (
	"time"

	"github.com/bannerctl/bannerctl/pkg/device"
)

// Event represents one reconciliation outcome on one device.
type Event struct {
	Timestamp time.Time       `json:"timestamp"`
	Device    string          `json:"device"`
	Operation string          `json:"operation"`
	Changes   []device.Change `json:"changes"`
	Changed   bool            `json:"changed"`
	DryRun    bool            `json:"dry_run"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	Duration  time.Duration   `json:"duration"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	Device      string
	Operation   string
	StartTime   time.Time
	EndTime     time.Time
	ChangedOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}
