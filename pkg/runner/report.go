package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/bannerctl/bannerctl/pkg/device"
)

// DeviceResult is the outcome of reconciling one device.
type DeviceResult struct {
	Device       string
	ChangeSet    *device.ChangeSet
	Verification *device.VerificationResult
	// Skipped counts banners already in their desired state.
	Skipped  int
	Err      error
	Duration time.Duration
}

// Changed returns the number of changes computed for the device.
func (r *DeviceResult) Changed() int {
	if r.ChangeSet == nil {
		return 0
	}
	return len(r.ChangeSet.Changes)
}

// OK returns true if the device reconciled without error.
func (r *DeviceResult) OK() bool {
	return r.Err == nil
}

// Report collects the results of one run across all devices.
type Report struct {
	Results []DeviceResult
	DryRun  bool
}

// Failed returns the number of devices that ended in error.
func (r *Report) Failed() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Err != nil {
			n++
		}
	}
	return n
}

// TotalChanges returns the number of changes across all devices.
func (r *Report) TotalChanges() int {
	n := 0
	for i := range r.Results {
		n += r.Results[i].Changed()
	}
	return n
}

// OK returns true if every device reconciled without error.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Summary returns a human-readable run summary, one line per device.
func (r *Report) Summary() string {
	var sb strings.Builder
	for i := range r.Results {
		res := &r.Results[i]
		switch {
		case res.Err != nil:
			sb.WriteString(fmt.Sprintf("%-16s FAILED: %v\n", res.Device, res.Err))
		case res.Changed() == 0:
			sb.WriteString(fmt.Sprintf("%-16s ok (no changes)\n", res.Device))
		default:
			verb := "changed"
			if r.DryRun {
				verb = "would change"
			}
			sb.WriteString(fmt.Sprintf("%-16s %s %d banner(s)\n", res.Device, verb, res.Changed()))
		}
	}
	sb.WriteString(fmt.Sprintf("%d device(s), %d change(s), %d failure(s)\n",
		len(r.Results), r.TotalChanges(), r.Failed()))
	return sb.String()
}
