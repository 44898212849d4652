package device

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bannerctl/bannerctl/pkg/banner"
)

// ChangeType represents the type of configuration change.
type ChangeType string

const (
	ChangeTypeSet    ChangeType = "set"
	ChangeTypeDelete ChangeType = "delete"
)

// Change represents a single banner change. Payload is the wire
// fragment the reconciler produced for it.
type Change struct {
	Kind    banner.Kind `json:"kind"`
	Type    ChangeType  `json:"type"`
	Old     string      `json:"old,omitempty"`
	New     string      `json:"new,omitempty"`
	Payload string      `json:"payload"`
}

// ChangeSet represents the banner changes one operation computed for one
// device. An empty ChangeSet means the device already matches.
type ChangeSet struct {
	Device       string    `json:"device"`
	Operation    string    `json:"operation"`
	Timestamp    time.Time `json:"timestamp"`
	Changes      []Change  `json:"changes"`
	AppliedCount int       `json:"applied_count"` // changes written by Apply; 0 before Apply
}

// NewChangeSet creates a new ChangeSet.
func NewChangeSet(device, operation string) *ChangeSet {
	return &ChangeSet{
		Device:    device,
		Operation: operation,
		Timestamp: time.Now(),
		Changes:   make([]Change, 0),
	}
}

// Add adds a change to the set.
func (cs *ChangeSet) Add(c Change) {
	cs.Changes = append(cs.Changes, c)
}

// Merge appends all changes from other into cs.
func (cs *ChangeSet) Merge(other *ChangeSet) {
	cs.Changes = append(cs.Changes, other.Changes...)
}

// IsEmpty returns true if there are no changes.
func (cs *ChangeSet) IsEmpty() bool {
	return len(cs.Changes) == 0
}

// String returns a human-readable representation of the changes.
func (cs *ChangeSet) String() string {
	if cs.IsEmpty() {
		return "No changes"
	}

	var sb strings.Builder
	for _, c := range cs.Changes {
		switch c.Type {
		case ChangeTypeSet:
			sb.WriteString(fmt.Sprintf("  [SET] %s banner → %q\n", c.Kind, c.New))
		case ChangeTypeDelete:
			sb.WriteString(fmt.Sprintf("  [DEL] %s banner (was %q)\n", c.Kind, c.Old))
		}
	}
	return sb.String()
}

// Preview returns a formatted preview of the changes.
func (cs *ChangeSet) Preview() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Operation: %s\n", cs.Operation))
	sb.WriteString(fmt.Sprintf("Device: %s\n", cs.Device))
	sb.WriteString(fmt.Sprintf("Changes:\n%s", cs.String()))
	return sb.String()
}

// Apply writes the changes to the device's candidate datastore and
// commits them.
func (cs *ChangeSet) Apply(d *Device) error {
	if err := d.ApplyChanges(cs.Changes); err != nil {
		return err
	}
	cs.AppliedCount = len(cs.Changes)
	return nil
}

// VerificationError records one banner whose post-apply state does not
// match the change set.
type VerificationError struct {
	Kind     banner.Kind `json:"kind"`
	Expected string      `json:"expected"`
	Actual   string      `json:"actual"`
}

// VerificationResult summarizes a post-apply verification pass.
type VerificationResult struct {
	Passed int                 `json:"passed"`
	Failed int                 `json:"failed"`
	Errors []VerificationError `json:"errors,omitempty"`
}

// Verify re-reads banner state from the device and confirms every change
// took effect: set changes must show the new text, delete changes must
// show no banner.
func (cs *ChangeSet) Verify(ctx context.Context, d *Device) (*VerificationResult, error) {
	result := &VerificationResult{}

	for _, c := range cs.Changes {
		current, err := d.GetBanner(ctx, c.Kind)
		if err != nil {
			return nil, err
		}

		switch c.Type {
		case ChangeTypeSet:
			if current.Exists && current.Text == c.New {
				result.Passed++
			} else {
				result.Failed++
				actual := "(absent)"
				if current.Exists {
					actual = current.Text
				}
				result.Errors = append(result.Errors, VerificationError{
					Kind:     c.Kind,
					Expected: c.New,
					Actual:   actual,
				})
			}
		case ChangeTypeDelete:
			if !current.Exists {
				result.Passed++
			} else {
				result.Failed++
				result.Errors = append(result.Errors, VerificationError{
					Kind:     c.Kind,
					Expected: "(absent)",
					Actual:   current.Text,
				})
			}
		}
	}

	return result, nil
}
