package banner

import (
	"fmt"

	"github.com/bannerctl/bannerctl/pkg/util"
)

// Desired is the requested state of one banner.
// Invariant: Present=true requires non-empty Text. Text is ignored when
// Present is false.
type Desired struct {
	Kind    Kind
	Text    string
	Present bool
}

// Current is the state read from the device. A banner that is not
// configured has Exists=false; Text is meaningful only when Exists.
type Current struct {
	Kind   Kind
	Text   string
	Exists bool
}

// Result is the outcome of a reconciliation. Payload is non-empty only
// when Changed is true.
type Result struct {
	Changed bool
	Payload string
}

// Reconcile decides whether current must change to match desired and,
// if so, returns the wire fragment to load.
//
// Text comparison is exact and case-sensitive; no whitespace
// normalization beyond what the device itself performs. Calling
// Reconcile again with a current state that reflects an applied Result
// yields Changed=false.
func Reconcile(desired Desired, current Current) (Result, error) {
	if !desired.Kind.Valid() {
		return Result{}, util.NewInvalidInputError(string(desired.Kind), "unknown banner kind")
	}
	if desired.Present && desired.Text == "" {
		return Result{}, util.NewInvalidInputError(string(desired.Kind), "present banner requires non-empty text")
	}
	if current.Kind != desired.Kind {
		return Result{}, util.NewInvalidInputError(string(desired.Kind),
			fmt.Sprintf("current state is for %s banner", current.Kind))
	}

	if desired.Present {
		if current.Exists && current.Text == desired.Text {
			return Result{}, nil
		}
		return Result{Changed: true, Payload: SetFragment(desired.Kind, desired.Text)}, nil
	}

	// Delete requested: a banner that is already absent is a no-op.
	if !current.Exists {
		return Result{}, nil
	}
	return Result{Changed: true, Payload: DeleteFragment(desired.Kind)}, nil
}
