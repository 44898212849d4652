// Package banner implements idempotent reconciliation of device login
// and MOTD banners. Reconcile is a pure function: it compares desired
// against current state and, when they differ, produces the exact XML
// fragment the device transport must load.
package banner

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/bannerctl/bannerctl/pkg/util"
)

// Kind identifies a banner class.
type Kind string

const (
	// Login is the banner shown before authentication.
	Login Kind = "login"
	// MOTD is the banner shown after connection.
	MOTD Kind = "motd"
)

// wireElements maps each banner kind to the configuration element that
// carries it. Fixed table so the mapping stays exhaustive: a kind
// without an entry here fails Valid() before any fragment is built.
var wireElements = map[Kind]string{
	Login: "message",
	MOTD:  "announcement",
}

// Valid reports whether k is a known banner kind.
func (k Kind) Valid() bool {
	_, ok := wireElements[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}

// Element returns the wire element name for this kind.
// Panics on unknown kinds; callers validate via Valid() or ParseKind.
func (k Kind) Element() string {
	elem, ok := wireElements[k]
	if !ok {
		panic(fmt.Sprintf("banner: unknown kind %q", string(k)))
	}
	return elem
}

// ParseKind converts a string (e.g. from a spec file) to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(s))
	if !k.Valid() {
		return "", util.NewInvalidInputError(s, "unknown banner kind")
	}
	return k, nil
}

// Kinds returns all known banner kinds in a stable order.
func Kinds() []Kind {
	return []Kind{Login, MOTD}
}

// SetFragment builds the wire fragment that sets the banner text.
// The text is XML-escaped; the device receives it byte-exact otherwise.
func SetFragment(k Kind, text string) string {
	elem := k.Element()
	var b strings.Builder
	b.WriteString("<" + elem + ">")
	// strings.Builder never returns a write error.
	_ = xml.EscapeText(&b, []byte(text))
	b.WriteString("</" + elem + ">")
	return b.String()
}

// DeleteFragment builds the wire fragment that removes the banner.
func DeleteFragment(k Kind) string {
	return fmt.Sprintf(`<%s delete="delete" />`, k.Element())
}
