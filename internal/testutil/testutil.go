// Package testutil provides shared test helpers: a fake NETCONF session
// with canned replies and spec-file fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Juniper/go-netconf/netconf"
)

// FakeSession implements the device session interface without a network.
// Get-config replies serve the configured banner state; edit-config
// calls against it update that state so idempotence can be exercised
// end to end. Every RPC sent is recorded in Calls.
type FakeSession struct {
	mu sync.Mutex

	// Banner state served by get-config. Nil means absent.
	LoginBanner *string
	MOTDBanner  *string

	// ExecErr, when set, fails every Exec call.
	ExecErr error
	// RPCErrors, when set, is returned inside the next reply.
	RPCErrors []netconf.RPCError

	Calls  []string
	Closed bool
}

// Str returns a pointer to s, for banner-state fixtures.
func Str(s string) *string {
	return &s
}

// Exec records the RPC and answers from the fake banner state.
func (f *FakeSession) Exec(methods ...netconf.RPCMethod) (*netconf.RPCReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var raw strings.Builder
	for _, m := range methods {
		raw.WriteString(m.MarshalMethod())
	}
	rpc := raw.String()
	f.Calls = append(f.Calls, rpc)

	if f.ExecErr != nil {
		return nil, f.ExecErr
	}
	if len(f.RPCErrors) > 0 {
		reply := &netconf.RPCReply{Errors: f.RPCErrors}
		f.RPCErrors = nil
		return reply, nil
	}

	switch {
	case strings.Contains(rpc, "<get-config>"):
		return &netconf.RPCReply{Data: f.loginReplyData()}, nil
	case strings.Contains(rpc, "<edit-config>"):
		f.applyEdit(rpc)
		return &netconf.RPCReply{Ok: true}, nil
	default:
		// lock, unlock, commit
		return &netconf.RPCReply{Ok: true}, nil
	}
}

// Close marks the session closed.
func (f *FakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// CallsMatching returns the recorded RPCs containing substr.
func (f *FakeSession) CallsMatching(substr string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, c := range f.Calls {
		if strings.Contains(c, substr) {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeSession) loginReplyData() string {
	var b strings.Builder
	b.WriteString("<data><configuration><system><login>")
	if f.LoginBanner != nil {
		b.WriteString("<message>" + *f.LoginBanner + "</message>")
	}
	if f.MOTDBanner != nil {
		b.WriteString("<announcement>" + *f.MOTDBanner + "</announcement>")
	}
	b.WriteString("</login></system></configuration></data>")
	return b.String()
}

// applyEdit updates the fake banner state from an edit-config payload.
// Only the exact fragment shapes the reconciler emits are understood.
func (f *FakeSession) applyEdit(rpc string) {
	switch {
	case strings.Contains(rpc, `<message delete="delete" />`):
		f.LoginBanner = nil
	case strings.Contains(rpc, `<announcement delete="delete" />`):
		f.MOTDBanner = nil
	case strings.Contains(rpc, "<message>"):
		f.LoginBanner = Str(between(rpc, "<message>", "</message>"))
	case strings.Contains(rpc, "<announcement>"):
		f.MOTDBanner = Str(between(rpc, "<announcement>", "</announcement>"))
	}
}

func between(s, open, close string) string {
	start := strings.Index(s, open)
	if start < 0 {
		return ""
	}
	start += len(open)
	end := strings.Index(s[start:], close)
	if end < 0 {
		return ""
	}
	return s[start : start+end]
}

// WriteSpecFile writes a spec fixture into a temp dir and returns its path.
func WriteSpecFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "banners.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing spec fixture: %v", err)
	}
	return path
}

// DeviceYAML renders a minimal device entry for spec fixtures.
func DeviceYAML(name, host string, banners string) string {
	return fmt.Sprintf(`  - name: %s
    host: %s
    username: admin
    password: secret
    banners:
%s`, name, host, banners)
}
