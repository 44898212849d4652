package device

import (
	"context"
	"errors"
	"testing"

	"github.com/Juniper/go-netconf/netconf"

	"github.com/bannerctl/bannerctl/internal/testutil"
	"github.com/bannerctl/bannerctl/pkg/spec"
	"github.com/bannerctl/bannerctl/pkg/util"
)

func rpcErrorList(msg string) []netconf.RPCError {
	return []netconf.RPCError{{Severity: "error", Message: msg}}
}

func testProfile() *spec.DeviceSpec {
	return &spec.DeviceSpec{
		Name:     "edge1",
		Host:     "192.0.2.10",
		Port:     830,
		Username: "admin",
		Password: "secret",
		Timeout:  5,
	}
}

// fakeDevice returns a device wired to a fake session.
func fakeDevice(fake *testutil.FakeSession) *Device {
	return NewDeviceWithDial("edge1", testProfile(), func(*spec.DeviceSpec) (Session, error) {
		return fake, nil
	})
}

func TestConnectDisconnect(t *testing.T) {
	fake := &testutil.FakeSession{}
	d := fakeDevice(fake)
	ctx := context.Background()

	if d.IsConnected() {
		t.Fatal("new device reports connected")
	}
	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !d.IsConnected() {
		t.Fatal("device not connected after Connect")
	}

	// Second connect is a no-op.
	if err := d.Connect(ctx); err != nil {
		t.Fatalf("repeat Connect() error = %v", err)
	}

	if err := d.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if d.IsConnected() {
		t.Fatal("device still connected after Disconnect")
	}
	if !fake.Closed {
		t.Error("session not closed on Disconnect")
	}
}

func TestConnectDialFailure(t *testing.T) {
	dialErr := errors.New("connection refused")
	d := NewDeviceWithDial("edge1", testProfile(), func(*spec.DeviceSpec) (Session, error) {
		return nil, dialErr
	})

	err := d.Connect(context.Background())
	if err == nil {
		t.Fatal("Connect() succeeded with failing dialer")
	}
	if !errors.Is(err, util.ErrTransport) {
		t.Errorf("error %v does not match ErrTransport", err)
	}
	if !errors.Is(err, dialErr) {
		t.Errorf("error %v does not propagate the dial error", err)
	}
	if d.IsConnected() {
		t.Error("device reports connected after failed dial")
	}
}

func TestLockUnlock(t *testing.T) {
	fake := &testutil.FakeSession{}
	d := fakeDevice(fake)
	ctx := context.Background()

	if err := d.Lock(ctx); err == nil {
		t.Fatal("Lock() succeeded before Connect")
	}

	if err := d.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	if err := d.Lock(ctx); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if !d.IsLocked() {
		t.Fatal("device not locked after Lock")
	}
	if len(fake.CallsMatching("<lock>")) != 1 {
		t.Errorf("expected one lock RPC, got %d", len(fake.CallsMatching("<lock>")))
	}

	// Second lock is a no-op.
	if err := d.Lock(ctx); err != nil {
		t.Fatalf("repeat Lock() error = %v", err)
	}
	if len(fake.CallsMatching("<lock>")) != 1 {
		t.Errorf("repeat Lock sent another lock RPC")
	}

	if err := d.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if d.IsLocked() {
		t.Fatal("device still locked after Unlock")
	}
}

func TestDisconnectReleasesLock(t *testing.T) {
	fake := &testutil.FakeSession{}
	d := fakeDevice(fake)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	if err := d.Lock(ctx); err != nil {
		t.Fatal(err)
	}
	if err := d.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if len(fake.CallsMatching("<unlock>")) != 1 {
		t.Errorf("Disconnect did not release the candidate lock")
	}
}

func TestRequirePreconditions(t *testing.T) {
	fake := &testutil.FakeSession{}
	d := fakeDevice(fake)
	ctx := context.Background()

	err := d.RequireLocked("ensure-banner")
	if !errors.Is(err, util.ErrNotConnected) {
		t.Errorf("RequireLocked on new device = %v, want ErrNotConnected", err)
	}

	if err := d.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	err = d.RequireLocked("ensure-banner")
	if !errors.Is(err, util.ErrNotLocked) {
		t.Errorf("RequireLocked on unlocked device = %v, want ErrNotLocked", err)
	}

	if err := d.RequireConnected("get-banners"); err != nil {
		t.Errorf("RequireConnected on connected device = %v", err)
	}
}

func TestExecSurfacesRPCErrors(t *testing.T) {
	fake := &testutil.FakeSession{}
	d := fakeDevice(fake)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatal(err)
	}

	fake.RPCErrors = rpcErrorList("access denied")
	err := d.Lock(ctx)
	if err == nil {
		t.Fatal("Lock() ignored rpc-error reply")
	}
	if !errors.Is(err, util.ErrTransport) {
		t.Errorf("rpc-error surfaced as %v, want ErrTransport match", err)
	}
	if d.IsLocked() {
		t.Error("device locked despite rpc-error")
	}
}
