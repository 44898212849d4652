// Package device manages NETCONF-managed network devices: session
// lifecycle, candidate-datastore locking, banner state reads, and
// applying reconciler-produced change sets.
package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/Juniper/go-netconf/netconf"

	"github.com/bannerctl/bannerctl/pkg/spec"
	"github.com/bannerctl/bannerctl/pkg/util"
)

// Device represents one NETCONF-managed device.
//
// Write episodes follow connect -> lock -> build changes -> apply ->
// unlock -> disconnect. Operations that touch the session serialize on
// the device mutex; reconciliation itself is pure and shares nothing
// between devices.
type Device struct {
	name    string
	profile *spec.DeviceSpec

	session   Session
	dial      DialFunc
	connected bool
	locked    bool

	mu sync.RWMutex
}

// NewDevice creates a device from its profile. No connection is made
// until Connect.
func NewDevice(name string, profile *spec.DeviceSpec) *Device {
	return NewDeviceWithDial(name, profile, dialNetconf)
}

// NewDeviceWithDial creates a device with a custom dial function.
// Tests use this to substitute a fake session.
func NewDeviceWithDial(name string, profile *spec.DeviceSpec, dial DialFunc) *Device {
	return &Device{name: name, profile: profile, dial: dial}
}

// Name returns the device name.
func (d *Device) Name() string {
	return d.name
}

// Connect establishes the NETCONF session.
func (d *Device) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s, err := d.dial(d.profile)
	if err != nil {
		return util.NewTransportError(d.name, "connect", err)
	}
	d.session = s
	d.connected = true
	util.WithDevice(d.name).Info("Connected")
	return nil
}

// Disconnect releases the lock if held and closes the session.
func (d *Device) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	if d.locked {
		if _, err := d.exec("unlock", rpcUnlock()); err != nil {
			util.WithDevice(d.name).Warnf("Failed to release candidate lock: %v", err)
		}
		d.locked = false
	}

	err := d.session.Close()
	d.session = nil
	d.connected = false
	util.WithDevice(d.name).Info("Disconnected")

	if err != nil {
		return util.NewTransportError(d.name, "close", err)
	}
	return nil
}

// IsConnected returns true if the session is established.
func (d *Device) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// IsLocked returns true if the candidate datastore is locked.
func (d *Device) IsLocked() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.locked
}

// Lock acquires the candidate-datastore lock. Required before any write.
func (d *Device) Lock(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return util.NewPreconditionError("lock", d.name, "device must be connected", util.ErrNotConnected)
	}
	if d.locked {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := d.exec("lock", rpcLock()); err != nil {
		return err
	}
	d.locked = true
	util.WithDevice(d.name).Debugf("Candidate lock acquired")
	return nil
}

// Unlock releases the candidate-datastore lock.
func (d *Device) Unlock() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.locked {
		return nil
	}

	if _, err := d.exec("unlock", rpcUnlock()); err != nil {
		return err
	}
	d.locked = false
	util.WithDevice(d.name).Debugf("Candidate lock released")
	return nil
}

// RequireConnected returns an error if not connected.
func (d *Device) RequireConnected(operation string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return util.NewPreconditionError(operation, d.name, "device must be connected", util.ErrNotConnected)
	}
	return nil
}

// RequireLocked returns an error if not connected or not locked.
func (d *Device) RequireLocked(operation string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return util.NewPreconditionError(operation, d.name, "device must be connected", util.ErrNotConnected)
	}
	if !d.locked {
		return util.NewPreconditionError(operation, d.name, "device must be locked for changes", util.ErrNotLocked)
	}
	return nil
}

// exec sends one RPC and surfaces any failure as a TransportError.
// Callers hold the device mutex.
func (d *Device) exec(op string, m netconf.RPCMethod) (*netconf.RPCReply, error) {
	reply, err := d.session.Exec(m)
	if err != nil {
		return nil, util.NewTransportError(d.name, op, err)
	}
	for i := range reply.Errors {
		if reply.Errors[i].Severity == "error" {
			return nil, util.NewTransportError(d.name, op,
				fmt.Errorf("rpc-error: %s", reply.Errors[i].Message))
		}
	}
	return reply, nil
}
