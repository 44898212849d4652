// Package runner reconciles banner state across all devices of a spec
// file. Each device runs independently: connect, lock the candidate
// datastore, compute banner changes, apply and commit (or preview in
// dry-run), unlock, disconnect.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/bannerctl/bannerctl/pkg/audit"
	"github.com/bannerctl/bannerctl/pkg/banner"
	"github.com/bannerctl/bannerctl/pkg/device"
	"github.com/bannerctl/bannerctl/pkg/spec"
	"github.com/bannerctl/bannerctl/pkg/util"
	"github.com/bannerctl/bannerctl/pkg/version"
)

// Options controls a reconciliation run.
type Options struct {
	// DryRun computes and reports changes without applying them.
	DryRun bool
	// Verify re-reads banner state after apply and confirms it matches.
	Verify bool
	// Dial overrides the device dial function. Tests use it; zero means
	// NETCONF over SSH.
	Dial device.DialFunc
}

// Runner reconciles the devices of one spec file.
type Runner struct {
	file *spec.File
	opts Options
}

// New creates a Runner for a loaded spec.
func New(file *spec.File, opts Options) *Runner {
	return &Runner{file: file, opts: opts}
}

// Run reconciles every device concurrently and collects per-device
// results. Reconciliations share no state, so a failure on one device
// never blocks the others.
func (r *Runner) Run(ctx context.Context) *Report {
	util.Infof("bannerctl %s reconciling %d device(s)", version.Info(), len(r.file.Devices))

	report := &Report{
		Results: make([]DeviceResult, len(r.file.Devices)),
		DryRun:  r.opts.DryRun,
	}

	var wg sync.WaitGroup
	for i := range r.file.Devices {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report.Results[i] = r.runDevice(ctx, &r.file.Devices[i])
		}(i)
	}
	wg.Wait()

	return report
}

func (r *Runner) runDevice(ctx context.Context, ds *spec.DeviceSpec) DeviceResult {
	start := time.Now()
	result := DeviceResult{Device: ds.Name}

	defer func() {
		result.Duration = time.Since(start)
		r.logAudit(&result)
	}()

	desireds := make([]banner.Desired, 0, len(ds.Banners))
	for i := range ds.Banners {
		d, err := ds.Banners[i].Desired()
		if err != nil {
			result.Err = err
			return result
		}
		desireds = append(desireds, d)
	}

	var d *device.Device
	if r.opts.Dial != nil {
		d = device.NewDeviceWithDial(ds.Name, ds, r.opts.Dial)
	} else {
		d = device.NewDevice(ds.Name, ds)
	}

	if err := d.Connect(ctx); err != nil {
		result.Err = err
		return result
	}
	defer func() {
		if err := d.Disconnect(); err != nil {
			util.WithDevice(ds.Name).Warnf("Disconnect failed: %v", err)
		}
	}()

	if err := d.Lock(ctx); err != nil {
		result.Err = err
		return result
	}
	defer func() {
		if err := d.Unlock(); err != nil {
			util.WithDevice(ds.Name).Warnf("Unlock failed: %v", err)
		}
	}()

	cs, err := d.EnsureBanners(ctx, desireds)
	if err != nil {
		result.Err = err
		return result
	}
	result.ChangeSet = cs
	result.Skipped = len(desireds) - len(cs.Changes)

	if cs.IsEmpty() {
		util.WithDevice(ds.Name).Info("All banners in desired state")
		return result
	}

	if r.opts.DryRun {
		util.WithDevice(ds.Name).Infof("Dry run, would apply:\n%s", cs.String())
		return result
	}

	if err := cs.Apply(d); err != nil {
		result.Err = err
		return result
	}

	if r.opts.Verify {
		verification, err := cs.Verify(ctx, d)
		if err != nil {
			result.Err = err
			return result
		}
		result.Verification = verification
		if verification.Failed > 0 {
			util.WithDevice(ds.Name).Warnf("Verification failed for %d change(s)", verification.Failed)
		}
	}

	return result
}

func (r *Runner) logAudit(result *DeviceResult) {
	event := &audit.Event{
		Timestamp: time.Now(),
		Device:    result.Device,
		Operation: "banner.ensure",
		Changed:   result.Changed() > 0,
		DryRun:    r.opts.DryRun,
		Success:   result.Err == nil,
		Duration:  result.Duration,
	}
	if result.ChangeSet != nil {
		event.Changes = result.ChangeSet.Changes
	}
	if result.Err != nil {
		event.Error = result.Err.Error()
	}
	if err := audit.Log(event); err != nil {
		util.WithDevice(result.Device).Warnf("Audit log failed: %v", err)
	}
}
