package device

import (
	"context"
	"fmt"

	"github.com/bannerctl/bannerctl/pkg/banner"
	"github.com/bannerctl/bannerctl/pkg/util"
)

// GetBanners reads the current state of all banners from the running
// configuration in a single get-config.
func (d *Device) GetBanners(ctx context.Context) (map[banner.Kind]banner.Current, error) {
	if err := d.RequireConnected("get-banners"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	reply, err := d.exec("get-config", rpcGetLoginConfig())
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return parseLoginConfig(reply.Data)
}

// GetBanner reads the current state of one banner.
func (d *Device) GetBanner(ctx context.Context, kind banner.Kind) (banner.Current, error) {
	if !kind.Valid() {
		return banner.Current{}, util.NewInvalidInputError(string(kind), "unknown banner kind")
	}

	banners, err := d.GetBanners(ctx)
	if err != nil {
		return banner.Current{}, err
	}
	return banners[kind], nil
}

// EnsureBanner computes the change needed to bring one banner to its
// desired state. The returned ChangeSet is empty when the device already
// matches; the caller decides whether to Apply it, so previewing a
// change costs nothing.
func (d *Device) EnsureBanner(ctx context.Context, desired banner.Desired) (*ChangeSet, error) {
	if err := d.RequireLocked("ensure-banner"); err != nil {
		return nil, err
	}

	current, err := d.GetBanner(ctx, desired.Kind)
	if err != nil {
		return nil, err
	}

	res, err := banner.Reconcile(desired, current)
	if err != nil {
		return nil, err
	}

	cs := NewChangeSet(d.name, "banner.ensure")
	if !res.Changed {
		util.WithDevice(d.name).Debugf("%s banner already in desired state", desired.Kind)
		return cs, nil
	}

	change := Change{Kind: desired.Kind, Payload: res.Payload}
	if desired.Present {
		change.Type = ChangeTypeSet
		change.New = desired.Text
	} else {
		change.Type = ChangeTypeDelete
	}
	if current.Exists {
		change.Old = current.Text
	}
	cs.Add(change)

	util.WithDevice(d.name).Infof("Computed %s change for %s banner", change.Type, desired.Kind)
	return cs, nil
}

// EnsureBanners runs EnsureBanner for each desired state and merges the
// results into one ChangeSet.
func (d *Device) EnsureBanners(ctx context.Context, desireds []banner.Desired) (*ChangeSet, error) {
	cs := NewChangeSet(d.name, "banner.ensure")
	for _, desired := range desireds {
		sub, err := d.EnsureBanner(ctx, desired)
		if err != nil {
			return nil, fmt.Errorf("%s banner: %w", desired.Kind, err)
		}
		cs.Merge(sub)
	}
	return cs, nil
}

// ApplyChanges loads each wire fragment into the candidate datastore and
// commits. Pure write: callers re-read banner state if they need the
// post-apply view.
func (d *Device) ApplyChanges(changes []Change) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return util.NewPreconditionError("apply-changes", d.name, "device must be connected", util.ErrNotConnected)
	}
	if !d.locked {
		return util.NewPreconditionError("apply-changes", d.name, "device must be locked for changes", util.ErrNotLocked)
	}

	if len(changes) == 0 {
		return nil
	}

	for _, c := range changes {
		if _, err := d.exec("edit-config", rpcEditLoginConfig(c.Payload)); err != nil {
			return fmt.Errorf("applying %s banner change: %w", c.Kind, err)
		}
	}

	if _, err := d.exec("commit", rpcCommit()); err != nil {
		return err
	}

	util.WithDevice(d.name).Infof("Committed %d banner change(s)", len(changes))
	return nil
}
