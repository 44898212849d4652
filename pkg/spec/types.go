// Package spec loads and validates banner specification files: the
// device inventory plus the desired banner state for each device.
package spec

import (
	"github.com/bannerctl/bannerctl/pkg/banner"
)

// Banner states accepted in spec files.
const (
	StatePresent = "present"
	StateAbsent  = "absent"
)

// BannerSpec declares the desired state of one banner on a device.
type BannerSpec struct {
	Kind string `yaml:"kind"`
	Text string `yaml:"text,omitempty"`
	// State is "present" (default) or "absent". Text is ignored for
	// absent banners.
	State string `yaml:"state,omitempty"`
}

// Desired converts the spec entry to a reconciler input.
// Assumes the entry passed Loader validation.
func (b *BannerSpec) Desired() (banner.Desired, error) {
	kind, err := banner.ParseKind(b.Kind)
	if err != nil {
		return banner.Desired{}, err
	}
	return banner.Desired{
		Kind:    kind,
		Text:    b.Text,
		Present: b.State != StateAbsent,
	}, nil
}

// DeviceSpec couples a device's connection profile with its desired
// banners. Connection parameters are opaque to the reconciler; only the
// device layer reads them.
type DeviceSpec struct {
	Name       string `yaml:"name"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port,omitempty"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password,omitempty"`
	SSHKeyFile string `yaml:"ssh_keyfile,omitempty"`
	// KnownHosts enables host key verification against the given file.
	// Empty skips verification (lab use).
	KnownHosts string `yaml:"known_hosts,omitempty"`
	// Timeout is the SSH dial timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`

	Banners []BannerSpec `yaml:"banners"`
}

// File is the root of a banner spec document.
type File struct {
	Devices []DeviceSpec `yaml:"devices"`
}
