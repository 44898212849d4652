package spec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bannerctl/bannerctl/pkg/banner"
	"github.com/bannerctl/bannerctl/pkg/util"
)

// Defaults applied to device entries that omit optional fields.
const (
	DefaultPort    = 830
	DefaultTimeout = 30 // seconds
)

// Load reads a banner spec file and returns a validated File.
// Validation is strict so that invariants hold at construction time:
// a present banner with empty text never reaches the reconciler.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses and validates spec data. The name is used in error
// messages only.
func Parse(data []byte, name string) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing spec %s: %w", name, err)
	}

	applyDefaults(&f)

	if err := validate(&f); err != nil {
		return nil, fmt.Errorf("validating spec %s: %w", name, err)
	}
	return &f, nil
}

func applyDefaults(f *File) {
	for i := range f.Devices {
		d := &f.Devices[i]
		if d.Port == 0 {
			d.Port = DefaultPort
		}
		if d.Timeout == 0 {
			d.Timeout = DefaultTimeout
		}
		for j := range d.Banners {
			if d.Banners[j].State == "" {
				d.Banners[j].State = StatePresent
			}
		}
	}
}

func validate(f *File) error {
	var v util.ValidationBuilder

	seen := make(map[string]bool)
	for i := range f.Devices {
		d := &f.Devices[i]
		prefix := fmt.Sprintf("device %d", i)
		if d.Name != "" {
			prefix = fmt.Sprintf("device %s", d.Name)
		}

		v.Add(d.Name != "", prefix+": name is required")
		v.Add(d.Host != "", prefix+": host is required")
		v.Add(d.Username != "", prefix+": username is required")
		v.Add(d.Password != "" || d.SSHKeyFile != "",
			prefix+": password or ssh_keyfile is required")

		if d.Name != "" {
			if seen[d.Name] {
				v.AddErrorf("%s: duplicate device name", prefix)
			}
			seen[d.Name] = true
		}

		kinds := make(map[string]bool)
		for j := range d.Banners {
			b := &d.Banners[j]
			if _, err := banner.ParseKind(b.Kind); err != nil {
				v.AddErrorf("%s: banner %d: unknown kind %q", prefix, j, b.Kind)
				continue
			}
			if b.State != StatePresent && b.State != StateAbsent {
				v.AddErrorf("%s: banner %s: state must be %q or %q",
					prefix, b.Kind, StatePresent, StateAbsent)
			}
			if b.State == StatePresent && b.Text == "" {
				v.AddErrorf("%s: banner %s: present banner requires non-empty text", prefix, b.Kind)
			}
			if kinds[b.Kind] {
				v.AddErrorf("%s: banner %s declared more than once", prefix, b.Kind)
			}
			kinds[b.Kind] = true
		}
	}

	return v.Build()
}
