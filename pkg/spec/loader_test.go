package spec

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bannerctl/bannerctl/pkg/banner"
	"github.com/bannerctl/bannerctl/pkg/util"
)

const validSpec = `
devices:
  - name: edge1
    host: 192.0.2.10
    username: admin
    password: secret
    banners:
      - kind: login
        text: this is my login banner
      - kind: motd
        text: this is my motd banner
  - name: edge2
    host: 192.0.2.11
    port: 2830
    username: admin
    ssh_keyfile: /etc/bannerctl/id_ed25519
    timeout: 5
    banners:
      - kind: login
        state: absent
`

func TestParseValidSpec(t *testing.T) {
	f, err := Parse([]byte(validSpec), "test.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.Devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(f.Devices))
	}

	edge1 := f.Devices[0]
	if edge1.Port != DefaultPort {
		t.Errorf("edge1 port = %d, want default %d", edge1.Port, DefaultPort)
	}
	if edge1.Timeout != DefaultTimeout {
		t.Errorf("edge1 timeout = %d, want default %d", edge1.Timeout, DefaultTimeout)
	}
	if got := edge1.Banners[0].State; got != StatePresent {
		t.Errorf("banner state defaulted to %q, want %q", got, StatePresent)
	}

	edge2 := f.Devices[1]
	if edge2.Port != 2830 {
		t.Errorf("edge2 port = %d, want 2830", edge2.Port)
	}
	if edge2.Timeout != 5 {
		t.Errorf("edge2 timeout = %d, want 5", edge2.Timeout)
	}
}

func TestBannerSpecDesired(t *testing.T) {
	tests := []struct {
		name string
		spec BannerSpec
		want banner.Desired
	}{
		{
			name: "present login",
			spec: BannerSpec{Kind: "login", Text: "hi", State: StatePresent},
			want: banner.Desired{Kind: banner.Login, Text: "hi", Present: true},
		},
		{
			name: "absent motd ignores text",
			spec: BannerSpec{Kind: "motd", Text: "leftover", State: StateAbsent},
			want: banner.Desired{Kind: banner.MOTD, Text: "leftover", Present: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Desired()
			if err != nil {
				t.Fatalf("Desired() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Desired() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseInvalidSpecs(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name: "missing host",
			yaml: `
devices:
  - name: edge1
    username: admin
    password: x
`,
			wantMsg: "host is required",
		},
		{
			name: "missing credentials",
			yaml: `
devices:
  - name: edge1
    host: 192.0.2.10
    username: admin
`,
			wantMsg: "password or ssh_keyfile is required",
		},
		{
			name: "present banner without text",
			yaml: `
devices:
  - name: edge1
    host: 192.0.2.10
    username: admin
    password: x
    banners:
      - kind: login
`,
			wantMsg: "present banner requires non-empty text",
		},
		{
			name: "unknown banner kind",
			yaml: `
devices:
  - name: edge1
    host: 192.0.2.10
    username: admin
    password: x
    banners:
      - kind: console
        text: hi
`,
			wantMsg: `unknown kind "console"`,
		},
		{
			name: "bad state",
			yaml: `
devices:
  - name: edge1
    host: 192.0.2.10
    username: admin
    password: x
    banners:
      - kind: login
        text: hi
        state: gone
`,
			wantMsg: "state must be",
		},
		{
			name: "duplicate device name",
			yaml: `
devices:
  - name: edge1
    host: 192.0.2.10
    username: admin
    password: x
  - name: edge1
    host: 192.0.2.11
    username: admin
    password: x
`,
			wantMsg: "duplicate device name",
		},
		{
			name: "duplicate banner kind",
			yaml: `
devices:
  - name: edge1
    host: 192.0.2.10
    username: admin
    password: x
    banners:
      - kind: login
        text: one
      - kind: login
        text: two
`,
			wantMsg: "declared more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), tt.name+".yaml")
			if err == nil {
				t.Fatalf("Parse() accepted invalid spec")
			}
			if !errors.Is(err, util.ErrValidationFailed) {
				t.Errorf("error %v does not unwrap to ErrValidationFailed", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q missing %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseAbsentBannerWithoutText(t *testing.T) {
	// Absent banners need no text.
	f, err := Parse([]byte(`
devices:
  - name: edge1
    host: 192.0.2.10
    username: admin
    password: x
    banners:
      - kind: motd
        state: absent
`), "absent.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	d, err := f.Devices[0].Banners[0].Desired()
	if err != nil {
		t.Fatalf("Desired() error = %v", err)
	}
	if d.Present {
		t.Errorf("absent banner parsed as present")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "banners.yaml")
	if err := os.WriteFile(path, []byte(validSpec), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(f.Devices) != 2 {
		t.Errorf("got %d devices, want 2", len(f.Devices))
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("Load() on missing file succeeded")
	}
}
