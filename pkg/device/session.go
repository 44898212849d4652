package device

import (
	"fmt"
	"os"
	"time"

	"github.com/Juniper/go-netconf/netconf"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/bannerctl/bannerctl/pkg/spec"
)

// Session is the slice of the NETCONF session the device layer drives.
// *netconf.Session satisfies it; tests substitute a fake transport.
type Session interface {
	Exec(methods ...netconf.RPCMethod) (*netconf.RPCReply, error)
	Close() error
}

// DialFunc opens a session for a device profile. The default dials
// NETCONF over SSH; tests inject their own.
type DialFunc func(profile *spec.DeviceSpec) (Session, error)

// dialNetconf opens a NETCONF-over-SSH session using the profile's
// credentials. Session-layer details (hello exchange, framing) belong to
// go-netconf; this only assembles the ssh.ClientConfig.
func dialNetconf(profile *spec.DeviceSpec) (Session, error) {
	var auth []ssh.AuthMethod
	if profile.SSHKeyFile != "" {
		key, err := os.ReadFile(profile.SSHKeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading ssh key %s: %w", profile.SSHKeyFile, err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parsing ssh key %s: %w", profile.SSHKeyFile, err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if profile.Password != "" {
		auth = append(auth, ssh.Password(profile.Password))
	}
	if len(auth) == 0 {
		return nil, fmt.Errorf("no credentials for %s: set password or ssh_keyfile", profile.Name)
	}

	// Host keys are verified when the profile names a known_hosts file.
	// Lab devices without one connect unverified.
	hostKey := ssh.InsecureIgnoreHostKey()
	if profile.KnownHosts != "" {
		cb, err := knownhosts.New(profile.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("loading known_hosts %s: %w", profile.KnownHosts, err)
		}
		hostKey = cb
	}

	port := profile.Port
	if port == 0 {
		port = spec.DefaultPort
	}

	config := &ssh.ClientConfig{
		User:            profile.Username,
		Auth:            auth,
		HostKeyCallback: hostKey,
		Timeout:         time.Duration(profile.Timeout) * time.Second,
	}

	return netconf.DialSSH(fmt.Sprintf("%s:%d", profile.Host, port), config)
}
