package device

import (
	"encoding/xml"
	"fmt"

	"github.com/Juniper/go-netconf/netconf"

	"github.com/bannerctl/bannerctl/pkg/banner"
)

// RPCs are built as raw XML so the payload on the wire is exactly the
// fragment the reconciler produced, wrapped in the login subtree.

func rpcGetLoginConfig() netconf.RawMethod {
	return netconf.RawMethod(`<get-config><source><running/></source>` +
		`<filter type="subtree"><configuration><system><login/></system></configuration></filter>` +
		`</get-config>`)
}

func rpcEditLoginConfig(fragment string) netconf.RawMethod {
	return netconf.RawMethod(fmt.Sprintf(
		`<edit-config><target><candidate/></target><config>`+
			`<configuration><system><login>%s</login></system></configuration>`+
			`</config></edit-config>`, fragment))
}

func rpcLock() netconf.RawMethod {
	return netconf.RawMethod(`<lock><target><candidate/></target></lock>`)
}

func rpcUnlock() netconf.RawMethod {
	return netconf.RawMethod(`<unlock><target><candidate/></target></unlock>`)
}

func rpcCommit() netconf.RawMethod {
	return netconf.RawMethod(`<commit/>`)
}

// loginData mirrors the system/login subtree of a get-config reply.
// Nil pointers distinguish an absent banner from an empty one.
type loginData struct {
	XMLName      xml.Name `xml:"data"`
	Message      *string  `xml:"configuration>system>login>message"`
	Announcement *string  `xml:"configuration>system>login>announcement"`
}

// parseLoginConfig extracts per-kind banner state from the inner XML of
// an rpc-reply. An empty reply means no banner is configured.
func parseLoginConfig(data string) (map[banner.Kind]banner.Current, error) {
	banners := map[banner.Kind]banner.Current{
		banner.Login: {Kind: banner.Login},
		banner.MOTD:  {Kind: banner.MOTD},
	}
	if data == "" {
		return banners, nil
	}

	var parsed loginData
	if err := xml.Unmarshal([]byte(data), &parsed); err != nil {
		return nil, fmt.Errorf("parsing login config: %w", err)
	}

	if parsed.Message != nil {
		banners[banner.Login] = banner.Current{Kind: banner.Login, Text: *parsed.Message, Exists: true}
	}
	if parsed.Announcement != nil {
		banners[banner.MOTD] = banner.Current{Kind: banner.MOTD, Text: *parsed.Announcement, Exists: true}
	}
	return banners, nil
}
