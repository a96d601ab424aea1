package discovery

import (
	"fmt"
	"time"
)

// Probe represents a network-attached debug probe advertised over mDNS.
type Probe struct {
	// Name is the mDNS instance name (e.g., "office-jlink").
	Name string

	// Hostname is the mDNS hostname (e.g., "office-jlink.local.").
	Hostname string

	// IP is the probe's address, preferring IPv4.
	IP string

	// Port is the probe's control port.
	Port int

	// Serial is the probe serial number from the TXT record, if
	// the probe advertises one.
	Serial string

	// Metadata holds the remaining mDNS TXT record entries.
	Metadata map[string]string

	// DiscoveredAt is when the advertisement was received.
	DiscoveredAt time.Time
}

// String returns a one-line summary suitable for a listing.
func (p *Probe) String() string {
	if p.Serial != "" {
		return fmt.Sprintf("%s (%s) at %s:%d", p.Name, p.Serial, p.IP, p.Port)
	}
	return fmt.Sprintf("%s at %s:%d", p.Name, p.IP, p.Port)
}

// Addr returns the host:port endpoint of the probe.
func (p *Probe) Addr() string {
	return fmt.Sprintf("%s:%d", p.IP, p.Port)
}

// GetMetadata retrieves a TXT record value by key, or an empty string.
func (p *Probe) GetMetadata(key string) string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata[key]
}
