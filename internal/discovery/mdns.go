package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type advertised by network
	// debug probes.
	ServiceType = "_probe-rs._tcp"

	// ServiceDomain is the mDNS domain (typically "local.").
	ServiceDomain = "local."

	// DefaultScanTimeout bounds how long a scan listens for
	// advertisements.
	DefaultScanTimeout = 3 * time.Second
)

// Scanner performs mDNS discovery of network debug probes.
type Scanner struct {
	// Timeout is the maximum time to listen for advertisements.
	Timeout time.Duration
}

// NewScanner creates a scanner with the default timeout.
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses the local network for probe advertisements and returns
// every probe heard from before the timeout elapses. An empty result
// with a nil error means no probe answered.
func (s *Scanner) Scan(ctx context.Context) ([]*Probe, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	probes := make([]*Probe, 0)
	done := make(chan struct{})

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		defer close(done)
		for entry := range entries {
			if probe := parseServiceEntry(entry); probe != nil {
				probes = append(probes, probe)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	return probes, nil
}

// parseServiceEntry converts a zeroconf service entry to a Probe.
// Entries without a resolvable address are dropped.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Probe {
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	serial := metadata["serial"]
	delete(metadata, "serial")

	return &Probe{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Serial:       serial,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Scan is a convenience function to scan with a custom timeout.
func Scan(ctx context.Context, timeout time.Duration) ([]*Probe, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}
