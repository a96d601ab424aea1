package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func testEntry(instance string) *zeroconf.ServiceEntry {
	entry := zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	entry.HostName = instance + ".local."
	entry.Port = 4441
	return entry
}

func TestParseServiceEntry(t *testing.T) {
	entry := testEntry("office-jlink")
	entry.AddrIPv4 = []net.IP{net.IPv4(192, 168, 1, 50)}
	entry.Text = []string{"serial=801045623", "version=2", "secure"}

	probe := parseServiceEntry(entry)
	if probe == nil {
		t.Fatal("parseServiceEntry() = nil, want probe")
	}
	if probe.Name != "office-jlink" {
		t.Errorf("Name = %q, want %q", probe.Name, "office-jlink")
	}
	if probe.IP != "192.168.1.50" {
		t.Errorf("IP = %q, want %q", probe.IP, "192.168.1.50")
	}
	if probe.Port != 4441 {
		t.Errorf("Port = %d, want 4441", probe.Port)
	}
	if probe.Serial != "801045623" {
		t.Errorf("Serial = %q, want %q", probe.Serial, "801045623")
	}
	if got := probe.GetMetadata("version"); got != "2" {
		t.Errorf("metadata version = %q, want %q", got, "2")
	}
	if got := probe.GetMetadata("secure"); got != "" {
		t.Errorf("metadata secure = %q, want empty value", got)
	}
	if got := probe.GetMetadata("serial"); got != "" {
		t.Error("serial should be lifted out of the metadata map")
	}
	if probe.DiscoveredAt.IsZero() {
		t.Error("DiscoveredAt not set")
	}
}

func TestParseServiceEntryIPv6Fallback(t *testing.T) {
	entry := testEntry("bench-probe")
	entry.AddrIPv6 = []net.IP{net.ParseIP("fe80::1")}

	probe := parseServiceEntry(entry)
	if probe == nil {
		t.Fatal("parseServiceEntry() = nil, want probe")
	}
	if probe.IP != "fe80::1" {
		t.Errorf("IP = %q, want %q", probe.IP, "fe80::1")
	}
}

func TestParseServiceEntryNoAddress(t *testing.T) {
	entry := testEntry("ghost-probe")
	if probe := parseServiceEntry(entry); probe != nil {
		t.Errorf("parseServiceEntry() = %+v, want nil for address-less entry", probe)
	}
}

func TestNewScannerDefaults(t *testing.T) {
	s := NewScanner()
	if s.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", s.Timeout, DefaultScanTimeout)
	}
}
