package probe

import (
	"fmt"
	"sort"
	"sync"
)

// Info describes one enumerated debug probe.
type Info struct {
	// Identifier is the human-readable probe name (e.g. "J-Link Ultra")
	Identifier string

	// VendorID is the USB vendor ID
	VendorID uint16

	// ProductID is the USB product ID
	ProductID uint16

	// SerialNumber is the probe serial, if the probe reports one
	SerialNumber string

	// Driver is the name of the registered driver that enumerated
	// this probe
	Driver string
}

// String returns a human-readable string representation of the probe
func (i Info) String() string {
	s := fmt.Sprintf("%04x:%04x", i.VendorID, i.ProductID)
	if i.SerialNumber != "" {
		s += ":" + i.SerialNumber
	}
	return fmt.Sprintf("%s -- %s [%s]", s, i.Identifier, i.Driver)
}

// Driver is one probe-access backend. Implementations own the
// transport-level details; the CLI core only ever sees Info values
// and Transport handles.
type Driver interface {
	// Name identifies the driver in probe descriptors and selectors
	Name() string

	// Enumerate lists the probes this driver can currently see
	Enumerate() []Info

	// Open establishes a connection to the given probe
	Open(info Info) (Transport, error)
}

var (
	driversMu sync.Mutex
	drivers   = make(map[string]Driver)
)

// RegisterDriver makes a driver available for enumeration and attach.
// Drivers register themselves from an init function, mirroring the
// database/sql driver convention; registering two drivers under the
// same name panics.
func RegisterDriver(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if d == nil {
		panic("probe: RegisterDriver with nil driver")
	}
	if _, dup := drivers[d.Name()]; dup {
		panic("probe: RegisterDriver called twice for driver " + d.Name())
	}
	drivers[d.Name()] = d
}

func driverByName(name string) (Driver, bool) {
	driversMu.Lock()
	defer driversMu.Unlock()
	d, ok := drivers[name]
	return d, ok
}

func allDrivers() []Driver {
	driversMu.Lock()
	defer driversMu.Unlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Driver, 0, len(names))
	for _, name := range names {
		out = append(out, drivers[name])
	}
	return out
}

// ListAll enumerates all probes visible to all registered drivers.
// The order is stable: drivers in name order, probes in the order
// the driver reports them.
func ListAll() []Info {
	var out []Info
	for _, d := range allDrivers() {
		out = append(out, d.Enumerate()...)
	}
	return out
}
