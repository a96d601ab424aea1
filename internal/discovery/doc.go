// Package discovery locates network-attached debug probes over mDNS.
//
// Probes advertise themselves with the "_probe-rs._tcp" service type.
// A scan broadcasts a query, collects advertisements until the timeout
// elapses, and returns the probes heard from. Serial numbers come from
// the "serial" TXT record when a probe publishes one.
//
// Discovery requires multicast support on the network interface and
// only reaches probes on the same local network segment (mDNS uses
// UDP port 5353).
package discovery
