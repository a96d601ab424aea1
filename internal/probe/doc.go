// Package probe is the access layer for physical debug probes.
//
// The package splits the problem in two. Below the Transport
// interface live the drivers: they own probe enumeration, the wire
// protocol, flash algorithm execution and target memory access.
// Above it live Session and Core, the handles the CLI commands
// consume.
//
// # Drivers
//
// A driver registers itself from an init function:
//
//	func init() {
//	    probe.RegisterDriver(&Driver{})
//	}
//
// and is then reachable through probe.ListAll and Options.SimpleAttach.
// Importing a driver package for side effects wires it in, mirroring
// the database/sql convention.
//
// # Sessions and cores
//
// Options.SimpleAttach resolves connection parameters into exactly
// one Session: it enumerates probes, applies the selector, opens the
// single match, looks the chip up in the built-in target catalog and
// performs the protocol handshake. A Session owns its transport for
// one command invocation. Core handles come from Session.Core and are
// exclusively owned: each command acquires its core once and holds it
// until the command returns. Nothing here is safe for concurrent use
// and nothing needs to be.
//
// # Errors
//
// Attach failures surface as *AttachError, bad core selections as
// *InvalidCoreIndexError and transport-level memory failures as
// *MemoryAccessError. All are fatal to the invocation that caused
// them; no retries happen at this layer.
package probe
