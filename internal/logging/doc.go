// Package logging provides structured logging for the probe tooling.
//
// This package wraps the zap logger with convenience functions for the
// logging patterns used throughout the commands. Output goes to stderr
// so it never interleaves with command output - the trace command in
// particular streams binary records on stdout.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (memory access, raw byte dumps)
//   - Info: Normal operations (probe attach, resets, downloads)
//   - Warn: Non-fatal issues (degraded debug info, slow probes)
//   - Error: Fatal issues (attach failures, transport errors)
//
// Logging is silent by default. Commands enable it with --verbose, or
// persistently through the environment:
//
//	PROBE_RS_LOG_LEVEL=debug probe-cli dump 0x20000000 16
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("session attached",
//	    zap.String("probe", "1209:0001:SIM001"),
//	    zap.String("chip", "nRF52840_xxAA"),
//	)
//
// Domain helpers cover the recurring cases:
//
//	logging.LogProbeAttach(probe, chip, protocol, speedKHz)
//	logging.LogMemoryAccess("read", address, words)
//	logging.LogRawBytes("flash page", data)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying
// zap logger handles synchronization automatically.
package logging
