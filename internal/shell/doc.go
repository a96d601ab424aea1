// Package shell implements the interactive debug command loop.
//
// A Shell wraps a line editor around a command table operating on a
// single attached core. Command handlers signal whether the loop
// should continue through the Control return value; a non-nil error
// from a handler ends the session and is reported by the caller.
package shell
