// Package flash turns a firmware image path plus a declared format
// into a flashed target.
//
// The download happens in two strictly separated stages. First the
// Loader is fully populated from the file - ELF program segments,
// Intel HEX records, or a raw binary with base-address/skip-bytes
// placement - so a malformed image always aborts before any flash
// write. Then Download runs the erase/program/verify sequence against
// the session, delegating the actual flash algorithm to the
// probe-access layer and reporting progress per phase.
//
// Load failures surface as *FileOpenError or *ImageParseError;
// failures during the flashing sequence as *ExecutionError. The two
// classes are distinct because only the latter can leave the target
// partially written.
package flash
