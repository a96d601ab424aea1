// Probe-cli is a command-line tool for ARM debug probes.
//
// It talks to a debug probe attached to the host, connects to the
// target chip behind it and exposes the everyday debugging loop:
//
//   - Probe enumeration and target information
//   - Memory inspection and firmware download (ELF, Intel HEX, raw binary)
//   - An interactive debug shell with disassembly and source lookup
//   - Fixed-cadence sampling of a memory word for tracing
//
// See 'probe-cli --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TomDeRybel/probe-rs/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "probe-cli",
	Short: "ARM debug probe utility",
	Long: `Command-line access to ARM targets through a debug probe.

Connect a probe, pick a chip with --chip and use the sub-commands to
inspect memory, flash firmware and drive the core:
  - list the probes attached to the host
  - read out target information
  - download ELF, Intel HEX or raw binary images to flash
  - open an interactive debug shell
  - sample a memory word at a fixed cadence for tracing

Probe selection accepts a driver name or VID:PID[:serial] in hex.`,
	Version: version.Version,
	Example: `  # List attached probes
  probe-cli list

  # Show target information
  probe-cli info --chip nRF52840_xxAA

  # Flash a firmware image
  probe-cli download firmware.elf --chip nRF52840_xxAA

  # Open the debug shell with source-level info
  probe-cli debug --chip nRF52840_xxAA --exe firmware.elf`,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("probe-cli %s (commit: %s)\n", version.Version, version.Commit)
	},
}
