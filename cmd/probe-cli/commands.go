package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/TomDeRybel/probe-rs/internal/debuginfo"
	"github.com/TomDeRybel/probe-rs/internal/disasm"
	"github.com/TomDeRybel/probe-rs/internal/discovery"
	"github.com/TomDeRybel/probe-rs/internal/flash"
	"github.com/TomDeRybel/probe-rs/internal/logging"
	"github.com/TomDeRybel/probe-rs/internal/probe"
	_ "github.com/TomDeRybel/probe-rs/internal/probe/sim"
	"github.com/TomDeRybel/probe-rs/internal/shell"
	"github.com/TomDeRybel/probe-rs/internal/trace"
	"github.com/TomDeRybel/probe-rs/internal/ui"
)

// Command flags
var (
	chipName          string
	probeSelector     string
	protocolName      string
	speedKHz          int
	connectUnderReset bool
	probeVerbose      bool // Show raw probe transfer logging

	coreIndex     int
	listNetwork   bool
	scanTimeout   string
	debugExe      string
	imageFormat   string
	baseAddress   uint32
	skipBytes     uint32
	traceOutput   string
	traceInterval string
)

func init() {
	// Common flags for all commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&chipName, "chip", "", "Target chip name (default: generic catalog entry)")
	rootCmd.PersistentFlags().StringVar(&probeSelector, "probe", "", "Probe selector: driver name or VID:PID[:serial] in hex")
	rootCmd.PersistentFlags().StringVar(&protocolName, "protocol", "swd", "Wire protocol (swd or jtag)")
	rootCmd.PersistentFlags().IntVar(&speedKHz, "speed", 0, "Interface clock in kHz (0 lets the probe choose)")
	rootCmd.PersistentFlags().BoolVar(&connectUnderReset, "connect-under-reset", false, "Hold the target in reset while attaching")
	rootCmd.PersistentFlags().BoolVarP(&probeVerbose, "verbose", "v", false, "Show raw probe transfer logging")

	// Add subcommands
	// Core selection for the commands that act on one execution unit.
	for _, cmd := range []*cobra.Command{resetCmd, debugCmd, dumpCmd, traceCmd} {
		cmd.Flags().IntVar(&coreIndex, "core", 0, "Core index to operate on")
	}

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(eraseCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(traceCmd)
}

// attach resolves the persistent connection flags into one attached
// session. Every command that touches the target goes through here so
// probe selection and logging behave identically across commands.
func attach() (*probe.Session, error) {
	if probeVerbose {
		if err := logging.Initialize("debug"); err != nil {
			return nil, fmt.Errorf("initialising logging: %w", err)
		}
	} else {
		// Silent by default; set PROBE_RS_LOG_LEVEL=debug for detail.
		_ = logging.InitializeFromEnv()
	}

	opts := probe.Options{
		Chip:              chipName,
		Selector:          probeSelector,
		Protocol:          protocolName,
		SpeedKHz:          speedKHz,
		ConnectUnderReset: connectUnderReset,
	}
	return opts.SimpleAttach(logging.GetLogger())
}

// parseU32 accepts decimal or 0x-prefixed hexadecimal.
func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q (expected decimal or 0x hex)", s)
	}
	return uint32(v), nil
}

// listCmd implements the 'list' command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List attached debug probes",
	Long: `List every debug probe the registered drivers can see.

With --network the local network is also scanned for probes that
advertise themselves over mDNS (service type "` + discovery.ServiceType + `").`,
	Example: `  # List locally attached probes
  probe-cli list

  # Include network probes (3 second scan)
  probe-cli list --network

  # Longer scan on a slow network
  probe-cli list --network --timeout 10s`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listNetwork, "network", false, "Also scan the local network over mDNS")
	listCmd.Flags().StringVar(&scanTimeout, "timeout", "3s", "Network scan duration (e.g., 3s, 10s)")
}

func runList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	probes := probe.ListAll()
	if len(probes) == 0 {
		fmt.Println("No devices were found.")
	} else {
		fmt.Println("The following devices were found:")
		for i, info := range probes {
			fmt.Printf("[%d]: %s\n", i, info)
		}
	}

	if !listNetwork {
		return nil
	}

	timeout, err := time.ParseDuration(scanTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout value: %w", err)
	}

	fmt.Println()
	ui.PrintPleaseWait("Scanning network for probes", scanTimeout)
	found, err := discovery.Scan(context.Background(), timeout)
	if err != nil {
		return fmt.Errorf("network scan failed: %w", err)
	}
	if len(found) == 0 {
		fmt.Println("No network probes were found.")
		return nil
	}
	fmt.Println("The following network probes were found:")
	for i, p := range found {
		fmt.Printf("[%d]: %s\n", i, p)
	}
	return nil
}

// infoCmd implements the 'info' command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show probe and target information",
	Long: `Attach to the target and report what is on the other end of
the probe: the probe identity, the selected chip, its cores and its
memory map.`,
	Example: `  # Default chip
  probe-cli info

  # Specific chip and probe
  probe-cli info --chip STM32F407VG --probe 0483:374b`,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	session, err := attach()
	if err != nil {
		return err
	}
	defer session.Close()

	target := session.Target()
	details := map[string]string{
		"Probe":    session.Info().String(),
		"Chip":     target.Name,
		"Protocol": string(session.Protocol()),
		"Cores":    fmt.Sprintf("%d", session.CoreCount()),
	}
	for _, region := range target.Regions {
		details[region.Name] = fmt.Sprintf("0x%08x - 0x%08x (%s)",
			region.Start, region.End(), region.Kind)
	}
	ui.PrintSuccess("Target attached", details)
	return nil
}

// resetCmd implements the 'reset' command
var resetCmd = &cobra.Command{
	Use:   "reset [assert]",
	Short: "Reset the target core",
	Long: `Reset the selected core of the attached target.

The optional assert argument is accepted as a boolean for command-line
compatibility; the reset itself is unconditional.`,
	Args: cobra.MaximumNArgs(1),
	Example: `  probe-cli reset
  probe-cli reset true`,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	if len(args) == 1 {
		if _, err := strconv.ParseBool(args[0]); err != nil {
			return fmt.Errorf("invalid assert argument %q: %w", args[0], err)
		}
	}

	session, err := attach()
	if err != nil {
		return err
	}
	defer session.Close()

	core, err := session.Core(coreIndex)
	if err != nil {
		return err
	}
	if err := core.Reset(); err != nil {
		return err
	}
	fmt.Println("Target reset.")
	return nil
}

// debugCmd implements the 'debug' command
var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Open an interactive debug shell",
	Long: `Open an interactive shell on the selected core of the
attached target.

The shell supports memory and register inspection, disassembly and
execution control; type "help" inside the shell for the command list.
With --exe, debug info is read from the given ELF so the "locate"
command can map addresses to source locations. A missing or unreadable
executable degrades to a shell without source lookups.`,
	Example: `  # Plain shell
  probe-cli debug --chip nRF52840_xxAA

  # With source-level lookups
  probe-cli debug --chip nRF52840_xxAA --exe firmware.elf`,
	RunE: runDebug,
}

func init() {
	debugCmd.Flags().StringVar(&debugExe, "exe", "", "ELF executable to read debug info from")
}

func runDebug(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	session, err := attach()
	if err != nil {
		return err
	}
	defer session.Close()

	core, err := session.Core(coreIndex)
	if err != nil {
		return err
	}

	state := &shell.State{
		Core: core,
		Dis:  disasm.New(),
	}
	if debugExe != "" {
		info, err := debuginfo.FromFile(debugExe)
		if err != nil {
			ui.PrintWarning("Debug info unavailable", map[string]string{
				"Executable": debugExe,
				"Reason":     err.Error(),
				"Effect":     "Source lookups are disabled for this session",
			})
		} else {
			state.Debug = info
		}
	}

	sh, err := shell.New(state)
	if err != nil {
		return err
	}
	return sh.Run()
}

// dumpCmd implements the 'dump' command
var dumpCmd = &cobra.Command{
	Use:   "dump <address> <words>",
	Short: "Read and print 32-bit words from target memory",
	Long: `Read a block of 32-bit words from target memory and print one
word per line. Addresses and counts accept decimal or 0x-prefixed hex.`,
	Args: cobra.ExactArgs(2),
	Example: `  # Dump 16 words from the start of RAM
  probe-cli dump 0x20000000 16

  # Decimal arguments work too
  probe-cli dump 536870912 16`,
	RunE: runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	addr, err := parseU32(args[0])
	if err != nil {
		return err
	}
	words, err := parseU32(args[1])
	if err != nil {
		return err
	}

	session, err := attach()
	if err != nil {
		return err
	}
	defer session.Close()

	core, err := session.Core(coreIndex)
	if err != nil {
		return err
	}

	buf := make([]uint32, words)
	start := time.Now()
	if err := core.Read32(addr, buf); err != nil {
		return err
	}
	elapsed := time.Since(start)

	printDump(os.Stdout, addr, buf)
	fmt.Printf("Read %d words in %s.\n", words, elapsed)
	return nil
}

// printDump writes one "Addr 0x%08x: 0x%08x" line per word.
func printDump(w io.Writer, addr uint32, words []uint32) {
	for i, v := range words {
		fmt.Fprintf(w, "Addr 0x%08x: 0x%08x\n", addr+uint32(i)*4, v)
	}
}

// downloadCmd implements the 'download' command
var downloadCmd = &cobra.Command{
	Use:   "download <path>",
	Short: "Download a firmware image to target flash",
	Long: `Parse a firmware image and flash it to the target's non-volatile
memory. The whole image is loaded and validated before the first flash
operation; a parse failure therefore never leaves flash half-written.

Supported formats:
  elf   ELF executable, load addresses from the program headers (default)
  hex   Intel HEX, load addresses from the records
  bin   Raw binary, placed at --base-address after dropping --skip-bytes

--base-address and --skip-bytes only apply to raw binaries and are
ignored for elf and hex images.`,
	Args: cobra.ExactArgs(1),
	Example: `  # Flash an ELF (default format)
  probe-cli download firmware.elf --chip nRF52840_xxAA

  # Flash an Intel HEX image
  probe-cli download firmware.hex --format hex

  # Flash a raw binary at a given address, skipping a header
  probe-cli download firmware.bin --format bin --base-address 0x08000000 --skip-bytes 4`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&imageFormat, "format", "elf", "Image format: elf, hex or bin")
	downloadCmd.Flags().Uint32Var(&baseAddress, "base-address", 0, "Load address for raw binaries")
	downloadCmd.Flags().Uint32Var(&skipBytes, "skip-bytes", 0, "Bytes to skip at the start of a raw binary")
}

func runDownload(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := args[0]
	img, err := resolveImageFlags(cmd)
	if err != nil {
		return err
	}

	session, err := attach()
	if err != nil {
		return err
	}
	defer session.Close()

	ui.PrintCommandHeader(
		"Firmware Download",
		"probe-cli download",
		map[string]string{
			"Image":  path,
			"Format": img.Format.String(),
			"Chip":   session.Target().Name,
		},
	)

	loader := flash.NewLoader(session.Target())
	if err := loader.LoadFile(path, img); err != nil {
		ui.PrintFailure("Firmware download failed", err, []string{
			"Check the image path and --format value",
			"For raw binaries, provide --base-address",
		})
		return err
	}

	start := time.Now()
	if err := flash.Download(session, loader, downloadProgress(os.Stdout)); err != nil {
		ui.PrintFailure("Firmware download failed", err, []string{
			"Verify the probe is still connected",
			"Check the image fits the chip's flash regions",
		})
		return err
	}

	ui.PrintSuccess("Firmware download complete", map[string]string{
		"Image":    path,
		"Bytes":    fmt.Sprintf("%d", loader.TotalBytes()),
		"Duration": time.Since(start).Round(time.Millisecond).String(),
	})
	return nil
}

// resolveImageFlags maps the download format flags to an image
// descriptor, passing base/skip only when they were set on the
// command line.
func resolveImageFlags(cmd *cobra.Command) (flash.Image, error) {
	var base, skip *uint32
	if cmd.Flags().Changed("base-address") {
		base = &baseAddress
	}
	if cmd.Flags().Changed("skip-bytes") {
		skip = &skipBytes
	}
	return flash.ResolveImage(imageFormat, base, skip)
}

// downloadProgress renders one progress bar per flash phase. While a
// phase runs the bar updates in place; when it finishes, the bar line
// is replaced by a completed step marker.
func downloadProgress(w io.Writer) flash.ProgressFunc {
	var bar *ui.Bar
	var current flash.Phase
	return func(phase flash.Phase, done, total int) {
		if bar == nil || phase != current {
			current = phase
			bar = ui.NewBar(phaseLabel(phase))
		}
		if done >= total {
			fmt.Fprintf(w, "\r%s\n", ui.RenderStep(ui.Step{
				Name:    phaseLabel(phase),
				Status:  ui.StepComplete,
				Message: fmt.Sprintf("%d regions", total),
			}))
			bar = nil
			return
		}
		fraction := 0.0
		if total > 0 {
			fraction = float64(done) / float64(total)
		}
		fmt.Fprintf(w, "\r%s", bar.Render(fraction))
	}
}

func phaseLabel(phase flash.Phase) string {
	switch phase {
	case flash.PhaseErase:
		return "Erasing"
	case flash.PhaseProgram:
		return "Programming"
	case flash.PhaseVerify:
		return "Verifying"
	default:
		return string(phase)
	}
}

// eraseCmd implements the 'erase' command
var eraseCmd = &cobra.Command{
	Use:   "erase",
	Short: "Erase the target's non-volatile memory",
	Long: `Erase every non-volatile memory region in the chip's memory
map. Fails when the selected chip has no non-volatile regions.`,
	Example: `  probe-cli erase --chip nRF52840_xxAA`,
	RunE:    runErase,
}

func runErase(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	session, err := attach()
	if err != nil {
		return err
	}
	defer session.Close()

	ui.PrintPleaseWait("Erasing non-volatile memory", "this may take a while")
	start := time.Now()
	if err := flash.EraseAll(session); err != nil {
		ui.PrintFailure("Erase failed", err, []string{
			"Verify the probe is still connected",
			"Check the chip name matches the connected target",
		})
		return err
	}

	ui.PrintSuccess("Erase complete", map[string]string{
		"Chip":     session.Target().Name,
		"Duration": time.Since(start).Round(time.Millisecond).String(),
	})
	return nil
}

// runCmd implements the 'run' command
var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "Flash an ELF image and start the target",
	Long: `Flash an ELF image and immediately reset and resume core 0 so
the downloaded firmware starts executing.`,
	Args: cobra.ExactArgs(1),
	Example: `  probe-cli run firmware.elf --chip nRF52840_xxAA`,
	RunE:    runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := args[0]
	session, err := attach()
	if err != nil {
		return err
	}
	defer session.Close()

	loader := flash.NewLoader(session.Target())
	if err := loader.LoadFile(path, flash.Image{Format: flash.FormatELF}); err != nil {
		return err
	}
	if err := flash.Download(session, loader, downloadProgress(os.Stdout)); err != nil {
		return err
	}

	core, err := session.Core(0)
	if err != nil {
		return err
	}
	if err := core.Reset(); err != nil {
		return err
	}
	if err := core.Run(); err != nil {
		return err
	}
	fmt.Println("Firmware flashed and running.")
	return nil
}

// traceCmd implements the 'trace' command
var traceCmd = &cobra.Command{
	Use:   "trace <address>",
	Short: "Sample a memory word at a fixed cadence",
	Long: `Sample one 32-bit memory word at a fixed cadence and stream
8-byte records to the output: four bytes of elapsed milliseconds since
the start of the trace followed by four bytes of value, both
little-endian. Records are written unbuffered so a downstream consumer
sees samples in real time.

The trace runs until interrupted (Ctrl+C) or until a read or write
fails; a failure ends the trace immediately since later samples could
not be trusted.`,
	Args: cobra.ExactArgs(1),
	Example: `  # Sample a counter in RAM every 50ms to stdout
  probe-cli trace 0x20000100 > samples.bin

  # Write to a file at a 10ms cadence
  probe-cli trace 0x20000100 --output samples.bin --interval 10ms`,
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().StringVar(&traceOutput, "output", "", "Write samples to a file (default: stdout)")
	traceCmd.Flags().StringVar(&traceInterval, "interval", "50ms", "Sampling cadence (e.g., 50ms, 1s)")
}

func runTrace(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	addr, err := parseU32(args[0])
	if err != nil {
		return err
	}
	period, err := time.ParseDuration(traceInterval)
	if err != nil {
		return fmt.Errorf("invalid interval value: %w", err)
	}

	var sink io.Writer = os.Stdout
	if traceOutput != "" {
		f, err := os.Create(traceOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		sink = f
	}

	session, err := attach()
	if err != nil {
		return err
	}
	defer session.Close()

	core, err := session.Core(coreIndex)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sampler := &trace.Sampler{
		Core:    core,
		Address: addr,
		Period:  period,
		Sink:    sink,
		Logger:  logging.GetLogger(),
	}
	return sampler.Run(ctx)
}
