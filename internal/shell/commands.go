package shell

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

type command struct {
	name  string
	usage string
	help  string
	run   func(s *Shell, args []string) (Control, error)
}

var commands []command
var commandTable map[string]*command

func init() {
	commands = []command{
		{
			name:  "help",
			usage: "help",
			help:  "List available commands",
			run:   runHelp,
		},
		{
			name:  "regs",
			usage: "regs",
			help:  "Show the core registers",
			run:   runRegs,
		},
		{
			name:  "read",
			usage: "read <address> [words]",
			help:  "Read 32-bit words from memory",
			run:   runRead,
		},
		{
			name:  "write",
			usage: "write <address> <value>",
			help:  "Write a 32-bit word to memory",
			run:   runWrite,
		},
		{
			name:  "dump",
			usage: "dump <address> <words>",
			help:  "Dump a memory range, four words per line",
			run:   runDump,
		},
		{
			name:  "disasm",
			usage: "disasm [address] [words]",
			help:  "Disassemble memory, defaulting to the current PC",
			run:   runDisasm,
		},
		{
			name:  "locate",
			usage: "locate [address]",
			help:  "Look up the source location of an address",
			run:   runLocate,
		},
		{
			name:  "reset",
			usage: "reset",
			help:  "Reset the core",
			run:   runReset,
		},
		{
			name:  "halt",
			usage: "halt",
			help:  "Halt the core",
			run:   runHalt,
		},
		{
			name:  "run",
			usage: "run",
			help:  "Resume the core",
			run:   runRun,
		},
		{
			name:  "step",
			usage: "step",
			help:  "Single-step a halted core",
			run:   runStep,
		},
		{
			name:  "quit",
			usage: "quit",
			help:  "Leave the shell",
			run:   runQuit,
		},
	}

	commandTable = make(map[string]*command, len(commands)+1)
	for i := range commands {
		commandTable[commands[i].name] = &commands[i]
	}
	commandTable["exit"] = commandTable["quit"]
}

// parseU32 accepts decimal or 0x-prefixed hexadecimal.
func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return uint32(v), nil
}

func usageError(s *Shell, cmd string) (Control, error) {
	fmt.Fprintf(s.out, "Usage: %s\n", commandTable[cmd].usage)
	return Continue, nil
}

func runHelp(s *Shell, args []string) (Control, error) {
	fmt.Fprintln(s.out, "Available commands:")
	for _, c := range commands {
		fmt.Fprintf(s.out, "  %-28s %s\n", c.usage, c.help)
	}
	return Continue, nil
}

func runRegs(s *Shell, args []string) (Control, error) {
	regs, err := s.state.Core.Registers()
	if err != nil {
		return Stop, err
	}
	for i, v := range regs.R {
		fmt.Fprintf(s.out, "r%-3d = 0x%08x\n", i, v)
	}
	fmt.Fprintf(s.out, "xpsr = 0x%08x\n", regs.XPSR)
	return Continue, nil
}

func runRead(s *Shell, args []string) (Control, error) {
	if len(args) < 1 || len(args) > 2 {
		return usageError(s, "read")
	}
	addr, err := parseU32(args[0])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return Continue, nil
	}
	words := uint32(1)
	if len(args) == 2 {
		if words, err = parseU32(args[1]); err != nil {
			fmt.Fprintln(s.out, err)
			return Continue, nil
		}
	}
	buf := make([]uint32, words)
	if err := s.state.Core.Read32(addr, buf); err != nil {
		return Stop, err
	}
	for i, v := range buf {
		fmt.Fprintf(s.out, "0x%08x: 0x%08x\n", addr+uint32(i)*4, v)
	}
	return Continue, nil
}

func runWrite(s *Shell, args []string) (Control, error) {
	if len(args) != 2 {
		return usageError(s, "write")
	}
	addr, err := parseU32(args[0])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return Continue, nil
	}
	value, err := parseU32(args[1])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return Continue, nil
	}
	if err := s.state.Core.WriteWord32(addr, value); err != nil {
		return Stop, err
	}
	return Continue, nil
}

func runDump(s *Shell, args []string) (Control, error) {
	if len(args) != 2 {
		return usageError(s, "dump")
	}
	addr, err := parseU32(args[0])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return Continue, nil
	}
	words, err := parseU32(args[1])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return Continue, nil
	}
	buf := make([]uint32, words)
	if err := s.state.Core.Read32(addr, buf); err != nil {
		return Stop, err
	}
	for i := 0; i < len(buf); i += 4 {
		fmt.Fprintf(s.out, "0x%08x:", addr+uint32(i)*4)
		for j := i; j < i+4 && j < len(buf); j++ {
			fmt.Fprintf(s.out, " 0x%08x", buf[j])
		}
		fmt.Fprintln(s.out)
	}
	return Continue, nil
}

func runDisasm(s *Shell, args []string) (Control, error) {
	if len(args) > 2 {
		return usageError(s, "disasm")
	}
	var addr uint32
	if len(args) >= 1 {
		var err error
		if addr, err = parseU32(args[0]); err != nil {
			fmt.Fprintln(s.out, err)
			return Continue, nil
		}
	} else {
		regs, err := s.state.Core.Registers()
		if err != nil {
			return Stop, err
		}
		addr = regs.PC()
	}
	words := uint32(16)
	if len(args) == 2 {
		var err error
		if words, err = parseU32(args[1]); err != nil {
			fmt.Fprintln(s.out, err)
			return Continue, nil
		}
	}
	buf := make([]uint32, words)
	if err := s.state.Core.Read32(addr, buf); err != nil {
		return Stop, err
	}
	code := make([]byte, 4*len(buf))
	for i, v := range buf {
		binary.LittleEndian.PutUint32(code[4*i:], v)
	}
	for _, inst := range s.state.Dis.Disassemble(code, addr) {
		fmt.Fprintln(s.out, inst)
	}
	return Continue, nil
}

func runLocate(s *Shell, args []string) (Control, error) {
	if len(args) > 1 {
		return usageError(s, "locate")
	}
	if s.state.Debug == nil {
		fmt.Fprintln(s.out, "No debug info loaded. Start the shell with --exe to enable source lookups.")
		return Continue, nil
	}
	var addr uint32
	if len(args) == 1 {
		var err error
		if addr, err = parseU32(args[0]); err != nil {
			fmt.Fprintln(s.out, err)
			return Continue, nil
		}
	} else {
		regs, err := s.state.Core.Registers()
		if err != nil {
			return Stop, err
		}
		addr = regs.PC()
	}
	loc, err := s.state.Debug.SourceLocation(addr)
	if err != nil {
		fmt.Fprintf(s.out, "No source location for 0x%08x: %v\n", addr, err)
		return Continue, nil
	}
	fmt.Fprintf(s.out, "0x%08x: %s\n", addr, loc)
	return Continue, nil
}

func runReset(s *Shell, args []string) (Control, error) {
	if err := s.state.Core.Reset(); err != nil {
		return Stop, err
	}
	fmt.Fprintln(s.out, "Core reset.")
	return Continue, nil
}

func runHalt(s *Shell, args []string) (Control, error) {
	if err := s.state.Core.Halt(); err != nil {
		return Stop, err
	}
	regs, err := s.state.Core.Registers()
	if err != nil {
		return Stop, err
	}
	fmt.Fprintf(s.out, "Core halted at 0x%08x.\n", regs.PC())
	return Continue, nil
}

func runRun(s *Shell, args []string) (Control, error) {
	if err := s.state.Core.Run(); err != nil {
		return Stop, err
	}
	fmt.Fprintln(s.out, "Core running.")
	return Continue, nil
}

func runStep(s *Shell, args []string) (Control, error) {
	if err := s.state.Core.Step(); err != nil {
		fmt.Fprintln(s.out, err)
		return Continue, nil
	}
	regs, err := s.state.Core.Registers()
	if err != nil {
		return Stop, err
	}
	fmt.Fprintf(s.out, "Stepped to 0x%08x.\n", regs.PC())
	return Continue, nil
}

func runQuit(s *Shell, args []string) (Control, error) {
	return Stop, nil
}
