package shell

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/TomDeRybel/probe-rs/internal/debuginfo"
	"github.com/TomDeRybel/probe-rs/internal/disasm"
	"github.com/TomDeRybel/probe-rs/internal/probe"
)

// Control tells the shell loop whether to keep reading commands.
type Control int

const (
	// Continue keeps the shell loop running.
	Continue Control = iota
	// Stop ends the shell loop cleanly.
	Stop
)

// State is the target context a shell session operates on. Debug may
// be nil when no executable was given; source lookups then report
// that debug info is unavailable instead of failing.
type State struct {
	Core  *probe.Core
	Debug *debuginfo.DebugInfo
	Dis   *disasm.Disassembler
}

// lineReader is the subset of readline the shell loop needs. Tests
// substitute a scripted reader.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

// Shell is an interactive command loop bound to an attached core.
type Shell struct {
	state *State
	rl    lineReader
	out   io.Writer
}

// New builds a shell reading from the terminal and writing to stdout.
func New(state *State) (*Shell, error) {
	rl, err := readline.New(">> ")
	if err != nil {
		return nil, fmt.Errorf("initialising line editor: %w", err)
	}
	return &Shell{state: state, rl: rl, out: os.Stdout}, nil
}

// Run reads and dispatches commands until the user quits, the input
// stream ends, or a command fails hard. An interrupt (ctrl-c) or EOF
// (ctrl-d) ends the session cleanly. Other read errors are reported
// and also end the session without an error, since the line editor
// cannot usefully continue.
func (s *Shell) Run() error {
	defer s.rl.Close()
	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			fmt.Fprintf(s.out, "Error reading input: %v\n", err)
			return nil
		}
		ctl, err := s.HandleLine(line)
		if err != nil {
			return err
		}
		if ctl == Stop {
			return nil
		}
	}
}

// HandleLine parses and runs a single command line. Blank lines are
// ignored and unknown commands are reported without ending the
// session. Errors returned by a command are fatal to the session.
func (s *Shell) HandleLine(line string) (Control, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Continue, nil
	}
	name := strings.ToLower(fields[0])
	cmd, ok := commandTable[name]
	if !ok {
		fmt.Fprintf(s.out, "Unknown command %q. Type \"help\" for a list of commands.\n", name)
		return Continue, nil
	}
	return cmd.run(s, fields[1:])
}
