package flash

import (
	"fmt"

	"github.com/TomDeRybel/probe-rs/internal/probe"
)

// Phase is one stage of the flashing sequence.
type Phase string

const (
	// PhaseErase clears the affected non-volatile ranges
	PhaseErase Phase = "erase"
	// PhaseProgram writes the image data
	PhaseProgram Phase = "program"
	// PhaseVerify reads back and compares
	PhaseVerify Phase = "verify"
)

// ProgressFunc receives flashing progress: done out of total region
// operations completed for the given phase. It is called with done=0
// when a phase starts and done=total when it finishes.
type ProgressFunc func(phase Phase, done, total int)

// Download runs the flashing sequence for a fully populated loader
// against the attached session: erase, program, verify, in that
// order, region by region. The erase/program/verify work itself is
// delegated to the probe-access layer. A failure in any phase aborts
// the sequence; no partial-flash recovery is attempted.
func Download(session *probe.Session, loader *Loader, progress ProgressFunc) error {
	if progress == nil {
		progress = func(Phase, int, int) {}
	}
	regions := loader.Regions()
	total := len(regions)

	for _, phase := range []Phase{PhaseErase, PhaseProgram, PhaseVerify} {
		progress(phase, 0, total)
		for i, r := range regions {
			var err error
			switch phase {
			case PhaseErase:
				err = session.Erase(r.Address, uint32(len(r.Data)))
			case PhaseProgram:
				err = session.Program(r.Address, r.Data)
			case PhaseVerify:
				err = session.Verify(r.Address, r.Data)
			}
			if err != nil {
				return &ExecutionError{Phase: phase, Err: err}
			}
			progress(phase, i+1, total)
		}
	}
	return nil
}

// EraseAll erases every non-volatile region of the attached target.
func EraseAll(session *probe.Session) error {
	nvm := session.Target().NVM()
	if len(nvm) == 0 {
		return &ExecutionError{
			Phase: PhaseErase,
			Err:   fmt.Errorf("target %s has no non-volatile memory", session.Target().Name),
		}
	}
	for _, r := range nvm {
		if err := session.Erase(r.Start, r.Length); err != nil {
			return &ExecutionError{Phase: PhaseErase, Err: err}
		}
	}
	return nil
}
