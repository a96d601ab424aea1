// Package trace samples target memory at a fixed cadence and streams
// timestamped records to a sink.
package trace

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/TomDeRybel/probe-rs/internal/logging"
	"github.com/TomDeRybel/probe-rs/internal/probe"
)

// DefaultPeriod is the sampling cadence used when none is configured.
const DefaultPeriod = 50 * time.Millisecond

// RecordSize is the size of one emitted sample record in bytes.
const RecordSize = 8

// flusher is implemented by sinks that buffer writes.
type flusher interface {
	Flush() error
}

// Sampler reads one 32-bit memory word at a fixed wall-clock cadence
// and streams timestamped samples to the sink. Each sample is emitted
// as a fixed 8-byte little-endian record: four bytes of elapsed
// milliseconds since loop start (truncated to 32 bits) followed by
// four bytes of value. Records are flushed as they are produced so a
// downstream real-time consumer sees samples as they arrive.
type Sampler struct {
	// Core is the exclusively owned core handle to sample through
	Core *probe.Core

	// Address is the memory word to sample
	Address uint32

	// Period is the sampling cadence; zero selects DefaultPeriod
	Period time.Duration

	// Sink receives the sample records
	Sink io.Writer

	// Logger, optional
	Logger *zap.Logger
}

// Run executes the sampling loop. It has no natural termination: it
// returns nil only when ctx is cancelled (interrupt), and otherwise
// runs until a read or sink-write failure, which is fatal and
// propagates immediately - a target disconnect invalidates all
// subsequent samples, so there is no partial-failure recovery.
//
// Samples land on the period grid rather than drifting by the loop's
// own execution cost: after each emit the loop sleeps the remainder
// of the elapsed time modulo the period.
func (s *Sampler) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	period := s.Period
	if period <= 0 {
		period = DefaultPeriod
	}

	logger.Info("sampling target memory",
		zap.Uint32("address", s.Address),
		zap.Duration("period", period),
	)

	start := time.Now()
	var record [RecordSize]byte

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		value, err := s.Core.ReadWord32(s.Address)
		if err != nil {
			return err
		}

		// Whole milliseconds; sub-millisecond drift accumulates and
		// is corrected by the grid sleep below.
		elapsed := uint64(time.Since(start).Milliseconds())

		binary.LittleEndian.PutUint32(record[0:4], uint32(elapsed))
		binary.LittleEndian.PutUint32(record[4:8], value)
		if _, err := s.Sink.Write(record[:]); err != nil {
			return fmt.Errorf("failed to write sample record: %w", err)
		}
		if f, ok := s.Sink.(flusher); ok {
			if err := f.Flush(); err != nil {
				return fmt.Errorf("failed to flush sample record: %w", err)
			}
		}
		logging.LogRawBytes("trace record", record[:])

		// Schedule the next read on the period grid.
		wait := period - time.Since(start)%period
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}
