// Package core provides the high-level machine interface. It owns the
// architectural state and wraps the Tomasulo pipeline so callers deal
// with one value per simulated machine.
package core

import (
	"github.com/sarchlab/tomsim/emu"
	"github.com/sarchlab/tomsim/timing/pipeline"
)

// Core is one simulated machine. Distinct simulations are obtained with
// New or Copy; cores share no state.
type Core struct {
	pipe *pipeline.Pipeline
}

// New creates a machine in the reset state: pc at the program base, no
// cycles elapsed, empty ROB and BTB, free stations, zeroed registers and
// memory, and memorySize zero.
func New(opts ...pipeline.Option) *Core {
	regFile := &emu.RegFile{}
	memory := emu.NewMemory()
	return &Core{
		pipe: pipeline.NewPipeline(regFile, memory, opts...),
	}
}

// LoadInstr places an instruction word at the given word address.
func (c *Core) LoadInstr(pc, word uint32) {
	c.pipe.LoadInstr(pc, word)
}

// SetMemorySize sets the exclusive upper bound of fetchable addresses.
func (c *Core) SetMemorySize(size uint32) {
	c.pipe.SetMemorySize(size)
}

// Tick advances the machine one cycle. It returns true when this cycle
// retired a HALT, and an error on an unrecognized opcode.
func (c *Core) Tick() (bool, error) {
	return c.pipe.Tick()
}

// Run ticks until a HALT retires, an error occurs, or maxCycles elapse.
func (c *Core) Run(maxCycles uint64) (bool, error) {
	return c.pipe.Run(maxCycles)
}

// Halted reports whether a HALT has retired.
func (c *Core) Halted() bool { return c.pipe.Halted() }

// PC returns the current program counter.
func (c *Core) PC() uint32 { return c.pipe.PC() }

// Cycles returns the number of cycles simulated so far.
func (c *Core) Cycles() uint32 { return c.pipe.Cycles() }

// RegFile returns the architectural register file.
func (c *Core) RegFile() *emu.RegFile { return c.pipe.RegFile() }

// Memory returns the machine memory.
func (c *Core) Memory() *emu.Memory { return c.pipe.Memory() }

// Stations returns a snapshot of the reservation stations.
func (c *Core) Stations() [pipeline.NumUnits + 1]pipeline.Station {
	return c.pipe.Stations()
}

// ROB returns a snapshot of the reorder buffer.
func (c *Core) ROB() [pipeline.ROBSize]pipeline.ROBEntry {
	return c.pipe.ROB()
}

// RegStatus returns a snapshot of the register rename table.
func (c *Core) RegStatus() [emu.NumRegs]pipeline.RegStatus {
	return c.pipe.RegStatus()
}

// BTB returns a snapshot of the branch target buffer.
func (c *Core) BTB() [pipeline.BTBSize]pipeline.BTBEntry {
	return c.pipe.Predictor().Entries()
}

// Pipeline returns the underlying pipeline.
func (c *Core) Pipeline() *pipeline.Pipeline { return c.pipe }

// Stats returns the performance counters.
func (c *Core) Stats() pipeline.Statistics { return c.pipe.Stats() }

// Reset returns the machine to its post-construction state.
func (c *Core) Reset() { c.pipe.Reset() }

// Copy returns an independent deep copy of the machine.
func (c *Core) Copy() *Core {
	return &Core{pipe: c.pipe.Copy()}
}
