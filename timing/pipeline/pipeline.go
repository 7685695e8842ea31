// Package pipeline implements the Tomasulo out-of-order simulation core:
// reservation stations, a reorder buffer with in-order commit, register
// renaming through a register-status table, a branch target buffer with
// speculative fetch, and the fixed commit/advance/issue cycle ordering.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/sarchlab/tomsim/emu"
	"github.com/sarchlab/tomsim/insts"
	"github.com/sarchlab/tomsim/timing/latency"
)

// StartPC is the word address programs are fetched from after reset.
// Addresses below it are left to the loader for data.
const StartPC = 16

// ErrUnknownOpcode reports an unrecognized primary opcode during issue.
var ErrUnknownOpcode = errors.New("unknown opcode")

// RegStatus tracks the rename state of one architectural register. The
// zero value means the register file holds the current value; Pending
// names the ROB slot whose retirement will produce it.
type RegStatus struct {
	// Pending is set while an in-flight instruction owns the register.
	Pending bool
	// ROBIdx is the producing reorder-buffer slot, meaningful only while
	// Pending is set.
	ROBIdx int
}

// Statistics holds performance counters for the pipeline.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Issues is the number of instructions issued, including ones later
	// squashed.
	Issues uint64
	// Squashes is the number of branch-misprediction rollbacks.
	Squashes uint64
}

// CPI returns cycles per retired instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Pipeline is the complete machine state: architectural state plus the
// four micro-architectural tables. Distinct simulations are obtained via
// Copy; the tables reference each other only by numeric index.
type Pipeline struct {
	regFile *emu.RegFile
	memory  *emu.Memory

	pc         uint32
	cycles     uint32
	memorySize uint32

	rob       reorderBuffer
	stations  [NumUnits + 1]Station
	regStatus [emu.NumRegs]RegStatus
	predictor *BranchPredictor

	lat    *latency.Table
	stats  Statistics
	halted bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLatencyTable overrides the execution latency table.
func WithLatencyTable(table *latency.Table) Option {
	return func(p *Pipeline) {
		p.lat = table
	}
}

// WithPredictorSeed seeds the branch predictor's victim-selection
// generator, making eviction order reproducible.
func WithPredictorSeed(seed uint64) Option {
	return func(p *Pipeline) {
		p.predictor = NewBranchPredictor(seed)
	}
}

// NewPipeline creates a machine in the reset state: pc at StartPC, no
// cycles elapsed, empty ROB, all stations free, all registers valid, and
// memorySize zero (nothing fetchable until SetMemorySize).
func NewPipeline(regFile *emu.RegFile, memory *emu.Memory, opts ...Option) *Pipeline {
	p := &Pipeline{
		regFile:   regFile,
		memory:    memory,
		pc:        StartPC,
		predictor: NewBranchPredictor(0),
		lat:       latency.NewTable(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PC returns the current program counter.
func (p *Pipeline) PC() uint32 { return p.pc }

// SetPC sets the program counter.
func (p *Pipeline) SetPC(pc uint32) { p.pc = pc }

// Cycles returns the number of cycles simulated so far.
func (p *Pipeline) Cycles() uint32 { return p.cycles }

// MemorySize returns the exclusive upper bound of fetchable addresses.
func (p *Pipeline) MemorySize() uint32 { return p.memorySize }

// SetMemorySize sets the exclusive upper bound of fetchable addresses.
func (p *Pipeline) SetMemorySize(size uint32) { p.memorySize = size }

// LoadInstr places an instruction word at the given word address.
func (p *Pipeline) LoadInstr(pc, word uint32) { p.memory.Write(pc, word) }

// RegFile returns the architectural register file.
func (p *Pipeline) RegFile() *emu.RegFile { return p.regFile }

// Memory returns the machine memory.
func (p *Pipeline) Memory() *emu.Memory { return p.memory }

// Stations returns a snapshot of the reservation stations. Index 0 is
// unused; indices 1..6 correspond to the units directly.
func (p *Pipeline) Stations() [NumUnits + 1]Station { return p.stations }

// ROB returns a snapshot of the reorder buffer entries.
func (p *Pipeline) ROB() [ROBSize]ROBEntry { return p.rob.entries }

// ROBHead returns the index of the oldest in-flight entry, or ok=false
// when the buffer is empty.
func (p *Pipeline) ROBHead() (int, bool) { return p.rob.Head() }

// ROBOccupancy returns the number of in-flight reorder-buffer entries.
func (p *Pipeline) ROBOccupancy() int { return p.rob.Occupancy() }

// RegStatus returns a snapshot of the register rename table.
func (p *Pipeline) RegStatus() [emu.NumRegs]RegStatus { return p.regStatus }

// Predictor returns the branch predictor.
func (p *Pipeline) Predictor() *BranchPredictor { return p.predictor }

// Stats returns the performance counters.
func (p *Pipeline) Stats() Statistics { return p.stats }

// Halted reports whether a HALT has retired.
func (p *Pipeline) Halted() bool { return p.halted }

// Tick advances the machine one cycle: commit, then advance all in-flight
// instructions, then issue. It returns true when this cycle retired a
// HALT, and an error on an unrecognized opcode at the fetch PC.
func (p *Pipeline) Tick() (bool, error) {
	p.cycles++
	p.stats.Cycles++

	if p.commitPhase() {
		p.halted = true
		return true, nil
	}
	p.advancePhase()
	if err := p.issuePhase(); err != nil {
		return false, err
	}
	return false, nil
}

// Run ticks until a HALT retires, an error occurs, or maxCycles elapse.
// It returns whether the machine halted.
func (p *Pipeline) Run(maxCycles uint64) (bool, error) {
	for i := uint64(0); i < maxCycles; i++ {
		halted, err := p.Tick()
		if err != nil || halted {
			return halted, err
		}
	}
	return false, nil
}

// commitPhase retires the head of the reorder buffer if it is ready.
// It returns true when the retired instruction is a HALT.
func (p *Pipeline) commitPhase() bool {
	head, ok := p.rob.Head()
	if !ok {
		return false
	}
	entry := &p.rob.entries[head]
	if !entry.Busy || !entry.Valid || entry.Status != StatusCommitting {
		return false
	}
	if insts.Opcode(entry.Instr) == insts.OpHALT {
		p.rob.Pop()
		p.stats.Instructions++
		return true
	}
	p.commit(head)
	return false
}

// commit applies the architectural effect of the head entry.
func (p *Pipeline) commit(robIdx int) {
	entry := &p.rob.entries[robIdx]
	instr := entry.Instr
	result := entry.Result

	switch insts.Opcode(instr) {
	case insts.OpLW, insts.OpADDI, insts.OpANDI:
		p.retireRegWrite(insts.Reg2(instr), robIdx, result)

	case insts.OpRRALU:
		p.retireRegWrite(insts.Reg3(instr), robIdx, result)

	case insts.OpBEQZ:
		target := entry.PC + 1 + insts.Imm(instr)
		taken := result == 0
		p.predictor.Update(entry.PC, target, taken)
		misspeculated := (taken && entry.Address != target) ||
			(!taken && entry.Address != entry.PC+1)
		if misspeculated {
			p.squash(target)
		} else {
			p.rob.Pop()
			p.stats.Instructions++
		}

	case insts.OpSW:
		p.commitStore(robIdx)

	default: // J, NOOP
		p.rob.Pop()
		p.stats.Instructions++
	}
}

// retireRegWrite writes a result to the register file and releases the
// rename if this entry still owns it (a later issue to the same register
// supersedes the mapping).
func (p *Pipeline) retireRegWrite(reg uint32, robIdx int, result uint32) {
	rs := &p.regStatus[reg]
	if rs.Pending && rs.ROBIdx == robIdx {
		*rs = RegStatus{}
	}
	p.regFile.Write(reg, result)
	p.rob.Pop()
	p.stats.Instructions++
}

// commitStore handles the two-phase store protocol. A store arriving at
// the head still attached to its issue-time integer station is first
// transferred into a free store station to drive the memory write; it
// drains there over subsequent commit cycles and retires once the write
// lands. The head is not popped until then.
func (p *Pipeline) commitStore(robIdx int) {
	entry := &p.rob.entries[robIdx]
	unit := entry.ExecUnit

	if unit != UnitStore1 && unit != UnitStore2 {
		for _, su := range storeUnits {
			st := &p.stations[su]
			if st.Busy {
				continue
			}
			*st = Station{
				Busy:       true,
				Instr:      entry.Instr,
				Vj:         entry.Result,  // store data
				Vk:         entry.Address, // target address
				ExTimeLeft: p.lat.StoreDrainCycles(),
				ROBIdx:     robIdx,
			}
			entry.ExecUnit = su
			return
		}
		return // both store stations busy, retry next commit cycle
	}

	st := &p.stations[unit]
	if st.ExTimeLeft == 0 {
		p.memory.Write(st.Vk, st.Vj)
		*st = Station{}
		p.rob.Pop()
		p.stats.Instructions++
	} else {
		st.ExTimeLeft--
	}
}

// squash rolls the machine back after a branch misprediction at commit:
// every in-flight instruction is discarded, all renames are dropped, and
// fetch restarts at the architectural target.
func (p *Pipeline) squash(target uint32) {
	p.rob.Reset()
	p.stations = [NumUnits + 1]Station{}
	p.regStatus = [emu.NumRegs]RegStatus{}
	p.pc = target
	p.stats.Squashes++
}

// advancePhase moves every in-flight instruction one step: executing
// instructions count down and write back, written results proceed toward
// commit, and issued instructions whose operands arrived start executing.
// Writeback broadcasts within the phase, so later entries in the same
// cycle observe the freshly forwarded operands.
func (p *Pipeline) advancePhase() {
	for robIdx := range p.rob.entries {
		entry := &p.rob.entries[robIdx]
		if !entry.Busy {
			continue
		}
		st := &p.stations[entry.ExecUnit]

		switch entry.Status {
		case StatusExecuting:
			if st.ExTimeLeft != 0 {
				st.ExTimeLeft--
			} else {
				entry.Status = StatusWritingResult
				if insts.Opcode(entry.Instr) == insts.OpSW {
					entry.Address = st.Vj + insts.Imm(entry.Instr)
				}
				p.broadcast(entry.ExecUnit, p.execResult(entry.ExecUnit))
				*st = Station{}
			}
		case StatusWritingResult:
			entry.Status = StatusCommitting
		case StatusIssuing:
			if st.Ready() {
				entry.Status = StatusExecuting
				st.ExTimeLeft--
			}
		}
	}
}

// broadcast delivers a writeback value on the common data bus: every
// station waiting on the unit captures it, and every unwritten ROB entry
// produced by the unit latches it as its result.
func (p *Pipeline) broadcast(unit Unit, value uint32) {
	for i := range p.stations {
		st := &p.stations[i]
		if !st.Busy {
			continue
		}
		if st.Qj == unit {
			st.Vj = value
			st.Qj = UnitNone
		}
		if st.Qk == unit {
			st.Vk = value
			st.Qk = UnitNone
		}
	}
	for i := range p.rob.entries {
		entry := &p.rob.entries[i]
		if entry.Busy && !entry.Valid && entry.ExecUnit == unit {
			entry.Result = value
			entry.Valid = true
		}
	}
}

// issuePhase fetches at most one instruction at the PC and places it into
// a free station and a fresh ROB slot. A full station pool or a full ROB
// skips issue for the cycle without consuming anything. The PC advances
// speculatively: branches follow the predictor, jumps take their target.
func (p *Pipeline) issuePhase() error {
	if p.pc >= p.memorySize {
		return nil
	}
	issuePC := p.pc
	instr := p.memory.Read(issuePC)
	op := insts.Opcode(instr)

	var pool [2]Unit
	switch op {
	case insts.OpRRALU, insts.OpSW, insts.OpADDI, insts.OpANDI,
		insts.OpJ, insts.OpHALT, insts.OpNOOP, insts.OpBEQZ:
		pool = intUnits
	case insts.OpLW:
		pool = loadUnits
	default:
		return fmt.Errorf("%w %d at pc=%d", ErrUnknownOpcode, uint32(op), issuePC)
	}

	unit := UnitNone
	for _, u := range pool {
		if !p.stations[u].Busy {
			unit = u
			break
		}
	}
	if unit == UnitNone {
		return nil
	}

	robIdx, ok := p.rob.Push()
	if !ok {
		return nil
	}

	p.issue(issuePC, unit, robIdx)
	p.stats.Issues++

	switch op {
	case insts.OpBEQZ:
		p.pc = p.predictor.Target(issuePC)
		p.rob.entries[robIdx].Address = p.pc
	case insts.OpJ:
		p.pc = issuePC + insts.JmpOffset(instr) + 1
	default:
		if p.pc < p.memorySize-1 {
			p.pc++
		}
	}
	return nil
}

// issue fills a station and a ROB slot for the instruction at pc,
// capturing operands from the register file or from in-flight producers,
// and renaming the destination register for ops that write one.
func (p *Pipeline) issue(pc uint32, unit Unit, robIdx int) {
	instr := p.memory.Read(pc)
	op := insts.Opcode(instr)

	st := &p.stations[unit]
	*st = Station{
		Busy:       true,
		Instr:      instr,
		ExTimeLeft: p.lat.ExecCycles(op),
		ROBIdx:     robIdx,
	}
	p.rob.entries[robIdx] = ROBEntry{
		Busy:     true,
		PC:       pc,
		Instr:    instr,
		ExecUnit: unit,
		Status:   StatusIssuing,
	}

	switch op {
	case insts.OpRRALU:
		p.captureOperand(insts.Reg1(instr), &st.Vj, &st.Qj)
		p.captureOperand(insts.Reg2(instr), &st.Vk, &st.Qk)
		p.rename(insts.Reg3(instr), robIdx)
	case insts.OpADDI, insts.OpANDI, insts.OpLW:
		p.captureOperand(insts.Reg1(instr), &st.Vj, &st.Qj)
		p.rename(insts.Reg2(instr), robIdx)
	case insts.OpBEQZ:
		p.captureOperand(insts.Reg1(instr), &st.Vj, &st.Qj)
	case insts.OpSW:
		// Vj carries the base address operand, Vk the data to store.
		p.captureOperand(insts.Reg1(instr), &st.Vj, &st.Qj)
		p.captureOperand(insts.Reg2(instr), &st.Vk, &st.Qk)
	case insts.OpJ:
		// Fall-through record, not a computation operand.
		st.Vk = pc + 1
	}
}

// captureOperand resolves one source register: a valid register reads the
// register file; a pending one reads the producer's result if already
// written, else records the producer's unit as the wait tag.
func (p *Pipeline) captureOperand(reg uint32, v *uint32, q *Unit) {
	rs := p.regStatus[reg]
	if !rs.Pending {
		*v = p.regFile.Read(reg)
		*q = UnitNone
		return
	}
	producer := &p.rob.entries[rs.ROBIdx]
	if producer.Valid {
		*v = producer.Result
		*q = UnitNone
	} else {
		*q = producer.ExecUnit
	}
}

// rename marks reg as owned by the in-flight instruction at robIdx,
// superseding any earlier mapping.
func (p *Pipeline) rename(reg uint32, robIdx int) {
	p.regStatus[reg] = RegStatus{Pending: true, ROBIdx: robIdx}
}

// Reset returns the machine to its post-construction state, including
// zeroed registers and memory. The predictor keeps its seed sequence.
func (p *Pipeline) Reset() {
	p.regFile.Reset()
	p.memory.Reset()
	p.pc = StartPC
	p.cycles = 0
	p.memorySize = 0
	p.rob.Reset()
	p.stations = [NumUnits + 1]Station{}
	p.regStatus = [emu.NumRegs]RegStatus{}
	p.predictor.Reset()
	p.stats = Statistics{}
	p.halted = false
}

// Copy returns an independent deep copy of the machine: ticking the copy
// never observes or mutates state on the original, and identically
// seeded copies replay identically.
func (p *Pipeline) Copy() *Pipeline {
	clone := *p
	clone.regFile = p.regFile.Copy()
	clone.memory = p.memory.Copy()
	clone.predictor = p.predictor.Copy()
	return &clone
}
