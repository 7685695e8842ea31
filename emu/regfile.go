// Package emu provides the architectural state of the machine: the
// register file and the word-addressed memory.
package emu

// NumRegs is the number of architectural registers.
const NumRegs = 32

// RegFile represents the architectural register file.
// Values are 32-bit words; arithmetic wraps in two's complement.
// No register is hardwired to zero: by convention programs leave r0
// untouched, but the machine does not enforce it.
type RegFile struct {
	regs [NumRegs]uint32
}

// Read returns the value of register r.
func (rf *RegFile) Read(r uint32) uint32 {
	return rf.regs[r%NumRegs]
}

// Write stores v into register r.
func (rf *RegFile) Write(r, v uint32) {
	rf.regs[r%NumRegs] = v
}

// Values returns a snapshot of all register values.
func (rf *RegFile) Values() [NumRegs]uint32 {
	return rf.regs
}

// Reset zeroes every register.
func (rf *RegFile) Reset() {
	rf.regs = [NumRegs]uint32{}
}

// Copy returns an independent copy of the register file.
func (rf *RegFile) Copy() *RegFile {
	clone := &RegFile{}
	clone.regs = rf.regs
	return clone
}
