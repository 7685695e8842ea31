package main

import (
	"fmt"
	"io"

	"github.com/sarchlab/tomsim/emu"
	"github.com/sarchlab/tomsim/insts"
	"github.com/sarchlab/tomsim/timing/core"
	"github.com/sarchlab/tomsim/timing/pipeline"
)

// printState dumps the visible machine state: busy stations with their
// operand/tag rendering, busy ROB entries, pending renames, learned BTB
// entries, memory from address 0 up to memorySize, and the register file.
func printState(w io.Writer, c *core.Core, memorySize uint32) {
	fmt.Fprintf(w, "Cycles: %d\n", c.Cycles())
	fmt.Fprintf(w, "\tpc = %d\n", c.PC())

	fmt.Fprintf(w, "\tReservation stations:\n")
	stations := c.Stations()
	for i := 1; i <= pipeline.NumUnits; i++ {
		st := stations[i]
		if !st.Busy {
			continue
		}
		fmt.Fprintf(w, "\t\t%s: %s  ", pipeline.Unit(i), insts.Disassemble(st.Instr))
		if st.Qj == pipeline.UnitNone {
			fmt.Fprintf(w, "Vj = %d ", st.Vj)
		} else {
			fmt.Fprintf(w, "Qj = '%s' ", st.Qj)
		}
		if st.Qk == pipeline.UnitNone {
			fmt.Fprintf(w, "Vk = %d ", st.Vk)
		} else {
			fmt.Fprintf(w, "Qk = '%s' ", st.Qk)
		}
		fmt.Fprintf(w, " ExTimeLeft = %d  ROB Index = %d\n", st.ExTimeLeft, st.ROBIdx)
	}

	fmt.Fprintf(w, "\tReorder buffers:\n")
	for i, entry := range c.ROB() {
		if !entry.Busy {
			continue
		}
		fmt.Fprintf(w, "\t\tReorder buffer %d: %s  unit '%s'  state %s  valid %t  result %d  address %d\n",
			i, insts.Disassemble(entry.Instr), entry.ExecUnit, entry.Status,
			entry.Valid, entry.Result, entry.Address)
	}

	fmt.Fprintf(w, "\tRegister result status:\n")
	for i, rs := range c.RegStatus() {
		if rs.Pending {
			fmt.Fprintf(w, "\t\tRegister %d: waiting for ROB index %d\n", i, rs.ROBIdx)
		}
	}

	fmt.Fprintf(w, "\tBranch target buffer:\n")
	for i, e := range c.BTB() {
		if e.Valid {
			fmt.Fprintf(w, "\t\tEntry %d: PC=%d, Target=%d, Pred=%s\n",
				i, e.BranchPC, e.TargetPC, e.Hist)
		}
	}

	fmt.Fprintf(w, "\tMemory:\n")
	for i, v := range c.Memory().Words(memorySize) {
		fmt.Fprintf(w, "\t\tmemory[%d] = %d\n", i, v)
	}

	fmt.Fprintf(w, "\tRegisters:\n")
	regs := c.RegFile().Values()
	for i := 0; i < emu.NumRegs; i++ {
		fmt.Fprintf(w, "\t\tregFile[%d] = %d\n", i, regs[i])
	}
}
