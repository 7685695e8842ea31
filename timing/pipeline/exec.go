package pipeline

import (
	"github.com/sarchlab/tomsim/insts"
)

// execResult computes the architectural result of the instruction held in
// station u from its captured operand values. Both operands must be
// available by the time this runs (the advance phase guarantees it).
//
// SW yields its data operand; the target address is latched separately at
// writeback. BEQZ yields the tested value, with zero meaning taken. J
// yields its offset, which nothing downstream consumes.
func (p *Pipeline) execResult(u Unit) uint32 {
	st := &p.stations[u]
	instr := st.Instr
	imm := insts.Imm(instr)

	switch insts.Opcode(instr) {
	case insts.OpADDI:
		return st.Vj + imm
	case insts.OpANDI:
		return st.Vj & imm
	case insts.OpRRALU:
		switch insts.FuncCode(instr) {
		case insts.FuncADD:
			return st.Vj + st.Vk
		case insts.FuncSUB:
			return st.Vj - st.Vk
		case insts.FuncAND:
			return st.Vj & st.Vk
		default:
			return 0
		}
	case insts.OpLW:
		return p.memory.Read(st.Vj + imm)
	case insts.OpSW:
		return st.Vk
	case insts.OpBEQZ:
		return st.Vj
	case insts.OpJ:
		return insts.JmpOffset(instr)
	default:
		return 0
	}
}
