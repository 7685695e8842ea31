package insts

import "fmt"

// Disassemble renders an instruction word in assembly syntax.
// Unknown opcodes are rendered as a raw word.
func Disassemble(w uint32) string {
	op := Opcode(w)
	switch op {
	case OpRRALU:
		return fmt.Sprintf("%s r%d, r%d, r%d", FuncCode(w), Reg3(w), Reg1(w), Reg2(w))
	case OpADDI, OpANDI, OpLW, OpSW:
		return fmt.Sprintf("%s r%d, r%d, %d", op, Reg2(w), Reg1(w), int32(Imm(w)))
	case OpBEQZ:
		return fmt.Sprintf("beqz r%d, %d", Reg1(w), int32(Imm(w)))
	case OpJ:
		return fmt.Sprintf("j %d", int32(JmpOffset(w)))
	case OpHALT:
		return "halt"
	case OpNOOP:
		return "noop"
	default:
		return fmt.Sprintf(".word 0x%08x", w)
	}
}
