package insts

// Instruction word layout (bit 31 down to 0):
//
//	opcode  31..26
//	reg1    25..21
//	reg2    20..16
//	reg3    15..11
//	func    10..0
//	imm16   15..0   (sign-extended)
//	imm26   25..0   (sign-extended, jump offset)

// Opcode extracts the primary opcode from an instruction word.
func Opcode(w uint32) Op {
	return Op(w >> 26)
}

// Reg1 extracts the first register field (bits 25..21).
func Reg1(w uint32) uint32 {
	return (w >> 21) & 0x1f
}

// Reg2 extracts the second register field (bits 20..16).
func Reg2(w uint32) uint32 {
	return (w >> 16) & 0x1f
}

// Reg3 extracts the third register field (bits 15..11).
func Reg3(w uint32) uint32 {
	return (w >> 11) & 0x1f
}

// FuncCode extracts the ALU function code (bits 10..0).
func FuncCode(w uint32) Func {
	return Func(w & 0x7ff)
}

// Imm extracts the 16-bit immediate (bits 15..0), sign-extended to 32 bits.
func Imm(w uint32) uint32 {
	return signExtend(w&0xffff, 16)
}

// JmpOffset extracts the 26-bit jump offset (bits 25..0), sign-extended
// to 32 bits.
func JmpOffset(w uint32) uint32 {
	return signExtend(w&0x3ffffff, 26)
}

// signExtend propagates bit n-1 of v to the full word width.
func signExtend(v uint32, n uint) uint32 {
	shift := 32 - n
	return uint32(int32(v<<shift) >> shift)
}
