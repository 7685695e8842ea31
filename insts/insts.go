// Package insts provides the instruction word model: opcodes, ALU function
// codes, field extraction, and sign extension for the fixed 32-bit encoding.
package insts

// Op represents a primary opcode (bits 31..26 of an instruction word).
type Op uint32

// Primary opcodes.
const (
	OpRRALU Op = 0  // register-register ALU operation, function code selects
	OpHALT  Op = 1  // stop the machine at commit
	OpJ     Op = 2  // unconditional jump, 26-bit offset
	OpNOOP  Op = 3  // no operation
	OpBEQZ  Op = 4  // branch if the tested register is zero
	OpADDI  Op = 8  // add immediate
	OpANDI  Op = 12 // and immediate
	OpLW    Op = 35 // load word
	OpSW    Op = 43 // store word
)

// Func represents an ALU function code (bits 10..0 of an RR_ALU word).
type Func uint32

// ALU function codes.
const (
	FuncADD Func = 32
	FuncSUB Func = 34
	FuncAND Func = 36
)

// NOOPInstr is the encoded no-operation instruction word.
const NOOPInstr uint32 = 0x0c000000

// String returns the assembly mnemonic for the opcode.
func (op Op) String() string {
	switch op {
	case OpRRALU:
		return "rr-alu"
	case OpHALT:
		return "halt"
	case OpJ:
		return "j"
	case OpNOOP:
		return "noop"
	case OpBEQZ:
		return "beqz"
	case OpADDI:
		return "addi"
	case OpANDI:
		return "andi"
	case OpLW:
		return "lw"
	case OpSW:
		return "sw"
	default:
		return "unknown"
	}
}

// String returns the assembly mnemonic for the function code.
func (f Func) String() string {
	switch f {
	case FuncADD:
		return "add"
	case FuncSUB:
		return "sub"
	case FuncAND:
		return "and"
	default:
		return "unknown"
	}
}

// WritesRegister reports whether instructions with this opcode write an
// architectural register at commit.
func (op Op) WritesRegister() bool {
	switch op {
	case OpLW, OpADDI, OpANDI, OpRRALU:
		return true
	default:
		return false
	}
}

// Valid reports whether the opcode is one the machine understands.
func (op Op) Valid() bool {
	switch op {
	case OpRRALU, OpHALT, OpJ, OpNOOP, OpBEQZ, OpADDI, OpANDI, OpLW, OpSW:
		return true
	default:
		return false
	}
}
