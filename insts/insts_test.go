package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomsim/insts"
)

var _ = Describe("Field extraction", func() {
	It("should extract the opcode from bits 31..26", func() {
		Expect(insts.Opcode(0x20010005)).To(Equal(insts.OpADDI))
		Expect(insts.Opcode(0x04000000)).To(Equal(insts.OpHALT))
		Expect(insts.Opcode(uint32(35) << 26)).To(Equal(insts.OpLW))
	})

	It("should extract the register fields", func() {
		// addi r2, r1, 7: reg1=1, reg2=2
		w := uint32(8)<<26 | 1<<21 | 2<<16 | 7
		Expect(insts.Reg1(w)).To(Equal(uint32(1)))
		Expect(insts.Reg2(w)).To(Equal(uint32(2)))

		// sub r3, r1, r2: reg1=1, reg2=2, reg3=3, func=34
		r := uint32(0)<<26 | 1<<21 | 2<<16 | 3<<11 | 34
		Expect(insts.Reg1(r)).To(Equal(uint32(1)))
		Expect(insts.Reg2(r)).To(Equal(uint32(2)))
		Expect(insts.Reg3(r)).To(Equal(uint32(3)))
		Expect(insts.FuncCode(r)).To(Equal(insts.FuncSUB))
	})

	It("should mask register fields to 5 bits", func() {
		Expect(insts.Reg1(0xffffffff)).To(Equal(uint32(31)))
		Expect(insts.Reg2(0xffffffff)).To(Equal(uint32(31)))
		Expect(insts.Reg3(0xffffffff)).To(Equal(uint32(31)))
	})
})

var _ = Describe("Sign extension", func() {
	It("should sign-extend negative 16-bit immediates", func() {
		Expect(insts.Imm(0x0000ffff)).To(Equal(uint32(0xffffffff)))
		Expect(insts.Imm(0x00008000)).To(Equal(uint32(0xffff8000)))
	})

	It("should leave positive 16-bit immediates alone", func() {
		Expect(insts.Imm(0x00007fff)).To(Equal(uint32(0x7fff)))
		Expect(insts.Imm(0x00000005)).To(Equal(uint32(5)))
	})

	It("should sign-extend negative 26-bit jump offsets", func() {
		Expect(insts.JmpOffset(0x03ffffff)).To(Equal(uint32(0xffffffff)))
		Expect(insts.JmpOffset(0x02000000)).To(Equal(uint32(0xfe000000)))
	})

	It("should leave positive 26-bit jump offsets alone", func() {
		Expect(insts.JmpOffset(0x00000002)).To(Equal(uint32(2)))
		Expect(insts.JmpOffset(0x01ffffff)).To(Equal(uint32(0x01ffffff)))
	})
})

var _ = Describe("Opcode properties", func() {
	It("should match the encoded NOOP literal", func() {
		Expect(insts.NOOPInstr).To(Equal(uint32(0x0c000000)))
		Expect(insts.Opcode(insts.NOOPInstr)).To(Equal(insts.OpNOOP))
	})

	It("should know which opcodes write a register", func() {
		Expect(insts.OpLW.WritesRegister()).To(BeTrue())
		Expect(insts.OpADDI.WritesRegister()).To(BeTrue())
		Expect(insts.OpANDI.WritesRegister()).To(BeTrue())
		Expect(insts.OpRRALU.WritesRegister()).To(BeTrue())

		Expect(insts.OpSW.WritesRegister()).To(BeFalse())
		Expect(insts.OpBEQZ.WritesRegister()).To(BeFalse())
		Expect(insts.OpJ.WritesRegister()).To(BeFalse())
		Expect(insts.OpHALT.WritesRegister()).To(BeFalse())
		Expect(insts.OpNOOP.WritesRegister()).To(BeFalse())
	})

	It("should recognize valid opcodes", func() {
		Expect(insts.OpLW.Valid()).To(BeTrue())
		Expect(insts.Op(9).Valid()).To(BeFalse())
		Expect(insts.Op(63).Valid()).To(BeFalse())
	})
})

var _ = Describe("Disassemble", func() {
	It("should render each encoding shape", func() {
		Expect(insts.Disassemble(uint32(8)<<26 | 0<<21 | 1<<16 | 5)).
			To(Equal("addi r1, r0, 5"))
		Expect(insts.Disassemble(uint32(0)<<26 | 1<<21 | 2<<16 | 3<<11 | 34)).
			To(Equal("sub r3, r1, r2"))
		Expect(insts.Disassemble(uint32(2)<<26 | 2)).To(Equal("j 2"))
		Expect(insts.Disassemble(insts.NOOPInstr)).To(Equal("noop"))
	})

	It("should render unknown opcodes as raw words", func() {
		Expect(insts.Disassemble(uint32(9) << 26)).To(Equal(".word 0x24000000"))
	})
})
