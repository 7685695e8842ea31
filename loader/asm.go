// Package loader assembles and loads programs for the simulator. The
// assembly syntax is one instruction per line, an optional leading label,
// comma-separated operands, and ';' comments.
package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/tomsim/insts"
)

// instrKind distinguishes the three encoding shapes.
type instrKind uint8

const (
	kindI instrKind = iota // op rd, r1, imm     -> op|r1<<21|rd<<16|imm16
	kindR                  // op rd, r1, r2      -> 0|r1<<21|r2<<16|rd<<11|func
	kindJ                  // op [label|imm]     -> op|imm26
)

type opDef struct {
	opcode insts.Op
	kind   instrKind
	fn     insts.Func // R-type only
}

var mnemonics = map[string]opDef{
	"lw":   {insts.OpLW, kindI, 0},
	"sw":   {insts.OpSW, kindI, 0},
	"addi": {insts.OpADDI, kindI, 0},
	"andi": {insts.OpANDI, kindI, 0},
	"beqz": {insts.OpBEQZ, kindI, 0},
	"add":  {insts.OpRRALU, kindR, insts.FuncADD},
	"sub":  {insts.OpRRALU, kindR, insts.FuncSUB},
	"and":  {insts.OpRRALU, kindR, insts.FuncAND},
	"j":    {insts.OpJ, kindJ, 0},
	"halt": {insts.OpHALT, kindJ, 0},
	"noop": {insts.OpNOOP, kindJ, 0},
}

type sourceLine struct {
	op   string
	args []string
	no   int // zero-based instruction index
}

// Assemble translates assembly text into instruction words, one per
// non-empty line. Branch and jump operands may be labels; their encoded
// offset is target − line − 1.
func Assemble(src string) ([]uint32, error) {
	labels := map[string]int{}
	var lines []sourceLine

	no := 0
	for _, raw := range strings.Split(src, "\n") {
		line := raw
		if i := strings.IndexByte(line, ';'); i != -1 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		op := strings.ToLower(fields[0])
		if _, known := mnemonics[op]; !known {
			labels[fields[0]] = no
			fields = fields[1:]
			if len(fields) == 0 {
				return nil, fmt.Errorf("label without instruction at line %d", no)
			}
			op = strings.ToLower(fields[0])
			if _, known := mnemonics[op]; !known {
				return nil, fmt.Errorf("unknown mnemonic %q at line %d", op, no)
			}
		}

		var args []string
		if rest := strings.Join(fields[1:], ""); rest != "" {
			args = strings.Split(rest, ",")
		}
		lines = append(lines, sourceLine{op: op, args: args, no: no})
		no++
	}

	words := make([]uint32, 0, len(lines))
	for _, ln := range lines {
		w, err := encodeLine(ln, labels)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

func encodeLine(ln sourceLine, labels map[string]int) (uint32, error) {
	def := mnemonics[ln.op]

	switch def.kind {
	case kindR:
		if len(ln.args) != 3 {
			return 0, fmt.Errorf("%s wants 3 operands at line %d", ln.op, ln.no)
		}
		rd, err1 := parseReg(ln.args[0])
		r1, err2 := parseReg(ln.args[1])
		r2, err3 := parseReg(ln.args[2])
		if err := firstErr(err1, err2, err3); err != nil {
			return 0, fmt.Errorf("line %d: %w", ln.no, err)
		}
		return encodeR(def.opcode, rd, r1, r2, def.fn), nil

	case kindI:
		if ln.op == "beqz" {
			if len(ln.args) != 2 {
				return 0, fmt.Errorf("beqz wants 2 operands at line %d", ln.no)
			}
			r1, err := parseReg(ln.args[0])
			if err != nil {
				return 0, fmt.Errorf("line %d: %w", ln.no, err)
			}
			imm, err := parseOffset(ln.args[1], ln.no, labels)
			if err != nil {
				return 0, err
			}
			return encodeI(def.opcode, 0, r1, imm), nil
		}
		if len(ln.args) != 3 {
			return 0, fmt.Errorf("%s wants 3 operands at line %d", ln.op, ln.no)
		}
		rd, err1 := parseReg(ln.args[0])
		r1, err2 := parseReg(ln.args[1])
		if err := firstErr(err1, err2); err != nil {
			return 0, fmt.Errorf("line %d: %w", ln.no, err)
		}
		imm, err := parseInt(ln.args[2])
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", ln.no, err)
		}
		return encodeI(def.opcode, rd, r1, imm), nil

	default: // kindJ
		if ln.op != "j" {
			if len(ln.args) != 0 {
				return 0, fmt.Errorf("%s wants no operands at line %d", ln.op, ln.no)
			}
			return encodeJ(def.opcode, 0), nil
		}
		if len(ln.args) != 1 {
			return 0, fmt.Errorf("j wants 1 operand at line %d", ln.no)
		}
		imm, err := parseOffset(ln.args[0], ln.no, labels)
		if err != nil {
			return 0, err
		}
		return encodeJ(def.opcode, imm), nil
	}
}

func encodeI(op insts.Op, rd, r1 uint32, imm int32) uint32 {
	return uint32(op)<<26 | (r1&0x1f)<<21 | (rd&0x1f)<<16 | uint32(imm)&0xffff
}

func encodeR(op insts.Op, rd, r1, r2 uint32, fn insts.Func) uint32 {
	return uint32(op)<<26 | (r1&0x1f)<<21 | (r2&0x1f)<<16 | (rd&0x1f)<<11 |
		uint32(fn)&0x7ff
}

func encodeJ(op insts.Op, imm int32) uint32 {
	return uint32(op)<<26 | uint32(imm)&0x3ffffff
}

func parseReg(s string) (uint32, error) {
	if len(s) < 2 || (s[0] != 'r' && s[0] != 'R') {
		return 0, fmt.Errorf("bad register %q", s)
	}
	n, err := strconv.ParseUint(s[1:], 10, 32)
	if err != nil || n >= 32 {
		return 0, fmt.Errorf("bad register %q", s)
	}
	return uint32(n), nil
}

func parseInt(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad immediate %q", s)
	}
	return int32(n), nil
}

// parseOffset resolves a branch or jump operand: a known label encodes
// as target − line − 1, anything else must parse as a raw offset.
func parseOffset(s string, lineNo int, labels map[string]int) (int32, error) {
	if target, ok := labels[s]; ok {
		return int32(target - lineNo - 1), nil
	}
	n, err := parseInt(s)
	if err != nil {
		return 0, fmt.Errorf("line %d: unknown label or %w", lineNo, err)
	}
	return n, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
