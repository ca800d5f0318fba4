// Package disassemble implements a static disassembler for 6502 machine
// code. It decodes through the CPU core's opcode table so the two can
// never disagree, and does not interpret: LDA, JMP, LDA in memory
// disassembles as that sequence without following the JMP.
package disassemble

import (
	"fmt"

	"github.com/emu65/6502/cpu"
	"github.com/emu65/6502/memory"
)

// Step disassembles the instruction at pc, returning the assembly string
// and the number of bytes the PC moves to reach the next instruction.
// This always reads up to two bytes past pc so make sure those addresses
// are valid (or alias harmlessly).
func Step(pc uint16, m memory.System) (string, int) {
	op := m.Read(pc)
	instr := cpu.Decode(op)
	l := instr.Len()

	b1 := m.Read(pc + 1)
	b2 := m.Read(pc + 2)
	word := (uint16(b2) << 8) | uint16(b1)

	var param string
	switch instr.Mode {
	case cpu.IMM:
		param = fmt.Sprintf("#$%02X", b1)
	case cpu.ZRP:
		param = fmt.Sprintf("$%02X", b1)
	case cpu.ZPX:
		param = fmt.Sprintf("$%02X,X", b1)
	case cpu.ZPY:
		param = fmt.Sprintf("$%02X,Y", b1)
	case cpu.ABS:
		param = fmt.Sprintf("$%04X", word)
	case cpu.ABX:
		param = fmt.Sprintf("$%04X,X", word)
	case cpu.ABY:
		param = fmt.Sprintf("$%04X,Y", word)
	case cpu.IND:
		param = fmt.Sprintf("($%04X)", word)
	case cpu.IZX:
		param = fmt.Sprintf("($%02X,X)", b1)
	case cpu.IZY:
		param = fmt.Sprintf("($%02X),Y", b1)
	case cpu.REL:
		// Branch targets are relative to the next instruction.
		target := pc + 2 + uint16(int16(int8(b1)))
		param = fmt.Sprintf("$%04X", target)
	default: // IMP
	}

	if param == "" {
		return instr.Mnemonic.String(), l
	}
	return fmt.Sprintf("%s %s", instr.Mnemonic, param), l
}

// Block disassembles count instructions starting at pc, formatting each
// line with its address and machine code bytes.
func Block(pc uint16, count int, m memory.System) []string {
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		dis, l := Step(pc, m)
		var code string
		switch l {
		case 1:
			code = fmt.Sprintf("%02X      ", m.Read(pc))
		case 2:
			code = fmt.Sprintf("%02X %02X   ", m.Read(pc), m.Read(pc+1))
		default:
			code = fmt.Sprintf("%02X %02X %02X", m.Read(pc), m.Read(pc+1), m.Read(pc+2))
		}
		out = append(out, fmt.Sprintf("%04X  %s  %s", pc, code, dis))
		pc += uint16(l)
	}
	return out
}
