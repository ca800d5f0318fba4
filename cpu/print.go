package cpu

import (
	"fmt"
	"strings"
)

// PrintCurrentInstruction formats the instruction currently latched in the
// chip for tracing. The machine code field is 8 columns, the parameter
// field 23; reads point at their value with -> and writes with <-, so a
// trace lines up no matter the addressing mode:
//
//	AD 10 80  LDA $8010            -> $42
//	91 20     STA ($20),Y -> $0312 <- $00
//
// Returns the empty string before the first fetch and while a hardware
// interrupt sequence is running; during BRK's own service sequence it
// still formats the BRK.
func (p *Chip) PrintCurrentInstruction() string {
	instr := p.curInstr
	if instr == nil {
		return ""
	}

	var code string
	switch instr.Len() {
	case 1:
		code = fmt.Sprintf("%02X      ", p.op)
	case 2:
		code = fmt.Sprintf("%02X %02X   ", p.op, uint8(p.curOperand))
	default:
		code = fmt.Sprintf("%02X %02X %02X", p.op, uint8(p.curOperand), uint8(p.curOperand>>8))
	}

	read := instr.Type() == InsR || instr.Type() == InsRW
	arrow := "<-"
	if read {
		arrow = "->"
	}
	idx := "X"
	if instr.Mode == ZPY || instr.Mode == ABY {
		idx = "Y"
	}

	var param string
	switch instr.Mode {
	case IMM:
		param = fmt.Sprintf("#$%02X                   ", uint8(p.curOperand))
	case ZRP:
		param = fmt.Sprintf("$%02X              %s $%02X", uint8(p.curOperand), arrow, p.latched)
	case ZPX, ZPY:
		param = fmt.Sprintf("$%02X,%s   -> $%04X %s $%02X", uint8(p.curOperand), idx, p.effOperand, arrow, p.latched)
	case ABS:
		param = fmt.Sprintf("$%04X            %s $%02X", p.curOperand, arrow, p.latched)
	case ABX, ABY:
		param = fmt.Sprintf("$%04X,%s -> $%04X %s $%02X", p.curOperand, idx, p.effOperand, arrow, p.latched)
	case REL:
		param = fmt.Sprintf("#$%02X    -> $%04X       ", uint8(p.curOperand), p.effOperand)
	case IND:
		param = fmt.Sprintf("($%04X) -> $%04X       ", p.curOperand, p.effOperand)
	case IZX:
		param = fmt.Sprintf("($%02X,X) -> $%04X %s $%02X", uint8(p.curOperand), p.effOperand, arrow, p.latched)
	case IZY:
		param = fmt.Sprintf("($%02X),Y -> $%04X %s $%02X", uint8(p.curOperand), p.effOperand, arrow, p.latched)
	default: // IMP
		param = strings.Repeat(" ", 23)
	}

	return fmt.Sprintf("%s  %s %s", code, instr.Mnemonic, param)
}
