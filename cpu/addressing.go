package cpu

import "fmt"

// Implied and immediate mode finish on cycle 2. The other addressing mode
// executors below run from cycle 3 onward (cycle 1 is the opcode fetch,
// cycle 2 the common operand low fetch) and hand off to finishRW once the
// effective address is known. By the time doOperation
// runs, latched holds the operand byte for reads and RMW, or is about to
// be stored for writes.

// finishRW performs the common read / write / read-modify-write finishing
// sequence starting at the given cycle offset.
func (p *Chip) finishRW(offset int) error {
	switch t := p.curInstr.Type(); t {
	case InsR:
		if p.instrCycle != offset {
			return InvalidCPUState{fmt.Sprintf("%s read finish on cycle %d, want %d", p.curInstr.Mnemonic, p.instrCycle, offset)}
		}
		p.latched = p.ram.Read(p.effOperand)
		if err := p.doOperation(); err != nil {
			return err
		}
		p.instrCycle = 0
		return nil
	case InsW:
		if p.instrCycle != offset {
			return InvalidCPUState{fmt.Sprintf("%s write finish on cycle %d, want %d", p.curInstr.Mnemonic, p.instrCycle, offset)}
		}
		if err := p.doOperation(); err != nil {
			return err
		}
		p.ram.Write(p.effOperand, p.latched)
		p.instrCycle = 0
		return nil
	case InsRW:
		switch p.instrCycle - offset {
		case 0:
			p.latched = p.ram.Read(p.effOperand)
		case 1:
			// The hardware writes the unmodified value back while the
			// ALU works on it.
			p.ram.Write(p.effOperand, p.latched)
			if err := p.doOperation(); err != nil {
				return err
			}
		case 2:
			p.ram.Write(p.effOperand, p.latched)
			p.instrCycle = 0
		default:
			return InvalidCPUState{fmt.Sprintf("%s rmw finish on cycle %d, want %d..%d", p.curInstr.Mnemonic, p.instrCycle, offset, offset+2)}
		}
		return nil
	default:
		return InvalidCPUState{fmt.Sprintf("%s (type %d) is not a memory instruction", p.curInstr.Mnemonic, t)}
	}
}

// handleIMP covers implied mode: a dummy read of PC and the operation run
// against the accumulator (or no data at all for register instructions).
func (p *Chip) handleIMP() error {
	if p.instrCycle != 2 {
		return InvalidCPUState{fmt.Sprintf("implied mode on cycle %d", p.instrCycle)}
	}
	_ = p.ram.Read(p.regs.PC)
	switch p.curInstr.Type() {
	case InsR:
		p.latched = p.regs.A
		if err := p.doOperation(); err != nil {
			return err
		}
	case InsW:
		if err := p.doOperation(); err != nil {
			return err
		}
		p.regs.A = p.latched
	case InsRW:
		p.latched = p.regs.A
		if err := p.doOperation(); err != nil {
			return err
		}
		p.regs.A = p.latched
	default:
		// Register operations and KIL.
		if err := p.doOperation(); err != nil {
			return err
		}
	}
	p.instrCycle = 0
	return nil
}

// handleIMM covers immediate mode: fetch the byte and run the operation on
// it in the same cycle.
func (p *Chip) handleIMM() error {
	if p.instrCycle != 2 {
		return InvalidCPUState{fmt.Sprintf("immediate mode on cycle %d", p.instrCycle)}
	}
	p.curOperand |= uint16(p.ram.Read(p.regs.PC))
	p.regs.PC++
	p.latched = uint8(p.curOperand)
	if err := p.doOperation(); err != nil {
		return err
	}
	p.instrCycle = 0
	return nil
}

// handleZRP covers zero page mode - d.
func (p *Chip) handleZRP() error {
	if p.instrCycle < 3 || p.instrCycle > 5 {
		return InvalidCPUState{fmt.Sprintf("zero page mode on cycle %d", p.instrCycle)}
	}
	p.effOperand = p.curOperand
	return p.finishRW(3)
}

// handleZPIndexed covers zero page indexed modes - d,x and d,y. The index
// add wraps within the zero page; the pre-index address gets a dummy read.
func (p *Chip) handleZPIndexed() error {
	switch {
	case p.instrCycle < 3 || p.instrCycle > 6:
		return InvalidCPUState{fmt.Sprintf("zero page indexed mode on cycle %d", p.instrCycle)}
	case p.instrCycle == 3:
		p.latched = p.ram.Read(p.curOperand)
		reg := p.regs.X
		if p.curInstr.Mode == ZPY {
			reg = p.regs.Y
		}
		p.effOperand = (p.curOperand + uint16(reg)) & 0xFF
		return nil
	}
	return p.finishRW(4)
}

// handleABS covers absolute mode - a.
func (p *Chip) handleABS() error {
	switch {
	case p.instrCycle < 3 || p.instrCycle > 6:
		return InvalidCPUState{fmt.Sprintf("absolute mode on cycle %d", p.instrCycle)}
	case p.instrCycle == 3:
		p.curOperand |= uint16(p.ram.Read(p.regs.PC)) << 8
		p.regs.PC++
		return nil
	}
	p.effOperand = p.curOperand
	return p.finishRW(4)
}

// handleABSIndexed covers absolute indexed modes - a,x and a,y. The first
// read uses an address computed with a low byte only add; reads that
// didn't cross a page finish right there, everything else pays the fixup
// cycle with the corrected high byte.
func (p *Chip) handleABSIndexed() error {
	reg := p.regs.X
	if p.curInstr.Mode == ABY {
		reg = p.regs.Y
	}
	switch {
	case p.instrCycle < 3 || p.instrCycle > 8:
		return InvalidCPUState{fmt.Sprintf("absolute indexed mode on cycle %d", p.instrCycle)}
	case p.instrCycle == 3:
		p.curOperand |= uint16(p.ram.Read(p.regs.PC)) << 8
		p.effOperand = (p.curOperand & 0xFF00) | ((p.curOperand + uint16(reg)) & 0xFF)
		p.regs.PC++
		return nil
	case p.instrCycle == 4:
		p.latched = p.ram.Read(p.effOperand)
		if (p.curOperand&0xFF)+uint16(reg) >= 0x100 {
			p.effOperand += 0x100
		} else if p.curInstr.Type() == InsR {
			// The high byte was already right so that read was real.
			if err := p.doOperation(); err != nil {
				return err
			}
			p.instrCycle = 0
		}
		return nil
	}
	return p.finishRW(5)
}

// handleIZX covers indexed indirect mode - (d,x). The pointer add gets a
// dummy read of the unindexed zero page address and both pointer bytes are
// fetched with zero page wraparound.
func (p *Chip) handleIZX() error {
	switch {
	case p.instrCycle < 3 || p.instrCycle > 8:
		return InvalidCPUState{fmt.Sprintf("indexed indirect mode on cycle %d", p.instrCycle)}
	case p.instrCycle == 3:
		_ = p.ram.Read(p.curOperand)
		p.curOperand = (p.curOperand & 0xFF00) | ((p.curOperand + uint16(p.regs.X)) & 0xFF)
		return nil
	case p.instrCycle == 4:
		p.effOperand = uint16(p.ram.Read(p.curOperand))
		return nil
	case p.instrCycle == 5:
		p.effOperand |= uint16(p.ram.Read((p.curOperand&0xFF00)|((p.curOperand+1)&0xFF))) << 8
		return nil
	}
	return p.finishRW(6)
}

// handleIZY covers indirect indexed mode - (d),y. The pointer low byte is
// saved for the carry test; the first read of the effective address may be
// at the wrong page for reads, which then finish one cycle later.
func (p *Chip) handleIZY() error {
	switch {
	case p.instrCycle < 3 || p.instrCycle > 8:
		return InvalidCPUState{fmt.Sprintf("indirect indexed mode on cycle %d", p.instrCycle)}
	case p.instrCycle == 3:
		p.effOperand = uint16(p.ram.Read(p.curOperand))
		p.latched = uint8(p.effOperand)
		return nil
	case p.instrCycle == 4:
		p.effOperand |= uint16(p.ram.Read((p.curOperand&0xFF00)|((p.curOperand+1)&0xFF))) << 8
		p.effOperand = (p.effOperand & 0xFF00) | ((p.effOperand + uint16(p.regs.Y)) & 0xFF)
		return nil
	case p.instrCycle == 5:
		tmp := p.ram.Read(p.effOperand)
		if uint16(p.latched)+uint16(p.regs.Y) >= 0x100 {
			p.effOperand += 0x100
		} else if p.curInstr.Type() == InsR {
			p.latched = tmp
			if err := p.doOperation(); err != nil {
				return err
			}
			p.instrCycle = 0
		} else {
			p.latched = tmp
		}
		return nil
	}
	return p.finishRW(6)
}
