package cpu

import "fmt"

// Interrupt describes one of the chip's interrupt sources: where the new
// PC comes from and how the service sequence treats the stack and flags.
type Interrupt struct {
	Vector   uint16 // location of the little endian handler address
	Maskable bool   // honored only while I is clear
	PushPC   bool   // reset skips the stack writes (but still moves S)
	SetB     bool   // B flag value pushed with P
	SetI     bool   // set interrupt disable once serviced
}

// The four interrupt sources of the 6502. BRK shares the IRQ vector but is
// the only one that pushes P with the B bit set.
var (
	INT_NMI = &Interrupt{Vector: NMI_VECTOR, PushPC: true}
	INT_RST = &Interrupt{Vector: RESET_VECTOR, SetI: true}
	INT_IRQ = &Interrupt{Vector: IRQ_VECTOR, Maskable: true, PushPC: true, SetI: true}
	INT_BRK = &Interrupt{Vector: IRQ_VECTOR, PushPC: true, SetB: true, SetI: true}
)

// RaiseNMILine asserts the NMI line. The line is level sensitive and is
// cleared automatically when the NMI is serviced.
func (p *Chip) RaiseNMILine() { p.nmiLine = true }

// ClearNMILine deasserts the NMI line.
func (p *Chip) ClearNMILine() { p.nmiLine = false }

// RaiseIRQLine asserts the IRQ line.
func (p *Chip) RaiseIRQLine() { p.irqLine = true }

// ClearIRQLine deasserts the IRQ line.
func (p *Chip) ClearIRQLine() { p.irqLine = false }

// RaiseRSTLine asserts the RST line. It is cleared when polling selects
// the reset.
func (p *Chip) RaiseRSTLine() { p.rstLine = true }

// ClearRSTLine deasserts the RST line.
func (p *Chip) ClearRSTLine() { p.rstLine = false }

// IssueInterrupt queues the given interrupt directly, bypassing the lines
// and the poll. It begins servicing at the next opcode fetch boundary.
func (p *Chip) IssueInterrupt(it *Interrupt) {
	p.queuedInterrupt = it
}

// readInterruptLines snapshots the live lines into the delayed readers.
// This runs at the end of every cycle, after any polling, so a line raised
// during cycle N is first visible to polling on cycle N+1.
func (p *Chip) readInterruptLines() {
	p.nmiReader = p.nmiLine
	p.irqReader = p.irqLine
	p.rstReader = p.rstLine
}

// pollInterrupts selects a queued interrupt from the delayed line readers.
// Priority is NMI, then IRQ when not masked, then RST. Selecting RST
// consumes the line.
func (p *Chip) pollInterrupts() {
	switch {
	case p.nmiReader:
		p.queuedInterrupt = INT_NMI
	case p.irqReader && p.regs.P&P_INTERRUPT == 0:
		p.queuedInterrupt = INT_IRQ
	case p.rstReader:
		p.queuedInterrupt = INT_RST
		p.rstLine = false
	}
}

// checkNMIHijack arms the hijack flag when NMI asserts while a software
// interrupt is still in its stack cycles. The live line is checked, not
// the reader: the hijack window is a real hardware race.
func (p *Chip) checkNMIHijack() {
	if p.curInterrupt == INT_BRK && p.nmiLine {
		p.nmiHijack = true
	}
}

// executeInterrupt runs one cycle of the 7 cycle service sequence. BRK
// enters at cycle 2 since its opcode fetch was cycle 1.
func (p *Chip) executeInterrupt() error {
	switch p.instrCycle {
	case 1:
		_ = p.ram.Read(p.regs.PC)
		p.op = 0x00 // the forced opcode on the bus is BRK
		switch p.curInterrupt {
		case INT_NMI:
			p.nmiLine = false
		case INT_IRQ:
			p.irqLine = false
		default:
			p.checkNMIHijack()
		}
	case 2:
		_ = p.ram.Read(p.regs.PC)
		if p.curInterrupt == INT_BRK {
			// The padding byte after BRK is consumed.
			p.regs.PC++
		}
		p.checkNMIHijack()
	case 3:
		if p.curInterrupt.PushPC {
			p.ram.Write(STACK_START+uint16(p.regs.S), uint8(p.regs.PC>>8))
		}
		p.regs.S--
		p.checkNMIHijack()
	case 4:
		if p.curInterrupt.PushPC {
			p.ram.Write(STACK_START+uint16(p.regs.S), uint8(p.regs.PC))
		}
		p.regs.S--
		p.checkNMIHijack()
	case 5:
		// Last chance for an NMI to steal the vector from a BRK.
		if p.nmiHijack {
			p.curInterrupt = INT_NMI
			p.nmiHijack = false
		}
		if p.curInterrupt.PushPC {
			if p.curInterrupt.SetB {
				p.regs.P |= P_B
			} else {
				p.regs.P &^= P_B
			}
			// The unused bit always reads as 1 on pushes; BRK forces
			// B as well.
			val := p.regs.P | P_S1
			if p.curInterrupt == INT_BRK {
				val |= P_B
			}
			p.ram.Write(STACK_START+uint16(p.regs.S), val)
		}
		p.regs.S--
	case 6:
		p.latched = p.ram.Read(p.curInterrupt.Vector)
		if p.curInterrupt.SetI {
			p.regs.P |= P_INTERRUPT
		}
	case 7:
		p.regs.PC = (uint16(p.ram.Read(p.curInterrupt.Vector+1)) << 8) | uint16(p.latched)
		p.curInterrupt = nil
		p.instrCycle = 0
	default:
		return InvalidCPUState{fmt.Sprintf("interrupt sequence on cycle %d", p.instrCycle)}
	}
	return nil
}
