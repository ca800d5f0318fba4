// Package cpu defines a cycle accurate emulation of the NMOS 6502 as used
// in the NES (the Ricoh variant, which drops BCD arithmetic) and provides
// the methods needed to run the CPU and interface with it for emulation.
//
// The chip is driven exclusively through Cycle(); each call performs the
// bus traffic of exactly one clock cycle, including the dummy reads and
// writes real hardware emits.
package cpu

import (
	"fmt"

	"github.com/emu65/6502/irq"
	"github.com/emu65/6502/memory"
)

const (
	NMI_VECTOR   = uint16(0xFFFA)
	RESET_VECTOR = uint16(0xFFFC)
	IRQ_VECTOR   = uint16(0xFFFE)

	P_NEGATIVE  = uint8(0x80)
	P_OVERFLOW  = uint8(0x40)
	P_S1        = uint8(0x20) // Always 1
	P_B         = uint8(0x10) // Only set during BRK. Cleared on all other interrupts.
	P_DECIMAL   = uint8(0x08)
	P_INTERRUPT = uint8(0x04)
	P_ZERO      = uint8(0x02)
	P_CARRY     = uint8(0x01)

	// STACK_START is the base of the fixed stack page.
	STACK_START = uint16(0x0100)

	// POWERON_P is the status register at power on: interrupt disable
	// plus the always-set bit.
	POWERON_P = P_INTERRUPT | P_S1
)

// Registers is the architectural register file. P serializes with bit 0 as
// carry through bit 7 as negative; bit 5 always reads back as 1 on pushes.
type Registers struct {
	A  uint8  // Accumulator
	X  uint8  // X index
	Y  uint8  // Y index
	S  uint8  // Stack pointer; the stack lives at 0x0100+S
	P  uint8  // Status
	PC uint16 // Program counter
}

// LogFunc receives the previous instruction's disassembly and a register
// snapshot at every opcode fetch when installed via SetLogCallback.
type LogFunc func(instr string, regs Registers)

// Chip is a single 6502. All state lives here so multiple instances can
// run side by side in a test harness.
type Chip struct {
	regs Registers
	ram  memory.System

	// Optional interrupt sources folded into the lines on each cycle.
	nmiSrc irq.Sender
	irqSrc irq.Sender
	rstSrc irq.Sender

	// Level sensitive interrupt lines as driven by the host.
	nmiLine bool
	irqLine bool
	rstLine bool

	// One cycle delayed snapshot of the lines. Polling only ever looks
	// at these, which is how the hardware's single cycle interrupt
	// latency falls out.
	nmiReader bool
	irqReader bool
	rstReader bool

	instrCycle int // 1-indexed cycle within the current instruction

	op         uint8        // last fetched opcode
	curInstr   *Instruction // decoded instruction, nil while servicing a hardware interrupt (BRK stays set)
	curOperand uint16       // operand bytes as fetched
	effOperand uint16       // effective address after indexing
	latched    uint8        // value read from or headed to memory

	curInterrupt    *Interrupt // non-nil while the 7 cycle service sequence runs
	queuedInterrupt *Interrupt // selected by polling, picked up at the next fetch
	nmiHijack       bool       // NMI arrived during the first cycles of a BRK

	halted bool
	fatal  error // the error every further Cycle() call repeats

	logCallback LogFunc
}

// InvalidCPUState represents an internal invariant violation in the
// emulator, such as an executor running on a cycle outside its range.
type InvalidCPUState struct {
	Reason string
}

// Error implements the interface for error types.
func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// HaltOpcode is returned when a KIL/JAM opcode executes. The chip latches
// halted and every further Cycle() call returns the same error.
type HaltOpcode struct {
	Opcode uint8
	PC     uint16
}

// Error implements the interface for error types.
func (e HaltOpcode) Error() string {
	return fmt.Sprintf("HALT(0x%.2X) executed @ $%.4X", e.Opcode, e.PC)
}

// ChipDef defines a 6502 and its host connections.
type ChipDef struct {
	// Ram is the host bus the chip reads and writes through. Required.
	Ram memory.System
	// Nmi, Irq and Rst are optional interrupt sources. When one reports
	// Raised() the matching line is asserted on the next cycle, exactly
	// as if the host had called the corresponding Raise*Line method.
	Nmi irq.Sender
	Irq irq.Sender
	Rst irq.Sender
}

// Init creates a new chip and powers it on: the reset interrupt is
// pre-queued and 7 cycles are run so the returned chip has PC loaded from
// the reset vector and is ready to fetch its first opcode.
func Init(def *ChipDef) (*Chip, error) {
	if def == nil || def.Ram == nil {
		return nil, InvalidCPUState{"no RAM interface supplied"}
	}
	p := &Chip{
		ram:    def.Ram,
		nmiSrc: def.Nmi,
		irqSrc: def.Irq,
		rstSrc: def.Rst,
	}
	if err := p.PowerOn(); err != nil {
		return nil, err
	}
	return p, nil
}

// PowerOn resets the chip to its power on state and runs the 7 cycle reset
// sequence. P comes up with interrupt disable set; the reset sequence
// decrements S three times without writing, leaving it at 0xFD.
func (p *Chip) PowerOn() error {
	p.regs = Registers{P: POWERON_P}
	p.nmiLine, p.irqLine, p.rstLine = false, false, false
	p.nmiReader, p.irqReader, p.rstReader = false, false, false
	p.curInstr = nil
	p.curInterrupt = nil
	p.nmiHijack = false
	p.halted = false
	p.fatal = nil
	p.instrCycle = 1
	p.queuedInterrupt = INT_RST
	for i := 0; i < 7; i++ {
		if err := p.Cycle(); err != nil {
			return err
		}
	}
	return nil
}

// Registers returns a snapshot of the register file.
func (p *Chip) Registers() Registers {
	return p.regs
}

// InstructionStep returns the 1-indexed cycle number within the current
// instruction. It reads 1 at an instruction boundary (the next cycle will
// fetch an opcode).
func (p *Chip) InstructionStep() int {
	return p.instrCycle
}

// CurrentInstruction returns the decoded instruction in flight, or nil
// before the first fetch and while a hardware interrupt sequence runs.
// During BRK's own service sequence it returns the BRK.
func (p *Chip) CurrentInstruction() *Instruction {
	return p.curInstr
}

// SetLogCallback installs cb to be invoked at each opcode fetch with the
// previous instruction's disassembly and the registers as they stand.
// Passing nil removes the hook.
func (p *Chip) SetLogCallback(cb LogFunc) {
	p.logCallback = cb
}

// Cycle advances the chip by one clock. The error is non-nil only when a
// KIL opcode executed (HaltOpcode) or an internal invariant failed
// (InvalidCPUState); both latch the chip halted.
func (p *Chip) Cycle() error {
	if p.halted {
		return p.fatal
	}

	p.sampleSenders()

	if err := p.doInstrCycle(); err != nil {
		p.halted = true
		p.fatal = err
		return err
	}

	// Branches poll on their own schedule; everything else polls on the
	// cycle its instruction retires.
	if p.instrCycle == 0 && !(p.curInstr != nil && p.curInstr.Mode == REL) {
		p.pollInterrupts()
	}
	p.readInterruptLines()
	p.instrCycle++
	return nil
}

// sampleSenders asserts lines for any external source currently raised.
func (p *Chip) sampleSenders() {
	if p.nmiSrc != nil && p.nmiSrc.Raised() {
		p.nmiLine = true
	}
	if p.irqSrc != nil && p.irqSrc.Raised() {
		p.irqLine = true
	}
	if p.rstSrc != nil && p.rstSrc.Raised() {
		p.rstLine = true
	}
}

// resetInstrState clears the per-instruction transients after an opcode
// fetch. The cycle counter stays at 1; the fetch itself was cycle 1.
func (p *Chip) resetInstrState() {
	p.curOperand = 0
	p.effOperand = 0
	p.latched = 0
	p.instrCycle = 1
}

// doInstrCycle performs the work of the current cycle: either one step of
// an interrupt sequence, an opcode fetch, the common operand fetch, or a
// step of the in-flight instruction's executor.
func (p *Chip) doInstrCycle() error {
	if p.curInterrupt != nil {
		return p.executeInterrupt()
	}

	switch {
	case p.instrCycle == 1:
		if p.logCallback != nil && p.curInstr != nil {
			p.logCallback(p.PrintCurrentInstruction(), p.regs)
		}
		if p.queuedInterrupt != nil {
			p.curInstr = nil
			p.curInterrupt = p.queuedInterrupt
			p.queuedInterrupt = nil
			return p.executeInterrupt()
		}
		p.op = p.ram.Read(p.regs.PC)
		p.curInstr = Decode(p.op)
		p.resetInstrState()
		p.regs.PC++
		return nil
	case p.curInstr.Mnemonic == BRK:
		// Cycle 1 already fetched the opcode so the service sequence
		// picks up at cycle 2.
		p.curInterrupt = INT_BRK
		return p.executeInterrupt()
	case p.instrCycle == 2 && p.curInstr.Mode != IMP && p.curInstr.Mode != IMM:
		// Branches poll here rather than at retirement, which is why a
		// taken branch without a page cross doesn't re-poll at its end.
		if p.curInstr.Mode == REL {
			p.pollInterrupts()
		}
		p.curOperand |= uint16(p.ram.Read(p.regs.PC))
		p.regs.PC++
		return nil
	}

	switch p.curInstr.Type() {
	case InsJump:
		if p.curInstr.Mnemonic == JSR {
			return p.handleJSR()
		}
		return p.handleJMP()
	case InsRet:
		if p.curInstr.Mnemonic == RTI {
			return p.handleRTI()
		}
		return p.handleRTS()
	case InsBranch:
		return p.handleBranch()
	case InsStack:
		switch p.curInstr.Mnemonic {
		case PHA, PHP:
			return p.handleStackPush()
		}
		return p.handleStackPull()
	}

	switch p.curInstr.Mode {
	case IMP:
		return p.handleIMP()
	case IMM:
		return p.handleIMM()
	case ZRP:
		return p.handleZRP()
	case ZPX, ZPY:
		return p.handleZPIndexed()
	case ABS:
		return p.handleABS()
	case ABX, ABY:
		return p.handleABSIndexed()
	case IZX:
		return p.handleIZX()
	case IZY:
		return p.handleIZY()
	}
	return InvalidCPUState{fmt.Sprintf("no executor for %s/%s", p.curInstr.Mnemonic, p.curInstr.Mode)}
}
