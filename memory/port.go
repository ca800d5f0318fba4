package memory

import "github.com/emu65/6502/io"

// PortBank overlays a memory mapped I/O port pair on a backing System: an
// 8 bit input port at one address and an output latch at another. Input
// reads go straight to the port with no side effects, so the dummy reads
// the CPU emits while computing indexed addresses are harmless, which is
// the contract every mapped I/O implementation has to honor.
type PortBank struct {
	System

	inAddr  uint16
	outAddr uint16
	port    io.Port8
	out     uint8
}

// NewPortBank wraps base, mapping port input reads at inAddr and an output
// latch at outAddr.
func NewPortBank(base System, port io.Port8, inAddr, outAddr uint16) *PortBank {
	return &PortBank{
		System:  base,
		inAddr:  inAddr,
		outAddr: outAddr,
		port:    port,
	}
}

// Read implements System, routing the mapped addresses to the port.
func (b *PortBank) Read(addr uint16) uint8 {
	switch addr {
	case b.inAddr:
		if b.port != nil {
			v := b.port.Input()
			b.BusWrite(v)
			return v
		}
		return b.BusRead()
	case b.outAddr:
		return b.out
	}
	return b.System.Read(addr)
}

// Write implements System. Writes to the input address fall through to the
// latch as well since the port itself is input only.
func (b *PortBank) Write(addr uint16, val uint8) {
	switch addr {
	case b.inAddr, b.outAddr:
		b.out = val
		b.BusWrite(val)
		return
	}
	b.System.Write(addr, val)
}

// Output returns the current value of the output latch.
func (b *PortBank) Output() uint8 {
	return b.out
}
