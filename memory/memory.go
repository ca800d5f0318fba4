// Package memory defines the bus interface the CPU core drives and the
// basic bank implementations hosts can assemble memory maps from. Each
// emulated system has its own mappings (mirrored RAM, mapped I/O, ROM) so
// the core only ever sees the System interface.
package memory

import "fmt"

// System is the host supplied bus. Read must be idempotent and side effect
// free for the core's dummy accesses; implementations of mapped I/O are
// responsible for tolerating them. The Bus methods expose the open bus
// latch (the last value seen on the data bus) which some mappers depend
// on; the base CPU never calls them.
type System interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with the new value. This includes the dummy
	// write phase of read-modify-write instructions.
	Write(addr uint16, val uint8)
	// BusRead returns the last value seen on the data bus.
	BusRead() uint8
	// BusWrite latches a value onto the data bus.
	BusWrite(val uint8)
	// PowerOn performs a power on reset of the memory.
	PowerOn()
}

// FlatBank is a simple R/W RAM bank with open bus latching. Sizes smaller
// than 64k alias on Read/Write via address masking.
type FlatBank struct {
	ram  []uint8
	bus  uint8
	fill uint8
}

// NewFlatBank creates a RAM bank of the given size, which must be a power
// of 2 no bigger than 64k.
func NewFlatBank(size int) (*FlatBank, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("invalid size: %d must be a power of 2", size)
	}
	if size > 1<<16 {
		return nil, fmt.Errorf("invalid size: %d is bigger than 64k", size)
	}
	return &FlatBank{ram: make([]uint8, size)}, nil
}

// Read implements System. The address is masked to the bank size.
func (b *FlatBank) Read(addr uint16) uint8 {
	addr &= uint16(len(b.ram) - 1)
	val := b.ram[addr]
	b.bus = val
	return val
}

// Write implements System. The address is masked to the bank size.
func (b *FlatBank) Write(addr uint16, val uint8) {
	addr &= uint16(len(b.ram) - 1)
	b.bus = val
	b.ram[addr] = val
}

// BusRead implements System and returns the open bus latch.
func (b *FlatBank) BusRead() uint8 {
	return b.bus
}

// BusWrite implements System and sets the open bus latch.
func (b *FlatBank) BusWrite(val uint8) {
	b.bus = val
}

// SetFill sets the byte PowerOn fills the bank with. Handy for test carts
// that want the whole address space to decode as a known opcode.
func (b *FlatBank) SetFill(val uint8) {
	b.fill = val
}

// PowerOn implements System and fills the bank with the fill byte.
func (b *FlatBank) PowerOn() {
	for i := range b.ram {
		b.ram[i] = b.fill
	}
}

// LoadImage copies data into the bank starting at addr, wrapping within
// the bank if it runs off the end.
func (b *FlatBank) LoadImage(addr uint16, data []byte) {
	for i, v := range data {
		b.Write(addr+uint16(i), v)
	}
}

// SetVector writes target as a little endian word at vec. Used to point
// the reset and interrupt vectors at handlers.
func (b *FlatBank) SetVector(vec uint16, target uint16) {
	b.Write(vec, uint8(target))
	b.Write(vec+1, uint8(target>>8))
}
