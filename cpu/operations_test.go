package cpu

import "testing"

// Program driven checks of individual operation semantics. Each test runs
// a short literal program to a KIL and inspects registers, memory and
// flags afterwards.

func TestShiftsAndRotates(t *testing.T) {
	tests := []struct {
		name  string
		prog  []uint8
		extra map[uint16]uint8
		check func(t *testing.T, c *Chip, r *flatMemory)
	}{
		{
			name: "ASL accumulator sets carry from bit 7",
			prog: []uint8{0xA9, 0x81, 0x0A, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := c.Registers().A; got != 0x02 {
					t.Errorf("A got %02X want 02", got)
				}
				checkFlags(t, c, P_CARRY|P_ZERO|P_NEGATIVE, P_CARRY, "ASL")
			},
		},
		{
			name: "LSR accumulator sets carry from bit 0",
			prog: []uint8{0xA9, 0x01, 0x4A, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := c.Registers().A; got != 0x00 {
					t.Errorf("A got %02X want 00", got)
				}
				checkFlags(t, c, P_CARRY|P_ZERO, P_CARRY|P_ZERO, "LSR")
			},
		},
		{
			name: "ROL pulls old carry into bit 0",
			prog: []uint8{0x38, 0xA9, 0x40, 0x2A, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := c.Registers().A; got != 0x81 {
					t.Errorf("A got %02X want 81", got)
				}
				checkFlags(t, c, P_CARRY|P_NEGATIVE, P_NEGATIVE, "ROL")
			},
		},
		{
			name: "ROR pulls old carry into bit 7",
			prog: []uint8{0x38, 0xA9, 0x01, 0x6A, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := c.Registers().A; got != 0x80 {
					t.Errorf("A got %02X want 80", got)
				}
				checkFlags(t, c, P_CARRY|P_NEGATIVE, P_CARRY|P_NEGATIVE, "ROR")
			},
		},
		{
			name:  "INC memory wraps and sets Z",
			prog:  []uint8{0xE6, 0x10, halt},
			extra: map[uint16]uint8{0x10: 0xFF},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := r.addr[0x10]; got != 0x00 {
					t.Errorf("mem got %02X want 00", got)
				}
				checkFlags(t, c, P_ZERO, P_ZERO, "INC")
			},
		},
		{
			name:  "DEC memory to negative",
			prog:  []uint8{0xC6, 0x10, halt},
			extra: map[uint16]uint8{0x10: 0x00},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := r.addr[0x10]; got != 0xFF {
					t.Errorf("mem got %02X want FF", got)
				}
				checkFlags(t, c, P_ZERO|P_NEGATIVE, P_NEGATIVE, "DEC")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, r := setup(t, tt.prog...)
			for a, v := range tt.extra {
				r.addr[a] = v
			}
			runToHalt(t, c)
			tt.check(t, c, r)
		})
	}
}

func TestBIT(t *testing.T) {
	// BIT copies bits 7/6 of memory into N/V and masks against A for Z.
	c, r := setup(t, 0xA9, 0x0F, 0x24, 0x10, halt)
	r.addr[0x10] = 0xC0
	runToHalt(t, c)
	checkFlags(t, c, P_ZERO|P_NEGATIVE|P_OVERFLOW, P_ZERO|P_NEGATIVE|P_OVERFLOW, "BIT")
}

func TestTransfers(t *testing.T) {
	// TXS must not touch flags: LDX #0 leaves Z set, TXS keeps it.
	c, _ := setup(t, 0xA2, 0x00, 0x9A, halt)
	runToHalt(t, c)
	if got := c.Registers().S; got != 0x00 {
		t.Errorf("S got %02X want 00", got)
	}
	checkFlags(t, c, P_ZERO, P_ZERO, "TXS")

	// TSX does: it loads X and sets N from the value.
	c, _ = setup(t, 0xBA, halt)
	runToHalt(t, c)
	if got := c.Registers().X; got != 0xFD {
		t.Errorf("X got %02X want FD", got)
	}
	checkFlags(t, c, P_NEGATIVE|P_ZERO, P_NEGATIVE, "TSX")
}

func TestPullWritesPWholesale(t *testing.T) {
	// PLP takes the pulled byte into P untouched; a following PHP
	// re-forces B and the unused bit on the push.
	c, r := setup(t, 0xA9, 0x00, 0x48, 0x28, 0x08, halt)
	runToHalt(t, c)
	if got := c.Registers().P &^ (P_B | P_S1); got != 0x00 {
		t.Errorf("P after PLP got %02X want B/U only", c.Registers().P)
	}
	// The PHP landed where the PHA's byte was.
	if got := r.addr[0x01FD] & (P_B | P_S1); got != P_B|P_S1 {
		t.Errorf("PHP pushed %02X, B/U not forced", r.addr[0x01FD])
	}
}

func TestUndocumentedOpcodes(t *testing.T) {
	tests := []struct {
		name  string
		prog  []uint8
		extra map[uint16]uint8
		check func(t *testing.T, c *Chip, r *flatMemory)
	}{
		{
			name:  "LAX loads A and X",
			prog:  []uint8{0xA7, 0x10, halt},
			extra: map[uint16]uint8{0x10: 0x42},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				regs := c.Registers()
				if regs.A != 0x42 || regs.X != 0x42 {
					t.Errorf("A/X got %02X/%02X want 42/42", regs.A, regs.X)
				}
			},
		},
		{
			name: "SAX stores A AND X",
			prog: []uint8{0xA9, 0xF0, 0xA2, 0x3C, 0x87, 0x10, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := r.addr[0x10]; got != 0x30 {
					t.Errorf("mem got %02X want 30", got)
				}
			},
		},
		{
			name:  "DCP decrements then compares",
			prog:  []uint8{0xA9, 0x42, 0xC7, 0x10, halt},
			extra: map[uint16]uint8{0x10: 0x43},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := r.addr[0x10]; got != 0x42 {
					t.Errorf("mem got %02X want 42", got)
				}
				checkFlags(t, c, P_ZERO|P_CARRY, P_ZERO|P_CARRY, "DCP")
			},
		},
		{
			name:  "ISC increments then subtracts",
			prog:  []uint8{0x38, 0xA9, 0x43, 0xE7, 0x10, halt},
			extra: map[uint16]uint8{0x10: 0x41},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := r.addr[0x10]; got != 0x42 {
					t.Errorf("mem got %02X want 42", got)
				}
				if got := c.Registers().A; got != 0x01 {
					t.Errorf("A got %02X want 01", got)
				}
				checkFlags(t, c, P_CARRY, P_CARRY, "ISC")
			},
		},
		{
			name:  "SLO shifts then ORs",
			prog:  []uint8{0xA9, 0x00, 0x07, 0x10, halt},
			extra: map[uint16]uint8{0x10: 0x81},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := r.addr[0x10]; got != 0x02 {
					t.Errorf("mem got %02X want 02", got)
				}
				if got := c.Registers().A; got != 0x02 {
					t.Errorf("A got %02X want 02", got)
				}
				checkFlags(t, c, P_CARRY, P_CARRY, "SLO")
			},
		},
		{
			name:  "RLA rotates then ANDs",
			prog:  []uint8{0x38, 0xA9, 0xFF, 0x27, 0x10, halt},
			extra: map[uint16]uint8{0x10: 0x40},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := r.addr[0x10]; got != 0x81 {
					t.Errorf("mem got %02X want 81", got)
				}
				if got := c.Registers().A; got != 0x81 {
					t.Errorf("A got %02X want 81", got)
				}
				checkFlags(t, c, P_CARRY, 0, "RLA")
			},
		},
		{
			name:  "SRE shifts right then EORs",
			prog:  []uint8{0xA9, 0x00, 0x47, 0x10, halt},
			extra: map[uint16]uint8{0x10: 0x03},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := r.addr[0x10]; got != 0x01 {
					t.Errorf("mem got %02X want 01", got)
				}
				if got := c.Registers().A; got != 0x01 {
					t.Errorf("A got %02X want 01", got)
				}
				checkFlags(t, c, P_CARRY, P_CARRY, "SRE")
			},
		},
		{
			name:  "RRA rotates right then adds",
			prog:  []uint8{0x18, 0xA9, 0x01, 0x67, 0x10, halt},
			extra: map[uint16]uint8{0x10: 0x02},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := r.addr[0x10]; got != 0x01 {
					t.Errorf("mem got %02X want 01", got)
				}
				if got := c.Registers().A; got != 0x02 {
					t.Errorf("A got %02X want 02", got)
				}
			},
		},
		{
			name: "ANC ANDs and mirrors N into C",
			prog: []uint8{0xA9, 0x80, 0x0B, 0x80, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := c.Registers().A; got != 0x80 {
					t.Errorf("A got %02X want 80", got)
				}
				checkFlags(t, c, P_CARRY|P_NEGATIVE, P_CARRY|P_NEGATIVE, "ANC")
			},
		},
		{
			name: "ALR ANDs then shifts right",
			prog: []uint8{0xA9, 0x03, 0x4B, 0x01, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := c.Registers().A; got != 0x00 {
					t.Errorf("A got %02X want 00", got)
				}
				checkFlags(t, c, P_CARRY|P_ZERO, P_CARRY|P_ZERO, "ALR")
			},
		},
		{
			name: "ARR carry from bit 6 and V from bits 6 xor 5",
			prog: []uint8{0x38, 0xA9, 0xFF, 0x6B, 0xC0, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := c.Registers().A; got != 0xE0 {
					t.Errorf("A got %02X want E0", got)
				}
				checkFlags(t, c, P_CARRY|P_OVERFLOW|P_NEGATIVE, P_CARRY|P_NEGATIVE, "ARR")
			},
		},
		{
			name: "AXS subtracts from A AND X with no borrow",
			prog: []uint8{0xA9, 0xF0, 0xA2, 0x3C, 0xCB, 0x20, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := c.Registers().X; got != 0x10 {
					t.Errorf("X got %02X want 10", got)
				}
				checkFlags(t, c, P_CARRY, P_CARRY, "AXS no borrow")
			},
		},
		{
			name: "AXS with borrow clears carry",
			prog: []uint8{0xA9, 0xF0, 0xA2, 0x3C, 0xCB, 0x40, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := c.Registers().X; got != 0xF0 {
					t.Errorf("X got %02X want F0", got)
				}
				checkFlags(t, c, P_CARRY, 0, "AXS borrow")
			},
		},
		{
			name:  "LAS loads A X and S from memory AND S",
			prog:  []uint8{0xA0, 0x00, 0xBB, 0x10, 0x90, halt},
			extra: map[uint16]uint8{0x9010: 0xFF},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				regs := c.Registers()
				// S was 0xFD from reset, so everything becomes
				// 0xFD & 0xFF.
				if regs.A != regs.X || regs.A != regs.S {
					t.Errorf("A/X/S diverged: %02X/%02X/%02X", regs.A, regs.X, regs.S)
				}
				if regs.A != 0xFD {
					t.Errorf("A got %02X want FD", regs.A)
				}
			},
		},
		{
			name: "XAA mixes X into A",
			prog: []uint8{0xA2, 0xFF, 0xA9, 0x11, 0x8B, 0x00, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := c.Registers().A; got != 0xFF {
					t.Errorf("A got %02X want FF", got)
				}
			},
		},
		{
			name: "TAS sets S and stores S AND high plus one",
			prog: []uint8{0xA9, 0xFF, 0xA2, 0xFF, 0xA0, 0x00, 0x9B, 0x10, 0x90, halt},
			check: func(t *testing.T, c *Chip, r *flatMemory) {
				if got := c.Registers().S; got != 0xFF {
					t.Errorf("S got %02X want FF", got)
				}
				// Stored value is S & (0x90 + 1).
				if got := r.addr[0x9010]; got != 0x91 {
					t.Errorf("mem got %02X want 91", got)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, r := setup(t, tt.prog...)
			for a, v := range tt.extra {
				r.addr[a] = v
			}
			runToHalt(t, c)
			tt.check(t, c, r)
		})
	}
}
