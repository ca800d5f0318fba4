// Package io defines the basic interface for an 8 bit input port of the
// kind 6502 systems map into the address space. Implementors are expected
// to return the current pin state on every call and tolerate being read
// multiple times per cycle, since the CPU's dummy accesses can land on a
// mapped port.
package io

// Port8 defines an 8 bit input port.
type Port8 interface {
	// Input returns the current value being presented on the port.
	Input() uint8
}
