// Package irq defines the basic interfaces for working with 6502 family
// interrupt lines. A component that generates interrupts (a timer, a video
// chip) implements Sender so the CPU can sample it each cycle without the
// two being coupled.
//
// Even though chips distinguish level and edge type interrupts the
// interface doesn't; implementors account for that in their own clock
// cycle management.
package irq

// Sender defines the interface for an interrupt source.
type Sender interface {
	// Raised indicates whether the interrupt is currently held high.
	Raised() bool
}

// Line is a plain level sensitive line a host can drive by hand. The zero
// value is a deasserted line.
type Line struct {
	raised bool
}

// Raise asserts the line.
func (l *Line) Raise() {
	l.raised = true
}

// Clear deasserts the line.
func (l *Line) Clear() {
	l.raised = false
}

// Raised implements Sender.
func (l *Line) Raised() bool {
	return l.raised
}
