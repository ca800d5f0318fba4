// Package monitor implements an interactive terminal debugger over a CPU
// core: registers, disassembly around the PC, stack and zero page views,
// with single cycle and single instruction stepping and interrupt
// injection. It owns the chip it was given for the duration of the
// session; the host should not cycle it concurrently.
package monitor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/emu65/6502/cpu"
	"github.com/emu65/6502/disassemble"
	"github.com/emu65/6502/memory"
)

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	flagOn     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	flagOff    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// runBurst is how many instructions the "run" key executes per press; big
// enough to make progress, small enough to keep the UI responsive.
const runBurst = 1000

// stepCeiling bounds a single instruction step; no instruction or
// interrupt sequence is longer than 8 cycles, so hitting this means the
// core wedged and there's no point spinning.
const stepCeiling = 16

// Model is the bubbletea model for the monitor session.
type Model struct {
	chip *cpu.Chip
	mem  memory.System
	err  error
	dump bool

	// trace is shared with the log callback; bubbletea passes the model
	// by value so the hook can't write to a field directly.
	trace *string
}

// New creates a monitor over the given chip and its memory.
func New(chip *cpu.Chip, mem memory.System) Model {
	trace := new(string)
	chip.SetLogCallback(func(instr string, _ cpu.Registers) {
		*trace = instr
	})
	return Model{chip: chip, mem: mem, trace: trace}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// stepInstruction cycles until the chip is back at an instruction
// boundary.
func (m *Model) stepInstruction() {
	for i := 0; i < stepCeiling; i++ {
		if m.err = m.chip.Cycle(); m.err != nil {
			return
		}
		if m.chip.InstructionStep() == 1 {
			return
		}
	}
	m.err = fmt.Errorf("no instruction boundary within %d cycles", stepCeiling)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "c":
		m.err = m.chip.Cycle()
	case "s", " ":
		m.stepInstruction()
	case "f":
		for i := 0; i < runBurst && m.err == nil; i++ {
			m.stepInstruction()
		}
	case "n":
		m.chip.RaiseNMILine()
	case "i":
		m.chip.RaiseIRQLine()
	case "r":
		m.chip.RaiseRSTLine()
	case "d":
		m.dump = !m.dump
	}
	return m, nil
}

func (m Model) registersView() string {
	regs := m.chip.Registers()
	var b strings.Builder
	b.WriteString(titleStyle.Render("CPU"))
	b.WriteString("\n")
	for _, f := range []struct {
		sym string
		bit uint8
	}{
		{"N", cpu.P_NEGATIVE}, {"V", cpu.P_OVERFLOW}, {"-", cpu.P_S1},
		{"B", cpu.P_B}, {"D", cpu.P_DECIMAL}, {"I", cpu.P_INTERRUPT},
		{"Z", cpu.P_ZERO}, {"C", cpu.P_CARRY},
	} {
		style := flagOff
		if regs.P&f.bit != 0 {
			style = flagOn
		}
		b.WriteString(style.Render(f.sym))
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "\nPC: $%04X  S: $%02X  step %d\n", regs.PC, regs.S, m.chip.InstructionStep())
	fmt.Fprintf(&b, "A: $%02X  X: $%02X  Y: $%02X  P: $%02X", regs.A, regs.X, regs.Y, regs.P)
	if m.dump {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(spew.Sdump(regs), "\n"))
	}
	return paneStyle.Render(b.String())
}

func (m Model) disassemblyView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Disassembly"))
	for _, line := range disassemble.Block(m.chip.Registers().PC, 12, m.mem) {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return paneStyle.Render(b.String())
}

func (m Model) hexdumpView(title string, start uint16, rows int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	for r := 0; r < rows; r++ {
		base := start + uint16(r*16)
		fmt.Fprintf(&b, "\n%04X:", base)
		for i := uint16(0); i < 16; i++ {
			fmt.Fprintf(&b, " %02X", m.mem.Read(base+i))
		}
	}
	return paneStyle.Render(b.String())
}

// View implements tea.Model.
func (m Model) View() string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.registersView(),
		m.hexdumpView("Zero page", 0x0000, 8),
		m.hexdumpView("Stack", 0x01C0, 4),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, m.disassemblyView())

	status := *m.trace
	if m.err != nil {
		status = errStyle.Render(m.err.Error())
	}
	help := helpStyle.Render("[space/s] step  [c] cycle  [f] run  [n] nmi  [i] irq  [r] rst  [d] dump  [q] quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, status, help)
}

// Run starts a monitor session and blocks until the user quits.
func Run(chip *cpu.Chip, mem memory.System) error {
	_, err := tea.NewProgram(New(chip, mem)).Run()
	return err
}
