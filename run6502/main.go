// run6502 loads a flat binary image into a 64k address space and drives a
// 6502 core over it: run it for a number of cycles (optionally tracing
// every instruction), disassemble it, or attach the interactive monitor.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/emu65/6502/cpu"
	"github.com/emu65/6502/disassemble"
	"github.com/emu65/6502/memory"
	"github.com/emu65/6502/monitor"
)

var (
	imagePath string
	loadAddr  uint16
	startAddr int
	fill      uint8
)

// setup builds the 64k bank, loads the image and, when --start is not
// negative, points the reset vector at the start address.
func setup() (*memory.FlatBank, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("can't read image: %w", err)
	}
	if len(data) > 1<<16 {
		return nil, fmt.Errorf("image is %d bytes, bigger than the address space", len(data))
	}
	bank, err := memory.NewFlatBank(1 << 16)
	if err != nil {
		return nil, err
	}
	bank.SetFill(fill)
	bank.PowerOn()
	bank.LoadImage(loadAddr, data)
	if startAddr >= 0 {
		bank.SetVector(cpu.RESET_VECTOR, uint16(startAddr))
	}
	return bank, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "run6502",
		Short: "Run, trace or disassemble a flat 6502 binary image",
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&imagePath, "image", "", "binary image to load (required)")
	pf.Uint16Var(&loadAddr, "load-addr", 0x8000, "address the image is loaded at")
	pf.IntVar(&startAddr, "start", -1, "reset vector target; -1 leaves the image's own vector")
	pf.Uint8Var(&fill, "fill", 0x00, "byte the rest of the address space is filled with")
	_ = rootCmd.MarkPersistentFlagRequired("image")

	var cycles int
	var trace bool
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the image until a halt or the cycle budget runs out",
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := setup()
			if err != nil {
				return err
			}
			chip, err := cpu.Init(&cpu.ChipDef{Ram: bank})
			if err != nil {
				return err
			}
			if trace {
				l := log.New(os.Stderr, "", 0)
				chip.SetLogCallback(func(instr string, regs cpu.Registers) {
					l.Printf("%s  A:%02X X:%02X Y:%02X P:%02X S:%02X", instr, regs.A, regs.X, regs.Y, regs.P, regs.S)
				})
			}
			for i := 0; i < cycles; i++ {
				if err := chip.Cycle(); err != nil {
					fmt.Printf("halted after %d cycles: %v\n", i+1, err)
					return nil
				}
			}
			regs := chip.Registers()
			fmt.Printf("ran %d cycles, PC $%04X A:%02X X:%02X Y:%02X P:%02X S:%02X\n",
				cycles, regs.PC, regs.A, regs.X, regs.Y, regs.P, regs.S)
			return nil
		},
	}
	runCmd.Flags().IntVar(&cycles, "cycles", 1000000, "cycle budget")
	runCmd.Flags().BoolVar(&trace, "trace", false, "log every instruction to stderr")

	var count int
	disCmd := &cobra.Command{
		Use:   "dis",
		Short: "Disassemble the image to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := setup()
			if err != nil {
				return err
			}
			pc := loadAddr
			if startAddr >= 0 {
				pc = uint16(startAddr)
			}
			for _, line := range disassemble.Block(pc, count, bank) {
				fmt.Println(line)
			}
			return nil
		},
	}
	disCmd.Flags().IntVar(&count, "count", 32, "number of instructions to disassemble")

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Attach the interactive monitor to the image",
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := setup()
			if err != nil {
				return err
			}
			chip, err := cpu.Init(&cpu.ChipDef{Ram: bank})
			if err != nil {
				return err
			}
			return monitor.Run(chip, bank)
		},
	}

	rootCmd.AddCommand(runCmd, disCmd, monitorCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
