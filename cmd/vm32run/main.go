// Command vm32run loads a TOML address-map descriptor and a raw big-endian
// program image, wires them onto a board.Motherboard, and runs the CPU to
// completion — a demo harness, not a shipped peripheral (spec.md §1 scopes
// concrete devices out of the VM core).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ktstephano-labs/vm32/board"
	"github.com/ktstephano-labs/vm32/cpu"
	"github.com/ktstephano-labs/vm32/internal/config"
	"github.com/ktstephano-labs/vm32/internal/ramdev"
	"github.com/ktstephano-labs/vm32/isa"
)

func main() {
	var configPath string
	var programPath string
	var maxSteps int
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "vm32run",
		Short: "Run a vm32 program image against a configured address map",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, programPath, maxSteps, verbose)
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "TOML address-map descriptor (required)")
	rootCmd.Flags().StringVar(&programPath, "program", "", "raw big-endian program image, loaded into the first region (required)")
	rootCmd.Flags().IntVar(&maxSteps, "max-steps", 1_000_000, "instruction budget before giving up")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable structured fault logging")
	rootCmd.MarkFlagRequired("config")
	rootCmd.MarkFlagRequired("program")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, programPath string, maxSteps int, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if len(cfg.Region) == 0 {
		return fmt.Errorf("vm32run: config defines no regions")
	}

	log := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("vm32run: build logger: %w", err)
		}
		log = l
	}

	mb := board.New(board.WithLogger(log))
	rams := make(map[string]*ramdev.RAM, len(cfg.Region))
	for _, r := range cfg.Region {
		switch r.Kind {
		case "ram", "":
			dev := ramdev.New(r.Name, r.SizeByte)
			idx := mb.AddDevice(dev)
			if err := mb.MapContiguous(r.Base, idx); err != nil {
				return fmt.Errorf("vm32run: map region %q: %w", r.Name, err)
			}
			rams[r.Name] = dev
		default:
			return fmt.Errorf("vm32run: unknown region kind %q", r.Kind)
		}
	}

	image, err := os.ReadFile(programPath)
	if err != nil {
		return fmt.Errorf("vm32run: read program: %w", err)
	}
	words, err := isa.BytesToWords(image)
	if err != nil {
		return fmt.Errorf("vm32run: decode program image: %w", err)
	}
	first := rams[cfg.Region[0].Name]
	first.Load(words)

	mb.Wire(cpu.WithLogger(log))

	steps, halted := mb.Run(maxSteps)
	fmt.Printf("ran %d instructions, halted=%v\n", steps, halted)
	snap := mb.CPU().Snapshot()
	fmt.Printf("pc=0x%08x ec=0x%04x pga=0x%08x\n",
		snap.Registers[isa.PC], snap.Registers[isa.EC], snap.Registers[isa.PGA])
	return nil
}
