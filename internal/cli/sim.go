//go:build ngspice

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/spicemodel/internal/ngspice"
)

var simVector string

// simCmd represents the sim command
var simCmd = &cobra.Command{
	Use:   "sim <netlist>",
	Short: "Run a netlist through ngspice and report vector extrema",
	Args:  cobra.ExactArgs(1),
	RunE:  runSim,
}

func init() {
	simCmd.Flags().StringVar(&simVector, "vector", "", "vector to report extrema for (required)")
	simCmd.MarkFlagRequired("vector")
	rootCmd.AddCommand(simCmd)
}

func runSim(cmd *cobra.Command, args []string) error {
	circuit, err := ngspice.LoadCircuit(args[0])
	if err != nil {
		return fmt.Errorf("failed to load circuit: %w", err)
	}
	defer circuit.Close()

	if err := circuit.Run(); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	min, max, err := circuit.FindExtrema(simVector)
	if err != nil {
		return fmt.Errorf("failed to read vector %s: %w", simVector, err)
	}

	fmt.Printf("%s: min=%v max=%v\n", simVector, min, max)
	return nil
}
