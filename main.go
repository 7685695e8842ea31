// Package main provides the entry point for tomsim, a cycle-accurate
// simulator for a Tomasulo-style out-of-order pipeline with a reorder
// buffer and dynamic branch prediction.
//
// For the full CLI, use: go run ./cmd/tomsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("tomsim - Tomasulo out-of-order pipeline simulator")
	fmt.Println("")
	fmt.Println("Usage: tomsim [options] <program.asm>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -v            Print machine state after every cycle")
	fmt.Println("  -config       Path to timing configuration JSON file")
	fmt.Println("  -seed         Branch predictor victim-selection seed")
	fmt.Println("  -plot         Write an occupancy plot")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/tomsim' instead.")
	}
}
