// Package main provides the tomsim CLI: it assembles a program, loads it
// at the conventional base address, runs the machine to HALT, and prints
// the final state and statistics.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/tomsim/loader"
	"github.com/sarchlab/tomsim/timing/core"
	"github.com/sarchlab/tomsim/timing/latency"
	"github.com/sarchlab/tomsim/timing/pipeline"
	"github.com/sarchlab/tomsim/timing/trace"
)

var (
	verbose    = flag.Bool("v", false, "Print machine state after every cycle")
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	seed       = flag.Uint64("seed", 0, "Branch predictor victim-selection seed (0 = default)")
	maxCycles  = flag.Uint64("max-cycles", 100000, "Cycle cap before giving up")
	plotPath   = flag.String("plot", "", "Write an occupancy plot to this file (.png/.svg/.pdf)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: tomsim [options] <program.asm>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	timingConfig := latency.DefaultTimingConfig()
	if *configPath != "" {
		timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
	}

	c := core.New(
		pipeline.WithLatencyTable(latency.NewTableWithConfig(timingConfig)),
		pipeline.WithPredictorSeed(*seed),
	)
	for i, w := range prog.Words {
		c.LoadInstr(prog.Base+uint32(i), w)
	}
	c.SetMemorySize(prog.End())

	recorder := &trace.Recorder{}
	halted := false
	for i := uint64(0); i < *maxCycles && !halted; i++ {
		halted, err = c.Tick()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Simulation error: %v\n", err)
			os.Exit(1)
		}
		recorder.Record(c.Pipeline())
		if *verbose {
			printState(os.Stdout, c, prog.End())
		}
	}

	if !halted {
		fmt.Fprintf(os.Stderr, "No HALT within %d cycles\n", *maxCycles)
		os.Exit(1)
	}

	printState(os.Stdout, c, prog.End())
	printStats(os.Stdout, c)

	if *plotPath != "" {
		if err := recorder.SavePlot(*plotPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing plot: %v\n", err)
			os.Exit(1)
		}
	}
}

func printStats(w *os.File, c *core.Core) {
	stats := c.Stats()
	predStats := c.Pipeline().Predictor().Stats()

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Total Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(w, "Total Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(w, "CPI: %.2f\n", stats.CPI())
	fmt.Fprintf(w, "Issued: %d\n", stats.Issues)
	fmt.Fprintf(w, "Squashes: %d\n", stats.Squashes)
	fmt.Fprintf(w, "BTB hit rate: %.1f%%\n", predStats.HitRate())
}
