package benchmarks

import (
	"fmt"
	"io"

	"github.com/sarchlab/tomsim/loader"
	"github.com/sarchlab/tomsim/timing/core"
	"github.com/sarchlab/tomsim/timing/pipeline"
)

// Result holds the measurements of a single benchmark run.
type Result struct {
	// Name identifies the benchmark.
	Name string `json:"name"`
	// Description explains what the benchmark measures.
	Description string `json:"description"`
	// Cycles is the total cycle count.
	Cycles uint64 `json:"cycles"`
	// Instructions is the number of retired instructions.
	Instructions uint64 `json:"instructions"`
	// CPI is cycles per retired instruction.
	CPI float64 `json:"cpi"`
	// Squashes is the number of misprediction rollbacks.
	Squashes uint64 `json:"squashes"`
	// BTBHitRate is the branch target buffer hit rate in percent.
	BTBHitRate float64 `json:"btb_hit_rate"`
}

// maxBenchmarkCycles bounds a run so a wedged program cannot hang the
// harness.
const maxBenchmarkCycles = 1_000_000

// Run assembles and executes one benchmark and returns its measurements.
func Run(b Benchmark, opts ...pipeline.Option) (Result, error) {
	words, err := loader.Assemble(b.Source)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", b.Name, err)
	}

	c := core.New(opts...)
	for i, w := range words {
		c.LoadInstr(loader.DefaultBase+uint32(i), w)
	}
	c.SetMemorySize(loader.DefaultBase + uint32(len(words)))
	for i, w := range b.Data {
		c.Memory().Write(uint32(i), w)
	}

	halted, err := c.Run(maxBenchmarkCycles)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", b.Name, err)
	}
	if !halted {
		return Result{}, fmt.Errorf("%s: no HALT within %d cycles", b.Name, maxBenchmarkCycles)
	}

	stats := c.Stats()
	return Result{
		Name:         b.Name,
		Description:  b.Description,
		Cycles:       stats.Cycles,
		Instructions: stats.Instructions,
		CPI:          stats.CPI(),
		Squashes:     stats.Squashes,
		BTBHitRate:   c.Pipeline().Predictor().Stats().HitRate(),
	}, nil
}

// RunAll executes every benchmark in order.
func RunAll(bs []Benchmark, opts ...pipeline.Option) ([]Result, error) {
	results := make([]Result, 0, len(bs))
	for _, b := range bs {
		r, err := Run(b, opts...)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// PrintResults writes a human-readable results table.
func PrintResults(w io.Writer, results []Result) {
	fmt.Fprintf(w, "%-24s %10s %8s %6s %9s %8s\n",
		"benchmark", "cycles", "instrs", "cpi", "squashes", "btb-hit")
	for _, r := range results {
		fmt.Fprintf(w, "%-24s %10d %8d %6.2f %9d %7.1f%%\n",
			r.Name, r.Cycles, r.Instructions, r.CPI, r.Squashes, r.BTBHitRate)
	}
}
