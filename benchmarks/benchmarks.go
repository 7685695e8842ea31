// Package benchmarks provides microbenchmark programs and a harness for
// characterizing the simulated pipeline.
package benchmarks

// Benchmark defines a single benchmark program in assembly source form.
type Benchmark struct {
	// Name identifies the benchmark.
	Name string
	// Description explains what the benchmark measures.
	Description string
	// Source is the assembly text, loaded at the conventional base.
	Source string
	// Data holds words preloaded into low memory, indexed from address 0.
	Data []uint32
}

// Microbenchmarks returns the standard set of microbenchmarks. Each one
// targets a specific pipeline characteristic.
func Microbenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memoryRoundTrip(),
		branchLoop(),
		mixedOperations(),
	}
}

// arithmeticSequential measures issue/retire throughput with independent
// integer operations.
func arithmeticSequential() Benchmark {
	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "independent ADDIs, measures issue and retire throughput",
		Source: `	addi r1, r0, 1
	addi r2, r0, 2
	addi r3, r0, 3
	addi r4, r0, 4
	addi r5, r0, 5
	addi r6, r0, 6
	addi r7, r0, 7
	addi r8, r0, 8
	halt`,
	}
}

// dependencyChain measures operand forwarding over the common data bus.
func dependencyChain() Benchmark {
	return Benchmark{
		Name:        "dependency_chain",
		Description: "serially dependent ADDIs, measures broadcast forwarding",
		Source: `	addi r1, r0, 1
	addi r1, r1, 1
	addi r1, r1, 1
	addi r1, r1, 1
	addi r1, r1, 1
	addi r1, r1, 1
	addi r1, r1, 1
	addi r1, r1, 1
	halt`,
	}
}

// memoryRoundTrip measures the load pipeline and the two-phase store.
func memoryRoundTrip() Benchmark {
	return Benchmark{
		Name:        "memory_round_trip",
		Description: "LW/SW pairs, measures load latency and store drain",
		Source: `	lw r1, r0, 0
	sw r1, r0, 1
	lw r2, r0, 1
	sw r2, r0, 2
	lw r3, r0, 2
	sw r3, r0, 3
	halt`,
		Data: []uint32{42},
	}
}

// branchLoop measures dynamic prediction on a countdown loop: the branch
// is not taken while counting down and taken once at exit.
func branchLoop() Benchmark {
	return Benchmark{
		Name:        "branch_loop",
		Description: "countdown loop, measures BTB learning and squash cost",
		Source: `	addi r1, r0, 4
loop	addi r1, r1, -1
	beqz r1, done
	j loop
done	halt`,
	}
}

// mixedOperations exercises every unit class in one stream.
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "loads, stores, ALU ops and a branch in one stream",
		Source: `	lw r1, r0, 0
	addi r2, r0, 3
	add r3, r1, r2
	sw r3, r0, 1
	beqz r0, skip
	addi r4, r0, 99
skip	halt`,
		Data: []uint32{7},
	}
}
