// Package latency provides the instruction timing model for the
// cycle-accurate simulation. Latencies are configurable via TimingConfig.
package latency

import (
	"github.com/sarchlab/tomsim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a latency table with the default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a latency table with a custom configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// ExecCycles returns the reservation-station execution time assigned to
// an instruction at issue.
func (t *Table) ExecCycles(op insts.Op) uint32 {
	switch op {
	case insts.OpLW:
		return t.config.LoadLatency
	case insts.OpBEQZ:
		return t.config.BranchLatency
	default:
		return t.config.IntLatency
	}
}

// StoreDrainCycles returns the residency of the commit-phase store
// station. The drain counter starts one below the store latency because
// the transfer cycle itself counts.
func (t *Table) StoreDrainCycles() uint32 {
	return t.config.StoreLatency - 1
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
