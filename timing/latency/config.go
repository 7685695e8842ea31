package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds execution latencies for each instruction class, in
// cycles of reservation-station residency at issue.
type TimingConfig struct {
	// IntLatency is the execution latency for integer operations
	// (RR_ALU, ADDI, ANDI, J, HALT, NOOP, and the compute phase of SW).
	// Default: 1 cycle.
	IntLatency uint32 `json:"int_latency"`

	// LoadLatency is the execution latency for LW. Default: 2 cycles.
	LoadLatency uint32 `json:"load_latency"`

	// StoreLatency is the latency of the commit-phase store drain for SW.
	// Default: 2 cycles.
	StoreLatency uint32 `json:"store_latency"`

	// BranchLatency is the execution latency for BEQZ. Default: 3 cycles.
	BranchLatency uint32 `json:"branch_latency"`
}

// DefaultTimingConfig returns a TimingConfig with the baseline latencies.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		IntLatency:    1,
		LoadLatency:   2,
		StoreLatency:  2,
		BranchLatency: 3,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields absent from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.IntLatency == 0 {
		return fmt.Errorf("int_latency must be > 0")
	}
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
