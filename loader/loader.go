package loader

import (
	"fmt"
	"os"
)

// DefaultBase is the word address programs are placed at. The machine
// fetches from this address after reset; lower addresses hold data.
const DefaultBase uint32 = 16

// Program is an assembled program ready to be placed in machine memory.
type Program struct {
	// Words are the instruction words in program order.
	Words []uint32
	// Base is the word address of the first instruction.
	Base uint32
}

// End returns the word address one past the last instruction, suitable
// for SetMemorySize.
func (p *Program) End() uint32 {
	return p.Base + uint32(len(p.Words))
}

// Load reads and assembles the program at path, placed at DefaultBase.
func Load(path string) (*Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	words, err := Assemble(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: empty program", path)
	}

	return &Program{Words: words, Base: DefaultBase}, nil
}
