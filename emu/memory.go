package emu

import (
	"encoding/binary"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// NumWords is the fixed memory capacity in 32-bit words.
const NumWords = 10000

// wordBytes is the storage footprint of one word.
const wordBytes = 4

// Memory is the word-addressed machine memory, backed by an Akita storage.
// Addresses are word indices in [0, NumWords); there is no byte addressing.
// Out-of-range accesses saturate to the last word so that a stray address
// cannot corrupt unrelated state.
type Memory struct {
	storage *mem.Storage
}

// NewMemory creates a zeroed memory of NumWords words.
func NewMemory() *Memory {
	return &Memory{
		storage: mem.NewStorage(NumWords * wordBytes),
	}
}

func clampAddr(addr uint32) uint64 {
	if addr >= NumWords {
		addr = NumWords - 1
	}
	return uint64(addr) * wordBytes
}

// Read returns the word at the given word address.
func (m *Memory) Read(addr uint32) uint32 {
	data, err := m.storage.Read(clampAddr(addr), wordBytes)
	if err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(data)
}

// Write stores a word at the given word address.
func (m *Memory) Write(addr, v uint32) {
	var buf [wordBytes]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_ = m.storage.Write(clampAddr(addr), buf[:])
}

// Words returns a snapshot of the first n words. n is clamped to NumWords.
func (m *Memory) Words(n uint32) []uint32 {
	if n > NumWords {
		n = NumWords
	}
	words := make([]uint32, n)
	for i := range words {
		words[i] = m.Read(uint32(i))
	}
	return words
}

// Reset zeroes the entire memory.
func (m *Memory) Reset() {
	zeros := make([]byte, NumWords*wordBytes)
	_ = m.storage.Write(0, zeros)
}

// Copy returns an independent copy of the memory contents.
func (m *Memory) Copy() *Memory {
	clone := NewMemory()
	data, err := m.storage.Read(0, NumWords*wordBytes)
	if err != nil {
		return clone
	}
	_ = clone.storage.Write(0, data)
	return clone
}
