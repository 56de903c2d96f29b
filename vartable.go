package motionlink

import (
	"fmt"
	"sync"
)

// VarTable is the register file the job source exposes: a fixed-size array
// of int32 registers. Safe for concurrent use by multiple client sessions.
type VarTable struct {
	mu   sync.RWMutex
	vals []int32

	// OnChange, if set, is called after a register changes value. It runs
	// outside the table lock. Set it before the table is shared.
	OnChange func(idx uint8, val int32)
}

// NewVarTable returns a table of size registers, all zero. Size is capped
// at 256, the range addressable by a frame's one-byte selector.
func NewVarTable(size int) *VarTable {
	if size < 1 || size > 256 {
		panic(fmt.Sprintf("motionlink: var table size %d out of range [1,256]", size))
	}
	return &VarTable{vals: make([]int32, size)}
}

// Size returns the number of registers.
func (t *VarTable) Size() int {
	return len(t.vals)
}

// Get returns the value of register idx.
func (t *VarTable) Get(idx uint8) (int32, error) {
	if int(idx) >= len(t.vals) {
		return 0, fmt.Errorf("register %d out of range [0,%d)", idx, len(t.vals))
	}
	t.mu.RLock()
	v := t.vals[idx]
	t.mu.RUnlock()
	return v, nil
}

// Set stores val in register idx, firing OnChange when the value actually
// changed.
func (t *VarTable) Set(idx uint8, val int32) error {
	if int(idx) >= len(t.vals) {
		return fmt.Errorf("register %d out of range [0,%d)", idx, len(t.vals))
	}
	t.mu.Lock()
	changed := t.vals[idx] != val
	t.vals[idx] = val
	t.mu.Unlock()

	if changed && t.OnChange != nil {
		t.OnChange(idx, val)
	}
	return nil
}
