package cas

import (
	"sync"

	"github.com/timewinder-dev/scopevm/interp"
)

type MemoryCAS struct {
	mu     sync.RWMutex
	data   map[Hash][]byte
	visits map[Hash][]int // steps at which each state hash was seen
}

func NewMemoryCAS() *MemoryCAS {
	return &MemoryCAS{
		data:   make(map[Hash][]byte),
		visits: make(map[Hash][]int),
	}
}

func (m *MemoryCAS) getValue(h Hash) (bool, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[h]
	if !ok {
		return false, nil, nil
	}
	return true, v, nil
}

func (m *MemoryCAS) Has(hash Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[hash]
	return ok
}

// Len returns the number of stored entries, including the frames and scopes
// that states are decomposed into.
func (m *MemoryCAS) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryCAS) Put(item Hashable) (Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// States are split into frame and scope references so that unchanged
	// scopes are shared between snapshots.
	if state, ok := item.(*interp.State); ok {
		return decomposeState(m, state)
	}
	return putDirect(m, item)
}

// RecordVisit records that the state with the given hash was seen at step.
// Steps are kept in the order they were recorded.
func (m *MemoryCAS) RecordVisit(hash Hash, step int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visits[hash] = append(m.visits[hash], step)
}

func (m *MemoryCAS) Visits(hash Hash) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	steps := m.visits[hash]
	result := make([]int, len(steps))
	copy(result, steps)
	return result
}
