package seen

import (
	"context"
	"sync"
)

// Memory is an unbounded in-process set. It grows for the lifetime of the
// process.
type Memory struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{ids: make(map[string]struct{}, 1024)}
}

func (m *Memory) Add(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ids[id]; ok {
		return false, nil
	}
	m.ids[id] = struct{}{}
	return true, nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ids)
}
