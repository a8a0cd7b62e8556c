package storage

import (
	"context"
	"sync"

	"cuzdan/internal/core"
)

// MemoryPersister keeps the last saved state in memory. Used for tests and
// throwaway runs.
type MemoryPersister struct {
	mu    sync.Mutex
	state core.State
	saves int
}

func NewMemoryPersister(initial core.State) *MemoryPersister {
	return &MemoryPersister{state: initial.Clone()}
}

func (p *MemoryPersister) Load(context.Context) (core.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Clone(), nil
}

func (p *MemoryPersister) Save(_ context.Context, st core.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = st.Clone()
	p.saves++
	return nil
}

// Saves returns how many times Save was called.
func (p *MemoryPersister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}
