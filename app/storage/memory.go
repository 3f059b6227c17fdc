package storage

import (
	"context"
	"sync"
)

// Memory is a process local store, state is lost on restart and not shared between instances.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	sets   map[string]map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
		sets:   make(map[string]map[string]struct{}),
	}
}

func (m *Memory) Ping(_ context.Context) error {
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *Memory) AddToSet(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	set[member] = struct{}{}
	return nil
}

// does not error if member is not in set
func (m *Memory) RemoveFromSet(_ context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[key]
	if !ok {
		return false, nil
	}

	_, ok = set[member]
	if !ok {
		return false, nil
	}

	delete(set, member)
	if len(set) == 0 {
		delete(m.sets, key)
	}
	return true, nil
}

func (m *Memory) IsMember(_ context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sets[key][member]
	return ok, nil
}

func (m *Memory) Close() error {
	return nil
}
