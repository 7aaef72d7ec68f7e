package store

import (
	"context"
	"encoding/json"
	"sync"

	"launchline/internal/domain"
)

// Memory keeps the launch collection in process memory. Snapshots go through
// a JSON round trip so callers never share slices or maps with the store.
type Memory struct {
	mu  sync.RWMutex
	doc []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) LoadAll(ctx context.Context) ([]domain.Launch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.doc == nil {
		return nil, nil
	}
	var launches []domain.Launch
	if err := json.Unmarshal(m.doc, &launches); err != nil {
		return nil, err
	}
	return launches, nil
}

func (m *Memory) ReplaceAll(ctx context.Context, launches []domain.Launch) error {
	doc, err := json.Marshal(launches)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.doc = doc
	m.mu.Unlock()
	return nil
}
