package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jsphweid/keyquest/model"
)

// MemoryBackend keeps progressions as JSON documents in a map, the same way
// a remote store would hold them.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

func (m *MemoryBackend) Put(ctx context.Context, p model.Progression) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[p.ID] = b
	return nil
}

func (m *MemoryBackend) Get(ctx context.Context, id string) (model.Progression, error) {
	if err := ctx.Err(); err != nil {
		return model.Progression{}, err
	}
	m.mu.RLock()
	b, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return model.Progression{}, ErrNotFound
	}
	return decode(b)
}

func (m *MemoryBackend) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *MemoryBackend) ScanBy(ctx context.Context, index Index, dir Direction) ([]model.Progression, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	res := make([]model.Progression, 0, len(m.docs))
	for _, b := range m.docs {
		p, err := decode(b)
		if err != nil {
			m.mu.RUnlock()
			return nil, err
		}
		res = append(res, p)
	}
	m.mu.RUnlock()
	sortBy(res, index, dir)
	return res, nil
}

func decode(b []byte) (model.Progression, error) {
	var p model.Progression
	if err := json.Unmarshal(b, &p); err != nil {
		return model.Progression{}, errors.Join(ErrCorrupt, err)
	}
	return p, nil
}
