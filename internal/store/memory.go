package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/mph-llm-experiments/acore"

	"github.com/mph-llm-experiments/fika/internal/model"
)

// Memory is a process-local store.
type Memory struct {
	mu           sync.Mutex
	order        []string
	contacts     map[string]model.Contact
	interactions map[string][]model.Interaction
	nextIndex    int
}

func NewMemory() *Memory {
	return &Memory{
		contacts:     make(map[string]model.Contact),
		interactions: make(map[string][]model.Interaction),
		nextIndex:    1,
	}
}

func (m *Memory) List(ctx context.Context) ([]model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Contact, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.contacts[id].Clone())
	}
	return out, nil
}

func (m *Memory) Create(ctx context.Context, c model.Contact) (model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		c.ID = acore.NewID()
	}
	if _, ok := m.contacts[c.ID]; ok {
		return model.Contact{}, fmt.Errorf("contact %s already exists", c.ID)
	}
	c.IndexID = m.nextIndex
	m.nextIndex++
	m.contacts[c.ID] = c.Clone()
	m.order = append(m.order, c.ID)
	return c, nil
}

func (m *Memory) Update(ctx context.Context, id string, c model.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.contacts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.ID = id
	c.IndexID = existing.IndexID
	m.contacts[id] = c.Clone()
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.contacts[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.contacts, id)
	delete(m.interactions, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) LogInteraction(ctx context.Context, in model.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.contacts[in.ContactID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, in.ContactID)
	}
	if in.ID == "" {
		in.ID = acore.NewID()
	}
	c.LastContactedAt = in.At
	c.LastInteractionAt = in.At
	m.contacts[in.ContactID] = c
	// newest first, matching the other backends
	m.interactions[in.ContactID] = append([]model.Interaction{in}, m.interactions[in.ContactID]...)
	return nil
}

func (m *Memory) Interactions(ctx context.Context, contactID string) ([]model.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.contacts[contactID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, contactID)
	}
	return append([]model.Interaction(nil), m.interactions[contactID]...), nil
}

func (m *Memory) Close() error {
	return nil
}
