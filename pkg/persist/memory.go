package persist

import "slices"

// Memory is an in-memory Store for tests and embeddings that persist slots
// somewhere other than cookies. Names preserves insertion order so the SSO
// first-match scan is deterministic.
type Memory struct {
	values map[string]Entry
	order  []string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]Entry)}
}

func (m *Memory) Get(name string) (string, error) {
	entry, ok := m.values[name]
	if !ok {
		return "", ErrSlotNotFound
	}
	return entry.Value, nil
}

func (m *Memory) Set(entry Entry) error {
	if entry.Name == "" {
		return ErrEmptyName
	}
	if _, ok := m.values[entry.Name]; !ok {
		m.order = append(m.order, entry.Name)
	}
	m.values[entry.Name] = entry
	return nil
}

func (m *Memory) Delete(name string) error {
	if _, ok := m.values[name]; !ok {
		return nil
	}
	delete(m.values, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	return nil
}

func (m *Memory) Names() []string {
	return slices.Clone(m.order)
}

// Entry returns the full stored entry, letting tests assert on the slot
// attributes (path, expiry, flags) and not only the value.
func (m *Memory) Entry(name string) (Entry, bool) {
	entry, ok := m.values[name]
	return entry, ok
}
