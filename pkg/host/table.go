package host

import (
	"context"
	"sort"
	"sync"

	"github.com/lithoprep/maskforge/pkg/errors"
)

// tableKey identifies one registration slot.
type tableKey struct {
	layer Layer
	name  string
}

// MemTable is an in-memory GeometryTable. Registrations are keyed by
// (layer, name) so repeating an export replaces the previous pattern
// instead of accumulating duplicates.
//
// MemTable is safe for concurrent use.
type MemTable struct {
	mu      sync.RWMutex
	entries map[tableKey]Entry
}

// NewMemTable creates an empty geometry table.
func NewMemTable() *MemTable {
	return &MemTable{entries: make(map[tableKey]Entry)}
}

// Register stores an entry, replacing any prior entry for the same layer
// and name.
func (t *MemTable) Register(ctx context.Context, e Entry) error {
	if err := errors.ValidateLayer(int(e.Layer)); err != nil {
		return err
	}
	if err := errors.ValidateComponentName(e.Name); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[tableKey{layer: e.Layer, name: e.Name}] = e
	return nil
}

// Entries returns all registrations ordered by layer, then name.
func (t *MemTable) Entries(ctx context.Context) ([]Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Layer != out[j].Layer {
			return out[i].Layer < out[j].Layer
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Lookup returns the entry registered under (layer, name), if any.
func (t *MemTable) Lookup(layer Layer, name string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[tableKey{layer: layer, name: name}]
	return e, ok
}

// Len returns the number of registrations.
func (t *MemTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Ensure MemTable implements GeometryTable.
var _ GeometryTable = (*MemTable)(nil)
