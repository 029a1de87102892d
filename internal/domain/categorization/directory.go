// Package categorization resolves statement category names to category ids.
package categorization

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Directory is a name to id map used by the extractors. Lookups are case
// insensitive and ignore surrounding whitespace. It is safe for concurrent
// reads while Reload swaps the contents.
type Directory struct {
	mu    sync.RWMutex
	byKey map[string]uuid.UUID
}

// NewDirectory builds a directory from category names to ids.
func NewDirectory(categories map[string]uuid.UUID) *Directory {
	d := &Directory{}
	d.Reload(categories)
	return d
}

// Lookup returns the id of the named category.
func (d *Directory) Lookup(name string) (uuid.UUID, bool) {
	key := normalizeName(name)
	if key == "" {
		return uuid.Nil, false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byKey[key]
	return id, ok
}

// Reload replaces the directory contents. When two names normalize to the same
// key the lexically smaller original name wins.
func (d *Directory) Reload(categories map[string]uuid.UUID) {
	byKey := make(map[string]uuid.UUID, len(categories))
	winners := make(map[string]string, len(categories))
	for name, id := range categories {
		key := normalizeName(name)
		if key == "" {
			continue
		}
		if prev, ok := winners[key]; ok && prev < name {
			continue
		}
		winners[key] = name
		byKey[key] = id
	}

	d.mu.Lock()
	d.byKey = byKey
	d.mu.Unlock()
}

// Len returns the number of distinct categories.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byKey)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
