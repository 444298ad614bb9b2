package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/skill-docket/skd/internal/model"
)

// FolderRegistry holds (name, path) folder entries with unique names.
type FolderRegistry struct {
	mu      sync.RWMutex
	folders map[string]model.FolderEntry
}

// NewFolderRegistry returns an empty registry.
func NewFolderRegistry() *FolderRegistry {
	return &FolderRegistry{folders: map[string]model.FolderEntry{}}
}

// Put inserts or replaces a folder entry.
func (r *FolderRegistry) Put(entry model.FolderEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.folders[entry.Name] = entry
}

// CreateUnique inserts a folder entry, failing if the name is taken.
func (r *FolderRegistry) CreateUnique(entry model.FolderEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.folders[entry.Name]; exists {
		return fmt.Errorf("registry: folder %q already exists", entry.Name)
	}
	r.folders[entry.Name] = entry
	return nil
}

// Get returns the folder entry with the given name and whether it exists.
func (r *FolderRegistry) Get(name string) (model.FolderEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.folders[name]
	return e, ok
}

// Remove deletes a folder entry by name.
func (r *FolderRegistry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.folders, name)
}

// All returns every folder entry, sorted by name.
func (r *FolderRegistry) All() []model.FolderEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.folders))
	for name := range r.folders {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]model.FolderEntry, 0, len(names))
	for _, name := range names {
		out = append(out, r.folders[name])
	}
	return out
}
