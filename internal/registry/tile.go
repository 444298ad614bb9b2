package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/skill-docket/skd/internal/model"
)

// TileRegistry holds named tiles: saved layouts bound to an agent, a
// composition of sub-tiles, or a bare session placeholder.
type TileRegistry struct {
	mu    sync.RWMutex
	tiles map[string]model.Tile
}

// NewTileRegistry returns an empty registry.
func NewTileRegistry() *TileRegistry {
	return &TileRegistry{tiles: map[string]model.Tile{}}
}

// Put inserts or replaces a tile.
func (r *TileRegistry) Put(tile model.Tile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiles[tile.Name] = tile
}

// CreateUnique inserts a tile, failing if the name is taken.
func (r *TileRegistry) CreateUnique(tile model.Tile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tiles[tile.Name]; exists {
		return fmt.Errorf("registry: tile %q already exists", tile.Name)
	}
	r.tiles[tile.Name] = tile
	return nil
}

// Get returns the tile with the given name and whether it exists.
func (r *TileRegistry) Get(name string) (model.Tile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tiles[name]
	return t, ok
}

// Remove deletes a tile by name.
func (r *TileRegistry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tiles, name)
}

// Names returns every tile name, sorted.
func (r *TileRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tiles))
	for name := range r.tiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
