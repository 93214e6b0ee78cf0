// Package catalog keeps the authoritative set of spatial entities and the
// quadtree index over them. Entities get KSUID identities on entry; the index
// stores handles and the catalog owns the mapping from id to handle. With a
// data directory configured, entities are also persisted so a restarted
// process can rebuild its index.
package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/njorddb/pkg/geo"
	"github.com/ssargent/njorddb/pkg/quadtree"
)

// ErrNotFound is returned when an entity id is not in the catalog.
var ErrNotFound = errors.New("catalog: entity not found")

// Entity is a spatial entity. Data is an opaque payload the catalog stores
// but never interprets.
type Entity struct {
	ID   ksuid.KSUID `json:"id"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
	Data []byte      `json:"data,omitempty"`
}

// Config holds configuration for a catalog.
type Config struct {
	OriginX float64 // top-left corner of the world
	OriginY float64
	Width   float64
	Height  float64

	Capacity uint16 // per-node subdivision threshold; 0 keeps the index default
	Threaded bool   // install real mutexes on the index
	DataDir  string // pebble directory; empty disables persistence
}

// Stats summarizes a catalog and its index.
type Stats struct {
	Entities int            `json:"entities"`
	Index    quadtree.Stats `json:"index"`
}

// Catalog is safe for concurrent use when opened with Threaded set.
// Mutations are serialized under mu so the id map, the index and the store
// always agree; queries go straight to the index and run concurrently.
type Catalog struct {
	mu    sync.RWMutex
	byID  map[ksuid.KSUID]*Entity
	tree  *quadtree.Tree[*Entity]
	store *entityStore
	world geo.Rect
}

// pointInRegion is the placement predicate: an entity belongs in any region
// containing its point. Contains is closed, so the predicate is monotonic as
// the index requires.
func pointInRegion(e *Entity, region geo.Rect) bool {
	return region.Contains(e.X, e.Y)
}

// Open builds a catalog over the configured world. With a data directory it
// opens the entity store and rebuilds the index from the persisted entities.
func Open(cfg Config) (*Catalog, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("catalog: world dimensions must be positive, got %gx%g", cfg.Width, cfg.Height)
	}

	tree := quadtree.New(cfg.OriginX, cfg.OriginY, cfg.Width, cfg.Height, pointInRegion)
	if cfg.Capacity > 0 {
		tree.SetMaxCap(cfg.Capacity)
	}
	if cfg.Threaded {
		tree.SetMutexAPI(quadtree.StdMutexAPI())
	}

	c := &Catalog{
		byID:  make(map[ksuid.KSUID]*Entity),
		tree:  tree,
		world: geo.FromOrigin(cfg.OriginX, cfg.OriginY, cfg.Width, cfg.Height),
	}

	if cfg.DataDir != "" {
		store, err := openEntityStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		c.store = store
		if err := c.rebuild(); err != nil {
			_ = store.close()
			return nil, err
		}
	}

	return c, nil
}

// rebuild reloads persisted entities into the fresh index.
func (c *Catalog) rebuild() error {
	return c.store.each(func(e *Entity) error {
		c.byID[e.ID] = e
		c.tree.Insert(e)
		return nil
	})
}

// Put registers a new entity at (x, y) and returns it with its assigned id.
func (c *Catalog) Put(x, y float64, data []byte) (*Entity, error) {
	if !c.world.Contains(x, y) {
		return nil, fmt.Errorf("catalog: point (%g, %g) is outside the world bound", x, y)
	}

	e := &Entity{ID: ksuid.New(), X: x, Y: y, Data: data}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.byID[e.ID] = e
	c.tree.Insert(e)

	if c.store != nil {
		if err := c.store.put(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Get returns the entity with the given id.
func (c *Catalog) Get(id ksuid.KSUID) (*Entity, error) {
	c.mu.RLock()
	e, ok := c.byID[id]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Remove deletes an entity from the catalog, the index and the store.
func (c *Catalog) Remove(id ksuid.KSUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(c.byID, id)

	c.tree.Remove(e)

	if c.store != nil {
		return c.store.delete(id)
	}
	return nil
}

// Move relocates an entity. The index does not rebalance on movement, so a
// move is a remove of the old handle and an insert of a fresh one.
func (c *Catalog) Move(id ksuid.KSUID, x, y float64) (*Entity, error) {
	if !c.world.Contains(x, y) {
		return nil, fmt.Errorf("catalog: point (%g, %g) is outside the world bound", x, y)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	c.tree.Remove(old)

	moved := &Entity{ID: id, X: x, Y: y, Data: old.Data}
	c.byID[id] = moved
	c.tree.Insert(moved)

	if c.store != nil {
		if err := c.store.put(moved); err != nil {
			return nil, err
		}
	}
	return moved, nil
}

// FindInArea returns the entities inside [x, x+w] x [y, y+h].
func (c *Catalog) FindInArea(x, y, w, h float64) []*Entity {
	return c.tree.FindInArea(x, y, w, h)
}

// Len returns the number of registered entities.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Stats returns a snapshot of the catalog and its index shape.
func (c *Catalog) Stats() Stats {
	return Stats{
		Entities: c.Len(),
		Index:    c.tree.Stats(),
	}
}

// Clear drops every entity. The index keeps its world bound; persisted
// entities are deleted one by one.
func (c *Catalog) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]ksuid.KSUID, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	c.byID = make(map[ksuid.KSUID]*Entity)

	c.tree.Clear()

	if c.store != nil {
		for _, id := range ids {
			if err := c.store.delete(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases the index and the entity store.
func (c *Catalog) Close() error {
	c.tree.Free()
	if c.store != nil {
		return c.store.close()
	}
	return nil
}
