package plantlib

import "sort"

// Collection is the in-memory mirror of the user's plants, ordered by
// creation time descending. It is not safe for concurrent use; the session
// engine owns it from a single goroutine and hands out clones.
type Collection struct {
	plants []*Plant
	index  map[string]int
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[string]int)}
}

// Replace swaps in a fresh set of plants, e.g. after a full remote fetch.
func (c *Collection) Replace(plants []*Plant) {
	c.plants = append(c.plants[:0:0], plants...)
	sort.Stable(PlantSlice(c.plants))
	c.reindex()
}

// Insert adds a plant if no plant with the same id is present. Returns true
// if the plant was added. Duplicate inserts (feed echo of a local insert,
// at-least-once redelivery) are no-ops.
func (c *Collection) Insert(p *Plant) bool {
	if _, ok := c.index[p.Id]; ok {
		return false
	}
	c.plants = append(c.plants, p)
	sort.Stable(PlantSlice(c.plants))
	c.reindex()
	return true
}

// Merge replaces the stored plant with the given remote snapshot, keyed by
// id. Returns false if no plant with that id is present.
func (c *Collection) Merge(p *Plant) bool {
	i, ok := c.index[p.Id]
	if !ok {
		return false
	}
	c.plants[i] = p
	return true
}

// MergeFields applies a field map to the plant with the given id.
func (c *Collection) MergeFields(id string, fields map[string]any) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.plants[i].ApplyFields(fields)
	return true
}

// Remove deletes the plant with the given id. Returns true if it was present.
func (c *Collection) Remove(id string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.plants = append(c.plants[:i], c.plants[i+1:]...)
	c.reindex()
	return true
}

// Get returns the stored plant for id, or nil.
func (c *Collection) Get(id string) *Plant {
	i, ok := c.index[id]
	if !ok {
		return nil
	}
	return c.plants[i]
}

// Items returns the underlying plants in order. Callers outside the owning
// goroutine must use Snapshot instead.
func (c *Collection) Items() []*Plant {
	return c.plants
}

// Snapshot returns deep copies of all plants in order.
func (c *Collection) Snapshot() []*Plant {
	out := make([]*Plant, len(c.plants))
	for i, p := range c.plants {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of plants.
func (c *Collection) Len() int {
	return len(c.plants)
}

func (c *Collection) reindex() {
	c.index = make(map[string]int, len(c.plants))
	for i, p := range c.plants {
		c.index[p.Id] = i
	}
}
