package crud

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vendingops/vmconsole/pkg/clog"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

type ChangeKind string

const (
	ChangeLoaded  ChangeKind = "loaded"
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// ChangeEvent is delivered to subscribers after the cache changed. Entity
// is nil for loads and removals.
type ChangeEvent struct {
	Collection string     `json:"collection"`
	Kind       ChangeKind `json:"kind"`
	ID         string     `json:"id,omitempty"`
	Entity     *Entity    `json:"entity,omitempty"`
}

// ListCache mirrors one collection in memory. Local Apply* calls are only
// made after the matching remote write succeeded.
type ListCache struct {
	schema Schema
	docs   docstore.Store

	mu       sync.RWMutex
	entities []Entity
	loaded   bool

	subMu   sync.Mutex
	subs    map[int]func(ChangeEvent)
	nextSub int
}

func NewListCache(schema Schema, docs docstore.Store) *ListCache {
	return &ListCache{schema: schema, docs: docs, subs: make(map[int]func(ChangeEvent))}
}

func (c *ListCache) Schema() Schema { return c.schema }

// Load replaces the cached list with the collection's current contents. On
// error the previous list is kept.
func (c *ListCache) Load(ctx context.Context) error {
	docs, err := c.docs.List(ctx, c.schema.Collection)
	if err != nil {
		clog.UsingCtx(c.schema.Collection).Errorf("Load failed: %s", err)
		return unavailable(err)
	}

	c.mu.Lock()
	c.entities = docs
	c.sortLocked()
	c.loaded = true
	c.mu.Unlock()

	c.publish(ChangeEvent{Collection: c.schema.Collection, Kind: ChangeLoaded})
	return nil
}

// EnsureLoaded loads the cache the first time it is needed.
func (c *ListCache) EnsureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()

	if loaded {
		return nil
	}

	return c.Load(ctx)
}

// Entities returns a copy of the cached list in display order.
func (c *ListCache) Entities() []Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entity, len(c.entities))
	for i, e := range c.entities {
		out[i] = e.Clone()
	}

	return out
}

func (c *ListCache) Get(id string) (Entity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexLocked(id); i >= 0 {
		return c.entities[i].Clone(), true
	}

	return Entity{}, false
}

func (c *ListCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entities)
}

func (c *ListCache) ApplyCreate(e Entity) {
	e = e.Clone()

	c.mu.Lock()
	if i := c.indexLocked(e.ID); i >= 0 {
		c.entities[i] = e
	} else {
		c.entities = append(c.entities, e)
	}
	c.sortLocked()
	c.mu.Unlock()

	ev := e.Clone()
	c.publish(ChangeEvent{Collection: c.schema.Collection, Kind: ChangeCreated, ID: e.ID, Entity: &ev})
}

// ApplyUpdate merges patch (dotted keys allowed) into the cached entity. An
// id that is not cached is ignored.
func (c *ListCache) ApplyUpdate(id string, patch map[string]any) {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return
	}

	c.entities[i].Fields = docstore.ApplyPatch(c.entities[i].Fields, patch)
	updated := c.entities[i].Clone()
	c.sortLocked()
	c.mu.Unlock()

	c.publish(ChangeEvent{Collection: c.schema.Collection, Kind: ChangeUpdated, ID: id, Entity: &updated})
}

func (c *ListCache) ApplyRemove(id string) {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return
	}

	c.entities = append(c.entities[:i], c.entities[i+1:]...)
	c.mu.Unlock()

	c.publish(ChangeEvent{Collection: c.schema.Collection, Kind: ChangeRemoved, ID: id})
}

// Subscribe registers fn for change events and returns its cancel func.
// fn runs on the goroutine that changed the cache, outside the cache lock.
func (c *ListCache) Subscribe(fn func(ChangeEvent)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *ListCache) publish(ev ChangeEvent) {
	c.subMu.Lock()
	fns := make([]func(ChangeEvent), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (c *ListCache) indexLocked(id string) int {
	for i := range c.entities {
		if c.entities[i].ID == id {
			return i
		}
	}

	return -1
}

func (c *ListCache) sortLocked() {
	name := c.schema.nameField()
	category := c.schema.CategoryField

	sort.SliceStable(c.entities, func(i, j int) bool {
		a, b := c.entities[i].Fields, c.entities[j].Fields
		if category != "" {
			ca, cb := strings.ToLower(StringField(a, category)), strings.ToLower(StringField(b, category))
			if ca != cb {
				return ca < cb
			}
		}

		return strings.ToLower(StringField(a, name)) < strings.ToLower(StringField(b, name))
	})
}
