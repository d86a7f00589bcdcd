package memory

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when no record has the requested identifier.
var ErrNotFound = errors.New("record not found")

// collection is a keyed list with incrementing identifiers. Listing keeps
// insertion order; identifiers are never handed out twice.
type collection[T any] struct {
	mu     sync.RWMutex
	items  []T
	index  map[int64]int
	nextID int64
	idOf   func(T) int64
	withID func(T, int64) T
}

func newCollection[T any](idOf func(T) int64, withID func(T, int64) T) *collection[T] {
	return &collection[T]{
		index:  make(map[int64]int),
		nextID: 1,
		idOf:   idOf,
		withID: withID,
	}
}

func (c *collection[T]) list() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

func (c *collection[T]) get(id int64) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pos, ok := c.index[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return c.items[pos], nil
}

func (c *collection[T]) create(item T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	item = c.withID(item, c.nextID)
	c.nextID++
	c.index[c.idOf(item)] = len(c.items)
	c.items = append(c.items, item)
	return item
}

// restore inserts an item that already carries an identifier, as read from
// a seed file. The counter moves past it.
func (c *collection[T]) restore(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.idOf(item)
	if pos, ok := c.index[id]; ok {
		c.items[pos] = item
	} else {
		c.index[id] = len(c.items)
		c.items = append(c.items, item)
	}
	if id >= c.nextID {
		c.nextID = id + 1
	}
}

func (c *collection[T]) update(id int64, fn func(current T) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, ok := c.index[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	updated := c.withID(fn(c.items[pos]), id)
	c.items[pos] = updated
	return updated, nil
}

func (c *collection[T]) delete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, ok := c.index[id]
	if !ok {
		return ErrNotFound
	}
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.index, id)
	for i := pos; i < len(c.items); i++ {
		c.index[c.idOf(c.items[i])] = i
	}
	return nil
}
