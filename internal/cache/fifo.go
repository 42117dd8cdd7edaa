package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 1024

// FIFO is a fixed-capacity map that evicts the oldest inserted key once full.
// Updating an existing key does not refresh its position.
// It is safe for concurrent use.
type FIFO[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[K]*list.Element
}

type fifoEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewFIFO creates a FIFO holding at most capacity entries.
func NewFIFO[K comparable, V any](capacity int) *FIFO[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &FIFO[K, V]{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[K]*list.Element, capacity),
	}
}

// Get returns the value stored for key.
func (c *FIFO[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return elem.Value.(*fifoEntry[K, V]).value, true
}

// Contains reports whether key is present.
func (c *FIFO[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Put stores value under key and reports whether an older entry was evicted.
func (c *FIFO[K, V]) Put(key K, value V) (evicted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value.(*fifoEntry[K, V]).value = value
		return false
	}
	return c.insertLocked(key, value)
}

// PutIfAbsent stores value only when key is missing and reports whether it did.
func (c *FIFO[K, V]) PutIfAbsent(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		return false
	}
	c.insertLocked(key, value)
	return true
}

func (c *FIFO[K, V]) insertLocked(key K, value V) (evicted bool) {
	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*fifoEntry[K, V]).key)
		evicted = true
	}

	c.items[key] = c.order.PushBack(&fifoEntry[K, V]{key: key, value: value})
	return evicted
}

// Delete removes key if present.
func (c *FIFO[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

// Len returns the number of stored entries.
func (c *FIFO[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity returns the maximum number of entries.
func (c *FIFO[K, V]) Capacity() int {
	return c.capacity
}

// Clear removes every entry.
func (c *FIFO[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.items)
}

// Set is a FIFO used only for membership.
type Set[K comparable] struct {
	fifo *FIFO[K, struct{}]
}

// NewSet creates a Set holding at most capacity keys.
func NewSet[K comparable](capacity int) *Set[K] {
	return &Set[K]{fifo: NewFIFO[K, struct{}](capacity)}
}

// Add inserts key. It reports whether the key was newly added.
func (s *Set[K]) Add(key K) bool {
	return s.fifo.PutIfAbsent(key, struct{}{})
}

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool {
	return s.fifo.Contains(key)
}

// Len returns the number of stored keys.
func (s *Set[K]) Len() int {
	return s.fifo.Len()
}
