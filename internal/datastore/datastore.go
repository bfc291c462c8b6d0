// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

// Package datastore provides observable in-memory collections shared
// across UI views. Each element type gets exactly one store instance
// via For, so every view works on the same working set without
// re-querying the database.
package datastore

import "sync"

// Op classifies a change to a store.
type Op int

const (
	// OpAdd means an item was appended.
	OpAdd Op = iota
	// OpRemove means the item at Index was removed.
	OpRemove
	// OpReplace means the item at Index was overwritten.
	OpReplace
	// OpReset means the whole collection was swapped; Item is the zero
	// value and Index is -1.
	OpReset
)

// Event describes one mutation. For OpRemove the Item is the removed
// element; for OpAdd and OpReplace it is the new one.
type Event[T any] struct {
	Op    Op
	Item  T
	Index int
}

// DataStore is a mutex-guarded slice with change notification. Reads
// return copies, so callers can range without holding anything.
// Subscriber callbacks run synchronously on the mutating goroutine and
// must not block or mutate the store.
type DataStore[T any] struct {
	mu      sync.RWMutex
	items   []T
	subs    map[int]func(Event[T])
	nextSub int
}

// New creates an empty store. Most callers want For instead, which
// hands out the shared per-type instance.
func New[T any]() *DataStore[T] {
	return &DataStore[T]{subs: make(map[int]func(Event[T]))}
}

// Add appends an item and notifies subscribers.
func (s *DataStore[T]) Add(item T) {
	s.mu.Lock()
	s.items = append(s.items, item)
	idx := len(s.items) - 1
	subs := s.snapshot()
	s.mu.Unlock()

	fire(subs, Event[T]{Op: OpAdd, Item: item, Index: idx})
}

// RemoveAt removes the item at index i. Out-of-range indexes are a
// no-op and report false.
func (s *DataStore[T]) RemoveAt(i int) bool {
	s.mu.Lock()
	if i < 0 || i >= len(s.items) {
		s.mu.Unlock()
		return false
	}
	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	subs := s.snapshot()
	s.mu.Unlock()

	fire(subs, Event[T]{Op: OpRemove, Item: removed, Index: i})
	return true
}

// Replace overwrites the item at index i. Out-of-range indexes are a
// no-op and report false.
func (s *DataStore[T]) Replace(i int, item T) bool {
	s.mu.Lock()
	if i < 0 || i >= len(s.items) {
		s.mu.Unlock()
		return false
	}
	s.items[i] = item
	subs := s.snapshot()
	s.mu.Unlock()

	fire(subs, Event[T]{Op: OpReplace, Item: item, Index: i})
	return true
}

// Reset swaps the whole collection for items. The slice is copied.
func (s *DataStore[T]) Reset(items []T) {
	s.mu.Lock()
	s.items = append([]T(nil), items...)
	subs := s.snapshot()
	s.mu.Unlock()

	var zero T
	fire(subs, Event[T]{Op: OpReset, Item: zero, Index: -1})
}

// Items returns a copy of the collection.
func (s *DataStore[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

// At returns the item at index i.
func (s *DataStore[T]) At(i int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// Len returns the number of items.
func (s *DataStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Find returns the first item matching the predicate.
func (s *DataStore[T]) Find(match func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Subscribe registers a callback for every mutation and returns the
// matching unsubscribe function. Unsubscribing twice is harmless.
func (s *DataStore[T]) Subscribe(fn func(Event[T])) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshot must be called with the lock held.
func (s *DataStore[T]) snapshot() []func(Event[T]) {
	out := make([]func(Event[T]), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func fire[T any](subs []func(Event[T]), ev Event[T]) {
	for _, fn := range subs {
		fn(ev)
	}
}
