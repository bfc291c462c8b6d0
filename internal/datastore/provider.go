// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

package datastore

import (
	"reflect"
	"sync"
)

var (
	registryMu sync.Mutex
	registry   = map[reflect.Type]any{}
)

// For returns the shared store for T, creating it on first use. Two
// concurrent first calls for the same T observe the same instance;
// distinct types get distinct stores.
func For[T any]() *DataStore[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()

	registryMu.Lock()
	defer registryMu.Unlock()
	if s, ok := registry[key]; ok {
		return s.(*DataStore[T])
	}
	s := New[T]()
	registry[key] = s
	return s
}

// ResetForTest drops every shared store so tests start from a clean
// registry. Production code has no reason to call this.
func ResetForTest() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = map[reflect.Type]any{}
}
