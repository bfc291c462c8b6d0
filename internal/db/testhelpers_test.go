// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

package db

import (
	"testing"
)

// WithTestStore initializes an in-memory sqlite Store for the duration of the
// provided function and restores package-level globals afterwards.
func WithTestStore(t *testing.T, fn func(s *SqliteStore)) {
	t.Helper()

	// Save previous globals
	prevStore := store
	prevDefaultActivityWriter := defaultActivityWriter

	// Initialize in-memory sqlite DB for this test
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	if err := InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	s, ok := store.(*SqliteStore)
	if !ok {
		t.Fatalf("store is not *SqliteStore")
	}

	// Ensure restoration of globals after fn completes
	defer func() {
		store = prevStore
		defaultActivityWriter = prevDefaultActivityWriter
	}()

	fn(s)
}

// WithActivityWriter temporarily sets the package-level ActivityWriter for the
// duration of fn and restores the previous writer afterwards.
func WithActivityWriter(t *testing.T, w ActivityWriter, fn func()) {
	t.Helper()
	prev := defaultActivityWriter
	defaultActivityWriter = w
	defer func() { defaultActivityWriter = prev }()
	fn()
}
