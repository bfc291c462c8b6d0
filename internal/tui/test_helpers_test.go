// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the LICENSE file in the root directory.

package tui

import (
	"fmt"
	"testing"

	"github.com/scriptum/scriptum/internal/datastore"
	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/lesson"
	"github.com/scriptum/scriptum/internal/model"
)

// initTestDBT initializes an isolated in-memory sqlite DB for a test and
// resets the shared datastore registry.
func initTestDBT(t *testing.T) {
	t.Helper()
	if err := i18n.Init("en"); err != nil {
		t.Fatalf("initTestDBT: i18n.Init failed: %v", err)
	}
	dsn := fmt.Sprintf("file:tui_%s?mode=memory&cache=shared", t.Name())
	if err := db.InitDB("sqlite", dsn); err != nil {
		t.Fatalf("initTestDBT: db.InitDB failed: %v", err)
	}
	datastore.ResetForTest()
}

// addTestProfile creates a profile and returns its id. The first profile
// added becomes active automatically.
func addTestProfile(t *testing.T, name string) int {
	t.Helper()
	id, err := db.AddProfile(name)
	if err != nil {
		t.Fatalf("addTestProfile(%q): %v", name, err)
	}
	return id
}

// addTestLesson persists a custom lesson built from text and returns it.
func addTestLesson(t *testing.T, title, text string) model.Lesson {
	t.Helper()
	l, err := lesson.FromText(title, text)
	if err != nil {
		t.Fatalf("addTestLesson(%q): %v", title, err)
	}
	id, err := db.AddLesson(l)
	if err != nil {
		t.Fatalf("addTestLesson(%q): AddLesson: %v", title, err)
	}
	l.ID = id
	return l
}
