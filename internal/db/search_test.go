// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

package db

import (
	"reflect"
	"testing"

	"github.com/scriptum/scriptum/internal/model"
)

func TestTokenizeSearchQuery_Empty(t *testing.T) {
	if got := TokenizeSearchQuery(""); got != nil {
		t.Fatalf("expected nil for empty input, got %#v", got)
	}
}

func TestTokenizeSearchQuery_Single(t *testing.T) {
	want := []string{"foo"}
	if got := TokenizeSearchQuery("FOO"); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tokens: got %#v want %#v", got, want)
	}
}

func TestTokenizeSearchQuery_MultipleAndTrim(t *testing.T) {
	want := []string{"grund", "reihe", "links"}
	if got := TokenizeSearchQuery("  Grund   Reihe Links  "); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tokens: got %#v want %#v", got, want)
	}
}

func TestDefaultActivityWriter_OverrideWins(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		fake := &FakeActivityWriter{}
		WithActivityWriter(t, fake, func() {
			if err := LogAction("TEST_ACTION", "details"); err != nil {
				t.Fatalf("LogAction via fake failed: %v", err)
			}
		})
		if len(fake.Actions) != 1 || fake.Actions[0] != "TEST_ACTION" {
			t.Fatalf("expected fake writer to capture the action, got %#v", fake.Actions)
		}

		// With the override cleared, the action must land in the database.
		if err := LogAction("REAL_ACTION", "db details"); err != nil {
			t.Fatalf("LogAction via store failed: %v", err)
		}
		entries, err := GetAllActivityLogEntries()
		if err != nil {
			t.Fatalf("GetAllActivityLogEntries failed: %v", err)
		}
		found := false
		for _, e := range entries {
			if e.Action == "REAL_ACTION" {
				found = true
			}
			if e.Action == "TEST_ACTION" {
				t.Fatalf("fake-written action leaked into the database")
			}
		}
		if !found {
			t.Fatalf("expected REAL_ACTION in the activity log")
		}
	})
}

func TestLessonSearcher_FakeShortCircuits(t *testing.T) {
	fake := &FakeLessonSearcher{Results: []model.Lesson{{Title: "vorgegeben"}}}
	got, err := fake.SearchLessons("anything")
	if err != nil {
		t.Fatalf("fake SearchLessons failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "vorgegeben" {
		t.Fatalf("unexpected fake results: %#v", got)
	}
}
