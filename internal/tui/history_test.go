// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the LICENSE file in the root directory.

package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/model"
)

func addTestSession(t *testing.T, profileID, lessonID int, startedAt time.Time) {
	t.Helper()
	s := model.TrainingSession{
		ProfileID: profileID,
		LessonID:  lessonID,
		StartedAt: startedAt,
		Duration:  95 * time.Second,
		Typed:     100,
		Correct:   95,
		Errors:    5,
		Accuracy:  0.95,
		WPM:       24.0,
		CaseMode:  "strict",
		Completed: true,
	}
	if _, err := db.AddTrainingSession(s); err != nil {
		t.Fatalf("addTestSession: %v", err)
	}
}

func TestHistory_NoProfile(t *testing.T) {
	initTestDBT(t)

	m := newHistoryModel()
	if m.profile != nil {
		t.Fatalf("expected nil profile, got %+v", m.profile)
	}
	if out := m.View(); out == "" {
		t.Fatal("expected a rendered no-profile message")
	}
}

func TestHistory_RowsNewestFirst(t *testing.T) {
	initTestDBT(t)
	pid := addTestProfile(t, "anna")
	older := addTestLesson(t, "Grundreihe", "asdf jklö")
	newer := addTestLesson(t, "Oberreihe", "qwert zuiopü")

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	addTestSession(t, pid, older.ID, base)
	addTestSession(t, pid, newer.ID, base.Add(time.Hour))

	m := newHistoryModel()
	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "Oberreihe" {
		t.Fatalf("expected newest session first, got %q", rows[0][1])
	}
	if rows[0][4] != "5" {
		t.Fatalf("expected 5 errors in row, got %q", rows[0][4])
	}
	if rows[0][5] != "1m 35s" {
		t.Fatalf("expected formatted duration, got %q", rows[0][5])
	}
}

func TestHistory_UnknownLessonFallsBackToID(t *testing.T) {
	initTestDBT(t)
	pid := addTestProfile(t, "anna")
	addTestSession(t, pid, 9999, time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC))

	m := newHistoryModel()
	rows := m.table.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][1] != fmt.Sprintf("#%d", 9999) {
		t.Fatalf("expected id fallback title, got %q", rows[0][1])
	}
}

func TestHistory_FilterByLessonColumn(t *testing.T) {
	initTestDBT(t)
	pid := addTestProfile(t, "anna")
	a := addTestLesson(t, "Grundreihe", "asdf jklö")
	b := addTestLesson(t, "Zahlen", "1234 5678 90")

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	addTestSession(t, pid, a.ID, base)
	addTestSession(t, pid, b.ID, base.Add(time.Minute))

	m := newHistoryModel()
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m1 := mi.(*historyModel)
	// Cycle the filter column to "lesson".
	mi, _ = m1.Update(tea.KeyMsg{Type: tea.KeyTab})
	m1 = mi.(*historyModel)
	mi, _ = m1.Update(tea.KeyMsg{Type: tea.KeyTab})
	m1 = mi.(*historyModel)
	if m1.filterCol != 2 {
		t.Fatalf("expected filter column 2, got %d", m1.filterCol)
	}

	for _, r := range "grund" {
		mi, _ = m1.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m1 = mi.(*historyModel)
	}
	if got := len(m1.table.Rows()); got != 1 {
		t.Fatalf("expected 1 filtered row, got %d", got)
	}

	// Esc clears the filter and restores all rows.
	mi, _ = m1.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m1 = mi.(*historyModel)
	if got := len(m1.table.Rows()); got != 2 {
		t.Fatalf("expected 2 rows after clearing filter, got %d", got)
	}
}

func TestHistory_BackToMenu(t *testing.T) {
	initTestDBT(t)
	addTestProfile(t, "anna")

	m := newHistoryModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected back command")
	}
	if _, ok := cmd().(backToMenuMsg); !ok {
		t.Fatalf("expected backToMenuMsg, got %T", cmd())
	}
}
