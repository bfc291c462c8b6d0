// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the LICENSE file in the root directory.

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/engine"
)

// typeRunes feeds a string into the practice model one rune at a time and
// returns the final model plus the last command.
func typeRunes(t *testing.T, m *practiceModel, text string) (*practiceModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, r := range text {
		var mi tea.Model
		if r == ' ' {
			mi, cmd = m.Update(tea.KeyMsg{Type: tea.KeySpace})
		} else {
			mi, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
		m = mi.(*practiceModel)
	}
	return m, cmd
}

func TestPractice_CompletePassSavesSession(t *testing.T) {
	initTestDBT(t)
	addTestProfile(t, "anna")
	l := addTestLesson(t, "Kurz", "ab c")

	m, err := newPracticeModel(l)
	if err != nil {
		t.Fatalf("newPracticeModel: %v", err)
	}
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = mi.(*practiceModel)

	// Type the lesson with one miss on the second rune.
	m, cmd := typeRunes(t, m, "ax c")
	if m.summary == nil {
		t.Fatal("expected summary after completing the pass")
	}
	if m.summary.Typed != 4 || m.summary.Correct != 3 || m.summary.Errors != 1 {
		t.Fatalf("unexpected summary: %+v", *m.summary)
	}
	if cmd == nil {
		t.Fatal("expected save command on completion")
	}

	// Run the save command and feed its result back.
	msg := cmd()
	savedMsg, ok := msg.(sessionSavedMsg)
	if !ok {
		t.Fatalf("expected sessionSavedMsg, got %T", msg)
	}
	if savedMsg.err != nil {
		t.Fatalf("save failed: %v", savedMsg.err)
	}
	mi, _ = m.Update(savedMsg)
	m = mi.(*practiceModel)
	if !m.saved {
		t.Fatal("expected saved flag after sessionSavedMsg")
	}

	// The session and the key stats landed in the database.
	profile, err := db.GetActiveProfile()
	if err != nil || profile == nil {
		t.Fatalf("expected active profile: %v, %v", profile, err)
	}
	sessions, err := db.GetSessionsForProfile(profile.ID)
	if err != nil {
		t.Fatalf("GetSessionsForProfile: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Typed != 4 || sessions[0].Errors != 1 || !sessions[0].Completed {
		t.Fatalf("unexpected stored session: %+v", sessions[0])
	}

	stats, err := db.GetKeyStatsForProfile(profile.ID)
	if err != nil {
		t.Fatalf("GetKeyStatsForProfile: %v", err)
	}
	var bStat *struct{ hits, misses int }
	for _, st := range stats {
		if st.Key == "b" {
			bStat = &struct{ hits, misses int }{st.Hits, st.Misses}
		}
	}
	if bStat == nil || bStat.misses != 1 || bStat.hits != 0 {
		t.Fatalf("expected b recorded as a miss, got %+v (all: %v)", bStat, stats)
	}
}

func TestPractice_ResultsOverlayAndRestart(t *testing.T) {
	initTestDBT(t)
	addTestProfile(t, "anna")
	l := addTestLesson(t, "Mini", "ab")

	m, err := newPracticeModel(l)
	if err != nil {
		t.Fatalf("newPracticeModel: %v", err)
	}
	m, _ = typeRunes(t, m, "ab")
	if m.summary == nil {
		t.Fatal("expected completed pass")
	}

	out := m.View()
	if !strings.Contains(out, "100.0%") {
		t.Fatalf("expected perfect accuracy in results, got: %q", out)
	}

	// Restart clears the pass state.
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mi.(*practiceModel)
	if m.summary != nil {
		t.Fatal("expected summary cleared after restart")
	}
	if m.eng.Pos() != 0 || m.eng.Started() {
		t.Fatalf("expected engine reset, pos=%d started=%v", m.eng.Pos(), m.eng.Started())
	}
}

func TestPractice_EscMidPassAsksForConfirmation(t *testing.T) {
	initTestDBT(t)
	addTestProfile(t, "anna")
	l := addTestLesson(t, "Mini", "abc")

	m, err := newPracticeModel(l)
	if err != nil {
		t.Fatalf("newPracticeModel: %v", err)
	}

	// Esc before the first keystroke leaves immediately.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected back command")
	}
	if _, ok := cmd().(backToListMsg); !ok {
		t.Fatalf("expected backToListMsg, got %T", cmd())
	}

	// Mid-pass esc opens the confirmation instead.
	m, _ = typeRunes(t, m, "a")
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mi.(*practiceModel)
	if !m.confirmingQuit {
		t.Fatal("expected quit confirmation mid-pass")
	}

	// 'n' stays in the pass.
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = mi.(*practiceModel)
	if m.confirmingQuit {
		t.Fatal("expected confirmation dismissed after 'n'")
	}
	if m.eng.Pos() != 1 {
		t.Fatalf("expected pass position preserved, got %d", m.eng.Pos())
	}

	// 'y' backs out.
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mi.(*practiceModel)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if cmd == nil {
		t.Fatal("expected back command after confirming")
	}
	if _, ok := cmd().(backToListMsg); !ok {
		t.Fatalf("expected backToListMsg, got %T", cmd())
	}
}

func TestPractice_EnterTypesNewline(t *testing.T) {
	initTestDBT(t)
	addTestProfile(t, "anna")
	l := addTestLesson(t, "Zwei Zeilen", "ab\ncd")

	m, err := newPracticeModel(l)
	if err != nil {
		t.Fatalf("newPracticeModel: %v", err)
	}
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = mi.(*practiceModel)

	m, _ = typeRunes(t, m, "ab")
	if m.eng.Pos() != 2 {
		t.Fatalf("expected pos 2 before the line break, got %d", m.eng.Pos())
	}
	// The newline position renders as a visible glyph under the cursor.
	if out := m.renderTarget(); !strings.Contains(out, "⏎") {
		t.Fatalf("expected newline glyph in rendered target: %q", out)
	}

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(*practiceModel)
	if m.eng.Pos() != 3 {
		t.Fatalf("expected enter to advance past the newline, pos=%d", m.eng.Pos())
	}
	if m.eng.Errors() != 0 {
		t.Fatalf("expected enter to count as a hit, errors=%d", m.eng.Errors())
	}

	m, cmd := typeRunes(t, m, "cd")
	if m.summary == nil {
		t.Fatal("expected completed pass after the second line")
	}
	if cmd == nil {
		t.Fatal("expected save command on completion")
	}
}

func TestPractice_TabReachesEngine(t *testing.T) {
	initTestDBT(t)
	addTestProfile(t, "anna")
	l := addTestLesson(t, "Tabulator", "a\tb")

	m, err := newPracticeModel(l)
	if err != nil {
		t.Fatalf("newPracticeModel: %v", err)
	}
	m, _ = typeRunes(t, m, "a")
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = mi.(*practiceModel)
	if m.eng.Pos() != 2 || m.eng.Errors() != 0 {
		t.Fatalf("expected tab to advance cleanly, pos=%d errors=%d", m.eng.Pos(), m.eng.Errors())
	}
}

func TestPractice_BatchedRunesKeepSaveCommand(t *testing.T) {
	initTestDBT(t)
	addTestProfile(t, "anna")
	l := addTestLesson(t, "Mini", "ab")

	m, err := newPracticeModel(l)
	if err != nil {
		t.Fatalf("newPracticeModel: %v", err)
	}

	// One message can carry several runes (paste); the completing stroke
	// sits in the middle and its save command must survive the trailing
	// ignored runes.
	mi, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abx")})
	m = mi.(*practiceModel)
	if m.summary == nil {
		t.Fatal("expected completed pass")
	}
	if cmd == nil {
		t.Fatal("expected save command despite trailing runes")
	}
	msg := cmd()
	savedMsg, ok := msg.(sessionSavedMsg)
	if !ok {
		t.Fatalf("expected sessionSavedMsg, got %T", msg)
	}
	if savedMsg.err != nil {
		t.Fatalf("save failed: %v", savedMsg.err)
	}

	profile, err := db.GetActiveProfile()
	if err != nil || profile == nil {
		t.Fatalf("expected active profile: %v, %v", profile, err)
	}
	sessions, err := db.GetSessionsForProfile(profile.ID)
	if err != nil {
		t.Fatalf("GetSessionsForProfile: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
}

func TestPractice_NoProfileStillRuns(t *testing.T) {
	initTestDBT(t)
	l := addTestLesson(t, "Ohne Profil", "ab")

	m, err := newPracticeModel(l)
	if err != nil {
		t.Fatalf("newPracticeModel: %v", err)
	}
	if m.profile != nil {
		t.Fatal("expected no active profile")
	}

	m, cmd := typeRunes(t, m, "ab")
	if m.summary == nil {
		t.Fatal("expected completed pass")
	}
	// Nothing to save against, so no command is produced.
	if cmd != nil {
		t.Fatalf("expected no save command without a profile, got %T", cmd())
	}
	out := m.View()
	if out == "" {
		t.Fatal("results view rendered empty")
	}
}

func TestPractice_RenderTargetShowsCursor(t *testing.T) {
	initTestDBT(t)
	addTestProfile(t, "anna")
	l := addTestLesson(t, "Cursor", "abcd")

	m, err := newPracticeModel(l)
	if err != nil {
		t.Fatalf("newPracticeModel: %v", err)
	}
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = mi.(*practiceModel)

	// Renders before the first WindowSizeMsg or keystroke must not panic.
	if out := m.View(); out == "" {
		t.Fatal("typing view rendered empty")
	}

	m, _ = typeRunes(t, m, "ab")
	out := m.renderTarget()
	if out == "" {
		t.Fatal("target rendering empty")
	}
	// All four runes stay visible regardless of styling.
	for _, ch := range []string{"a", "b", "c", "d"} {
		if !strings.Contains(out, ch) {
			t.Fatalf("expected %q in rendered target: %q", ch, out)
		}
	}
}

func TestPassKeyStats_TalliesPerKey(t *testing.T) {
	eng, err := engine.New("aba", engine.CaseStrict)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	eng.Strike('a') // hit
	eng.Strike('x') // miss on b
	eng.Strike('a') // hit

	stats := passKeyStats(eng)
	if len(stats) != 2 {
		t.Fatalf("expected 2 keys, got %d: %v", len(stats), stats)
	}
	// Worst key first.
	if stats[0].Key != "b" || stats[0].Misses != 1 || stats[0].Hits != 0 {
		t.Fatalf("unexpected first stat: %+v", stats[0])
	}
	if stats[1].Key != "a" || stats[1].Hits != 2 || stats[1].Misses != 0 {
		t.Fatalf("unexpected second stat: %+v", stats[1])
	}
}
