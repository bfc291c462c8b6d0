// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for Scriptum.
// This file contains the typing screen: a single practice pass over one
// lesson, the results overlay shown on completion, and the session save.
package tui // import "github.com/scriptum/scriptum/internal/tui"

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/engine"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/model"
)

// sessionSavedMsg reports the outcome of persisting a finished pass.
type sessionSavedMsg struct {
	err error
}

// practiceModel holds the state for one typing pass.
type practiceModel struct {
	lesson   model.Lesson
	profile  *model.Profile
	eng      *engine.Engine
	caseMode engine.CaseMode

	startedAt time.Time        // wall clock of the first counted keystroke
	summary   *engine.Summary  // set once the pass completes
	passStats []model.KeyStat  // per-key tally of the finished pass
	saved     bool
	saveErr   error
	copied    bool

	confirmingQuit bool
	confirmCursor  int // 0 for No, 1 for Yes

	width, height int
}

// newPracticeModel builds the typing screen for a lesson. The case mode
// comes from configuration; the active profile decides where results are
// recorded.
func newPracticeModel(l model.Lesson) (*practiceModel, error) {
	mode, err := engine.ParseCaseMode(viper.GetString("case_mode"))
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(l.Text, mode)
	if err != nil {
		return nil, fmt.Errorf("lesson %q: %w", l.Title, err)
	}

	profile, err := db.GetActiveProfile()
	if err != nil {
		return nil, err
	}

	return &practiceModel{
		lesson:   l,
		profile:  profile,
		eng:      eng,
		caseMode: mode,
	}, nil
}

// Init initializes the model.
func (m *practiceModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model's state.
func (m *practiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionSavedMsg:
		m.saved = msg.err == nil
		m.saveErr = msg.err
		return m, nil

	case tea.KeyMsg:
		// The quit confirmation swallows everything until answered.
		if m.confirmingQuit {
			switch msg.String() {
			case "n", "esc":
				m.confirmingQuit = false
				return m, nil
			case "y":
				return m, func() tea.Msg { return backToListMsg{} }
			case "right", "tab", "l":
				m.confirmCursor = 1
				return m, nil
			case "left", "shift+tab", "h":
				m.confirmCursor = 0
				return m, nil
			case "enter":
				if m.confirmCursor == 1 {
					return m, func() tea.Msg { return backToListMsg{} }
				}
				m.confirmingQuit = false
				return m, nil
			}
			return m, nil
		}

		// Results overlay keys.
		if m.summary != nil {
			switch msg.String() {
			case "r":
				m.restart()
				return m, nil
			case "c":
				if err := clipboard.WriteAll(m.resultText()); err == nil {
					m.copied = true
				}
				return m, nil
			case "q", "esc", "enter":
				return m, func() tea.Msg { return backToListMsg{} }
			}
			return m, nil
		}

		// Mid-pass: esc backs out, everything else is typed.
		switch msg.Type {
		case tea.KeyEsc:
			if m.eng.Started() {
				m.confirmingQuit = true
				m.confirmCursor = 0
				return m, nil
			}
			return m, func() tea.Msg { return backToListMsg{} }
		case tea.KeySpace:
			return m, m.strike(' ')
		case tea.KeyEnter:
			return m, m.strike('\n')
		case tea.KeyTab:
			return m, m.strike('\t')
		case tea.KeyRunes:
			// A single message can carry several runes (paste, batched
			// input). Keep the completing stroke's save command even
			// when trailing runes follow it.
			var cmd tea.Cmd
			for _, r := range msg.Runes {
				if c := m.strike(r); c != nil {
					cmd = c
				}
			}
			return m, cmd
		}
	}
	return m, nil
}

// strike feeds one typed rune into the engine and, on the completing
// keystroke, freezes the summary and schedules the save.
func (m *practiceModel) strike(r rune) tea.Cmd {
	wasStarted := m.eng.Started()
	result := m.eng.Strike(r)
	if !wasStarted && m.eng.Started() {
		m.startedAt = time.Now()
	}
	if result != engine.KeyDone {
		return nil
	}

	sum := m.eng.Summary()
	m.summary = &sum
	m.passStats = passKeyStats(m.eng)

	if m.profile == nil {
		// Nothing to record against; the overlay explains why.
		return nil
	}
	return saveSessionCmd(m.profile.ID, m.lesson, m.startedAt, sum, m.passStats, m.caseMode)
}

// restart arms the engine for another pass over the same lesson.
func (m *practiceModel) restart() {
	m.eng.Reset()
	m.summary = nil
	m.passStats = nil
	m.saved = false
	m.saveErr = nil
	m.copied = false
	m.startedAt = time.Time{}
}

// View renders the typing screen, the quit confirmation or the results
// overlay, depending on where the pass stands.
func (m *practiceModel) View() string {
	if m.confirmingQuit {
		return m.viewQuitConfirmation()
	}
	if m.summary != nil {
		return m.viewResults()
	}
	return m.viewPass()
}

// viewPass renders the live typing screen.
func (m *practiceModel) viewPass() string {
	title := titleStyle.Render("⌨️ " + m.lesson.Title)

	var header []string
	header = append(header, title)
	if m.profile != nil {
		header = append(header, helpStyle.Render(i18n.T("practice.profile_line", m.profile.Name)))
	} else {
		header = append(header, specialStyle.Render(i18n.T("practice.no_profile")))
	}

	target := m.renderTarget()

	// Live readout. Before the first keystroke only the progress shows.
	var staterow string
	typed := m.eng.Pos()
	progress := fmt.Sprintf("%d/%d", typed, m.eng.Len())
	if m.eng.Started() {
		elapsed := m.eng.Elapsed()
		acc := engine.Accuracy(m.eng.Correct(), typed)
		wpm := engine.NetWPM(typed, m.eng.Errors(), elapsed)
		staterow = i18n.T("practice.live_stats",
			progress,
			fmt.Sprintf("%.1f", wpm),
			fmt.Sprintf("%.1f", acc*100),
			m.eng.Errors())
	} else {
		staterow = i18n.T("practice.ready", progress)
	}

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	footer := footerStyle.Render(i18n.T("practice.footer"))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, header...),
		"",
		lipgloss.NewStyle().Padding(0, 2).Render(target),
		"",
		lipgloss.NewStyle().Padding(0, 2).Render(helpStyle.Render(staterow)),
		"",
		footer,
	)
}

// renderTarget paints the lesson text rune by rune: green for correct,
// red for missed, highlighted cursor, dim for what is still to come.
// Lines wrap hard at the terminal width so every rune stays visible.
func (m *practiceModel) renderTarget() string {
	// Before the first WindowSizeMsg the width is zero; fall back to a
	// fixed column rather than wrapping every rune.
	wrap := m.width - 8
	if m.width == 0 {
		wrap = 60
	} else if wrap < 20 {
		wrap = 20
	}

	pos := m.eng.Pos()
	var lines []string
	var line strings.Builder
	col := 0
	for i := 0; i < m.eng.Len(); i++ {
		r := m.eng.RuneAt(i)
		ch := string(r)
		// Newlines and tabs are typeable positions; show them as glyphs
		// so the cursor never sits on an invisible rune.
		switch r {
		case '\n':
			ch = "⏎"
		case '\t':
			ch = "⇥"
		}
		switch {
		case i == pos && !m.eng.Completed():
			line.WriteString(runeCursorStyle.Render(ch))
		case i < pos && m.eng.Missed(i):
			line.WriteString(runeMissStyle.Render(ch))
		case i < pos:
			line.WriteString(runeOKStyle.Render(ch))
		default:
			line.WriteString(runePendingStyle.Render(ch))
		}
		col++
		if r == '\n' || col >= wrap {
			lines = append(lines, line.String())
			line.Reset()
			col = 0
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// viewResults renders the overlay shown once the pass completes.
func (m *practiceModel) viewResults() string {
	sum := *m.summary

	var b strings.Builder
	b.WriteString(titleStyle.Render("🏁 " + i18n.T("practice.results_title")))
	b.WriteString("\n")

	rows := []struct {
		label string
		value string
	}{
		{i18n.T("practice.result_wpm"), fmt.Sprintf("%.1f", engine.NetWPM(sum.Typed, sum.Errors, sum.Duration))},
		{i18n.T("practice.result_gross_wpm"), fmt.Sprintf("%.1f", engine.GrossWPM(sum.Typed, sum.Duration))},
		{i18n.T("practice.result_cpm"), fmt.Sprintf("%.0f", engine.CPM(sum.Typed, sum.Duration))},
		{i18n.T("practice.result_accuracy"), fmt.Sprintf("%.1f%%", engine.Accuracy(sum.Correct, sum.Typed)*100)},
		{i18n.T("practice.result_errors"), fmt.Sprintf("%d", sum.Errors)},
		{i18n.T("practice.result_duration"), formatDuration(sum.Duration)},
	}
	maxLabelLen := 0
	for _, row := range rows {
		if len(row.label) > maxLabelLen {
			maxLabelLen = len(row.label)
		}
	}
	for _, row := range rows {
		b.WriteString(formatLabelPadding(row.label, row.value, maxLabelLen) + "\n")
	}

	weak := formatWeakKeys(m.passStats, 5)
	if weak != "" {
		b.WriteString("\n" + i18n.T("practice.result_weak_keys") + " " + weak + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.profile == nil:
		b.WriteString(specialStyle.Render(i18n.T("practice.not_saved_no_profile")) + "\n")
	case m.saveErr != nil:
		b.WriteString(errorStyle.Render(i18n.T("practice.save_failed", m.saveErr)) + "\n")
	case m.saved:
		b.WriteString(successStyle.Render(i18n.T("practice.saved", m.profile.Name)) + "\n")
	}
	if m.copied {
		b.WriteString(successStyle.Render(i18n.T("practice.copied")) + "\n")
	}

	b.WriteString(helpStyle.Render("\n" + i18n.T("practice.results_footer")))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// viewQuitConfirmation renders the modal shown when backing out mid-pass.
func (m *practiceModel) viewQuitConfirmation() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("⚠️ " + i18n.T("practice.confirm_quit_title")))
	b.WriteString(i18n.T("practice.confirm_quit_question", m.lesson.Title))
	b.WriteString("\n\n")

	var yesButton, noButton string
	if m.confirmCursor == 1 {
		yesButton = activeButtonStyle.Render(i18n.T("practice.confirm_quit_yes"))
		noButton = buttonStyle.Render(i18n.T("practice.confirm_quit_no"))
	} else {
		yesButton = buttonStyle.Render(i18n.T("practice.confirm_quit_yes"))
		noButton = activeButtonStyle.Render(i18n.T("practice.confirm_quit_no"))
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, noButton, "  ", yesButton)
	b.WriteString(buttons)

	b.WriteString("\n" + helpStyle.Render("\n"+i18n.T("practice.confirm_quit_help")))

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		dialogBoxStyle.Render(b.String()),
	)
}

// resultText builds the plain-text result summary for the clipboard.
func (m *practiceModel) resultText() string {
	sum := *m.summary
	var b strings.Builder
	fmt.Fprintf(&b, "Scriptum – %s\n", m.lesson.Title)
	fmt.Fprintf(&b, "%s %.1f\n", i18n.T("practice.result_wpm"), engine.NetWPM(sum.Typed, sum.Errors, sum.Duration))
	fmt.Fprintf(&b, "%s %.1f%%\n", i18n.T("practice.result_accuracy"), engine.Accuracy(sum.Correct, sum.Typed)*100)
	fmt.Fprintf(&b, "%s %d\n", i18n.T("practice.result_errors"), sum.Errors)
	fmt.Fprintf(&b, "%s %s\n", i18n.T("practice.result_duration"), formatDuration(sum.Duration))
	return b.String()
}

// passKeyStats tallies hits and misses per key for the finished pass,
// worst keys first.
func passKeyStats(eng *engine.Engine) []model.KeyStat {
	counts := make(map[string]*model.KeyStat)
	for i := 0; i < eng.Len(); i++ {
		key := string(eng.RuneAt(i))
		st, ok := counts[key]
		if !ok {
			st = &model.KeyStat{Key: key}
			counts[key] = st
		}
		if eng.Missed(i) {
			st.Misses++
		} else {
			st.Hits++
		}
	}

	stats := make([]model.KeyStat, 0, len(counts))
	for _, st := range counts {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Misses != stats[j].Misses {
			return stats[i].Misses > stats[j].Misses
		}
		return stats[i].Key < stats[j].Key
	})
	return stats
}

// saveSessionCmd persists the finished pass: one training session row plus
// the per-key tallies merged into the profile's key stats.
func saveSessionCmd(profileID int, l model.Lesson, startedAt time.Time, sum engine.Summary, stats []model.KeyStat, mode engine.CaseMode) tea.Cmd {
	return func() tea.Msg {
		sess := model.TrainingSession{
			ProfileID: profileID,
			LessonID:  l.ID,
			StartedAt: startedAt,
			Duration:  sum.Duration,
			Typed:     sum.Typed,
			Correct:   sum.Correct,
			Errors:    sum.Errors,
			Accuracy:  engine.Accuracy(sum.Correct, sum.Typed),
			WPM:       engine.NetWPM(sum.Typed, sum.Errors, sum.Duration),
			CaseMode:  mode.String(),
			Completed: true,
		}
		if _, err := db.AddTrainingSession(sess); err != nil {
			return sessionSavedMsg{err: err}
		}
		if err := db.UpsertKeyStats(profileID, stats); err != nil {
			return sessionSavedMsg{err: err}
		}
		return sessionSavedMsg{}
	}
}
