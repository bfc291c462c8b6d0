// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/model"
)

type historyModel struct {
	table       table.Model
	sessions    []model.TrainingSession // Master list, newest first
	titles      map[int]string          // lesson id -> title
	profile     *model.Profile
	filter      string
	filterCol   int // 0=all, 1=date, 2=lesson, 3=mode
	isFiltering bool
	err         error
}

func newHistoryModel() *historyModel {
	m := historyModel{titles: map[int]string{}}

	profile, err := db.GetActiveProfile()
	if err != nil {
		m.err = err
		return &m
	}
	m.profile = profile

	if profile != nil {
		sessions, err := db.GetSessionsForProfile(profile.ID)
		if err != nil {
			m.err = err
			return &m
		}
		m.sessions = sessions

		// Resolve lesson titles, including archived lessons.
		for _, s := range sessions {
			if _, ok := m.titles[s.LessonID]; ok {
				continue
			}
			l, err := db.GetLessonByID(s.LessonID)
			if err == nil && l != nil {
				m.titles[s.LessonID] = l.Title
			} else {
				m.titles[s.LessonID] = fmt.Sprintf("#%d", s.LessonID)
			}
		}
	}

	columns := []table.Column{
		{Title: i18n.T("history.header.date"), Width: 16},
		{Title: i18n.T("history.header.lesson"), Width: 28},
		{Title: i18n.T("history.header.wpm"), Width: 7},
		{Title: i18n.T("history.header.accuracy"), Width: 9},
		{Title: i18n.T("history.header.errors"), Width: 7},
		{Title: i18n.T("history.header.duration"), Width: 9},
		{Title: i18n.T("history.header.mode"), Width: 7},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15), // Placeholder height
	)

	// --- Styles ---
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorHighlight).
		Bold(false)
	t.SetStyles(s)

	m.table = t
	m.rebuildTableRows()
	return &m
}

// rebuildTableRows filters the master list of sessions and populates the table.
func (m *historyModel) rebuildTableRows() {
	var rows []table.Row
	lowerFilter := strings.ToLower(m.filter)

	for _, s := range m.sessions {
		date := s.StartedAt.Format("2006-01-02 15:04")
		title := m.titles[s.LessonID]

		match := false
		switch m.filterCol {
		case 0: // all
			match = strings.Contains(strings.ToLower(date), lowerFilter) ||
				strings.Contains(strings.ToLower(title), lowerFilter) ||
				strings.Contains(strings.ToLower(s.CaseMode), lowerFilter)
		case 1:
			match = strings.Contains(strings.ToLower(date), lowerFilter)
		case 2:
			match = strings.Contains(strings.ToLower(title), lowerFilter)
		case 3:
			match = strings.Contains(strings.ToLower(s.CaseMode), lowerFilter)
		}
		if m.filter != "" && !match {
			continue
		}

		accCell := fmt.Sprintf("%.1f%%", s.Accuracy*100)
		if s.Accuracy < 0.9 {
			accCell = specialStyle.Render(accCell)
		}

		rows = append(rows, table.Row{
			date,
			title,
			fmt.Sprintf("%.1f", s.WPM),
			accCell,
			fmt.Sprintf("%d", s.Errors),
			formatDuration(s.Duration),
			s.CaseMode,
		})
	}
	m.table.SetRows(rows)

	// Go to the top of the table after filtering
	if m.isFiltering {
		m.table.GotoTop()
	}
}

func (m historyModel) Init() tea.Cmd {
	return nil
}

func (m historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Adjust table height based on window size.
		// header(3) + filter/help(3)
		m.table.SetHeight(msg.Height - 6)
		m.table.SetWidth(msg.Width - 4)

	case tea.KeyMsg:
		// If filtering, handle input.
		if m.isFiltering {
			switch msg.Type {
			case tea.KeyEsc:
				m.isFiltering = false
				m.filter = ""
				m.rebuildTableRows()
			case tea.KeyEnter:
				m.isFiltering = false
			case tea.KeyBackspace:
				if len(m.filter) > 0 {
					m.filter = m.filter[:len(m.filter)-1]
					m.rebuildTableRows()
				}
			case tea.KeyRunes:
				m.filter += string(msg.Runes)
				m.rebuildTableRows()
			case tea.KeyTab:
				m.filterCol = (m.filterCol + 1) % 4
				m.rebuildTableRows()
			case tea.KeyShiftTab:
				m.filterCol = (m.filterCol + 3) % 4
				m.rebuildTableRows()
			}
			return &m, nil
		}

		// Not filtering, handle commands.
		switch msg.String() {
		case "/":
			m.isFiltering = true
			m.filter = ""
			m.rebuildTableRows()
			return &m, nil
		case "q", "esc":
			if m.filter != "" {
				m.filter = ""
				m.isFiltering = false
				m.rebuildTableRows()
				return &m, nil
			}
			return &m, func() tea.Msg { return backToMenuMsg{} }
		}
	}

	m.table, cmd = m.table.Update(msg)
	cmds = append(cmds, cmd)

	return &m, tea.Batch(cmds...)
}

func (m historyModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error loading history: %v", m.err))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("📜 "+i18n.T("history.title")) + "\n\n")

	if m.profile == nil {
		b.WriteString(helpStyle.Render(i18n.T("history.no_profile")))
		b.WriteString(m.footerView())
		return b.String()
	}

	if len(m.table.Rows()) == 0 {
		b.WriteString(helpStyle.Render(i18n.T("history.empty")))
		b.WriteString(m.footerView())
		return b.String()
	}

	b.WriteString(m.table.View())
	b.WriteString(m.footerView())
	return b.String()
}

func (m historyModel) footerView() string {
	var filterStatus string
	colNames := []string{
		i18n.T("all"),
		i18n.T("history.header.date"),
		i18n.T("history.header.lesson"),
		i18n.T("history.header.mode"),
	}
	if m.isFiltering {
		filterStatus = fmt.Sprintf("Filter [%s]: %s█ (tab to change column)", colNames[m.filterCol], m.filter)
	} else if m.filter != "" {
		filterStatus = fmt.Sprintf("Filter [%s]: %s (press 'esc' to clear)", colNames[m.filterCol], m.filter)
	} else {
		filterStatus = "Press / to filter..."
	}
	return helpStyle.Render(fmt.Sprintf("\n(↑/↓ to scroll, tab: column, q to quit) %s", filterStatus))
}
