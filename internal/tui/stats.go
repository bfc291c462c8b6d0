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
	"github.com/scriptum/scriptum/internal/layout"
	"github.com/scriptum/scriptum/internal/model"
)

type statsModel struct {
	table       table.Model
	stats       []model.KeyStat // Master list, most misses first
	profile     *model.Profile
	filter      string
	filterCol   int // 0=all, 1=key, 2=finger
	isFiltering bool
	err         error
}

func newStatsModel() *statsModel {
	m := statsModel{}

	profile, err := db.GetActiveProfile()
	if err != nil {
		m.err = err
		return &m
	}
	m.profile = profile

	if profile != nil {
		stats, err := db.GetKeyStatsForProfile(profile.ID)
		if err != nil {
			m.err = err
			return &m
		}
		m.stats = stats
	}

	columns := []table.Column{
		{Title: i18n.T("stats.header.key"), Width: 6},
		{Title: i18n.T("stats.header.finger"), Width: 16},
		{Title: i18n.T("stats.header.hits"), Width: 8},
		{Title: i18n.T("stats.header.misses"), Width: 8},
		{Title: i18n.T("stats.header.rate"), Width: 10},
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

// FingerLabel returns the localized finger name for a stored key. The
// CLI stats report shares this mapping so both surfaces agree.
func FingerLabel(key string) string {
	runes := []rune(key)
	if len(runes) != 1 {
		return ""
	}
	k, ok := layout.KeyFor(runes[0])
	if !ok {
		return ""
	}
	switch k.Finger {
	case layout.LeftPinky:
		return i18n.T("finger.left_pinky")
	case layout.LeftRing:
		return i18n.T("finger.left_ring")
	case layout.LeftMiddle:
		return i18n.T("finger.left_middle")
	case layout.LeftIndex:
		return i18n.T("finger.left_index")
	case layout.RightIndex:
		return i18n.T("finger.right_index")
	case layout.RightMiddle:
		return i18n.T("finger.right_middle")
	case layout.RightRing:
		return i18n.T("finger.right_ring")
	case layout.RightPinky:
		return i18n.T("finger.right_pinky")
	case layout.Thumb:
		return i18n.T("finger.thumb")
	default:
		return ""
	}
}

// rebuildTableRows filters the master list of key stats and populates the table.
func (m *statsModel) rebuildTableRows() {
	var rows []table.Row
	lowerFilter := strings.ToLower(m.filter)

	for _, st := range m.stats {
		finger := FingerLabel(st.Key)

		match := false
		switch m.filterCol {
		case 0: // all
			match = strings.Contains(strings.ToLower(st.Key), lowerFilter) ||
				strings.Contains(strings.ToLower(finger), lowerFilter)
		case 1:
			match = strings.Contains(strings.ToLower(st.Key), lowerFilter)
		case 2:
			match = strings.Contains(strings.ToLower(finger), lowerFilter)
		}
		if m.filter != "" && !match {
			continue
		}

		rate := st.MissRate()
		rateCell := fmt.Sprintf("%.1f%%", rate*100)
		switch {
		case rate >= 0.25:
			rateCell = errorStyle.Render(rateCell)
		case rate >= 0.10:
			rateCell = specialStyle.Render(rateCell)
		}

		rows = append(rows, table.Row{
			displayKey(st.Key),
			finger,
			fmt.Sprintf("%d", st.Hits),
			fmt.Sprintf("%d", st.Misses),
			rateCell,
		})
	}
	m.table.SetRows(rows)

	if m.isFiltering {
		m.table.GotoTop()
	}
}

func (m statsModel) Init() tea.Cmd {
	return nil
}

func (m statsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// header(3) + aggregate line(2) + filter/help(3)
		m.table.SetHeight(msg.Height - 8)
		m.table.SetWidth(msg.Width - 4)

	case tea.KeyMsg:
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
				m.filterCol = (m.filterCol + 1) % 3
				m.rebuildTableRows()
			case tea.KeyShiftTab:
				m.filterCol = (m.filterCol + 2) % 3
				m.rebuildTableRows()
			}
			return &m, nil
		}

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

func (m statsModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error loading key stats: %v", m.err))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("📊 "+i18n.T("stats.title")) + "\n\n")

	if m.profile == nil {
		b.WriteString(helpStyle.Render(i18n.T("stats.no_profile")))
		b.WriteString(m.footerView())
		return b.String()
	}

	if len(m.stats) == 0 {
		b.WriteString(helpStyle.Render(i18n.T("stats.empty")))
		b.WriteString(m.footerView())
		return b.String()
	}

	// Aggregate line above the table.
	var hits, misses int
	for _, st := range m.stats {
		hits += st.Hits
		misses += st.Misses
	}
	total := hits + misses
	var overallRate float64
	if total > 0 {
		overallRate = float64(misses) / float64(total)
	}
	b.WriteString(helpStyle.Render(i18n.T("stats.aggregate",
		total, len(m.stats), fmt.Sprintf("%.1f", overallRate*100))) + "\n\n")

	b.WriteString(m.table.View())
	b.WriteString(m.footerView())
	return b.String()
}

func (m statsModel) footerView() string {
	var filterStatus string
	colNames := []string{
		i18n.T("all"),
		i18n.T("stats.header.key"),
		i18n.T("stats.header.finger"),
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
