// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for Scriptum.
// This file contains the lesson picker: a filterable list of all practice
// lessons, the entry point into a typing pass, and the drill generator form.
package tui // import "github.com/scriptum/scriptum/internal/tui"

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scriptum/scriptum/internal/datastore"
	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/model"
)

// backToMenuMsg signals the router to return to the main menu.
type backToMenuMsg struct{}

// backToListMsg signals a sub-view (form, practice pass) to return to the
// lesson list.
type backToListMsg struct{}

// lessonsLoadedMsg signals that the shared lesson store has been refreshed.
type lessonsLoadedMsg struct{}

// lessonsLoadErrMsg carries a failure from the lesson loader.
type lessonsLoadErrMsg struct {
	err error
}

// lessonsViewState represents the current view within the lesson picker.
type lessonsViewState int

const (
	// lessonsListView is the default view, a filterable list of all lessons.
	lessonsListView lessonsViewState = iota
	// lessonsFormView shows the drill generator form.
	lessonsFormView
)

// lessonsModel holds the state for the lesson picker.
type lessonsModel struct {
	state            lessonsViewState
	form             lessonFormModel
	lessons          []model.Lesson // Master list, mirrors the shared store
	displayedLessons []model.Lesson // Filtered list
	cursor           int
	status           string
	err              error
	filter           string
	isFiltering      bool
	width, height    int
}

// newLessonsModel creates the lesson picker. The list itself arrives via
// loadLessonsCmd / lessonStoreMsg so the model starts empty.
func newLessonsModel() lessonsModel {
	m := lessonsModel{}
	m.lessons = datastore.For[model.Lesson]().Items()
	m.rebuildDisplayedLessons()
	return m
}

// Init initializes the model.
func (m lessonsModel) Init() tea.Cmd {
	return nil
}

// rebuildDisplayedLessons constructs the list of lessons to display,
// applying the current filter text. It also keeps the cursor in bounds.
func (m *lessonsModel) rebuildDisplayedLessons() {
	if m.filter == "" {
		m.displayedLessons = m.lessons
	} else {
		m.displayedLessons = []model.Lesson{}
		lowerFilter := strings.ToLower(m.filter)
		for _, l := range m.lessons {
			if strings.Contains(strings.ToLower(l.Title), lowerFilter) ||
				strings.Contains(strings.ToLower(l.Text), lowerFilter) {
				m.displayedLessons = append(m.displayedLessons, l)
			}
		}
	}

	if m.cursor >= len(m.displayedLessons) {
		if len(m.displayedLessons) > 0 {
			m.cursor = len(m.displayedLessons) - 1
		} else {
			m.cursor = 0
		}
	}
}

// Update handles messages and updates the model's state.
func (m lessonsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sizeMsg.Width
		m.height = sizeMsg.Height
	}

	// Store changes land here regardless of sub-state.
	switch msg.(type) {
	case lessonsLoadedMsg, lessonStoreMsg:
		m.lessons = datastore.For[model.Lesson]().Items()
		m.rebuildDisplayedLessons()
		if m.state == lessonsListView {
			return &m, nil
		}
	case lessonsLoadErrMsg:
		m.err = msg.(lessonsLoadErrMsg).err
		return &m, nil
	}

	if m.state == lessonsFormView {
		if genMsg, ok := msg.(lessonGeneratedMsg); ok {
			m.state = lessonsListView
			m.status = i18n.T("lessons.generated", genMsg.lesson.Title)
			return &m, loadLessonsCmd()
		}
		if _, ok := msg.(backToListMsg); ok {
			m.state = lessonsListView
			m.status = ""
			return &m, nil
		}
		var newFormModel tea.Model
		newFormModel, cmd = m.form.Update(msg)
		m.form = newFormModel.(lessonFormModel)
		return &m, cmd
	}

	// List view logic
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// If we are in filtering mode, capture all input for the filter.
		if m.isFiltering {
			switch msg.Type {
			case tea.KeyEsc:
				m.isFiltering = false
				m.filter = ""
				m.rebuildDisplayedLessons()
			case tea.KeyEnter:
				m.isFiltering = false
			case tea.KeyBackspace:
				if len(m.filter) > 0 {
					m.filter = m.filter[:len(m.filter)-1]
					m.rebuildDisplayedLessons()
				}
			case tea.KeyRunes:
				m.filter += string(msg.Runes)
				m.rebuildDisplayedLessons()
			}
			return &m, nil
		}

		// Not in filtering mode, handle commands.
		switch msg.String() {
		case "/":
			m.isFiltering = true
			m.filter = ""
			m.rebuildDisplayedLessons()
			return &m, nil
		case "q", "esc":
			if m.filter != "" && !m.isFiltering {
				m.filter = ""
				m.rebuildDisplayedLessons()
				return &m, nil
			}
			return &m, func() tea.Msg { return backToMenuMsg{} }
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.displayedLessons)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.displayedLessons) > 0 {
				chosen := m.displayedLessons[m.cursor]
				return &m, func() tea.Msg { return startPracticeMsg{lesson: chosen} }
			}
			return &m, nil
		case "n":
			m.state = lessonsFormView
			m.form = newLessonFormModel()
			m.status = ""
			return &m, m.form.Init()
		case "a":
			if len(m.displayedLessons) > 0 {
				l := m.displayedLessons[m.cursor]
				if err := db.ToggleLessonArchived(l.ID); err != nil {
					m.err = err
				} else {
					m.status = i18n.T("lessons.archived", l.Title)
				}
				return &m, loadLessonsCmd()
			}
			return &m, nil
		}
	}
	return &m, nil
}

// View renders the lesson picker UI based on the current model state.
func (m lessonsModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n", m.err))
	}

	if m.state == lessonsFormView {
		return m.form.View()
	}
	return m.viewLessonList()
}

// viewLessonList renders the main two-pane view with the lesson list and details.
func (m lessonsModel) viewLessonList() string {
	title := mainTitleStyle.Render("📖 " + i18n.T("lessons.title"))
	header := lipgloss.NewStyle().Align(lipgloss.Center).Render(title)

	// List pane (left)
	var listItems []string
	for i, l := range m.displayedLessons {
		var builtinMarker string
		if l.Builtin {
			builtinMarker = "● "
		}
		line := fmt.Sprintf("%s%s", builtinMarker, l.Title)
		if m.cursor == i {
			listItems = append(listItems, selectedItemStyle.Render("▸ "+line))
		} else {
			listItems = append(listItems, itemStyle.Render("  "+line))
		}
	}

	if len(m.displayedLessons) == 0 && m.filter == "" {
		listItems = append(listItems, helpStyle.Render(i18n.T("lessons.empty")))
	} else if len(m.displayedLessons) == 0 && m.filter != "" {
		listItems = append(listItems, helpStyle.Render(i18n.T("lessons.empty_filtered")))
	}

	listPaneTitle := lipgloss.NewStyle().Bold(true).Render(i18n.T("lessons.list_title"))
	listPane := lipgloss.JoinVertical(lipgloss.Left, listPaneTitle, "", lipgloss.JoinVertical(lipgloss.Left, listItems...))

	paneStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	menuWidth := 44
	detailWidth := m.width - 4 - menuWidth - 2

	leftPane := paneStyle.Width(menuWidth).Render(listPane)

	// Details/status pane (right)
	var detailsItems []string
	if m.status != "" {
		detailsItems = append(detailsItems, statusMessageStyle.Render(m.status))
	}

	if len(m.displayedLessons) > 0 && m.cursor < len(m.displayedLessons) {
		l := m.displayedLessons[m.cursor]
		detailsItems = append(detailsItems, "", helpStyle.Render(i18n.T("lessons.detail_title", l.Title)))
		if l.Stage > 0 {
			detailsItems = append(detailsItems, helpStyle.Render(i18n.T("lessons.detail_stage", l.Stage)))
		}
		detailsItems = append(detailsItems, helpStyle.Render(i18n.T("lessons.detail_length", l.RuneCount())))
		detailsItems = append(detailsItems, helpStyle.Render(i18n.T("lessons.detail_origin", lessonOrigin(l))))

		// A short preview of the text the pass will run over.
		preview := l.Text
		if len(preview) > 120 {
			preview = preview[:117] + "..."
		}
		detailsItems = append(detailsItems, "", itemStyle.Render(preview))
	}

	if m.isFiltering {
		detailsItems = append(detailsItems, "", helpStyle.Render(fmt.Sprintf(i18n.T("lessons.filtering"), m.filter)))
	}

	rightPane := paneStyle.Width(detailWidth).MarginLeft(2).Render(lipgloss.JoinVertical(lipgloss.Left, detailsItems...))

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	// Help/footer line always at the bottom
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	filterStatus := getFilterStatusLine(m.isFiltering, m.filter, FilterI18nKeys{
		Filtering:    "lessons.filtering",
		FilterActive: "lessons.filter_active",
		FilterHint:   "lessons.filter_hint",
	})
	helpLine := footerStyle.Render(fmt.Sprintf("%s  %s", i18n.T("lessons.footer"), filterStatus))

	return lipgloss.JoinVertical(lipgloss.Left, header, "\n", mainArea, "\n", helpLine)
}

// lessonOrigin returns the localized origin label for a lesson.
func lessonOrigin(l model.Lesson) string {
	if l.Builtin {
		return i18n.T("lessons.origin_builtin")
	}
	return i18n.T("lessons.origin_custom")
}
