// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for Scriptum.
// This file, tui.go, is the main entry point for the TUI, containing the
// top-level model that acts as a router to all other sub-views.
package tui // import "github.com/scriptum/scriptum/internal/tui"

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/scriptum/scriptum/internal/config"
	"github.com/scriptum/scriptum/internal/datastore"
	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/logging"
	"github.com/scriptum/scriptum/internal/model"
)

// viewState represents which part of the UI is currently active.
type viewState int

const (
	// menuView is the main dashboard and navigation menu.
	menuView viewState = iota
	lessonsView
	practiceView
	statsView
	historyView
	profilesView
	languageView
)

// dashboardDataMsg is a message containing the data for the main menu dashboard.
type dashboardDataMsg struct {
	data dashboardData
}

// languageChangedMsg is a message to signal that the language has changed and the UI should be re-initialized.
type languageChangedMsg struct{}

// startPracticeMsg asks the router to open the typing screen for a lesson.
type startPracticeMsg struct {
	lesson model.Lesson
}

// lessonStoreMsg carries a change event from the shared lesson store into
// the Bubble Tea loop. Run forwards store events through Program.Send.
type lessonStoreMsg struct {
	event datastore.Event[model.Lesson]
}

// dashboardData holds the summary information for the main menu view.
type dashboardData struct {
	profileName   string
	profileCount  int
	lessonCount   int
	sessionCount  int
	totalPractice time.Duration
	avgWPM        float64
	bestWPM       float64
	avgAccuracy   float64
	weakestKeys   string
	recentLogs    []model.ActivityLogEntry
	err           error
}

// mainModel is the top-level model for the TUI. It acts as a state machine
// and router, delegating updates and view rendering to the currently active sub-model.
type mainModel struct {
	state     viewState
	menu      menuModel
	lessons   *lessonsModel
	practice  *practiceModel
	stats     *statsModel
	history   *historyModel
	profiles  *profilesModel
	language  languageModel
	dashboard dashboardData
	width     int
	height    int
	err       error
}

// menuModel holds the state for the main menu.
type menuModel struct {
	choices []string // The menu items to show.
	cursor  int      // Which menu item our cursor is pointing at.
}

// languageModel holds the state for the language selection menu.
type languageModel struct {
	choices     map[string]string // map of lang code to display name
	orderedKeys []string          // for stable iteration
	cursor      int
}

// configSaver persists the in-memory viper state back to the config file.
// It is a package variable so tests can swap in a no-op saver.
var configSaver interface{ Save() error } = fileConfigSaver{}

type fileConfigSaver struct{}

func (fileConfigSaver) Save() error {
	var c config.Config
	if err := viper.Unmarshal(&c); err != nil {
		return err
	}
	return config.WriteConfigFile(&c, false)
}

// initialModel creates the starting state of the TUI, beginning at the main menu.
func initialModel() mainModel {
	return mainModel{
		state: menuView,
		menu: menuModel{
			choices: []string{
				i18n.T("menu.practice"),
				i18n.T("menu.stats"),
				i18n.T("menu.history"),
				i18n.T("menu.profiles"),
				i18n.T("menu.language"),
			},
		},
	}
}

// Init is the first function that will be called by the Bubble Tea runtime.
// It kicks off the initial command to load data for the dashboard.
func (m mainModel) Init() tea.Cmd {
	return refreshDashboardCmd()
}

// Update is the main message loop. It handles all events (like key presses and
// window size changes) and delegates them to the active sub-model.
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings that work everywhere.
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case dashboardDataMsg:
		m.dashboard = msg.data
		if msg.data.err != nil {
			m.err = msg.data.err
		}
		return m, nil

	case startPracticeMsg:
		// A lesson was chosen; open the typing screen for it.
		practice, err := newPracticeModel(msg.lesson)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.state = practiceView
		m.practice = practice
		var updatedModel tea.Model
		updatedModel, cmd = m.practice.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.practice = updatedModel.(*practiceModel)
		return m, cmd

	case languageChangedMsg:
		// The language has changed. Re-initialize the entire model to apply new translations everywhere.
		newModel := initialModel()
		// Preserve the current window dimensions so the layout remains correct.
		newModel.width = m.width
		newModel.height = m.height
		return newModel, newModel.Init()
	}

	// Delegate updates to the currently active view.
	switch m.state {
	case lessonsView:
		// If we received a "back" message, switch the state.
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd()
		}
		var newLessonsModel tea.Model
		newLessonsModel, cmd = m.lessons.Update(msg)
		if newModel, ok := newLessonsModel.(*lessonsModel); ok {
			m.lessons = newModel
		}

	case practiceView:
		// Backing out of a pass returns to the lesson list, not the menu.
		if _, ok := msg.(backToListMsg); ok {
			m.state = lessonsView
			newModel := newLessonsModel()
			m.lessons = &newModel
			var updatedModel tea.Model
			updatedModel, cmd = m.lessons.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
			m.lessons = updatedModel.(*lessonsModel)
			return m, tea.Batch(cmd, loadLessonsCmd())
		}
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd()
		}
		var newPractice tea.Model
		newPractice, cmd = m.practice.Update(msg)
		m.practice = newPractice.(*practiceModel)

	case statsView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd()
		}
		var newStatsModel tea.Model
		newStatsModel, cmd = m.stats.Update(msg)
		m.stats = newStatsModel.(*statsModel)

	case historyView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd()
		}
		var newHistoryModel tea.Model
		newHistoryModel, cmd = m.history.Update(msg)
		m.history = newHistoryModel.(*historyModel)

	case profilesView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd()
		}
		var newProfilesModel tea.Model
		newProfilesModel, cmd = m.profiles.Update(msg)
		m.profiles = newProfilesModel.(*profilesModel)

	case languageView:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q", "esc":
				m.state = menuView
				return m, refreshDashboardCmd()
			case "up", "k":
				if m.language.cursor > 0 {
					m.language.cursor--
				}
			case "down", "j":
				if m.language.cursor < len(m.language.orderedKeys)-1 {
					m.language.cursor++
				}
			case "enter":
				langCode := m.language.orderedKeys[m.language.cursor]
				i18n.SetLang(langCode)
				viper.Set("language", langCode)
				if err := configSaver.Save(); err != nil {
					m.err = fmt.Errorf("failed to save config: %w", err)
				}

				// Signal that the language has changed so the entire UI can be re-initialized.
				return m, func() tea.Msg { return languageChangedMsg{} }
			}
		}
		var newLangModel tea.Model
		newLangModel, cmd = m.language.Update(msg)
		m.language = newLangModel.(languageModel)

	default: // menuView
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q":
				return m, tea.Quit
			case "up", "k":
				if m.menu.cursor > 0 {
					m.menu.cursor--
				}
			case "down", "j":
				if m.menu.cursor < len(m.menu.choices)-1 {
					m.menu.cursor++
				}
			case "enter":
				switch m.menu.cursor {
				case 0: // Practice (pick a lesson)
					m.state = lessonsView
					newModel := newLessonsModel()
					m.lessons = &newModel
					// Manually update the new sub-model with the current window size
					// to ensure the layout is initialized correctly.
					var updatedModel tea.Model
					updatedModel, cmd = m.lessons.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
					m.lessons = updatedModel.(*lessonsModel)
					return m, tea.Batch(cmd, loadLessonsCmd())
				case 1: // Key statistics
					m.state = statsView
					m.stats = newStatsModel()
					var updatedModel tea.Model
					updatedModel, cmd = m.stats.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
					m.stats = updatedModel.(*statsModel)
					return m, cmd
				case 2: // Session history
					m.state = historyView
					m.history = newHistoryModel()
					var updatedModel tea.Model
					updatedModel, cmd = m.history.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
					m.history = updatedModel.(*historyModel)
					return m, cmd
				case 3: // Profiles
					m.state = profilesView
					newModel := newProfilesModel()
					m.profiles = &newModel
					return m, nil
				case 4: // Language
					m.state = languageView
					m.language = newLanguageModel()
					return m, nil
				}
			case "L":
				// "L" opens the language menu from anywhere on the dashboard.
				m.state = languageView
				m.language = newLanguageModel()
				return m, nil
			}
		}
	}

	return m, cmd
}

// View renders the TUI. It's called after every Update and delegates rendering
// to the currently active sub-model.
func (m mainModel) View() string {
	if m.err != nil {
		// A simple error view
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1, 2)
		return errStyle.Render(fmt.Sprintf("An error occurred: %v", m.err))
	}

	// Delegate rendering to the currently active view.
	switch m.state {
	case lessonsView:
		return m.lessons.View()
	case practiceView:
		return m.practice.View()
	case statsView:
		return m.stats.View()
	case historyView:
		return m.history.View()
	case profilesView:
		return m.profiles.View()
	case languageView:
		return m.language.View()
	default: // menuView
		return m.menu.View(m.dashboard, m.width, m.height)
	}
}

// formatLabelPadding formats a label/value pair with the value column aligned.
func formatLabelPadding(label, value string, labelWidth int) string {
	if labelWidth <= 0 {
		return label + " " + value
	}
	if len(label) >= labelWidth {
		return label + " " + value
	}
	return label + strings.Repeat(" ", labelWidth-len(label)) + " " + value
}

// View renders the main menu and dashboard.
func (m menuModel) View(data dashboardData, width, height int) string {
	// Title (i18n)
	title := mainTitleStyle.Render("⌨️ " + i18n.T("dashboard.title"))
	subTitle := helpStyle.Render(i18n.T("dashboard.subtitle"))
	header := lipgloss.JoinVertical(lipgloss.Left, title, subTitle)

	// --- Panes ---
	paneTitleStyle := lipgloss.NewStyle().Bold(true)

	// Menu List (Left Pane)
	var menuItems []string
	menuItems = append(menuItems, paneTitleStyle.Render(i18n.T("menu.navigation")), "")
	for i, choice := range m.choices {
		if m.cursor == i {
			menuItems = append(menuItems, selectedItemStyle.Render("▸ "+choice))
		} else {
			menuItems = append(menuItems, itemStyle.Render("  "+choice))
		}
	}
	menuContent := lipgloss.JoinVertical(lipgloss.Left, menuItems...)

	// Dashboard (Right Pane)
	var dashboardItems []string
	dashboardItems = append(dashboardItems, paneTitleStyle.Render(i18n.T("dashboard.status")), "")

	profileValue := errorStyle.Render(i18n.T("dashboard.no_profile"))
	if data.profileName != "" {
		profileValue = successStyle.Render(data.profileName)
	}

	// Define labels and values separately to calculate padding.
	statusItems := []struct {
		label string
		value string
	}{
		{i18n.T("dashboard.profile"), profileValue},
		{i18n.T("dashboard.lessons"), fmt.Sprintf("%d", data.lessonCount)},
		{i18n.T("dashboard.sessions"), fmt.Sprintf("%d (%s)", data.sessionCount, formatDuration(data.totalPractice))},
	}

	maxLabelLen := 0
	for _, item := range statusItems {
		if len(item.label) > maxLabelLen {
			maxLabelLen = len(item.label)
		}
	}
	for _, item := range statusItems {
		dashboardItems = append(dashboardItems, formatLabelPadding(item.label, item.value, maxLabelLen))
	}

	// Progress figures
	dashboardItems = append(dashboardItems, "", "", paneTitleStyle.Render(i18n.T("dashboard.progress")), "")
	if data.sessionCount > 0 {
		wpmLine := i18n.T("dashboard.wpm_line", fmt.Sprintf("%.1f", data.avgWPM), fmt.Sprintf("%.1f", data.bestWPM))
		accLine := i18n.T("dashboard.accuracy_line", fmt.Sprintf("%.1f", data.avgAccuracy*100))
		dashboardItems = append(dashboardItems, successStyle.Render(wpmLine), accLine)
	} else {
		dashboardItems = append(dashboardItems, helpStyle.Render(i18n.T("dashboard.no_sessions")))
	}

	// Weak keys
	dashboardItems = append(dashboardItems, "", "", paneTitleStyle.Render(i18n.T("dashboard.weak_keys")), "")
	if data.weakestKeys != "" {
		weakLabel := i18n.T("dashboard.weak_keys_label", "")
		dashboardItems = append(dashboardItems, lipgloss.JoinHorizontal(lipgloss.Left, weakLabel, data.weakestKeys))
	} else {
		dashboardItems = append(dashboardItems, helpStyle.Render(i18n.T("dashboard.no_weak_keys")))
	}

	// Recent Activity
	dashboardItems = append(dashboardItems, "", "", paneTitleStyle.Render(i18n.T("dashboard.recent_activity")), "")

	// --- Layout ---
	paneStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	// Calculate height for the panes to fill the screen
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true).Render(""))
	paneHeight := height - headerHeight - footerHeight - 2 // -2 for newlines around mainArea

	menuWidth := 38
	dashboardWidth := width - 4 - menuWidth - 2

	if len(data.recentLogs) == 0 {
		dashboardItems = append(dashboardItems, helpStyle.Render(i18n.T("dashboard.no_recent_activity")))
	} else {
		for _, log := range data.recentLogs {
			ts := log.Timestamp
			if len(ts) >= 16 {
				ts = ts[5:16] // Format as MM-DD HH:MM
			}

			// Calculate available space inside the pane for the log line content.
			innerDashboardWidth := dashboardWidth - 4 - 2
			availableWidth := innerDashboardWidth - len(ts) - 1

			styledAction := activityActionStyle(log.Action).Render(log.Action)
			actionLen := len(log.Action)

			// Calculate the remaining space for the details string.
			detailsWidth := availableWidth - actionLen - 1
			if detailsWidth < 10 {
				detailsWidth = 10
			}

			// Gracefully truncate the details if they are too long.
			details := log.Details
			if len(details) > detailsWidth {
				details = details[:detailsWidth-3] + "..."
			}

			logLine := lipgloss.JoinHorizontal(lipgloss.Left,
				helpStyle.Render(ts), " ", styledAction, " ", helpStyle.Render(details))

			dashboardItems = append(dashboardItems, logLine)
		}
	}
	dashboardContent := lipgloss.JoinVertical(lipgloss.Left, dashboardItems...)

	leftPane := paneStyle.Width(menuWidth).Height(paneHeight).Render(menuContent)
	rightPane := paneStyle.Width(dashboardWidth).Height(paneHeight).MarginLeft(2).Render(dashboardContent)

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	// Styled footer/help line
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	left := i18n.T("dashboard.footer")
	footer := footerStyle.Render(AlignFooter(left, "", width))

	return lipgloss.JoinVertical(lipgloss.Top, header, mainArea, footer)
}

// newLanguageModel creates a new model for the language selection view.
func newLanguageModel() languageModel {
	// Get the dynamically discovered locales from the i18n package.
	choices := i18n.GetAvailableLocales()

	// Create a sorted list of keys for stable iteration and display order.
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return languageModel{
		choices:     choices,
		orderedKeys: keys,
		cursor:      0,
	}
}

// Init for languageModel.
func (m languageModel) Init() tea.Cmd { return nil }

// Update for languageModel.
func (m languageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

// View for languageModel.
func (m languageModel) View() string {
	title := mainTitleStyle.Render("🌐 " + i18n.T("menu.language"))

	var listItems []string
	listItems = append(listItems, titleStyle.Render(i18n.T("language.select")), "")

	for i, langCode := range m.orderedKeys {
		displayName := m.choices[langCode]
		line := "  " + displayName
		if m.cursor == i {
			line = "▸ " + displayName
			listItems = append(listItems, selectedItemStyle.Render(line))
		} else {
			listItems = append(listItems, itemStyle.Render(line))
		}
	}

	paneStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2)
	listPane := paneStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, listItems...))

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	helpLine := footerStyle.Render(AlignFooter(i18n.T("language.help"), "", 60))

	return lipgloss.JoinVertical(lipgloss.Left, title, "", listPane, "", helpLine)
}

// Run is the main entrypoint for the TUI. It initializes and runs the Bubble Tea program.
func Run() {
	p := tea.NewProgram(initialModel())

	// Forward lesson store changes into the program loop so the lesson
	// list stays current no matter which view mutated it.
	unsubscribe := datastore.For[model.Lesson]().Subscribe(func(ev datastore.Event[model.Lesson]) {
		p.Send(lessonStoreMsg{event: ev})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		os.Exit(1)
	}
}

// RunWithLesson launches the TUI directly into a practice pass for the
// given lesson, skipping the menu.
func RunWithLesson(lesson model.Lesson) {
	practice, err := newPracticeModel(lesson)
	if err != nil {
		logging.Errorf("cannot start practice: %v", err)
		os.Exit(1)
	}
	m := initialModel()
	m.state = practiceView
	m.practice = practice

	p := tea.NewProgram(m)
	unsubscribe := datastore.For[model.Lesson]().Subscribe(func(ev datastore.Event[model.Lesson]) {
		p.Send(lessonStoreMsg{event: ev})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		os.Exit(1)
	}
}

// refreshDashboardCmd is a tea.Cmd that fetches summary data for the main menu.
func refreshDashboardCmd() tea.Cmd {
	return func() tea.Msg {
		data := dashboardData{}

		profiles, err := db.GetAllProfiles()
		if err != nil {
			return dashboardDataMsg{data: dashboardData{err: err}}
		}
		data.profileCount = len(profiles)

		active, err := db.GetActiveProfile()
		if err != nil {
			return dashboardDataMsg{data: dashboardData{err: err}}
		}

		lessons, err := db.GetAllLessons()
		if err != nil {
			return dashboardDataMsg{data: dashboardData{err: err}}
		}
		data.lessonCount = len(lessons)

		if active != nil {
			data.profileName = active.String()

			sessions, err := db.GetSessionsForProfile(active.ID)
			if err != nil {
				return dashboardDataMsg{data: dashboardData{err: err}}
			}
			data.sessionCount = len(sessions)
			var wpmSum, accSum float64
			for _, s := range sessions {
				data.totalPractice += s.Duration
				wpmSum += s.WPM
				accSum += s.Accuracy
				if s.WPM > data.bestWPM {
					data.bestWPM = s.WPM
				}
			}
			if len(sessions) > 0 {
				data.avgWPM = wpmSum / float64(len(sessions))
				data.avgAccuracy = accSum / float64(len(sessions))
			}

			stats, err := db.GetKeyStatsForProfile(active.ID)
			if err != nil {
				return dashboardDataMsg{data: dashboardData{err: err}}
			}
			data.weakestKeys = formatWeakKeys(stats, 5)
		}

		logs, err := db.GetAllActivityLogEntries()
		if err != nil {
			return dashboardDataMsg{data: dashboardData{err: err}}
		}
		if len(logs) > 5 {
			logs = logs[:5]
		}
		data.recentLogs = logs

		return dashboardDataMsg{data: data}
	}
}

// loadLessonsCmd refreshes the shared lesson store from the database.
// Subscribers (the lessons view) pick the change up as store events.
func loadLessonsCmd() tea.Cmd {
	return func() tea.Msg {
		lessons, err := db.GetAllLessons()
		if err != nil {
			return lessonsLoadErrMsg{err: err}
		}
		datastore.For[model.Lesson]().Reset(lessons)
		return lessonsLoadedMsg{}
	}
}

// formatWeakKeys renders the n keys with the most misses as a colored
// "key: misses" breakdown, worst first.
func formatWeakKeys(stats []model.KeyStat, n int) string {
	var parts []string
	for _, st := range stats {
		if st.Misses == 0 {
			continue
		}
		if len(parts) >= n {
			break
		}
		style := specialStyle
		if st.MissRate() >= 0.25 {
			style = errorStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s: %d", displayKey(st.Key), st.Misses)))
	}
	return strings.Join(parts, ", ")
}

// displayKey makes whitespace keys visible in tables and breakdowns.
func displayKey(k string) string {
	switch k {
	case " ":
		return "␣"
	case "\t":
		return "⇥"
	case "\n":
		return "⏎"
	default:
		return k
	}
}

// activityActionStyle picks a color for an activity log action verb.
func activityActionStyle(action string) lipgloss.Style {
	switch {
	case strings.HasPrefix(action, "ADD"),
		strings.HasPrefix(action, "SEED"),
		strings.HasPrefix(action, "IMPORT"),
		strings.HasPrefix(action, "RESTORE"):
		return successStyle
	case strings.HasPrefix(action, "DELETE"),
		strings.HasPrefix(action, "MIGRATE"):
		return specialStyle
	case strings.HasPrefix(action, "TOGGLE"),
		strings.HasPrefix(action, "SET"),
		strings.HasPrefix(action, "EXPORT"):
		return helpStyle
	default:
		return itemStyle
	}
}
