// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for Scriptum.
// This file contains the profile management view: listing, creating,
// switching and deleting the local practice profiles.
package tui // import "github.com/scriptum/scriptum/internal/tui"

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/model"
)

// profilesViewState represents the current view within profile management.
type profilesViewState int

const (
	// profilesListView is the default view, showing all profiles.
	profilesListView profilesViewState = iota
	// profilesFormView shows the single-field form for a new profile.
	profilesFormView
)

// profilesModel holds the state for the profile management view.
type profilesModel struct {
	state     profilesViewState
	profiles  []model.Profile
	cursor    int
	nameInput textinput.Model
	status    string
	err       error
	// For delete confirmation
	isConfirmingDelete bool
	profileToDelete    model.Profile
	confirmCursor      int // 0 for No, 1 for Yes
	width, height      int
}

// newProfilesModel creates the profile view, pre-loading profiles from the database.
func newProfilesModel() profilesModel {
	m := profilesModel{}
	m.reload()

	t := textinput.New()
	t.Prompt = i18n.T("profiles.form_prompt") + " "
	t.Placeholder = "anna"
	t.CharLimit = 64
	t.Width = 40
	t.Cursor.Style = focusedStyle
	m.nameInput = t

	return m
}

// reload refreshes the profile list and keeps the cursor in bounds.
func (m *profilesModel) reload() {
	profiles, err := db.GetAllProfiles()
	if err != nil {
		m.err = err
		return
	}
	m.profiles = profiles
	if m.cursor >= len(m.profiles) {
		if len(m.profiles) > 0 {
			m.cursor = len(m.profiles) - 1
		} else {
			m.cursor = 0
		}
	}
}

// Init initializes the model.
func (m profilesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model's state.
func (m profilesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sizeMsg.Width
		m.height = sizeMsg.Height
	}

	if m.state == profilesFormView {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = profilesListView
				m.status = ""
				return &m, nil
			case "enter":
				name := strings.TrimSpace(m.nameInput.Value())
				if name == "" {
					m.status = i18n.T("profiles.empty_name")
					return &m, nil
				}
				if _, err := db.AddProfile(name); err != nil {
					m.status = i18n.T("profiles.add_failed", err)
					return &m, nil
				}
				m.state = profilesListView
				m.status = i18n.T("profiles.added", name)
				m.reload()
				return &m, nil
			}
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return &m, cmd
	}

	// List view logic
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Handle delete confirmation
		if m.isConfirmingDelete {
			switch msg.String() {
			case "n", "q", "esc":
				m.isConfirmingDelete = false
				m.status = i18n.T("profiles.delete_cancelled")
				return &m, nil
			case "right", "tab", "l":
				m.confirmCursor = 1
				return &m, nil
			case "left", "shift+tab", "h":
				m.confirmCursor = 0
				return &m, nil
			case "y":
				m.deleteConfirmed()
				return &m, nil
			case "enter":
				if m.confirmCursor == 1 {
					m.deleteConfirmed()
				} else {
					m.isConfirmingDelete = false
					m.status = i18n.T("profiles.delete_cancelled")
				}
				return &m, nil
			}
			return &m, nil
		}

		switch msg.String() {
		case "q", "esc":
			return &m, func() tea.Msg { return backToMenuMsg{} }
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.profiles)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.profiles) > 0 {
				p := m.profiles[m.cursor]
				if err := db.SetActiveProfile(p.ID); err != nil {
					m.err = err
				} else {
					m.status = i18n.T("profiles.activated", p.Name)
					m.reload()
				}
			}
			return &m, nil
		case "n":
			m.state = profilesFormView
			m.nameInput.SetValue("")
			m.status = ""
			return &m, m.nameInput.Focus()
		case "d", "delete":
			if len(m.profiles) > 0 {
				m.profileToDelete = m.profiles[m.cursor]
				m.isConfirmingDelete = true
				m.confirmCursor = 0 // Default to No
			}
			return &m, nil
		}
	}
	return &m, nil
}

// deleteConfirmed removes the selected profile and everything recorded
// against it.
func (m *profilesModel) deleteConfirmed() {
	if err := db.DeleteProfile(m.profileToDelete.ID); err != nil {
		m.err = err
	} else {
		m.status = i18n.T("profiles.deleted", m.profileToDelete.Name)
		m.reload()
	}
	m.isConfirmingDelete = false
}

// View renders the profile management UI based on the current model state.
func (m profilesModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n", m.err))
	}

	if m.isConfirmingDelete {
		return m.viewConfirmation()
	}

	if m.state == profilesFormView {
		return m.viewForm()
	}
	return m.viewList()
}

// viewForm renders the single-field form for a new profile.
func (m profilesModel) viewForm() string {
	var viewItems []string
	viewItems = append(viewItems, titleStyle.Render("✨ "+i18n.T("profiles.form_title")))
	viewItems = append(viewItems, "", m.nameInput.View())
	if m.status != "" {
		viewItems = append(viewItems, "", errorStyle.Render(m.status))
	}
	viewItems = append(viewItems, "", helpStyle.Render(i18n.T("profiles.form_help")))
	return lipgloss.JoinVertical(lipgloss.Left, viewItems...)
}

// viewConfirmation renders the modal dialog for confirming a profile deletion.
func (m profilesModel) viewConfirmation() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🗑️ " + i18n.T("profiles.confirm_delete_title")))

	b.WriteString(i18n.T("profiles.confirm_delete_question", m.profileToDelete.Name))
	b.WriteString("\n\n")
	b.WriteString(i18n.T("profiles.confirm_delete_warning"))
	b.WriteString("\n\n")

	var yesButton, noButton string
	if m.confirmCursor == 1 {
		yesButton = activeButtonStyle.Render(i18n.T("profiles.confirm_delete_yes"))
		noButton = buttonStyle.Render(i18n.T("profiles.confirm_delete_no"))
	} else {
		yesButton = buttonStyle.Render(i18n.T("profiles.confirm_delete_yes"))
		noButton = activeButtonStyle.Render(i18n.T("profiles.confirm_delete_no"))
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, noButton, "  ", yesButton)
	b.WriteString(buttons)

	b.WriteString("\n" + helpStyle.Render("\n"+i18n.T("profiles.confirm_delete_help")))

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		dialogBoxStyle.Render(b.String()),
	)
}

// viewList renders the two-pane profile list with details.
func (m profilesModel) viewList() string {
	title := mainTitleStyle.Render("👤 " + i18n.T("profiles.title"))
	header := lipgloss.NewStyle().Align(lipgloss.Center).Render(title)

	// List pane (left)
	var listItems []string
	for i, p := range m.profiles {
		line := p.Name
		if p.Active {
			line = successStyle.Render("✔ ") + line
		} else {
			line = "  " + line
		}
		if m.cursor == i {
			listItems = append(listItems, selectedItemStyle.Render("▸ "+line))
		} else {
			listItems = append(listItems, itemStyle.Render("  "+line))
		}
	}
	if len(m.profiles) == 0 {
		listItems = append(listItems, helpStyle.Render(i18n.T("profiles.empty")))
	}

	listPaneTitle := lipgloss.NewStyle().Bold(true).Render(i18n.T("profiles.list_title"))
	listPane := lipgloss.JoinVertical(lipgloss.Left, listPaneTitle, "", lipgloss.JoinVertical(lipgloss.Left, listItems...))

	paneStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	menuWidth := 38
	detailWidth := m.width - 4 - menuWidth - 2

	leftPane := paneStyle.Width(menuWidth).Render(listPane)

	// Details/status pane (right)
	var detailsItems []string
	if m.status != "" {
		detailsItems = append(detailsItems, statusMessageStyle.Render(m.status))
	}
	if len(m.profiles) > 0 && m.cursor < len(m.profiles) {
		p := m.profiles[m.cursor]
		detailsItems = append(detailsItems, "", helpStyle.Render(i18n.T("profiles.detail_name", p.Name)))
		detailsItems = append(detailsItems, helpStyle.Render(i18n.T("profiles.detail_layout", p.Layout)))
		detailsItems = append(detailsItems, helpStyle.Render(i18n.T("profiles.detail_created", p.CreatedAt.Format("2006-01-02"))))
		if p.Active {
			detailsItems = append(detailsItems, successStyle.Render(i18n.T("profiles.detail_active")))
		}
	}

	rightPane := paneStyle.Width(detailWidth).MarginLeft(2).Render(lipgloss.JoinVertical(lipgloss.Left, detailsItems...))

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	helpLine := footerStyle.Render(i18n.T("profiles.footer"))

	return lipgloss.JoinVertical(lipgloss.Left, header, "\n", mainArea, "\n", helpLine)
}
