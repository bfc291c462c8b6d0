// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/scriptum/scriptum/internal/datastore"
	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/layout"
	"github.com/scriptum/scriptum/internal/lesson"
	"github.com/scriptum/scriptum/internal/model"
)

// A simple style for focused text inputs.
var focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

// lessonGeneratedMsg signals that a new drill lesson was created and saved.
type lessonGeneratedMsg struct {
	lesson model.Lesson
}

type lessonFormModel struct {
	focusIndex int
	inputs     []textinput.Model // 0: stage, 1: words, 2: title, 3: seed
	err        error
}

func newLessonFormModel() lessonFormModel {
	m := lessonFormModel{
		inputs: make([]textinput.Model, 4),
	}

	defaultWords := viper.GetInt("drill.words")
	if defaultWords < 1 {
		defaultWords = 20
	}

	var t textinput.Model
	for i := range m.inputs {
		t = textinput.New()
		t.Cursor.Style = focusedStyle
		t.CharLimit = 64
		t.Width = 40

		switch i {
		case 0:
			t.Prompt = "Stage (1-" + strconv.Itoa(layout.StageCount) + "):    "
			t.Placeholder = "1"
		case 1:
			t.Prompt = "Words:          "
			t.Placeholder = strconv.Itoa(defaultWords)
		case 2:
			t.Prompt = "Title (optional): "
			t.Placeholder = "Drill Stufe 1"
		case 3:
			t.Prompt = "Seed (optional):  "
			t.Placeholder = "0 = random"
		}
		m.inputs[i] = t
	}

	m.inputs[0].Focus()
	m.inputs[0].TextStyle = focusedStyle

	return m
}

func (m lessonFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m lessonFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		// Go back to the lesson list.
		case "esc":
			return m, func() tea.Msg { return backToListMsg{} }

		// Set focus to next input
		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			// Did the user press enter while the submit button was focused?
			// If so, generate the drill.
			if s == "enter" && m.focusIndex == len(m.inputs) {
				generated, err := m.generate()
				if err != nil {
					m.err = err
					return m, nil
				}
				return m, func() tea.Msg { return lessonGeneratedMsg{lesson: generated} }
			}

			// Cycle focus
			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}
			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := 0; i <= len(m.inputs)-1; i++ {
				if i == m.focusIndex {
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].TextStyle = focusedStyle
					continue
				}
				m.inputs[i].Blur()
				m.inputs[i].TextStyle = lipgloss.NewStyle()
			}

			return m, tea.Batch(cmds...)
		}
	}

	// Handle character input and blinking
	cmd := m.updateInputs(msg)
	return m, cmd
}

// generate parses the form fields, builds the drill and persists it.
func (m *lessonFormModel) generate() (model.Lesson, error) {
	stage, err := intField(m.inputs[0].Value(), 1)
	if err != nil {
		return model.Lesson{}, fmt.Errorf("stage: %w", err)
	}
	defaultWords := viper.GetInt("drill.words")
	if defaultWords < 1 {
		defaultWords = 20
	}
	words, err := intField(m.inputs[1].Value(), defaultWords)
	if err != nil {
		return model.Lesson{}, fmt.Errorf("words: %w", err)
	}
	seed, err := int64Field(m.inputs[3].Value(), viper.GetInt64("drill.seed"))
	if err != nil {
		return model.Lesson{}, fmt.Errorf("seed: %w", err)
	}

	l, err := lesson.NewDrill(stage, words, seed)
	if err != nil {
		return model.Lesson{}, err
	}
	if title := strings.TrimSpace(m.inputs[2].Value()); title != "" {
		l.Title = title
	}

	id, err := db.AddLesson(l)
	if err != nil {
		return model.Lesson{}, err
	}
	l.ID = id
	datastore.For[model.Lesson]().Add(l)
	return l, nil
}

// intField parses a form value, falling back to def when left empty.
func intField(v string, def int) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func int64Field(v string, def int64) (int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func (m *lessonFormModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m lessonFormModel) View() string {
	var viewItems []string

	viewItems = append(viewItems, titleStyle.Render("✨ "+i18n.T("lessons.form_title")))

	// The title's padding adds a newline, so we add one more for a blank line.
	viewItems = append(viewItems, "")
	for i := range m.inputs {
		viewItems = append(viewItems, m.inputs[i].View())
	}

	button := formItemStyle.Render("[ " + i18n.T("lessons.form_submit") + " ]")
	if m.focusIndex == len(m.inputs) {
		button = formSelectedItemStyle.Render("[ " + i18n.T("lessons.form_submit") + " ]")
	}
	viewItems = append(viewItems, "", button)

	if m.err != nil {
		viewItems = append(viewItems, "", errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	viewItems = append(viewItems, "", helpStyle.Render(i18n.T("lessons.form_help")))

	return lipgloss.JoinVertical(lipgloss.Left, viewItems...)
}
