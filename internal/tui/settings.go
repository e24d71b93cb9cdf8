package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/daygrid/internal/store"
)

type settingsSection int

const (
	sectionDay settingsSection = iota
	sectionCategories
	sectionTemplates
)

var sectionNames = []string{"Day", "Categories", "Templates"}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	section    settingsSection
	settings   *store.UserSettings
	categories categoriesModel
	templates  templatesModel

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formInterval *int
	formStart    *string
	formEnd      *string
}

func newSettingsModel(s *store.Store, now func() time.Time) settingsModel {
	interval, start, end := 0, "", ""
	return settingsModel{
		store:        s,
		categories:   newCategoriesModel(s),
		templates:    newTemplatesModel(s, now),
		formInterval: &interval,
		formStart:    &start,
		formEnd:      &end,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
	s.categories.width = w
	s.categories.height = h
}

func (s settingsModel) capturing() bool {
	return s.formActive || s.categories.formActive || s.templates.formActive
}

type settingsDataMsg struct {
	settings *store.UserSettings
	status   string
	err      error
}

func (s settingsModel) loadSettings(status string) tea.Cmd {
	return func() tea.Msg {
		us, err := s.store.GetUserSettings()
		return settingsDataMsg{settings: us, status: status, err: err}
	}
}

func (s settingsModel) refresh() tea.Cmd {
	return tea.Batch(s.loadSettings(""), s.categories.refresh(), s.templates.refresh())
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, func() tea.Msg { return errStatus("Could not load settings: %v", msg.err) }
		}
		s.settings = msg.settings
		if msg.status != "" {
			return s, statusCmd(msg.status)
		}
		return s, nil
	case categoriesDataMsg:
		s.categories, cmd = s.categories.update(msg)
		return s, cmd
	case templatesDataMsg:
		s.templates, cmd = s.templates.update(msg)
		return s, cmd
	}

	if s.categories.formActive {
		s.categories, cmd = s.categories.update(msg)
		return s, cmd
	}
	if s.templates.formActive {
		s.templates, cmd = s.templates.update(msg)
		return s, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Left):
		if s.section > sectionDay {
			s.section--
		}
		return s, nil
	case key.Matches(keyMsg, keys.Right):
		if s.section < sectionTemplates {
			s.section++
		}
		return s, nil
	}

	switch s.section {
	case sectionDay:
		if key.Matches(keyMsg, keys.Enter) && s.settings != nil {
			return s.showForm()
		}
	case sectionCategories:
		s.categories, cmd = s.categories.update(msg)
	case sectionTemplates:
		s.templates, cmd = s.templates.update(msg)
	}
	return s, cmd
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.formInterval = s.settings.DefaultIntervalMinutes
	*s.formStart = s.settings.DefaultStartTime
	*s.formEnd = s.settings.DefaultEndTime

	s.form = huh.NewForm(
		huh.NewGroup(
			intervalSelect(s.formInterval),
			huh.NewInput().Title("Day starts (HH:MM)").Value(s.formStart).Validate(validateClock),
			huh.NewInput().Title("Day ends (HH:MM)").Value(s.formEnd).Validate(validateClock),
		).Title("Default day"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveSettings()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() tea.Cmd {
	cfg := store.DayConfig{
		IntervalMinutes: *s.formInterval,
		StartTime:       strings.TrimSpace(*s.formStart),
		EndTime:         strings.TrimSpace(*s.formEnd),
	}
	return func() tea.Msg {
		if _, err := s.store.UpdateUserSettings(cfg); err != nil {
			return errStatus("Settings not saved: %v", err)
		}
		return s.loadSettings("Defaults saved; they apply to days created from now on")()
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	var tabs []string
	for i, name := range sectionNames {
		if settingsSection(i) == s.section {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Settings"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	var body string
	switch s.section {
	case sectionDay:
		body = s.renderDay()
	case sectionCategories:
		body = s.categories.view(w)
	case sectionTemplates:
		body = s.templates.view()
	}

	style := panelStyle
	if s.capturing() {
		style = activePanelStyle
	}
	nav := mutedStyle.Render("  ←/→: section")
	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", nav))
}

func (s settingsModel) renderDay() string {
	if s.formActive && s.form != nil {
		return s.form.View()
	}
	if s.settings == nil {
		return mutedStyle.Render("Loading...")
	}

	label := lipgloss.NewStyle().Width(16)
	rows := []string{
		"  " + label.Render("Day starts") + highlightStyle.Render(s.settings.DefaultStartTime),
		"  " + label.Render("Day ends") + highlightStyle.Render(s.settings.DefaultEndTime),
		"  " + label.Render("Interval") + highlightStyle.Render(fmt.Sprintf("%d min", s.settings.DefaultIntervalMinutes)),
		"",
		mutedStyle.Render("  Press enter to edit. Existing days keep their intervals."),
	}
	return strings.Join(rows, "\n")
}
