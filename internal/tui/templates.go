package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/daygrid/internal/scoring"
	"github.com/sadopc/daygrid/internal/store"
)

type templatesModel struct {
	store *store.Store
	now   func() time.Time

	templates []store.Template
	cursor    int

	formActive bool
	form       *huh.Form
	formType   string // "new", "apply"

	formName     *string
	formInterval *int
	formStart    *string
	formEnd      *string
	formDate     *string
}

func newTemplatesModel(s *store.Store, now func() time.Time) templatesModel {
	name, start, end, date := "", "", "", ""
	interval := 0
	return templatesModel{
		store:        s,
		now:          now,
		formName:     &name,
		formInterval: &interval,
		formStart:    &start,
		formEnd:      &end,
		formDate:     &date,
	}
}

type templatesDataMsg struct {
	templates []store.Template
	status    string
	err       error
}

func (t templatesModel) refresh() tea.Cmd {
	return t.mutate("", nil)
}

func (t templatesModel) mutate(status string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if fn != nil {
			if err := fn(); err != nil {
				return errStatus("Error: %v", err)
			}
		}
		templates, err := t.store.ListTemplates()
		return templatesDataMsg{templates: templates, status: status, err: err}
	}
}

func (t templatesModel) update(msg tea.Msg) (templatesModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		if _, ok := msg.(templatesDataMsg); !ok {
			return t.updateForm(msg)
		}
	}

	switch msg := msg.(type) {
	case templatesDataMsg:
		if msg.err != nil {
			return t, func() tea.Msg { return errStatus("Could not load templates: %v", msg.err) }
		}
		t.templates = msg.templates
		t.cursor = clamp(t.cursor, 0, max(0, len(t.templates)-1))
		if msg.status != "" {
			return t, statusCmd(msg.status)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.templates)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.New):
			return t.showNewForm()
		case key.Matches(msg, keys.Apply), key.Matches(msg, keys.Enter):
			if len(t.templates) > 0 {
				return t.showApplyForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(t.templates) > 0 {
				tpl := t.templates[t.cursor]
				return t, t.mutate(fmt.Sprintf("Deleted template %q", tpl.Name), func() error {
					return t.store.DeleteTemplate(tpl.ID)
				})
			}
		}
	}
	return t, nil
}

func (t templatesModel) showNewForm() (templatesModel, tea.Cmd) {
	*t.formName = ""
	*t.formInterval = 15
	*t.formStart = "09:00"
	*t.formEnd = "17:00"
	t.formType = "new"

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(t.formName).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("name is required")
				}
				return nil
			}),
			intervalSelect(t.formInterval),
			huh.NewInput().Title("Start (HH:MM)").Value(t.formStart).Validate(validateClock),
			huh.NewInput().Title("End (HH:MM)").Value(t.formEnd).Validate(validateClock),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t templatesModel) showApplyForm() (templatesModel, tea.Cmd) {
	*t.formDate = store.DateKey(store.DayOf(t.now()).AddDate(0, 0, 1))
	t.formType = "apply"

	tpl := t.templates[t.cursor]
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Create day from "+tpl.Name).
				Description("Date (YYYY-MM-DD) without a log yet").
				Value(t.formDate).
				Validate(func(s string) error {
					_, err := store.ParseDate(strings.TrimSpace(s))
					return err
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

// intervalSelect offers the allowed interval lengths.
func intervalSelect(value *int) *huh.Select[int] {
	options := make([]huh.Option[int], len(store.IntervalDurations))
	for i, d := range store.IntervalDurations {
		options[i] = huh.NewOption(fmt.Sprintf("%d min", d), d)
	}
	return huh.NewSelect[int]().Title("Interval").Options(options...).Value(value)
}

func validateClock(s string) error {
	_, err := scoring.ParseClock(s)
	return err
}

func (t templatesModel) updateForm(msg tea.Msg) (templatesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		return t, t.saveForm()
	}
	return t, cmd
}

func (t templatesModel) saveForm() tea.Cmd {
	switch t.formType {
	case "new":
		name := strings.TrimSpace(*t.formName)
		cfg := store.DayConfig{IntervalMinutes: *t.formInterval, StartTime: strings.TrimSpace(*t.formStart), EndTime: strings.TrimSpace(*t.formEnd)}
		return t.mutate(fmt.Sprintf("Created template %q", name), func() error {
			_, err := t.store.CreateTemplate(name, cfg)
			return err
		})
	case "apply":
		if t.cursor >= len(t.templates) {
			return nil
		}
		tpl := t.templates[t.cursor]
		date, err := store.ParseDate(strings.TrimSpace(*t.formDate))
		if err != nil {
			return func() tea.Msg { return errStatus("Invalid date: %v", err) }
		}
		return t.mutate(fmt.Sprintf("Created %s from %q", store.DateKey(date), tpl.Name), func() error {
			return applyTemplate(t.store, tpl, date)
		})
	}
	return nil
}

// applyTemplate creates the day at date from tpl. Existing days are never
// regenerated, so a day that already has a log is an error.
func applyTemplate(s *store.Store, tpl store.Template, date time.Time) error {
	existing, err := s.GetDailyLog(date)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%s already has a log", store.DateKey(date))
	}
	cfg := tpl.Config()
	_, err = s.GetOrCreateDailyLog(date, &cfg)
	return err
}

func (t templatesModel) view() string {
	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Template")
		if t.formType == "apply" {
			title = titleStyle.Render("Apply Template")
		}
		return lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View())
	}

	if len(t.templates) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			mutedStyle.Render("No templates. Press n to create one."),
			"",
			mutedStyle.Render("  A template is a named day layout used instead of the defaults."),
		)
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %-13s %s", "Name", "Window", "Interval")))
	for i, tpl := range t.templates {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-24s %-13s %d min", cursor, tpl.Name, tpl.StartTime+"-"+tpl.EndTime, tpl.IntervalMinutes)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  a: apply to a date  d: delete"))
	return strings.Join(rows, "\n")
}
