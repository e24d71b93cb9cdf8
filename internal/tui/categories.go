package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/daygrid/internal/store"
)

var categoryColors = []string{"#22c55e", "#3b82f6", "#eab308", "#f97316", "#ef4444", "#6C63FF", "#2EC4B6", "#9B59B6"}

type categoriesModel struct {
	store  *store.Store
	width  int
	height int

	categories []store.Category // retired included
	cursor     int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"
	editing    store.Category

	// Form field pointers (survive value copies)
	formLabel       *string
	formValue       *string
	formColor       *string
	formDescription *string
}

func newCategoriesModel(s *store.Store) categoriesModel {
	label, value, color, desc := "", "", categoryColors[0], ""
	return categoriesModel{
		store:           s,
		formLabel:       &label,
		formValue:       &value,
		formColor:       &color,
		formDescription: &desc,
	}
}

type categoriesDataMsg struct {
	categories []store.Category
	status     string
	err        error
}

func (c categoriesModel) refresh() tea.Cmd {
	return c.mutate("", nil)
}

func (c categoriesModel) mutate(status string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if fn != nil {
			if err := fn(); err != nil {
				return errStatus("Error: %v", err)
			}
		}
		categories, err := c.store.ListCategories(true)
		return categoriesDataMsg{categories: categories, status: status, err: err}
	}
}

func (c categoriesModel) update(msg tea.Msg) (categoriesModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		if _, ok := msg.(categoriesDataMsg); !ok {
			return c.updateForm(msg)
		}
	}

	switch msg := msg.(type) {
	case categoriesDataMsg:
		if msg.err != nil {
			return c, func() tea.Msg { return errStatus("Could not load categories: %v", msg.err) }
		}
		c.categories = msg.categories
		c.cursor = clamp(c.cursor, 0, max(0, len(c.categories)-1))
		if msg.status != "" {
			return c, statusCmd(msg.status)
		}
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.categories)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.New):
			return c.showForm(nil)
		case key.Matches(msg, keys.Enter):
			if len(c.categories) > 0 {
				cat := c.categories[c.cursor]
				return c.showForm(&cat)
			}
		case key.Matches(msg, keys.Delete):
			if len(c.categories) > 0 {
				cat := c.categories[c.cursor]
				return c, c.mutate("Retired "+cat.Label, func() error {
					return c.store.DeleteCategory(cat.ID)
				})
			}
		case key.Matches(msg, keys.Restore):
			if len(c.categories) > 0 {
				cat := c.categories[c.cursor]
				return c, c.mutate("Restored "+cat.Label, func() error {
					return c.store.RestoreCategory(cat.ID)
				})
			}
		}
	}
	return c, nil
}

// showForm opens the category form, prefilled from cat when editing.
func (c categoriesModel) showForm(cat *store.Category) (categoriesModel, tea.Cmd) {
	*c.formLabel = ""
	*c.formValue = "50"
	*c.formColor = categoryColors[0]
	*c.formDescription = ""
	c.formType = "new"
	if cat != nil {
		c.formType = "edit"
		c.editing = *cat
		*c.formLabel = cat.Label
		*c.formValue = strconv.Itoa(cat.Value)
		*c.formColor = cat.Color
		*c.formDescription = cat.Description
	}

	colors := categoryColors
	if cat != nil && !containsColor(colors, cat.Color) {
		colors = append([]string{cat.Color}, colors...)
	}
	colorOptions := make([]huh.Option[string], len(colors))
	for i, col := range colors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", colorDot(col), col), col)
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Label").Value(c.formLabel).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("label is required")
				}
				return nil
			}),
			huh.NewInput().Title("Productivity value (0-100)").Value(c.formValue).Validate(validateCategoryValue),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(c.formColor),
			huh.NewInput().Title("Description").Value(c.formDescription),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func validateCategoryValue(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 || v > 100 {
		return fmt.Errorf("enter a whole number between 0 and 100")
	}
	return nil
}

func containsColor(colors []string, color string) bool {
	for _, c := range colors {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

func (c categoriesModel) updateForm(msg tea.Msg) (categoriesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		return c, c.saveForm()
	}
	return c, cmd
}

func (c categoriesModel) saveForm() tea.Cmd {
	value, err := strconv.Atoi(strings.TrimSpace(*c.formValue))
	if err != nil {
		return func() tea.Msg { return errStatus("Invalid value: %v", err) }
	}
	in := store.CategoryInput{
		Label:       *c.formLabel,
		Value:       value,
		Color:       *c.formColor,
		Description: *c.formDescription,
	}

	if c.formType == "edit" {
		id := c.editing.ID
		in.Icon = c.editing.Icon
		return c.mutate("Saved "+strings.TrimSpace(in.Label), func() error {
			_, err := c.store.UpdateCategory(id, in)
			return err
		})
	}
	return c.mutate("Created "+strings.TrimSpace(in.Label), func() error {
		_, err := c.store.CreateCategory(in)
		return err
	})
}

func (c categoriesModel) view(w int) string {
	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Category")
		if c.formType == "edit" {
			title = titleStyle.Render("Edit Category")
		}
		return lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View())
	}

	if len(c.categories) == 0 {
		return mutedStyle.Render("No categories. Press n to create one.")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-22s %5s  %s", "", "Label", "Value", "Description")))
	for i, cat := range c.categories {
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		} else if !cat.Active {
			style = mutedStyle
		}
		suffix := ""
		if !cat.Active {
			suffix = accentStyle.Render("  retired")
		}
		desc := cat.Description
		if r, limit := []rune(desc), w-40; limit > 1 && len(r) > limit {
			desc = string(r[:limit-1]) + "…"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-22s %5d  %s", cursor, colorDot(cat.Color), cat.Label, cat.Value, desc))+suffix)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  d: retire  r: restore"))
	return strings.Join(rows, "\n")
}
