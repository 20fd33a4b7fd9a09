package main

import (
	"qbench/bench"
	"qbench/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type selectionChangedMsg struct {
	selection []models.BackendID
}

type BackendPaneModel struct {
	selector *bench.Selector
	form     *huh.Form
	values   *[]string
}

func NewBackendPaneModel(selector *bench.Selector) BackendPaneModel {
	m := BackendPaneModel{selector: selector}
	m.buildForm()
	return m
}

// buildForm recreates the multi select with the current selection checked
func (m *BackendPaneModel) buildForm() {
	theme := huh.ThemeCharm()
	theme.Focused.Base = theme.Focused.Base.BorderForeground(qbMagenta)
	theme.Focused.Title = theme.Focused.Title.Foreground(qbMagenta)
	theme.Focused.SelectedPrefix = theme.Focused.SelectedPrefix.Foreground(qbMagenta)

	values := make([]string, 0)
	options := make([]huh.Option[string], 0, len(m.selector.Catalog()))
	for _, b := range m.selector.Catalog() {
		selected := m.selector.Selected(b.ID)
		if selected {
			values = append(values, string(b.ID))
		}
		options = append(options, huh.NewOption(b.DisplayName(), string(b.ID)).Selected(selected))
	}
	m.values = &values

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Key("backends").
				Title("Simulators").
				Description("space/x: toggle • enter: confirm").
				Options(options...).
				Value(m.values).
				Height(len(options) + 2),
		),
	).
		WithShowHelp(false).
		WithShowErrors(true).
		WithTheme(theme)
}

func (m BackendPaneModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m BackendPaneModel) Update(msg tea.Msg) (BackendPaneModel, tea.Cmd) {
	var cmds []tea.Cmd

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
		cmds = append(cmds, cmd)
	}

	if changed := m.sync(); changed != nil {
		cmds = append(cmds, func() tea.Msg { return selectionChangedMsg{selection: changed} })
	}

	// Enter submits the form; start a fresh one so the pane stays editable
	if m.form.State == huh.StateCompleted || m.form.State == huh.StateAborted {
		m.buildForm()
		cmds = append(cmds, m.form.Init())
	}

	return m, tea.Batch(cmds...)
}

// sync applies the form's checked values to the selector as toggles, so the
// selector keeps the order backends were picked in. It returns the new
// selection when anything changed.
func (m *BackendPaneModel) sync() []models.BackendID {
	checked := make(map[models.BackendID]bool, len(*m.values))
	for _, v := range *m.values {
		checked[models.BackendID(v)] = true
	}

	changed := false
	for _, id := range m.selector.Selection() {
		if !checked[id] {
			m.selector.Toggle(id)
			changed = true
		}
	}
	for _, v := range *m.values {
		if id := models.BackendID(v); !m.selector.Selected(id) {
			m.selector.Toggle(id)
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return m.selector.Selection()
}

func (m BackendPaneModel) View() string {
	return m.form.View()
}
