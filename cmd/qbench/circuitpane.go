package main

import (
	"fmt"
	"os"
	"strings"

	"qbench/bench"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const (
	pickerHeight  = 8
	previewHeight = 10

	// filepicker reserves this many rows below its listing
	pickerMarginBottom = 5
)

type circuitMode int

const (
	modeDrop circuitMode = iota
	modePicker
)

type circuitLoadedMsg struct {
	src bench.CircuitSource
	err error
}

// loadCircuitPath reads a file chosen in the picker
func loadCircuitPath(intake *bench.Intake, path string) tea.Cmd {
	return func() tea.Msg {
		src, err := intake.SubmitPath(path)
		return circuitLoadedMsg{src: src, err: err}
	}
}

// loadCircuitDrop reads a path pasted or dropped into the terminal
func loadCircuitDrop(intake *bench.Intake, text string) tea.Cmd {
	return func() tea.Msg {
		src, err := intake.SubmitDrop(text)
		return circuitLoadedMsg{src: src, err: err}
	}
}

var (
	toggleModeKey = key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "browse files"))
	submitDropKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load path"))

	circuitMetaStyle = lipgloss.NewStyle().Foreground(qbGray)
	circuitHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

type CircuitPaneModel struct {
	intake  *bench.Intake
	logger  *zap.Logger
	mode    circuitMode
	focused bool

	drop    textinput.Model
	picker  filepicker.Model
	preview viewport.Model
	width   int

	source  bench.CircuitSource
	loading bool
}

func NewCircuitPaneModel(intake *bench.Intake, logger *zap.Logger) CircuitPaneModel {
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("Drop or paste a %s file path here", intake.Extension())
	ti.Prompt = "› "
	ti.CharLimit = 4096
	ti.Width = 72

	fp := filepicker.New()
	fp.ShowHidden = false
	fp.AutoHeight = true
	if cwd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = cwd
	}

	vp := viewport.New(76, previewHeight)

	return CircuitPaneModel{
		intake:  intake,
		logger:  logger,
		mode:    modeDrop,
		drop:    ti,
		picker:  fp,
		preview: vp,
		width:   80,
		source:  intake.Circuit(),
	}
}

func (m CircuitPaneModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.picker.Init())
}

func (m *CircuitPaneModel) Focus() tea.Cmd {
	m.focused = true
	if m.mode == modeDrop {
		return m.drop.Focus()
	}
	return nil
}

func (m *CircuitPaneModel) Blur() {
	m.focused = false
	m.drop.Blur()
}

func (m CircuitPaneModel) Update(msg tea.Msg) (CircuitPaneModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-10, 40)
		m.drop.Width = m.width - 4
		m.preview.Width = m.width
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(tea.WindowSizeMsg{Width: m.width, Height: pickerHeight + pickerMarginBottom})
		m.renderPreview()
		return m, cmd

	case circuitLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Debug("circuit rejected", zap.Error(msg.err))
			return m, nil
		}
		m.source = msg.src
		m.drop.SetValue("")
		m.mode = modeDrop
		if m.focused {
			m.drop.Focus()
		}
		m.renderPreview()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, toggleModeKey) {
			if m.mode == modeDrop {
				m.mode = modePicker
				m.drop.Blur()
				return m, m.picker.Init()
			}
			m.mode = modeDrop
			return m, m.drop.Focus()
		}

		if m.mode == modeDrop {
			if key.Matches(msg, submitDropKey) && strings.TrimSpace(m.drop.Value()) != "" {
				m.loading = true
				return m, loadCircuitDrop(m.intake, m.drop.Value())
			}
			switch msg.String() {
			case "up", "down", "pgup", "pgdown":
				var cmd tea.Cmd
				m.preview, cmd = m.preview.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.drop, cmd = m.drop.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
			m.loading = true
			return m, tea.Batch(cmd, loadCircuitPath(m.intake, path))
		}
		return m, cmd
	}

	// Directory listings and cursor blinks
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	m.drop, cmd = m.drop.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// renderPreview renders the loaded source as a highlighted code block
func (m *CircuitPaneModel) renderPreview() {
	if m.source.Empty() {
		m.preview.SetContent("")
		return
	}

	md := "```qasm\n" + strings.TrimRight(m.source.Text, "\n") + "\n```\n"
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.width),
	)
	if err != nil {
		m.preview.SetContent(m.source.Text)
		return
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		m.preview.SetContent(m.source.Text)
		return
	}
	m.preview.SetContent(rendered)
	m.preview.GotoTop()
}

func (m CircuitPaneModel) View() string {
	var content strings.Builder

	if m.source.Empty() {
		content.WriteString(circuitMetaStyle.Render("No circuit loaded"))
	} else {
		content.WriteString(circuitMetaStyle.Render(fmt.Sprintf("%s · %s · loaded %s",
			m.source.Name,
			humanize.Bytes(uint64(m.source.Size)),
			humanize.Time(m.source.LoadedAt),
		)))
	}
	content.WriteString("\n\n")

	switch m.mode {
	case modePicker:
		content.WriteString(m.picker.View())
		content.WriteString("\n")
		content.WriteString(circuitHintStyle.Render("enter: open • ←/→: navigate • ctrl+f: type a path"))
	default:
		content.WriteString(m.drop.View())
		content.WriteString("\n")
		content.WriteString(circuitHintStyle.Render("enter: load • ctrl+f: browse files"))
	}

	if m.loading {
		content.WriteString("\n")
		content.WriteString(circuitMetaStyle.Render("Reading file..."))
	}

	if !m.source.Empty() {
		content.WriteString("\n")
		content.WriteString(m.preview.View())
	}

	return content.String()
}
