// Package main provides the QBench terminal client.
//
// The interactive view is split into three panes: the circuit pane loads a
// QASM file, the backend pane picks simulators, and the results pane shows
// the reconciled cards and the execution time chart. Run state comes from
// the bench.Runner through a snapshot subscription.
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"qbench/bench"
	"qbench/cmd/qbench/internal/ui/components"
	"qbench/services"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type Pane int

const (
	PaneCircuit Pane = iota
	PaneBackends
	PaneResults
	paneCount
)

func (p Pane) String() string {
	switch p {
	case PaneCircuit:
		return "Circuit"
	case PaneBackends:
		return "Simulators"
	default:
		return "Results"
	}
}

type snapshotMsg struct {
	snap bench.Snapshot
	ok   bool
}

type runRequestedMsg struct{}

type clearRequestedMsg struct{}

// waitForSnapshot blocks until the runner publishes again
func waitForSnapshot(updates <-chan bench.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		return snapshotMsg{snap: snap, ok: ok}
	}
}

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Run   key.Binding
	Clear key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Run, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.Run, k.Clear, k.Quit}}
}

var defaultKeys = keyMap{
	Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
	Prev:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous pane")),
	Run:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run benchmark")),
	Clear: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear results")),
	Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

var (
	qbMagenta = lipgloss.Color("#7D56F4")
	qbGray    = lipgloss.Color("#888888")
	qbRed     = lipgloss.Color("#FF5F87")
	qbGreen   = lipgloss.Color("#04B575")

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			MarginLeft(2)
	focusedPaneStyle = paneStyle.BorderForeground(qbMagenta)
	paneTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(qbMagenta)
	statusStyle      = lipgloss.NewStyle().Foreground(qbGray).MarginLeft(2)
	errorStyle       = lipgloss.NewStyle().Foreground(qbRed).MarginLeft(2)
	helpStyle        = lipgloss.NewStyle().MarginLeft(2).MarginTop(1)
)

type Model struct {
	session *session
	ctx     context.Context
	cancel  context.CancelFunc
	updates <-chan bench.Snapshot
	unsub   func()

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	focus    Pane
	circuit  CircuitPaneModel
	backends BackendPaneModel
	results  ResultsPaneModel

	snapshot bench.Snapshot
	flash    string
	width    int
	quitting bool
}

func newModel(s *session) Model {
	ctx, cancel := context.WithCancel(context.Background())
	updates, unsub := s.runner.Subscribe()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		session:  s,
		ctx:      ctx,
		cancel:   cancel,
		updates:  updates,
		unsub:    unsub,
		keys:     defaultKeys,
		help:     help.New(),
		spinner:  sp,
		focus:    PaneCircuit,
		circuit:  NewCircuitPaneModel(s.intake, s.logger),
		backends: NewBackendPaneModel(s.selector),
		results:  NewResultsPaneModel(s.catalog, s.capping),
		snapshot: s.runner.Snapshot(),
		width:    100,
	}
	m.circuit.Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.circuit.Init(),
		m.backends.Init(),
		waitForSnapshot(m.updates),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case snapshotMsg:
		if !msg.ok {
			return m, nil
		}
		wasRunning := m.snapshot.State == bench.Running
		m.snapshot = msg.snap
		m.results.SetSnapshot(msg.snap, m.session.rows(msg.snap))
		if msg.snap.State == bench.Running && !wasRunning {
			cmds = append(cmds, m.spinner.Tick)
		}
		if msg.snap.State == bench.Failed {
			m.flash = describeRunError(msg.snap.Err)
		}
		cmds = append(cmds, waitForSnapshot(m.updates))
		return m, tea.Batch(cmds...)

	case circuitLoadedMsg:
		if msg.err != nil {
			m.flash = msg.err.Error()
		} else {
			m.flash = ""
			m.session.runner.Notify()
		}

	case selectionChangedMsg:
		m.session.runner.Notify()

	case runRequestedMsg:
		return m.startRun()

	case clearRequestedMsg:
		m.flash = ""
		m.session.runner.ClearResults()
		return m, nil

	case spinner.TickMsg:
		if m.snapshot.State != bench.Running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.shutdown()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Run):
			return m.startRun()
		case key.Matches(msg, m.keys.Clear):
			m.flash = ""
			m.session.runner.ClearResults()
			return m, nil
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % paneCount)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus((m.focus + paneCount - 1) % paneCount)
		}
		if m.focus == PaneResults && msg.String() == "q" {
			m.quitting = true
			m.shutdown()
			return m, tea.Quit
		}
		return m, m.updateFocused(msg)
	}

	// Non-key messages reach every pane
	var cmd tea.Cmd
	m.circuit, cmd = m.circuit.Update(msg)
	cmds = append(cmds, cmd)
	m.backends, cmd = m.backends.Update(msg)
	cmds = append(cmds, cmd)
	m.results, cmd = m.results.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocused(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case PaneCircuit:
		m.circuit, cmd = m.circuit.Update(msg)
	case PaneBackends:
		m.backends, cmd = m.backends.Update(msg)
	case PaneResults:
		m.results, cmd = m.results.Update(msg)
	}
	return cmd
}

func (m *Model) setFocus(p Pane) tea.Cmd {
	m.circuit.Blur()
	m.focus = p
	if p == PaneCircuit {
		return m.circuit.Focus()
	}
	return nil
}

func (m Model) startRun() (tea.Model, tea.Cmd) {
	if err := m.session.runner.RunBenchmark(m.ctx); err != nil {
		m.flash = err.Error()
		return m, nil
	}
	m.flash = ""
	return m, nil
}

func (m *Model) shutdown() {
	m.cancel()
	m.unsub()
}

// describeRunError prefixes a run failure with its kind
func describeRunError(err error) string {
	var transportErr *services.TransportError
	var decodeErr *services.DecodeError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &decodeErr):
		return fmt.Sprintf("Invalid response: %s", err.Error())
	case errors.As(err, &transportErr):
		return fmt.Sprintf("Request failed: %s", err.Error())
	default:
		return err.Error()
	}
}

func (m Model) statusLine() string {
	snap := m.snapshot
	switch snap.State {
	case bench.Running:
		return statusStyle.Render(fmt.Sprintf("%s Running %d simulator(s)...", m.spinner.View(), len(snap.Request.Backends)))
	case bench.Completed:
		return statusStyle.Foreground(qbGreen).Render(fmt.Sprintf("✓ Completed in %s", snap.Elapsed().Round(time.Millisecond)))
	}
	switch snap.Readiness {
	case bench.AwaitingCircuit:
		return statusStyle.Render(fmt.Sprintf("Load a %s circuit to begin", m.session.intake.Extension()))
	case bench.AwaitingSelection:
		return statusStyle.Render("Select at least one simulator")
	default:
		return statusStyle.Render("Ready · press ctrl+r to run")
	}
}

func (m Model) View() string {
	if m.quitting {
		return "bye!\n"
	}

	paneWidth := max(m.width-6, 40)

	render := func(p Pane, body string) string {
		style := paneStyle
		if m.focus == p {
			style = focusedPaneStyle
		}
		return style.Width(paneWidth).Render(paneTitleStyle.Render(p.String()) + "\n" + body)
	}

	var content strings.Builder
	content.WriteString(components.RenderHeader(m.session.client.GetBaseURL()))
	content.WriteString(render(PaneCircuit, m.circuit.View()))
	content.WriteString("\n")
	content.WriteString(render(PaneBackends, m.backends.View()))
	content.WriteString("\n")
	content.WriteString(render(PaneResults, m.results.View(paneWidth-4)))
	content.WriteString("\n")
	content.WriteString(m.statusLine())
	if m.flash != "" {
		content.WriteString("\n")
		content.WriteString(errorStyle.Render("❌ " + m.flash))
	}
	content.WriteString("\n")
	content.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return content.String()
}

func runInteractive(s *session) error {
	m := newModel(s)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()
	s.runner.Wait()
	if err != nil {
		s.logger.Error("program exited with error", zap.Error(err))
		return fmt.Errorf("could not run program: %w", err)
	}
	return nil
}
