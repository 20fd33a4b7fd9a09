package main

import (
	"context"
	"errors"
	"testing"

	"qbench/bench"
	"qbench/models"
	"qbench/services"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyDown   = tea.KeyMsg{Type: tea.KeyDown}
	keyUp     = tea.KeyMsg{Type: tea.KeyUp}
	keyToggle = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}
)

func sendKeys(pane BackendPaneModel, keys ...tea.KeyMsg) BackendPaneModel {
	for _, k := range keys {
		pane, _ = pane.Update(k)
	}
	return pane
}

func TestBackendPaneTogglesSelector(t *testing.T) {
	s := testSession(t, "http://127.0.0.1:1")
	pane := NewBackendPaneModel(s.selector)

	// catalog order: qiskit, pennylane, cirq, braket, projectq
	pane = sendKeys(pane, keyDown, keyDown, keyToggle)
	assert.Equal(t, []models.BackendID{"cirq"}, s.selector.Selection())

	pane = sendKeys(pane, keyUp, keyUp, keyToggle)
	assert.Equal(t, []models.BackendID{"cirq", "qiskit"}, s.selector.Selection(), "pick order is kept")

	pane = sendKeys(pane, keyDown, keyDown, keyDown, keyToggle)
	assert.Equal(t, []models.BackendID{"cirq", "qiskit", "braket"}, s.selector.Selection())

	sendKeys(pane, keyUp, keyToggle)
	assert.Equal(t, []models.BackendID{"qiskit", "braket"}, s.selector.Selection())
}

func TestBackendPaneStartsFromSelector(t *testing.T) {
	s := testSession(t, "http://127.0.0.1:1")
	s.selector.SetSelection([]models.BackendID{"braket", "qiskit"})

	pane := NewBackendPaneModel(s.selector)
	assert.Equal(t, []string{"qiskit", "braket"}, *pane.values)

	// an unchanged form leaves the selector order alone
	assert.Nil(t, pane.sync())
	assert.Equal(t, []models.BackendID{"braket", "qiskit"}, s.selector.Selection())

	sendKeys(pane, keyToggle)
	assert.Equal(t, []models.BackendID{"braket"}, s.selector.Selection())
}

func drainSnapshots(m Model) Model {
	for {
		select {
		case snap := <-m.updates:
			next, _ := m.Update(snapshotMsg{snap: snap, ok: true})
			m = next.(Model)
		default:
			return m
		}
	}
}

func TestModelFlashesRunFailure(t *testing.T) {
	server := benchmarkServer(t, `{"error": "nope"}`, nil)
	s := testSession(t, server.URL)
	_, err := s.intake.SubmitPath(writeCircuit(t, "bell.qasm"))
	require.NoError(t, err)
	s.selector.SetSelection([]models.BackendID{"qiskit"})

	m := newModel(s)
	t.Cleanup(m.shutdown)

	next, _ := m.Update(runRequestedMsg{})
	m = next.(Model)
	s.runner.Wait()
	m = drainSnapshots(m)

	assert.Equal(t, bench.Idle, m.snapshot.State)
	assert.Contains(t, m.flash, "Invalid response:")

	next, _ = m.Update(clearRequestedMsg{})
	assert.Empty(t, next.(Model).flash)
}

func TestModelShowsCompletedRun(t *testing.T) {
	server := benchmarkServer(t, `[{"backend": "qiskit", "time": 0.25}]`, nil)
	s := testSession(t, server.URL)
	_, err := s.intake.SubmitPath(writeCircuit(t, "bell.qasm"))
	require.NoError(t, err)
	s.selector.SetSelection([]models.BackendID{"qiskit"})

	m := newModel(s)
	t.Cleanup(m.shutdown)

	next, _ := m.Update(runRequestedMsg{})
	m = next.(Model)
	s.runner.Wait()
	m = drainSnapshots(m)

	assert.Equal(t, bench.Completed, m.snapshot.State)
	assert.Empty(t, m.flash)
	require.Len(t, m.results.rows, len(models.DefaultCatalog()))
	assert.Equal(t, bench.RowSuccess, m.results.rows[0].Status)
}

func TestModelRejectsRunWithoutCircuit(t *testing.T) {
	s := testSession(t, "http://127.0.0.1:1")
	s.selector.SetSelection([]models.BackendID{"qiskit"})

	m := newModel(s)
	t.Cleanup(m.shutdown)

	next, _ := m.Update(runRequestedMsg{})
	assert.NotEmpty(t, next.(Model).flash)
	assert.Equal(t, bench.Idle, s.runner.State())
}

func TestModelFlashesRejectedCircuit(t *testing.T) {
	s := testSession(t, "http://127.0.0.1:1")
	m := newModel(s)
	t.Cleanup(m.shutdown)

	_, err := s.intake.SubmitPath(writeCircuit(t, "bell.txt"))
	require.Error(t, err)

	next, _ := m.Update(circuitLoadedMsg{err: err})
	assert.Equal(t, err.Error(), next.(Model).flash)
}

func TestDescribeRunError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "none", err: nil, want: ""},
		{
			name: "transport",
			err:  &services.TransportError{Op: "run benchmark", StatusCode: 502},
			want: "Request failed: run benchmark: service returned status 502",
		},
		{
			name: "decode",
			err:  &services.DecodeError{Reason: "not a list"},
			want: "Invalid response: failed to decode response: not a list",
		},
		{name: "other", err: errors.New("boom"), want: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeRunError(tt.err))
		})
	}
}

func TestModelQuitClosesSubscription(t *testing.T) {
	s := testSession(t, "http://127.0.0.1:1")
	m := newModel(s)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).quitting)

	_, ok := <-m.updates
	assert.False(t, ok)
	assert.ErrorIs(t, m.ctx.Err(), context.Canceled)
}
