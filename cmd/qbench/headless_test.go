package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"qbench/bench"
	"qbench/cmd/qbench/internal/config"
	"qbench/models"
	"qbench/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const bellQASM = "OPENQASM 2.0;\ninclude \"qelib1.inc\";\nqreg q[2];\nh q[0];\ncx q[0], q[1];\n"

func writeCircuit(t *testing.T, name string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(bellQASM), 0644))
	return path
}

func testSession(t *testing.T, baseURL string) *session {
	s, err := newSession(&config.Config{
		BaseURL:   baseURL,
		Extension: bench.DefaultExtension,
	}, zap.NewNop())
	require.NoError(t, err)
	return s
}

func benchmarkServer(t *testing.T, body string, got *models.BenchmarkRequest) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, services.RunBenchmarkPath, r.URL.Path)
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRunHeadless_JSONReport(t *testing.T) {
	var req models.BenchmarkRequest
	server := benchmarkServer(t, `[
		{"backend": "Qiskit", "time": 0.1234, "fidelity": 1.0, "statevector": ["(0.7071+0j)", "0j", "0j", "(0.7071+0j)"], "error": 0},
		{"backend": "Cirq", "time": 0, "error": "timeout"}
	]`, &req)

	s := testSession(t, server.URL)
	var out bytes.Buffer
	err := runHeadless(context.Background(), s, headlessOptions{
		File:     writeCircuit(t, "bell.qasm"),
		Backends: []string{"qiskit,cirq"},
		JSON:     true,
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, bellQASM, req.QASM)
	assert.Equal(t, []models.BackendID{"qiskit", "cirq"}, req.Simulators)

	var report reportJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "bell.qasm", report.Circuit)
	require.Len(t, report.Results, len(models.DefaultCatalog()))

	qiskit := report.Results[0]
	assert.Equal(t, "success", qiskit.Status)
	require.NotNil(t, qiskit.Time)
	assert.Equal(t, 0.1234, *qiskit.Time)
	assert.Len(t, qiskit.Statevector, 4)

	assert.Equal(t, "no data", report.Results[1].Status)
	assert.Equal(t, "failure", report.Results[2].Status)
	assert.Equal(t, "timeout", report.Results[2].Error)

	require.Len(t, report.Chart, 1)
	assert.Equal(t, models.BackendID("qiskit"), report.Chart[0].Backend)
}

func TestRunHeadless_TextReport(t *testing.T) {
	server := benchmarkServer(t, `[{"backend": "qiskit", "time": 0.1234}, {"backend": "cirq", "error": "timeout"}]`, nil)

	s := testSession(t, server.URL)
	var out bytes.Buffer
	err := runHeadless(context.Background(), s, headlessOptions{
		File:     writeCircuit(t, "bell.qasm"),
		Backends: []string{"Qiskit", "cirq"},
		Width:    60,
	}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "bell.qasm")
	assert.Contains(t, text, "0.1234")
	assert.Contains(t, text, "timeout")
	assert.Contains(t, text, "No data")
	assert.Contains(t, text, "Execution time")
}

func TestRunHeadless_Rejections(t *testing.T) {
	s := testSession(t, "http://127.0.0.1:1")

	t.Run("wrong extension", func(t *testing.T) {
		err := runHeadless(context.Background(), s, headlessOptions{
			File:     writeCircuit(t, "bell.txt"),
			Backends: []string{"qiskit"},
		}, &bytes.Buffer{})
		var invalid *bench.InvalidFileError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("unknown backend", func(t *testing.T) {
		err := runHeadless(context.Background(), s, headlessOptions{
			File:     writeCircuit(t, "bell.qasm"),
			Backends: []string{"qsim"},
		}, &bytes.Buffer{})
		assert.ErrorContains(t, err, "unknown backend")
	})

	t.Run("no backends", func(t *testing.T) {
		err := runHeadless(context.Background(), s, headlessOptions{
			File: writeCircuit(t, "bell.qasm"),
		}, &bytes.Buffer{})
		var empty *bench.EmptySelectionError
		assert.ErrorAs(t, err, &empty)
	})

	t.Run("no file", func(t *testing.T) {
		err := runHeadless(context.Background(), s, headlessOptions{Backends: []string{"qiskit"}}, &bytes.Buffer{})
		var missing *bench.MissingCircuitError
		assert.ErrorAs(t, err, &missing)
	})
}

func TestRunHeadless_ServiceErrors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		s := testSession(t, "http://127.0.0.1:1")
		err := runHeadless(context.Background(), s, headlessOptions{
			File:     writeCircuit(t, "bell.qasm"),
			Backends: []string{"qiskit"},
		}, &bytes.Buffer{})

		var transportErr *services.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, bench.Idle, s.runner.State())
	})

	t.Run("bad payload", func(t *testing.T) {
		server := benchmarkServer(t, `{"error": "nope"}`, nil)
		s := testSession(t, server.URL)
		err := runHeadless(context.Background(), s, headlessOptions{
			File:     writeCircuit(t, "bell.qasm"),
			Backends: []string{"qiskit"},
		}, &bytes.Buffer{})

		var decodeErr *services.DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})
}
