package models

import (
	"encoding/json"
	"testing"
)

func TestBackendResultUnmarshal(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantFailed bool
		wantError  string
		wantTime   *float64
		wantVecLen int
	}{
		{
			name:     "success with time",
			input:    `{"backend":"qiskit","time":0.1234}`,
			wantTime: f64(0.1234),
		},
		{
			name:       "failure",
			input:      `{"backend":"cirq","error":"timeout"}`,
			wantFailed: true,
			wantError:  "timeout",
		},
		{
			name:       "zero-filled error column is not a failure",
			input:      `{"backend":"Qiskit","time":0.5,"error":0,"statevector":["(0.7071067811865475+0j)","0j"]}`,
			wantTime:   f64(0.5),
			wantVecLen: 2,
		},
		{
			name:       "failure drops zero-filled timing columns",
			input:      `{"backend":"Cirq","time":0,"statevector":0,"error":"bad qasm"}`,
			wantFailed: true,
			wantError:  "bad qasm",
		},
		{
			name:  "empty error string is not a failure",
			input: `{"backend":"qiskit","error":""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r BackendResult
			if err := json.Unmarshal([]byte(tt.input), &r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if r.Failed() != tt.wantFailed {
				t.Errorf("expected Failed()=%v, got %v", tt.wantFailed, r.Failed())
			}
			if r.Error != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, r.Error)
			}
			if tt.wantTime == nil && r.Time != nil {
				t.Errorf("expected no time, got %v", *r.Time)
			}
			if tt.wantTime != nil && (r.Time == nil || *r.Time != *tt.wantTime) {
				t.Errorf("expected time %v, got %v", *tt.wantTime, r.Time)
			}
			if len(r.Statevector) != tt.wantVecLen {
				t.Errorf("expected %d amplitudes, got %d", tt.wantVecLen, len(r.Statevector))
			}
		})
	}
}

func TestAmplitudeForms(t *testing.T) {
	var vec []Amplitude
	input := `["(0.5+0.5j)", 1, [0.5, -0.5], {"real": 0, "imag": 1}, {"re": 0.25, "im": 0}]`
	if err := json.Unmarshal([]byte(input), &vec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []complex128{complex(0.5, 0.5), 1, complex(0.5, -0.5), complex(0, 1), 0.25}
	if len(vec) != len(want) {
		t.Fatalf("expected %d amplitudes, got %d", len(want), len(vec))
	}
	for i, a := range vec {
		c, ok := a.Complex()
		if !ok {
			t.Errorf("amplitude %d (%q) did not parse", i, a)
			continue
		}
		if c != want[i] {
			t.Errorf("amplitude %d: expected %v, got %v", i, want[i], c)
		}
	}
}

func TestAmplitudeRejectsBadPair(t *testing.T) {
	var a Amplitude
	if err := json.Unmarshal([]byte(`[1, 2, 3]`), &a); err == nil {
		t.Error("expected error for three element pair")
	}
}

func TestFormatComplex(t *testing.T) {
	if got := FormatComplex(complex(0.5, -0.25)); got != "(0.5-0.25j)" {
		t.Errorf("expected (0.5-0.25j), got %s", got)
	}
	if got := FormatComplex(complex(1, 0)); got != "(1+0j)" {
		t.Errorf("expected (1+0j), got %s", got)
	}
}

func f64(v float64) *float64 { return &v }
