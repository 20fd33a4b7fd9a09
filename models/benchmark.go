// Package models provides the wire structures exchanged with the benchmark service.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BenchmarkRequest is the body of POST /api/run-benchmark
type BenchmarkRequest struct {
	QASM       string      `json:"qasm"`
	Simulators []BackendID `json:"simulators"`
}

// BackendResult is one per-backend outcome. A non-empty Error marks a failure;
// otherwise the timing fields describe a successful run.
type BackendResult struct {
	Backend     string      `json:"backend"`
	Time        *float64    `json:"time,omitempty"`
	Fidelity    *float64    `json:"fidelity,omitempty"`
	Statevector []Amplitude `json:"statevector,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// Failed reports whether the backend returned an error instead of results
func (r *BackendResult) Failed() bool {
	return r.Error != ""
}

// UnmarshalJSON decodes a result entry. The service fills absent columns
// with 0, so only a non-empty string counts as an error.
func (r *BackendResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Backend     string          `json:"backend"`
		Time        *float64        `json:"time"`
		Fidelity    *float64        `json:"fidelity"`
		Statevector json.RawMessage `json:"statevector"`
		Error       json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = BackendResult{
		Backend:  raw.Backend,
		Time:     raw.Time,
		Fidelity: raw.Fidelity,
	}

	if vec := bytes.TrimSpace(raw.Statevector); len(vec) > 0 && vec[0] == '[' {
		if err := json.Unmarshal(vec, &r.Statevector); err != nil {
			return fmt.Errorf("invalid statevector: %w", err)
		}
	}

	if len(raw.Error) > 0 && raw.Error[0] == '"' {
		var msg string
		if err := json.Unmarshal(raw.Error, &msg); err != nil {
			return fmt.Errorf("invalid error field: %w", err)
		}
		r.Error = msg
	}
	if r.Failed() {
		r.Time = nil
		r.Fidelity = nil
		r.Statevector = nil
	}
	return nil
}

// Amplitude is one statevector element kept in its textual form
type Amplitude string

// UnmarshalJSON accepts strings like "(0.7071+0j)", plain numbers,
// [re, im] pairs and {"real": re, "imag": im} objects.
func (a *Amplitude) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty amplitude")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amplitude(s)
		return nil
	case '[':
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return fmt.Errorf("invalid amplitude pair: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("amplitude pair has %d elements, want 2", len(pair))
		}
		*a = FormatComplex(complex(pair[0], pair[1]))
		return nil
	case '{':
		var obj struct {
			Real *float64 `json:"real"`
			Imag *float64 `json:"imag"`
			Re   *float64 `json:"re"`
			Im   *float64 `json:"im"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("invalid amplitude object: %w", err)
		}
		re, im := firstOf(obj.Real, obj.Re), firstOf(obj.Imag, obj.Im)
		*a = FormatComplex(complex(re, im))
		return nil
	case 'n':
		*a = ""
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("invalid amplitude: %w", err)
		}
		*a = Amplitude(strconv.FormatFloat(f, 'g', -1, 64))
		return nil
	}
}

// Complex parses the amplitude. Python style "j" suffixes are accepted.
func (a Amplitude) Complex() (complex128, bool) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, "j", "i")
	c, err := strconv.ParseComplex(s, 128)
	if err != nil {
		return 0, false
	}
	return c, true
}

// String returns the textual form
func (a Amplitude) String() string {
	return string(a)
}

// FormatComplex renders c the way the service renders amplitudes, e.g. "(0.5-0.5j)"
func FormatComplex(c complex128) Amplitude {
	re := strconv.FormatFloat(real(c), 'g', -1, 64)
	im := strconv.FormatFloat(imag(c), 'g', -1, 64)
	if !strings.HasPrefix(im, "-") {
		im = "+" + im
	}
	return Amplitude("(" + re + im + "j)")
}

func firstOf(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}
