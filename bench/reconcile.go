package bench

import (
	"strconv"

	"qbench/models"
)

// StatevectorPreviewLen is how many amplitudes a row shows
const StatevectorPreviewLen = 4

const numericPrecision = 4

// RowStatus tags what a display row carries
type RowStatus int

const (
	// RowNoData means the service returned nothing for the backend
	RowNoData RowStatus = iota
	RowSuccess
	RowFailure
)

func (s RowStatus) String() string {
	switch s {
	case RowSuccess:
		return "success"
	case RowFailure:
		return "failure"
	default:
		return "no data"
	}
}

// DisplayRow is one backend's reconciled outcome
type DisplayRow struct {
	Backend models.Backend
	Status  RowStatus
	Result  *models.BackendResult
}

// Time returns the execution time if the row has one
func (r DisplayRow) Time() (float64, bool) {
	if r.Status != RowSuccess || r.Result.Time == nil {
		return 0, false
	}
	return *r.Result.Time, true
}

// TimeText renders the time with fixed precision
func (r DisplayRow) TimeText() string {
	t, ok := r.Time()
	if !ok {
		return "n/a"
	}
	return strconv.FormatFloat(t, 'f', numericPrecision, 64)
}

// FidelityText renders the fidelity with fixed precision
func (r DisplayRow) FidelityText() string {
	if r.Status != RowSuccess || r.Result.Fidelity == nil {
		return "Not Available"
	}
	return strconv.FormatFloat(*r.Result.Fidelity, 'f', numericPrecision, 64)
}

// ErrorText returns the failure message, or "No data" for a missing backend
func (r DisplayRow) ErrorText() string {
	switch r.Status {
	case RowFailure:
		return r.Result.Error
	case RowNoData:
		return "No data"
	default:
		return ""
	}
}

// Statevector returns the full statevector of a successful row
func (r DisplayRow) Statevector() []models.Amplitude {
	if r.Status != RowSuccess {
		return nil
	}
	return r.Result.Statevector
}

// StatevectorPreview returns at most StatevectorPreviewLen leading amplitudes.
// The underlying result is not modified.
func (r DisplayRow) StatevectorPreview() []models.Amplitude {
	vec := r.Statevector()
	if len(vec) > StatevectorPreviewLen {
		vec = vec[:StatevectorPreviewLen]
	}
	out := make([]models.Amplitude, len(vec))
	copy(out, vec)
	return out
}

// Reconcile aligns raw results with the catalog display order. It always
// returns exactly one row per catalog entry. Entries are matched by backend
// name only; the first raw entry for a backend wins.
func Reconcile(raw []*models.BackendResult, order models.Catalog) []DisplayRow {
	rows := make([]DisplayRow, 0, len(order))
	for _, backend := range order {
		row := DisplayRow{Backend: backend, Status: RowNoData}
		for _, res := range raw {
			if res == nil || !backend.Matches(res.Backend) {
				continue
			}
			row.Result = res
			if res.Failed() {
				row.Status = RowFailure
			} else {
				row.Status = RowSuccess
			}
			break
		}
		rows = append(rows, row)
	}
	return rows
}

// Unmatched returns raw entries that name no catalog backend
func Unmatched(raw []*models.BackendResult, order models.Catalog) []*models.BackendResult {
	var out []*models.BackendResult
	for _, res := range raw {
		if res == nil {
			continue
		}
		if _, ok := order.Match(res.Backend); !ok {
			out = append(out, res)
		}
	}
	return out
}
