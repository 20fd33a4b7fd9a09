package bench

import (
	"fmt"
	"testing"

	"qbench/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCapPolicyLimit(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{count: 0, want: 0},
		{count: 1, want: 1},
		{count: 2, want: 1},
		{count: 3, want: 2},
		{count: 4, want: 2},
		{count: 5, want: 2},
		{count: 6, want: 3},
		{count: 10, want: 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d results", tt.count), func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultCapPolicy.Limit(tt.count))
		})
	}
}

func TestEmptyCapPolicyShowsEverything(t *testing.T) {
	assert.Equal(t, 9, CapPolicy{}.Limit(9))
	assert.Equal(t, 9, CapPolicy(nil).Limit(9))
}

func TestParseCapPolicy(t *testing.T) {
	policy, err := ParseCapPolicy("2:1, 6:3,3:2")
	require.NoError(t, err)
	assert.Equal(t, DefaultCapPolicy, policy)
	assert.Equal(t, "6:3,3:2,2:1", policy.String())

	none, err := ParseCapPolicy("none")
	require.NoError(t, err)
	assert.Equal(t, 7, none.Limit(7))

	for _, bad := range []string{"6", "x:1", "6:y", "0:1", "4:0"} {
		_, err := ParseCapPolicy(bad)
		assert.Error(t, err, bad)
	}
}

func timedCatalog(n int) models.Catalog {
	catalog := make(models.Catalog, 0, n)
	for i := 0; i < n; i++ {
		catalog = append(catalog, models.Backend{ID: models.BackendID(fmt.Sprintf("sim%d", i)), Kind: models.KindTiming})
	}
	return catalog
}

func TestProject_ScenarioC(t *testing.T) {
	catalog := timedCatalog(6)
	raw := make([]*models.BackendResult, 0, 6)
	for i, b := range catalog {
		raw = append(raw, &models.BackendResult{Backend: string(b.ID), Time: f64(float64(i) / 10)})
	}

	points := Project(Reconcile(raw, catalog), DefaultCapPolicy)

	require.Len(t, points, 3)
	for i, p := range points {
		assert.Equal(t, catalog[i].ID, p.Backend.ID)
		assert.Equal(t, float64(i)/10, p.Time)
	}
}

func TestProject_ExcludesFidelityAndUntimedRows(t *testing.T) {
	catalog := models.Catalog{
		{ID: "qiskit", Kind: models.KindTiming},
		{ID: "fidelity-qiskit-cirq", Label: "Fidelity (Qiskit vs Cirq)", Kind: models.KindFidelity},
		{ID: "cirq", Kind: models.KindTiming},
		{ID: "braket", Kind: models.KindTiming},
		{ID: "pennylane", Kind: models.KindTiming},
	}
	raw := []*models.BackendResult{
		{Backend: "qiskit", Time: f64(0.1)},
		{Backend: "fidelity-qiskit-cirq", Time: f64(0.9), Fidelity: f64(0.99)},
		{Backend: "cirq", Error: "timeout"},
		{Backend: "pennylane"},
	}

	points := Project(Reconcile(raw, catalog), nil)

	require.Len(t, points, 1)
	assert.Equal(t, models.BackendID("qiskit"), points[0].Backend.ID)
}

func TestProject_CapCountsFailures(t *testing.T) {
	catalog := timedCatalog(6)
	raw := []*models.BackendResult{
		{Backend: "sim0", Time: f64(1)},
		{Backend: "sim1", Error: "timeout"},
		{Backend: "sim2", Time: f64(3)},
		{Backend: "sim3", Time: f64(4)},
		{Backend: "sim4", Time: f64(5)},
		{Backend: "sim5", Time: f64(6)},
	}

	// six results, one failed -> still three points
	points := Project(Reconcile(raw, catalog), DefaultCapPolicy)
	require.Len(t, points, 3)
	assert.Equal(t, models.BackendID("sim0"), points[0].Backend.ID)
	assert.Equal(t, models.BackendID("sim2"), points[1].Backend.ID)
	assert.Equal(t, models.BackendID("sim3"), points[2].Backend.ID)
}

func TestProject_CapIgnoresMissingAndFidelityRows(t *testing.T) {
	catalog := append(timedCatalog(4), models.Backend{ID: "fid", Kind: models.KindFidelity})
	raw := []*models.BackendResult{
		{Backend: "sim0", Time: f64(1)},
		{Backend: "sim1", Time: f64(2)},
		{Backend: "fid", Fidelity: f64(0.99)},
	}

	// two reported timing rows -> one point; no data and fidelity do not count
	points := Project(Reconcile(raw, catalog), DefaultCapPolicy)
	require.Len(t, points, 1)
	assert.Equal(t, models.BackendID("sim0"), points[0].Backend.ID)
}

func TestProject_FewerTimesThanLimit(t *testing.T) {
	catalog := timedCatalog(3)
	raw := []*models.BackendResult{
		{Backend: "sim0", Error: "x"},
		{Backend: "sim1", Error: "y"},
		{Backend: "sim2", Time: f64(1)},
	}

	points := Project(Reconcile(raw, catalog), DefaultCapPolicy)
	require.Len(t, points, 1)
	assert.Equal(t, models.BackendID("sim2"), points[0].Backend.ID)
}

func TestProject_Empty(t *testing.T) {
	assert.Empty(t, Project(nil, DefaultCapPolicy))
	assert.Empty(t, Project(Reconcile(nil, models.DefaultCatalog()), DefaultCapPolicy))
}
