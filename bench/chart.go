package bench

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"qbench/models"
)

// ChartPoint is one bar of the execution time chart
type ChartPoint struct {
	Backend models.Backend
	Time    float64
}

// CapRule shows at most Show points once MinCount points are available
type CapRule struct {
	MinCount int
	Show     int
}

// CapPolicy limits how many points the chart shows for a given count.
// Rules are ordered by descending MinCount; the first rule that applies wins.
// A count below every rule is shown in full.
type CapPolicy []CapRule

// DefaultCapPolicy roughly halves the chart when it gets crowded
var DefaultCapPolicy = CapPolicy{
	{MinCount: 6, Show: 3},
	{MinCount: 3, Show: 2},
	{MinCount: 2, Show: 1},
}

// Limit returns how many of n points are displayed
func (p CapPolicy) Limit(n int) int {
	if n < 0 {
		return 0
	}
	for _, rule := range p {
		if n >= rule.MinCount {
			return min(rule.Show, n)
		}
	}
	return n
}

// String renders the policy as "6:3,3:2,2:1"
func (p CapPolicy) String() string {
	parts := make([]string, 0, len(p))
	for _, rule := range p {
		parts = append(parts, fmt.Sprintf("%d:%d", rule.MinCount, rule.Show))
	}
	return strings.Join(parts, ",")
}

// ParseCapPolicy parses "count:show" pairs separated by commas. The empty
// string and "none" both mean no cap.
func ParseCapPolicy(s string) (CapPolicy, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return CapPolicy{}, nil
	}

	var policy CapPolicy
	for _, part := range strings.Split(s, ",") {
		count, show, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid cap rule %q, want count:show", part)
		}
		minCount, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || minCount < 1 {
			return nil, fmt.Errorf("invalid cap rule %q: count must be a positive number", part)
		}
		limit, err := strconv.Atoi(strings.TrimSpace(show))
		if err != nil || limit < 1 {
			return nil, fmt.Errorf("invalid cap rule %q: show must be a positive number", part)
		}
		policy = append(policy, CapRule{MinCount: minCount, Show: limit})
	}

	sort.SliceStable(policy, func(i, j int) bool {
		return policy[i].MinCount > policy[j].MinCount
	})
	return policy, nil
}

// Project derives the execution time series from reconciled rows. The cap
// is taken from the number of charted backends that returned a result,
// failures included. The first that many rows carrying a time become points,
// in display order.
func Project(rows []DisplayRow, policy CapPolicy) []ChartPoint {
	reported := 0
	for _, row := range rows {
		if row.Backend.Timed() && row.Status != RowNoData {
			reported++
		}
	}
	limit := policy.Limit(reported)

	points := make([]ChartPoint, 0, limit)
	for _, row := range rows {
		if len(points) == limit {
			break
		}
		if !row.Backend.Timed() {
			continue
		}
		if t, ok := row.Time(); ok {
			points = append(points, ChartPoint{Backend: row.Backend, Time: t})
		}
	}
	return points
}
