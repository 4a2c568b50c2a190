package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareNilPrevious(t *testing.T) {
	assert.Nil(t, Compare(Summary{TotalSent: 10}, nil))
}

func TestCompareCoversAllSummaryMetrics(t *testing.T) {
	cur := Summary{TotalSent: 10, TotalOpens: 8, UniqueOpens: 6, TotalClicks: 4, UniqueClicks: 3, Bounces: 2, Unsubscribes: 1, Complaints: 1}
	prev := Summary{TotalSent: 5, TotalOpens: 4, UniqueOpens: 3, TotalClicks: 2, UniqueClicks: 1, Bounces: 1, Unsubscribes: 1, Complaints: 0}

	c := Compare(cur, &prev)
	require.NotNil(t, c)

	for _, metric := range []string{
		"totalSent", "totalOpens", "uniqueOpens", "totalClicks",
		"uniqueClicks", "bounces", "unsubscribes", "complaints",
		"overallOpenRate", "overallClickRate", "overallBounceRate",
		"averageOpenRate", "averageClickRate",
	} {
		_, ok := c.Changes[metric]
		assert.True(t, ok, "missing change for %s", metric)
	}
	assert.Len(t, c.Changes, 13)
}

func TestCompareRateMetrics(t *testing.T) {
	cur := Summary{OverallOpenRate: 30, AverageClickRate: 4}
	prev := Summary{OverallOpenRate: 20, AverageClickRate: 5}

	c := Compare(cur, &prev)
	require.NotNil(t, c)

	// Absolute is percentage points, Percentage is the rate's own change.
	assert.Equal(t, float64(10), c.Changes["overallOpenRate"].Absolute)
	assert.InDelta(t, 50.0, c.Changes["overallOpenRate"].Percentage, 1e-9)
	assert.Equal(t, float64(-1), c.Changes["averageClickRate"].Absolute)
	assert.InDelta(t, -20.0, c.Changes["averageClickRate"].Percentage, 1e-9)
}

func TestCompareDirections(t *testing.T) {
	cur := Summary{TotalSent: 50, Unsubscribes: 1}
	prev := Summary{TotalSent: 100, Unsubscribes: 2}

	c := Compare(cur, &prev)
	require.NotNil(t, c)

	assert.Equal(t, float64(-50), c.Changes["totalSent"].Absolute)
	assert.InDelta(t, -50.0, c.Changes["totalSent"].Percentage, 1e-9)
	assert.Equal(t, float64(-1), c.Changes["unsubscribes"].Absolute)
}

func TestCompareZeroBaselinePolicy(t *testing.T) {
	cur := Summary{Complaints: 3}
	prev := Summary{}

	c := Compare(cur, &prev)
	require.NotNil(t, c)

	// Zero-baseline growth is a flat +100%, never Inf or NaN.
	assert.Equal(t, float64(100), c.Changes["complaints"].Percentage)
	assert.Equal(t, float64(3), c.Changes["complaints"].Absolute)
}
