package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow() *AggregateRow {
	return &AggregateRow{
		TotalSent:    1000,
		TotalOpens:   420,
		UniqueOpens:  200,
		TotalClicks:  90,
		UniqueClicks: 50,
		Unsubscribes: 4,
		Bounces:      30,
		Complaints:   1,
		AvgOpenRate:  21.5,
		AvgClickRate: 4.8,
		TimeSeries: []RawTimePoint{
			{Timestamp: "2024-01-01T00:00:00Z", Metric: "opens", Value: 12},
			{Timestamp: "2024-01-02T00:00:00Z", Metric: "opens", Value: 30},
		},
		Campaigns: []RawCampaignStat{
			{CampaignID: "c-1", CampaignName: "January Promo", Sent: 400, Opens: 200, UniqueOpens: 100, Clicks: 40, UniqueClicks: 20, Bounces: 8, Unsubscribes: 2},
			{CampaignID: "c-2", CampaignName: "Newsletter #12", Sent: 600, Opens: 220, UniqueOpens: 100, Clicks: 50, UniqueClicks: 30, Bounces: 22, Unsubscribes: 2},
		},
		Devices: []RawDimensionStat{
			{Device: "mobile", Count: 45},
			{Device: "desktop", Count: 55},
		},
		Locations: []RawDimensionStat{
			{Location: "US", Count: 80},
			{Location: "DE", Count: 20},
		},
		Browsers: []RawDimensionStat{
			{Browser: "chrome", Count: 70},
			{Browser: "safari", Count: 30},
		},
		LinkClicks: []RawLinkStat{
			{LinkID: "l-1", URL: "https://shop.example/sale", Clicks: 60, UniqueClicks: 40},
			{LinkID: "l-2", URL: "https://shop.example/new", Clicks: 30, UniqueClicks: 10},
		},
		TimeOfDay: []RawHourStat{{Hour: 9, Opens: 50, Clicks: 10}, {Hour: 14, Opens: 80, Clicks: 20}},
		DayOfWeek: []RawDayStat{{Day: "Monday", Opens: 120, Clicks: 25}},
	}
}

func TestTransformSummaryRates(t *testing.T) {
	report := Transform(sampleRow(), nil)

	s := report.Summary
	assert.Equal(t, int64(1000), s.TotalSent)
	// Overall rates derive from unique counts over sent.
	assert.Equal(t, 20.0, s.OverallOpenRate)
	assert.Equal(t, 5.0, s.OverallClickRate)
	assert.Equal(t, 3.0, s.OverallBounceRate)
	// Average rates pass through exactly as the backend supplied them,
	// even when they disagree with the overall rates.
	assert.Equal(t, 21.5, s.AverageOpenRate)
	assert.Equal(t, 4.8, s.AverageClickRate)
}

func TestTransformNoComparisonWithoutPrevious(t *testing.T) {
	report := Transform(sampleRow(), nil)
	assert.Nil(t, report.Comparison)
}

func TestTransformComparisonZeroBaseline(t *testing.T) {
	prev := &AggregateRow{} // previous period had no sends at all
	report := Transform(sampleRow(), prev)

	require.NotNil(t, report.Comparison)
	change := report.Comparison.Changes["totalSent"]
	assert.Equal(t, float64(1000), change.Absolute)
	assert.Equal(t, float64(100), change.Percentage)
}

func TestTransformComparisonDeltas(t *testing.T) {
	prev := sampleRow()
	prev.TotalSent = 800
	prev.UniqueOpens = 100

	report := Transform(sampleRow(), prev)
	require.NotNil(t, report.Comparison)

	sent := report.Comparison.Changes["totalSent"]
	assert.Equal(t, float64(200), sent.Absolute)
	assert.InDelta(t, 25.0, sent.Percentage, 1e-9)

	opens := report.Comparison.Changes["uniqueOpens"]
	assert.Equal(t, float64(100), opens.Absolute)
	assert.InDelta(t, 100.0, opens.Percentage, 1e-9)

	assert.Equal(t, int64(800), report.Comparison.PreviousPeriod.TotalSent)
}

func TestTransformBreakdownNormalizedWithinList(t *testing.T) {
	report := Transform(sampleRow(), nil)

	require.Len(t, report.DeviceBreakdown, 2)
	assert.Equal(t, "mobile", report.DeviceBreakdown[0].Label)
	assert.Equal(t, 45.0, report.DeviceBreakdown[0].Percentage)
	assert.Equal(t, "desktop", report.DeviceBreakdown[1].Label)
	assert.Equal(t, 55.0, report.DeviceBreakdown[1].Percentage)

	// Normalized against the list's own total (100), not total sent (1000).
	require.Len(t, report.LocationBreakdown, 2)
	assert.Equal(t, 80.0, report.LocationBreakdown[0].Percentage)
	assert.Equal(t, 20.0, report.LocationBreakdown[1].Percentage)
}

func TestTransformLinkClickRateOverUniqueOpens(t *testing.T) {
	report := Transform(sampleRow(), nil)

	require.Len(t, report.LinkClicks, 2)
	// 40 unique clicks out of 200 unique opens.
	assert.Equal(t, 20.0, report.LinkClicks[0].ClickRate)
	// 10 out of 200.
	assert.Equal(t, 5.0, report.LinkClicks[1].ClickRate)
}

func TestTransformCampaignRatesOverOwnSent(t *testing.T) {
	report := Transform(sampleRow(), nil)

	require.Len(t, report.CampaignPerformance, 2)
	c1 := report.CampaignPerformance[0]
	assert.Equal(t, "c-1", c1.CampaignID)
	assert.Equal(t, 25.0, c1.OpenRate)  // 100/400
	assert.Equal(t, 5.0, c1.ClickRate)  // 20/400
	assert.Equal(t, 2.0, c1.BounceRate) // 8/400
	assert.Equal(t, 0.5, c1.UnsubscribeRate)

	c2 := report.CampaignPerformance[1]
	assert.InDelta(t, 16.67, c2.OpenRate, 1e-9) // 100/600
}

func TestTransformPreservesRowOrder(t *testing.T) {
	report := Transform(sampleRow(), nil)

	var ids []string
	for _, c := range report.CampaignPerformance {
		ids = append(ids, c.CampaignID)
	}
	assert.Equal(t, []string{"c-1", "c-2"}, ids)

	var labels []string
	for _, b := range report.BrowserBreakdown {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"chrome", "safari"}, labels)
}

func TestTransformEmptyRow(t *testing.T) {
	report := Transform(&AggregateRow{}, nil)

	assert.NotNil(t, report.TimeSeries)
	assert.NotNil(t, report.CampaignPerformance)
	assert.NotNil(t, report.DeviceBreakdown)
	assert.NotNil(t, report.LocationBreakdown)
	assert.NotNil(t, report.BrowserBreakdown)
	assert.NotNil(t, report.LinkClicks)
	assert.NotNil(t, report.TimeOfDay)
	assert.NotNil(t, report.DayOfWeek)

	assert.Empty(t, report.TimeSeries)
	assert.Empty(t, report.DeviceBreakdown)
	assert.Zero(t, report.Summary.OverallOpenRate)
	assert.Zero(t, report.Summary.OverallClickRate)
	assert.Zero(t, report.Summary.OverallBounceRate)
}

func TestTransformNilCurrentTreatedAsZero(t *testing.T) {
	report := Transform(nil, nil)

	assert.Zero(t, report.Summary.TotalSent)
	assert.Empty(t, report.CampaignPerformance)
	assert.Nil(t, report.Comparison)
}

func TestTransformIdempotent(t *testing.T) {
	first := Transform(sampleRow(), sampleRow())
	second := Transform(sampleRow(), sampleRow())
	assert.Equal(t, first, second)
}
