package analytics

import (
	"fmt"
	"time"
)

// GroupBy is the time-bucket granularity for aggregate queries.
type GroupBy string

const (
	GroupByHour  GroupBy = "hour"
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

// Valid reports whether g is a known granularity.
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByHour, GroupByDay, GroupByWeek, GroupByMonth:
		return true
	}
	return false
}

// dateLayout is the wire format for report date bounds.
const dateLayout = "2006-01-02"

// DateRange is an inclusive ISO-date window.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Parse returns the window bounds as times, validating the format
// and ordering.
func (d DateRange) Parse() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, d.Start)
	if err != nil {
		return start, end, fmt.Errorf("invalid start date %q: %w", d.Start, err)
	}
	end, err = time.Parse(dateLayout, d.End)
	if err != nil {
		return start, end, fmt.Errorf("invalid end date %q: %w", d.End, err)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("date range end %s before start %s", d.End, d.Start)
	}
	return start, end, nil
}

// ReportFilter holds the active report scope. It is owned by the consuming
// view; the pipeline treats it as read-only.
type ReportFilter struct {
	CampaignIDs     []string  `json:"campaignIds,omitempty"`
	DateRange       DateRange `json:"dateRange"`
	GroupBy         GroupBy   `json:"groupBy"`
	ComparePrevious bool      `json:"comparePrevious"`
}

// Validate checks the filter before any backend query is issued.
func (f ReportFilter) Validate() error {
	if !f.GroupBy.Valid() {
		return fmt.Errorf("invalid groupBy %q", f.GroupBy)
	}
	_, _, err := f.DateRange.Parse()
	return err
}

// AggregateQuery is the input contract of the backend aggregation endpoint.
type AggregateQuery struct {
	UserID      string   `json:"user_id"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	GroupBy     GroupBy  `json:"group_by"`
	CampaignIDs []string `json:"campaign_ids,omitempty"`
}

// AggregateRow is the backend's raw aggregate response, decoded strictly at
// the fetch boundary. Any counter the backend omits decodes to zero; the
// transformer never has to null-check.
type AggregateRow struct {
	TotalSent    int64 `json:"total_sent"`
	TotalOpens   int64 `json:"total_opens"`
	UniqueOpens  int64 `json:"unique_opens"`
	TotalClicks  int64 `json:"total_clicks"`
	UniqueClicks int64 `json:"unique_clicks"`
	Unsubscribes int64 `json:"unsubscribes"`
	Bounces      int64 `json:"bounces"`
	Complaints   int64 `json:"complaints"`

	// Pre-aggregated means of per-campaign rates, computed backend-side.
	// Distinct from the overall rates the transformer derives from counts.
	AvgOpenRate  float64 `json:"avg_open_rate"`
	AvgClickRate float64 `json:"avg_click_rate"`

	TimeSeries []RawTimePoint     `json:"time_series"`
	Campaigns  []RawCampaignStat  `json:"campaigns"`
	Devices    []RawDimensionStat `json:"devices"`
	Locations  []RawDimensionStat `json:"locations"`
	Browsers   []RawDimensionStat `json:"browsers"`
	LinkClicks []RawLinkStat      `json:"link_clicks"`
	TimeOfDay  []RawHourStat      `json:"time_of_day"`
	DayOfWeek  []RawDayStat       `json:"day_of_week"`
}

// RawTimePoint is one bucket of the backend time series.
type RawTimePoint struct {
	Timestamp string  `json:"ts"`
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
}

// RawCampaignStat is the backend's per-campaign counter row.
type RawCampaignStat struct {
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Sent         int64  `json:"sent"`
	Opens        int64  `json:"opens"`
	UniqueOpens  int64  `json:"unique_opens"`
	Clicks       int64  `json:"clicks"`
	UniqueClicks int64  `json:"unique_clicks"`
	Bounces      int64  `json:"bounces"`
	Unsubscribes int64  `json:"unsubscribes"`
}

// RawDimensionStat is one entry of a device/location/browser breakdown.
// Exactly one of the dimension fields is set depending on the list.
type RawDimensionStat struct {
	Device   string `json:"device,omitempty"`
	Location string `json:"location,omitempty"`
	Browser  string `json:"browser,omitempty"`
	Count    int64  `json:"count"`
}

// Label returns whichever dimension value the entry carries.
func (r RawDimensionStat) Label() string {
	switch {
	case r.Device != "":
		return r.Device
	case r.Location != "":
		return r.Location
	default:
		return r.Browser
	}
}

// RawLinkStat is the backend's per-link click counter row.
type RawLinkStat struct {
	LinkID       string `json:"link_id"`
	URL          string `json:"url"`
	Clicks       int64  `json:"clicks"`
	UniqueClicks int64  `json:"unique_clicks"`
}

// RawHourStat is engagement bucketed by hour of day (0-23).
type RawHourStat struct {
	Hour   int   `json:"hour"`
	Opens  int64 `json:"opens"`
	Clicks int64 `json:"clicks"`
}

// RawDayStat is engagement bucketed by day of week.
type RawDayStat struct {
	Day    string `json:"day"`
	Opens  int64  `json:"opens"`
	Clicks int64  `json:"clicks"`
}

// Summary holds period totals plus derived rates.
type Summary struct {
	TotalSent    int64 `json:"totalSent"`
	TotalOpens   int64 `json:"totalOpens"`
	UniqueOpens  int64 `json:"uniqueOpens"`
	TotalClicks  int64 `json:"totalClicks"`
	UniqueClicks int64 `json:"uniqueClicks"`
	Unsubscribes int64 `json:"unsubscribes"`
	Bounces      int64 `json:"bounces"`
	Complaints   int64 `json:"complaints"`

	// Overall rates: aggregate unique counts over total sent for the
	// whole period.
	OverallOpenRate   float64 `json:"overallOpenRate"`
	OverallClickRate  float64 `json:"overallClickRate"`
	OverallBounceRate float64 `json:"overallBounceRate"`

	// Average rates: backend-supplied means of per-campaign rates, passed
	// through unchanged. These can disagree with the overall rates (e.g.
	// small campaigns weigh equally in the mean) and that discrepancy is
	// displayed as-is.
	AverageOpenRate  float64 `json:"averageOpenRate"`
	AverageClickRate float64 `json:"averageClickRate"`
}

// TimeSeriesPoint is one chart-ready bucket.
type TimeSeriesPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
	Metric    string  `json:"metric"`
}

// CampaignPerformance is one row of the per-campaign table.
type CampaignPerformance struct {
	CampaignID   string `json:"campaignId"`
	CampaignName string `json:"campaignName"`
	Sent         int64  `json:"sent"`
	Opens        int64  `json:"opens"`
	UniqueOpens  int64  `json:"uniqueOpens"`
	Clicks       int64  `json:"clicks"`
	UniqueClicks int64  `json:"uniqueClicks"`
	Bounces      int64  `json:"bounces"`
	Unsubscribes int64  `json:"unsubscribes"`

	OpenRate        float64 `json:"openRate"`
	ClickRate       float64 `json:"clickRate"`
	BounceRate      float64 `json:"bounceRate"`
	UnsubscribeRate float64 `json:"unsubscribeRate"`
}

// BreakdownEntry is one slice of a device/location/browser chart.
// Percentage is normalized within the breakdown list it belongs to,
// not against total sent.
type BreakdownEntry struct {
	Label      string  `json:"label"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// LinkClickStat is one row of the link performance table. ClickRate is
// unique clicks over the period's unique opens: the share of openers who
// clicked this link.
type LinkClickStat struct {
	LinkID       string  `json:"linkId"`
	URL          string  `json:"url"`
	Clicks       int64   `json:"clicks"`
	UniqueClicks int64   `json:"uniqueClicks"`
	ClickRate    float64 `json:"clickRate"`
}

// HourEngagement is opens/clicks for one hour of the day.
type HourEngagement struct {
	Hour   int   `json:"hour"`
	Opens  int64 `json:"opens"`
	Clicks int64 `json:"clicks"`
}

// DayEngagement is opens/clicks for one day of the week.
type DayEngagement struct {
	Day    string `json:"day"`
	Opens  int64  `json:"opens"`
	Clicks int64  `json:"clicks"`
}

// MetricChange is the period-over-period delta for a single summary metric.
type MetricChange struct {
	Absolute   float64 `json:"absolute"`
	Percentage float64 `json:"percentage"`
}

// Comparison contrasts the current period against the immediately
// preceding window of equal length.
type Comparison struct {
	PreviousPeriod Summary                 `json:"previousPeriod"`
	Changes        map[string]MetricChange `json:"changes"`
}

// AnalyticsReport is the normalized, UI-ready report. It is replaced
// wholesale on every successful fetch; list fields are always non-nil.
type AnalyticsReport struct {
	Summary             Summary               `json:"summary"`
	TimeSeries          []TimeSeriesPoint     `json:"timeSeries"`
	CampaignPerformance []CampaignPerformance `json:"campaignPerformance"`
	DeviceBreakdown     []BreakdownEntry      `json:"deviceBreakdown"`
	LocationBreakdown   []BreakdownEntry      `json:"locationBreakdown"`
	BrowserBreakdown    []BreakdownEntry      `json:"browserBreakdown"`
	LinkClicks          []LinkClickStat       `json:"linkClicks"`
	TimeOfDay           []HourEngagement      `json:"timeOfDay"`
	DayOfWeek           []DayEngagement       `json:"dayOfWeek"`
	Comparison          *Comparison           `json:"comparison,omitempty"`
}
