package analytics

// Transform maps raw backend aggregate rows into the normalized report.
// A nil current row is treated as an all-zero period; previous, when
// non-nil, produces the period-over-period comparison.
//
// All list transformations are order-preserving 1:1 maps over the input
// rows. Nothing is dropped, reordered, or merged here; the backend owns
// ordering and dedup.
func Transform(current, previous *AggregateRow) *AnalyticsReport {
	if current == nil {
		current = &AggregateRow{}
	}

	summary := summarize(current)

	report := &AnalyticsReport{
		Summary:             summary,
		TimeSeries:          transformTimeSeries(current.TimeSeries),
		CampaignPerformance: transformCampaigns(current.Campaigns),
		DeviceBreakdown:     transformBreakdown(current.Devices),
		LocationBreakdown:   transformBreakdown(current.Locations),
		BrowserBreakdown:    transformBreakdown(current.Browsers),
		LinkClicks:          transformLinkClicks(current.LinkClicks, summary.UniqueOpens),
		TimeOfDay:           transformTimeOfDay(current.TimeOfDay),
		DayOfWeek:           transformDayOfWeek(current.DayOfWeek),
	}

	if previous != nil {
		prevSummary := summarize(previous)
		report.Comparison = Compare(summary, &prevSummary)
	}

	return report
}

// summarize derives the summary block from raw counters. Overall rates are
// computed from unique counts over sent; average rates are backend-supplied
// means of per-campaign rates and pass through unchanged. The two are
// different statistics and are never reconciled against each other.
func summarize(row *AggregateRow) Summary {
	return Summary{
		TotalSent:    row.TotalSent,
		TotalOpens:   row.TotalOpens,
		UniqueOpens:  row.UniqueOpens,
		TotalClicks:  row.TotalClicks,
		UniqueClicks: row.UniqueClicks,
		Unsubscribes: row.Unsubscribes,
		Bounces:      row.Bounces,
		Complaints:   row.Complaints,

		OverallOpenRate:   CalculateRate(float64(row.UniqueOpens), float64(row.TotalSent)),
		OverallClickRate:  CalculateRate(float64(row.UniqueClicks), float64(row.TotalSent)),
		OverallBounceRate: CalculateRate(float64(row.Bounces), float64(row.TotalSent)),

		AverageOpenRate:  row.AvgOpenRate,
		AverageClickRate: row.AvgClickRate,
	}
}

func transformTimeSeries(in []RawTimePoint) []TimeSeriesPoint {
	out := make([]TimeSeriesPoint, 0, len(in))
	for _, p := range in {
		out = append(out, TimeSeriesPoint{
			Timestamp: p.Timestamp,
			Value:     p.Value,
			Metric:    p.Metric,
		})
	}
	return out
}

func transformCampaigns(in []RawCampaignStat) []CampaignPerformance {
	out := make([]CampaignPerformance, 0, len(in))
	for _, c := range in {
		sent := float64(c.Sent)
		out = append(out, CampaignPerformance{
			CampaignID:   c.CampaignID,
			CampaignName: c.CampaignName,
			Sent:         c.Sent,
			Opens:        c.Opens,
			UniqueOpens:  c.UniqueOpens,
			Clicks:       c.Clicks,
			UniqueClicks: c.UniqueClicks,
			Bounces:      c.Bounces,
			Unsubscribes: c.Unsubscribes,

			// Each campaign's rates are over its own sent count.
			OpenRate:        CalculateRate(float64(c.UniqueOpens), sent),
			ClickRate:       CalculateRate(float64(c.UniqueClicks), sent),
			BounceRate:      CalculateRate(float64(c.Bounces), sent),
			UnsubscribeRate: CalculateRate(float64(c.Unsubscribes), sent),
		})
	}
	return out
}

// transformBreakdown normalizes each entry against the sum of counts within
// the same list. A device slice is "45% of opens with a known device", not
// 45% of everything sent.
func transformBreakdown(in []RawDimensionStat) []BreakdownEntry {
	var total int64
	for _, e := range in {
		total += e.Count
	}

	out := make([]BreakdownEntry, 0, len(in))
	for _, e := range in {
		out = append(out, BreakdownEntry{
			Label:      e.Label(),
			Count:      e.Count,
			Percentage: CalculateRate(float64(e.Count), float64(total)),
		})
	}
	return out
}

func transformLinkClicks(in []RawLinkStat, uniqueOpens int64) []LinkClickStat {
	out := make([]LinkClickStat, 0, len(in))
	for _, l := range in {
		out = append(out, LinkClickStat{
			LinkID:       l.LinkID,
			URL:          l.URL,
			Clicks:       l.Clicks,
			UniqueClicks: l.UniqueClicks,
			ClickRate:    CalculateRate(float64(l.UniqueClicks), float64(uniqueOpens)),
		})
	}
	return out
}

func transformTimeOfDay(in []RawHourStat) []HourEngagement {
	out := make([]HourEngagement, 0, len(in))
	for _, h := range in {
		out = append(out, HourEngagement{Hour: h.Hour, Opens: h.Opens, Clicks: h.Clicks})
	}
	return out
}

func transformDayOfWeek(in []RawDayStat) []DayEngagement {
	out := make([]DayEngagement, 0, len(in))
	for _, d := range in {
		out = append(out, DayEngagement{Day: d.Day, Opens: d.Opens, Clicks: d.Clicks})
	}
	return out
}
