package analytics

// Compare computes period-over-period changes for every summary metric,
// counts and rates alike. Returns nil when there is no previous period,
// which is how a report without comparison data is represented.
// For rate metrics Absolute is the difference in percentage points and
// Percentage the relative change of the rate itself.
//
// Growth from a zero baseline is reported as a flat +100% rather than
// infinity or a null. Downstream consumers depend on this exact behavior.
func Compare(current Summary, previous *Summary) *Comparison {
	if previous == nil {
		return nil
	}

	metrics := []struct {
		name string
		cur  int64
		prev int64
	}{
		{"totalSent", current.TotalSent, previous.TotalSent},
		{"totalOpens", current.TotalOpens, previous.TotalOpens},
		{"uniqueOpens", current.UniqueOpens, previous.UniqueOpens},
		{"totalClicks", current.TotalClicks, previous.TotalClicks},
		{"uniqueClicks", current.UniqueClicks, previous.UniqueClicks},
		{"bounces", current.Bounces, previous.Bounces},
		{"unsubscribes", current.Unsubscribes, previous.Unsubscribes},
		{"complaints", current.Complaints, previous.Complaints},
	}

	rates := []struct {
		name string
		cur  float64
		prev float64
	}{
		{"overallOpenRate", current.OverallOpenRate, previous.OverallOpenRate},
		{"overallClickRate", current.OverallClickRate, previous.OverallClickRate},
		{"overallBounceRate", current.OverallBounceRate, previous.OverallBounceRate},
		{"averageOpenRate", current.AverageOpenRate, previous.AverageOpenRate},
		{"averageClickRate", current.AverageClickRate, previous.AverageClickRate},
	}

	changes := make(map[string]MetricChange, len(metrics)+len(rates))
	for _, m := range metrics {
		changes[m.name] = metricChange(float64(m.cur), float64(m.prev))
	}
	for _, m := range rates {
		changes[m.name] = metricChange(m.cur, m.prev)
	}

	return &Comparison{
		PreviousPeriod: *previous,
		Changes:        changes,
	}
}

func metricChange(current, previous float64) MetricChange {
	change := MetricChange{Absolute: current - previous}
	if previous == 0 {
		change.Percentage = 100
	} else {
		change.Percentage = (current - previous) / previous * 100
	}
	return change
}
