package analytics

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
)

// ExportJSON serializes the report with the exact field names the UI
// consumes. The in-memory report is never mutated by an export.
func ExportJSON(report *AnalyticsReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return data, nil
}

// ExportCSV serializes the report summary as flat [Metric, Value] rows.
func ExportCSV(report *AnalyticsReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	s := report.Summary
	rows := [][]string{
		{"Metric", "Value"},
		{"Total Sent", strconv.FormatInt(s.TotalSent, 10)},
		{"Total Opens", strconv.FormatInt(s.TotalOpens, 10)},
		{"Unique Opens", strconv.FormatInt(s.UniqueOpens, 10)},
		{"Open Rate", formatRate(s.OverallOpenRate)},
		{"Total Clicks", strconv.FormatInt(s.TotalClicks, 10)},
		{"Unique Clicks", strconv.FormatInt(s.UniqueClicks, 10)},
		{"Click Rate", formatRate(s.OverallClickRate)},
		{"Bounces", strconv.FormatInt(s.Bounces, 10)},
		{"Unsubscribes", strconv.FormatInt(s.Unsubscribes, 10)},
		{"Complaints", strconv.FormatInt(s.Complaints, 10)},
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 2, 64) + "%"
}
