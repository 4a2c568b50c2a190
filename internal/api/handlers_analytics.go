package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ignite/campaign-console/internal/analytics"
	"github.com/ignite/campaign-console/internal/pkg/httputil"
)

// viewIdleTTL is how long a user's report view survives without a request
// before it is dropped along with its realtime subscription.
const viewIdleTTL = time.Hour

type viewEntry struct {
	view     *analytics.ReportView
	lastSeen time.Time
}

func (h *Handlers) viewFor(userID string) *analytics.ReportView {
	h.viewsMu.Lock()
	defer h.viewsMu.Unlock()

	now := time.Now()
	for id, e := range h.views {
		if id != userID && now.Sub(e.lastSeen) > viewIdleTTL {
			e.view.Close()
			delete(h.views, id)
		}
	}

	e, ok := h.views[userID]
	if !ok {
		e = &viewEntry{view: analytics.NewReportView(h.fetcher, h.refresh)}
		h.views[userID] = e
	}
	e.lastSeen = now
	return e.view
}

// reportEnvelope is the report payload plus view state.
type reportEnvelope struct {
	Report  *analytics.AnalyticsReport `json:"report"`
	Error   string                     `json:"error,omitempty"`
	Loading bool                       `json:"loading"`
}

// defaultFilter fills blanks from the analytics config: a lookback window
// ending today and the configured grouping.
func (h *Handlers) defaultFilter(f analytics.ReportFilter) analytics.ReportFilter {
	if f.GroupBy == "" {
		f.GroupBy = analytics.GroupBy(h.cfg.DefaultGroupBy)
	}
	if f.DateRange.Start == "" && f.DateRange.End == "" {
		now := time.Now().UTC()
		f.DateRange.End = now.Format("2006-01-02")
		f.DateRange.Start = now.AddDate(0, 0, -h.cfg.DefaultLookbackDays+1).Format("2006-01-02")
	}
	return f
}

// GetReport runs a report cycle for the posted filter and returns the view
// state. A failed fetch keeps the previously served report in the envelope
// alongside the error message.
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	var filter analytics.ReportFilter
	if !httputil.Decode(w, r, &filter) {
		return
	}
	filter = h.defaultFilter(filter)
	if err := filter.Validate(); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	userID := currentUserID(r)
	view := h.viewFor(userID)
	if _, err := view.Refresh(r.Context(), userID, filter); err != nil {
		h.log.Warn("report refresh failed", "error", err)
	}

	report, loadErr, loading := view.Snapshot()
	httputil.OK(w, reportEnvelope{Report: report, Error: loadErr, Loading: loading})
}

// exportRequest selects the report window and output format.
type exportRequest struct {
	Filter analytics.ReportFilter `json:"filter"`
	Format string                 `json:"format"`
}

// ExportReport fetches a fresh report for the filter and streams it as a
// download in the requested format.
func (h *Handlers) ExportReport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	req.Filter = h.defaultFilter(req.Filter)

	report, err := h.fetcher.FetchReport(r.Context(), currentUserID(r), req.Filter)
	if err != nil {
		httputil.BadGateway(w, err)
		return
	}

	stamp := time.Now().UTC().Format("2006-01-02")
	switch req.Format {
	case "csv":
		data, err := analytics.ExportCSV(report)
		if err != nil {
			httputil.InternalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.csv"`, stamp))
		w.Write(data)
	case "json", "":
		data, err := analytics.ExportJSON(report)
		if err != nil {
			httputil.InternalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.json"`, stamp))
		w.Write(data)
	default:
		httputil.BadRequest(w, "unsupported format: "+req.Format)
	}
}
