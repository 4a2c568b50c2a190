package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ignite/campaign-console/internal/pkg/logger"
)

// Querier is the backend aggregation endpoint as the pipeline sees it.
// Implemented by backend.Client; tests substitute fakes.
type Querier interface {
	QueryAggregates(ctx context.Context, q AggregateQuery) (*AggregateRow, error)
}

// RefreshSource is an optional realtime trigger: Subscribe registers a
// callback invoked whenever new tracking events land for the user. The
// payload is irrelevant; the callback only acts as a refresh signal. The
// returned channel closes when delivery stops, letting the subscriber
// notice and resubscribe.
type RefreshSource interface {
	Subscribe(ctx context.Context, userID string, fn func()) (<-chan struct{}, error)
}

// Fetcher issues the aggregate queries for one report cycle. It holds no
// view state and is safe for concurrent use.
type Fetcher struct {
	backend Querier
	log     *logger.Logger
}

// NewFetcher creates a fetcher over the given backend querier.
func NewFetcher(backend Querier) *Fetcher {
	return &Fetcher{backend: backend, log: logger.With("analytics")}
}

// FetchReport runs one full report cycle: validate the filter, query the
// current window, query the immediately preceding window of equal length
// when comparison is requested, and transform the rows. Any query failure
// aborts the whole cycle; no partial report is ever produced.
func (f *Fetcher) FetchReport(ctx context.Context, userID string, filter ReportFilter) (*AnalyticsReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report filter: %w", err)
	}

	current, err := f.backend.QueryAggregates(ctx, AggregateQuery{
		UserID:      userID,
		StartDate:   filter.DateRange.Start,
		EndDate:     filter.DateRange.End,
		GroupBy:     filter.GroupBy,
		CampaignIDs: filter.CampaignIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching current period: %w", err)
	}

	var previous *AggregateRow
	if filter.ComparePrevious {
		prevRange, err := PreviousWindow(filter.DateRange)
		if err != nil {
			return nil, fmt.Errorf("computing previous window: %w", err)
		}
		// Same grouping and campaign scope as the current period.
		previous, err = f.backend.QueryAggregates(ctx, AggregateQuery{
			UserID:      userID,
			StartDate:   prevRange.Start,
			EndDate:     prevRange.End,
			GroupBy:     filter.GroupBy,
			CampaignIDs: filter.CampaignIDs,
		})
		if err != nil {
			return nil, fmt.Errorf("fetching previous period: %w", err)
		}
	}

	return Transform(current, previous), nil
}

// PreviousWindow returns the window of identical length immediately
// preceding the given range: the previous end is the day before the current
// start, and the previous start is placed so both windows span the same
// number of days.
func PreviousWindow(current DateRange) (DateRange, error) {
	start, end, err := current.Parse()
	if err != nil {
		return DateRange{}, err
	}

	days := int(end.Sub(start) / (24 * time.Hour))
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -days+1)

	return DateRange{
		Start: prevStart.Format(dateLayout),
		End:   prevEnd.Format(dateLayout),
	}, nil
}

// ReportView owns the report state for one consuming view: the latest
// report, the active filter, a user-visible error, and the loading flag.
// Refresh supersedes any in-flight fetch: responses are tagged with a
// generation captured at fetch start and stale ones are discarded, so the
// last completed response for the current filter always wins.
type ReportView struct {
	fetcher *Fetcher
	refresh RefreshSource // optional
	log     *logger.Logger

	mu         sync.Mutex
	generation uint64
	subscribed bool
	subSeq     uint64
	subCancel  context.CancelFunc
	userID     string
	filter     ReportFilter
	report     *AnalyticsReport
	loadErr    string
	loading    bool
}

// NewReportView creates a view over the fetcher. refresh may be nil when no
// realtime source is configured.
func NewReportView(fetcher *Fetcher, refresh RefreshSource) *ReportView {
	return &ReportView{
		fetcher: fetcher,
		refresh: refresh,
		log:     logger.With("analytics.view"),
	}
}

// Refresh runs a fetch cycle for the given filter and applies the result if
// no newer fetch started in the meantime. On failure the previous report
// stays displayed and the error message is recorded; on success the report
// is replaced wholesale and the error cleared. The loading flag is cleared
// on every path.
func (v *ReportView) Refresh(ctx context.Context, userID string, filter ReportFilter) (*AnalyticsReport, error) {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.userID = userID
	v.filter = filter
	v.loading = true
	v.mu.Unlock()

	report, err := v.fetcher.FetchReport(ctx, userID, filter)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.generation {
		// A newer fetch superseded this one; drop the response either way.
		return nil, err
	}
	v.loading = false

	if err != nil {
		v.loadErr = err.Error()
		return nil, err
	}

	v.report = report
	v.loadErr = ""
	v.ensureSubscribedLocked()
	return report, nil
}

// Snapshot returns the current view state: the last successfully fetched
// report (nil before the first success), the user-visible error, and
// whether a fetch is in flight.
func (v *ReportView) Snapshot() (report *AnalyticsReport, loadErr string, loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.report, v.loadErr, v.loading
}

// ensureSubscribedLocked wires the realtime refresh trigger after the first
// successful fetch. Best effort: a subscription failure only skips live
// refreshes, it never fails the fetch.
//
// The subscription belongs to the view, not to the fetch that created it:
// it runs on a view-owned context so the request context ending does not
// tear it down. If delivery stops anyway (redis restart, Close), subscribed
// resets and the next successful fetch resubscribes.
func (v *ReportView) ensureSubscribedLocked() {
	if v.refresh == nil || v.subscribed {
		return
	}
	userID := v.userID
	subCtx, cancel := context.WithCancel(context.Background())
	done, err := v.refresh.Subscribe(subCtx, userID, func() {
		v.mu.Lock()
		uid, filter := v.userID, v.filter
		v.mu.Unlock()

		refreshCtx, refreshCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer refreshCancel()
		if _, err := v.Refresh(refreshCtx, uid, filter); err != nil {
			v.log.Warn("realtime refresh skipped", "error", err)
		}
	})
	if err != nil {
		cancel()
		v.log.Warn("realtime subscription unavailable", "error", err)
		return
	}
	v.subscribed = true
	v.subCancel = cancel
	v.subSeq++
	seq := v.subSeq

	go func() {
		<-done
		v.mu.Lock()
		// A newer subscription may already have replaced this one.
		if v.subSeq == seq {
			v.subscribed = false
			v.subCancel = nil
		}
		v.mu.Unlock()
	}()
}

// Close stops the realtime subscription. The view itself stays usable;
// Refresh and Snapshot keep working without live updates.
func (v *ReportView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.subCancel != nil {
		v.subCancel()
		v.subCancel = nil
	}
	v.subscribed = false
}
