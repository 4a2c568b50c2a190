package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ignite/campaign-console/internal/analytics"
	"github.com/ignite/campaign-console/internal/config"
	"github.com/ignite/campaign-console/internal/pkg/httpretry"
)

// Client talks to the aggregation backend. It implements
// analytics.Querier.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer

	// Duplicate in-flight aggregate queries collapse onto a single
	// backend call. Dashboards re-render aggressively; the backend
	// should only ever see one request per distinct query at a time.
	group singleflight.Group
}

// NewClient creates a backend client from config. Retries with backoff
// happen inside the HTTP client; callers never retry on their own.
func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// QueryAggregates fetches one aggregate row for the given window and scope.
// The flight is detached from whichever caller started it: a canceled
// caller gets its own context error while everyone else waiting on the same
// key still gets the backend's answer. The HTTP client's timeout bounds the
// detached request.
func (c *Client) QueryAggregates(ctx context.Context, q analytics.AggregateQuery) (*analytics.AggregateRow, error) {
	flight := c.group.DoChan(aggregateKey(q), func() (interface{}, error) {
		return c.fetchAggregates(context.WithoutCancel(ctx), q)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*analytics.AggregateRow), nil
	}
}

func (c *Client) fetchAggregates(ctx context.Context, q analytics.AggregateQuery) (*analytics.AggregateRow, error) {
	params := url.Values{}
	params.Set("user_id", q.UserID)
	params.Set("start_date", q.StartDate)
	params.Set("end_date", q.EndDate)
	params.Set("group_by", string(q.GroupBy))
	if len(q.CampaignIDs) > 0 {
		params.Set("campaign_ids", strings.Join(q.CampaignIDs, ","))
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/v1/analytics/aggregates", params)
	if err != nil {
		return nil, err
	}

	var row analytics.AggregateRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("decoding aggregate response: %w", err)
	}
	return &row, nil
}

// doRequest makes an HTTP request to the aggregation backend.
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// aggregateKey is the singleflight identity of a query. Two queries share
// a key only when every scope parameter matches.
func aggregateKey(q analytics.AggregateQuery) string {
	return strings.Join([]string{
		q.UserID, q.StartDate, q.EndDate, string(q.GroupBy),
		strings.Join(q.CampaignIDs, ","),
	}, "|")
}

// Healthcheck pings the backend. Used by the readiness endpoint.
func (c *Client) Healthcheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := c.doRequest(ctx, http.MethodGet, "/v1/health", nil)
	return err
}
