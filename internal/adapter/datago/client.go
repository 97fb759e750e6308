// Package datago fetches typhoon bulletin pages from the data.go.kr
// TyphoonInfoService endpoint and aggregates them into typhoon summaries and
// track points.
package datago

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/typhoon-info-service/internal/cache"
	"github.com/couchcryptid/typhoon-info-service/internal/domain"
	"github.com/couchcryptid/typhoon-info-service/internal/observability"
)

// DefaultBaseURL is the production TyphoonInfoService endpoint.
const DefaultBaseURL = "https://apis.data.go.kr/1360000/TyphoonInfoService/getTyphoonInfo"

// Client reads paginated bulletin data, caching each parsed page by its
// composite query key for the cache's TTL.
type Client struct {
	serviceKey string
	httpClient *http.Client
	baseURL    string
	pages      *cache.Cache[*Page]
	metrics    *observability.Metrics
	logger     *slog.Logger
	maxPages   int
	pageSize   int
}

// NewClient creates a TyphoonInfoService client. maxPages bounds how many
// pages a single aggregation walks; pageSize is the upstream numOfRows.
func NewClient(serviceKey, baseURL string, timeout time.Duration, maxPages, pageSize int, pages *cache.Cache[*Page], metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		pages:      pages,
		metrics:    metrics,
		logger:     logger,
		maxPages:   maxPages,
		pageSize:   pageSize,
	}
}

// FetchPage returns one page of bulletin records for the date range. A cache
// hit returns the previously parsed page; a miss performs a network call and
// caches the parsed payload before returning. Transport failures and non-2xx
// statuses are hard errors, never cached.
func (c *Client) FetchPage(ctx context.Context, fromDate, toDate string, pageNo, numOfRows int) (*Page, error) {
	key := fmt.Sprintf("getTyphoonInfo:%s:%s:%d:%d", fromDate, toDate, pageNo, numOfRows)
	if page, ok := c.pages.Get(key); ok {
		c.metrics.PageCache.WithLabelValues("hit").Inc()
		return page, nil
	}
	c.metrics.PageCache.WithLabelValues("miss").Inc()

	params := url.Values{
		"serviceKey": {c.serviceKey},
		"pageNo":     {strconv.Itoa(pageNo)},
		"numOfRows":  {strconv.Itoa(numOfRows)},
		"dataType":   {"JSON"},
		"fromTmFc":   {fromDate},
		"toTmFc":     {toDate},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("typhoon info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("typhoon info API error: status %d: %s", resp.StatusCode, body)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}
	c.metrics.UpstreamRequests.WithLabelValues("success").Inc()

	page := &Page{
		TotalCount: int(env.Response.Body.TotalCount),
		Items:      env.Response.Body.Items.Items,
	}
	c.pages.Set(key, page)
	return page, nil
}

// trackedSummary carries the parsed timestamp bounds alongside the summary
// while pages are merged. hasBounds is false until a parsable timestamp has
// been seen for the sequence number.
type trackedSummary struct {
	summary   domain.TyphoonSummary
	first     time.Time
	last      time.Time
	hasBounds bool
}

// ListUniqueTyphoons merges all bulletin records in the date range into one
// summary per typhoon sequence number. Summaries are sorted descending by
// last-seen timestamp; summaries whose timestamps never parsed sort last.
func (c *Client) ListUniqueTyphoons(ctx context.Context, from, to time.Time) ([]domain.TyphoonSummary, error) {
	fromDate := from.Format(domain.QueryDateLayout)
	toDate := to.Format(domain.QueryDateLayout)

	seen := make(map[int]*trackedSummary)
	var order []*trackedSummary

	for pageNo := 1; pageNo <= c.maxPages; pageNo++ {
		page, err := c.FetchPage(ctx, fromDate, toDate, pageNo, c.pageSize)
		if err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			break
		}

		for _, item := range page.Items {
			seq, ok := domain.ParseInt(string(item.TypSeq), 0)
			if !ok {
				continue
			}

			ts := strings.TrimSpace(string(item.TypTm))
			at, parsed := domain.ParseBulletinTime(ts)

			tracked, known := seen[seq]
			if !known {
				tracked = &trackedSummary{
					summary: domain.TyphoonSummary{
						SequenceNumber:    seq,
						NameLocal:         strings.TrimSpace(string(item.TypName)),
						NameInternational: strings.TrimSpace(string(item.TypEn)),
						FirstSeen:         ts,
						LastSeen:          ts,
					},
					first:     at,
					last:      at,
					hasBounds: parsed,
				}
				seen[seq] = tracked
				order = append(order, tracked)
				continue
			}

			// Only parsable timestamps widen the bounds.
			if !parsed {
				continue
			}
			if !tracked.hasBounds {
				tracked.first, tracked.last = at, at
				tracked.summary.FirstSeen, tracked.summary.LastSeen = ts, ts
				tracked.hasBounds = true
				continue
			}
			if at.Before(tracked.first) {
				tracked.first = at
				tracked.summary.FirstSeen = ts
			}
			if at.After(tracked.last) {
				tracked.last = at
				tracked.summary.LastSeen = ts
			}
		}

		if pageNo*c.pageSize >= page.TotalCount {
			break
		}
	}

	// Most recent first; zero times (unparsable) sink to the end. The stable
	// sort keeps first-seen order for ties.
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].last.After(order[j].last)
	})

	out := make([]domain.TyphoonSummary, len(order))
	for i, t := range order {
		out[i] = t.summary
	}
	return out, nil
}

// GetTrackPoints collects the bulletin positions for one typhoon sequence
// number within the date range, sorted ascending by timestamp. Records whose
// coordinates fail to parse are dropped; records whose timestamps fail to
// parse sort first. Duplicate announcements across overlapping pages are not
// deduplicated.
func (c *Client) GetTrackPoints(ctx context.Context, seq int, from, to time.Time) ([]domain.TrackPoint, error) {
	fromDate := from.Format(domain.QueryDateLayout)
	toDate := to.Format(domain.QueryDateLayout)

	type timedPoint struct {
		point domain.TrackPoint
		at    time.Time
	}
	var collected []timedPoint

	for pageNo := 1; pageNo <= c.maxPages; pageNo++ {
		page, err := c.FetchPage(ctx, fromDate, toDate, pageNo, c.pageSize)
		if err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			break
		}

		for _, item := range page.Items {
			itemSeq, _ := domain.ParseInt(string(item.TypSeq), 0)
			if itemSeq != seq {
				continue
			}

			lat, okLat := domain.ParseFloat(string(item.TypLat))
			lon, okLon := domain.ParseFloat(string(item.TypLon))
			if !okLat || !okLon {
				continue
			}

			ts := strings.TrimSpace(string(item.TypTm))
			at, _ := domain.ParseBulletinTime(ts)

			collected = append(collected, timedPoint{
				point: domain.TrackPoint{
					Timestamp:        ts,
					Lat:              lat,
					Lon:              lon,
					Direction:        string(item.TypDir),
					Speed:            string(item.TypSp),
					Pressure:         string(item.TypPs),
					WindSpeed:        string(item.TypWs),
					Location:         string(item.TypLoc),
					BulletinIssuedAt: string(item.TmFc),
					BulletinSequence: string(item.TmSeq),
				},
				at: at,
			})
		}

		if pageNo*c.pageSize >= page.TotalCount {
			break
		}
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].at.Before(collected[j].at)
	})

	points := make([]domain.TrackPoint, len(collected))
	for i, tp := range collected {
		points[i] = tp.point
	}
	return points, nil
}
