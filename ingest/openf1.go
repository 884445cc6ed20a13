package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrSourceUnavailable wraps transport and decode failures from the results
// feed. The recompute batch aborts on it without partial writes; the
// previous consistent state stays visible until a later run succeeds.
var ErrSourceUnavailable = errors.New("result source unavailable")

const defaultOpenF1BaseURL = "https://api.openf1.org/v1"

// maxConcurrentFetches bounds the per-session requests against the feed.
const maxConcurrentFetches = 4

// OpenF1Client pulls race sessions and classified results from the OpenF1
// REST API. It is one concrete implementation of the Source boundary; the
// rest of the pipeline only sees RawResult values.
type OpenF1Client struct {
	baseURL string
	client  *http.Client
}

// RawResult is a race result as delivered by the feed, before name
// resolution and validation. Finishers are ordered by classified position.
type RawResult struct {
	Location    string
	SessionName string
	EndedAt     time.Time
	Finishers   []string // index 0 = P1, feed driver names
	FastestLap  string
	DNFs        []string
}

type openF1Session struct {
	SessionKey  int    `json:"session_key"`
	SessionName string `json:"session_name"`
	Location    string `json:"location"`
	DateEnd     string `json:"date_end"`
}

type openF1SessionResult struct {
	Position     *int    `json:"position"`
	DriverNumber int     `json:"driver_number"`
	DNF          bool    `json:"dnf"`
	FastestLap   bool    `json:"fastest_lap"`
	Duration     float64 `json:"duration"`
}

type openF1Driver struct {
	DriverNumber  int    `json:"driver_number"`
	FullName      string `json:"full_name"`
	BroadcastName string `json:"broadcast_name"`
}

func NewOpenF1Client(baseURL string, client *http.Client) *OpenF1Client {
	if baseURL == "" {
		baseURL = defaultOpenF1BaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &OpenF1Client{baseURL: baseURL, client: client}
}

// FetchSeason returns the raw results of every race session of the given
// year that has already ended, most recent first. Session results and driver
// rosters are fetched concurrently, bounded by maxConcurrentFetches.
func (c *OpenF1Client) FetchSeason(ctx context.Context, year int) ([]RawResult, error) {
	var sessions []openF1Session
	q := url.Values{"session_type": {"Race"}, "year": {strconv.Itoa(year)}}
	if err := c.getJSON(ctx, "/sessions?"+q.Encode(), &sessions); err != nil {
		return nil, err
	}

	now := time.Now()
	ended := sessions[:0]
	for _, s := range sessions {
		endedAt, err := time.Parse(time.RFC3339, s.DateEnd)
		if err != nil || !endedAt.Before(now) {
			continue
		}
		ended = append(ended, s)
	}

	results := make([]RawResult, len(ended))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, session := range ended {
		i, session := i, session
		g.Go(func() error {
			raw, err := c.fetchSession(gCtx, session)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = raw
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].EndedAt.After(results[j].EndedAt)
	})
	return results, nil
}

func (c *OpenF1Client) fetchSession(ctx context.Context, session openF1Session) (RawResult, error) {
	key := strconv.Itoa(session.SessionKey)

	var rows []openF1SessionResult
	if err := c.getJSON(ctx, "/session_result?session_key="+key, &rows); err != nil {
		return RawResult{}, err
	}

	var drivers []openF1Driver
	if err := c.getJSON(ctx, "/drivers?session_key="+key, &drivers); err != nil {
		return RawResult{}, err
	}

	names := make(map[int]string, len(drivers))
	for _, d := range drivers {
		name := d.FullName
		if name == "" {
			name = d.BroadcastName
		}
		names[d.DriverNumber] = name
	}

	classified := make([]openF1SessionResult, 0, len(rows))
	for _, row := range rows {
		if row.Position != nil {
			classified = append(classified, row)
		}
	}
	sort.Slice(classified, func(i, j int) bool {
		return *classified[i].Position < *classified[j].Position
	})

	endedAt, _ := time.Parse(time.RFC3339, session.DateEnd)
	raw := RawResult{
		Location:    session.Location,
		SessionName: session.SessionName,
		EndedAt:     endedAt,
	}
	for _, row := range classified {
		name := names[row.DriverNumber]
		if name == "" {
			continue
		}
		if len(raw.Finishers) < 10 {
			raw.Finishers = append(raw.Finishers, name)
		}
		if row.FastestLap {
			raw.FastestLap = name
		}
	}
	for _, row := range rows {
		if row.DNF {
			if name := names[row.DriverNumber]; name != "" {
				raw.DNFs = append(raw.DNFs, name)
			}
		}
	}
	return raw, nil
}

func (c *OpenF1Client) getJSON(ctx context.Context, path string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s returned %s", ErrSourceUnavailable, path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrSourceUnavailable, path, err)
	}
	return nil
}
