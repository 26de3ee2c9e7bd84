package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"BeesDashboard/internal/model"
)

// RESTFetcher implements Fetcher against a generic bars REST API. A single
// request carries the whole batch; the service answers with
// {"SYM": {"Close": [...], ...}, ...}, or with {"Close": [...], ...} when
// only one symbol was asked for.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restPoint is one dated value; a null value is a missing week.
type restPoint struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

func (f *RESTFetcher) FetchWeekly(ctx context.Context, tickers []string, start, end time.Time) (*Response, error) {
	q := url.Values{}
	q.Set("symbols", strings.Join(tickers, ","))
	q.Set("start", start.Format(model.DateLayout))
	q.Set("end", end.Format(model.DateLayout))
	q.Set("interval", "weekly")
	q.Set("adjusted", "true")
	endpoint := fmt.Sprintf("%s/api/v1/bars?%s", f.BaseURL, q.Encode())

	fail := func(err error) (*Response, error) {
		return nil, &FetchError{Source: f.Name(), Tickers: tickers, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fail(err)
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fail(fmt.Errorf("fetch bars: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fail(fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body)))
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fail(fmt.Errorf("decode bars: %w", err))
	}

	if keyedByField(raw) {
		frame, err := decodeFrame(raw)
		if err != nil {
			return fail(err)
		}
		return &Response{Fields: frame}, nil
	}

	out := &Response{ByTicker: make(map[string]model.Frame, len(raw))}
	for ticker, msg := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(msg, &fields); err != nil {
			return fail(fmt.Errorf("decode %s: %w", ticker, err))
		}
		frame, err := decodeFrame(fields)
		if err != nil {
			return fail(fmt.Errorf("decode %s: %w", ticker, err))
		}
		out.ByTicker[ticker] = frame
	}
	return out, nil
}

// keyedByField reports whether every top-level key is a field name, i.e.
// the source collapsed the ticker level.
func keyedByField(raw map[string]json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	for k := range raw {
		if !model.IsField(k) {
			return false
		}
	}
	return true
}

func decodeFrame(fields map[string]json.RawMessage) (model.Frame, error) {
	frame := make(model.Frame, len(fields))
	for name, msg := range fields {
		if !model.IsField(name) {
			continue
		}
		var pts []restPoint
		if err := json.Unmarshal(msg, &pts); err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		series := make(model.Series, 0, len(pts))
		for _, p := range pts {
			d, err := time.Parse(model.DateLayout, p.Date)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", name, err)
			}
			v := math.NaN()
			if p.Value != nil {
				v = *p.Value
			}
			series = append(series, model.Point{Date: d, Value: v})
		}
		frame[model.Field(name)] = sortSeries(series)
	}
	return frame, nil
}

// sortSeries orders points by date and keeps the last point of any repeated date.
func sortSeries(s model.Series) model.Series {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
	out := s[:0]
	for _, p := range s {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
