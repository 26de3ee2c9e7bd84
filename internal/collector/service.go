package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"BeesDashboard/internal/cache"
	"BeesDashboard/internal/model"
	"BeesDashboard/internal/recorder"
)

// DefaultTTL is how long a fetched table is reused.
const DefaultTTL = time.Hour

// DefaultFetchTimeout bounds one shared upstream fetch.
const DefaultFetchTimeout = 2 * time.Minute

// WeeklyService fetches normalized weekly tables through a TTL cache.
// Concurrent callers asking for the same key share one upstream fetch,
// which runs detached from any single caller's cancellation.
type WeeklyService struct {
	Fetcher      Fetcher
	Cache        *cache.Cache[model.PriceTable]
	TTL          time.Duration
	FetchTimeout time.Duration
	Recorder     recorder.Recorder
	Now          func() time.Time

	group singleflight.Group

	// gen is bumped by Refresh; fetches started under an older
	// generation do not write back into the cache.
	mu  sync.Mutex
	gen uint64
}

// NewWeeklyService creates a WeeklyService.
func NewWeeklyService(fetcher Fetcher, c *cache.Cache[model.PriceTable], ttl time.Duration, rec recorder.Recorder) *WeeklyService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &WeeklyService{
		Fetcher:      fetcher,
		Cache:        c,
		TTL:          ttl,
		FetchTimeout: DefaultFetchTimeout,
		Recorder:     rec,
		Now:          time.Now,
	}
}

// Window returns the query range ending on now's date and starting
// 365*years days earlier. Leap days are deliberately ignored so that query
// boundaries stay reproducible.
func Window(now time.Time, years int) (start, end time.Time) {
	end = model.Day(now)
	start = end.AddDate(0, 0, -365*years)
	return start, end
}

// CacheKey identifies a (ticker set, years) request independent of order.
func CacheKey(tickers []string, years int) string {
	sorted := append([]string(nil), tickers...)
	sort.Strings(sorted)
	return fmt.Sprintf("%s|%d", strings.Join(sorted, ","), years)
}

// FetchWeekly returns the weekly table for tickers over the trailing years.
// Blank symbols are ignored. Results are cached for the service TTL; a
// failed fetch is returned as an error and never cached.
func (s *WeeklyService) FetchWeekly(ctx context.Context, tickers []string, years int) (model.PriceTable, error) {
	clean := cleanSymbols(tickers)
	if len(clean) == 0 {
		return nil, errors.New("no tickers requested")
	}
	if years < 1 {
		return nil, fmt.Errorf("years must be >= 1, got %d", years)
	}

	key := CacheKey(clean, years)
	if table, ok := s.Cache.Get(key); ok {
		log.Printf("[INFO] cache hit: %s", key)
		return table, nil
	}

	gen := s.generation()
	ch := s.group.DoChan(fmt.Sprintf("%s#%d", key, gen), func() (interface{}, error) {
		if table, ok := s.Cache.Get(key); ok {
			return table, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout())
		defer cancel()
		table, err := s.fetch(fctx, clean, years)
		if err != nil {
			return nil, err
		}
		s.store(gen, key, table)
		return table, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Printf("[INFO] shared in-flight fetch: %s", key)
		}
		return res.Val.(model.PriceTable), nil
	}
}

func (s *WeeklyService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *WeeklyService) store(gen uint64, key string, table model.PriceTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		log.Printf("[INFO] dropping result fetched before refresh: %s", key)
		return
	}
	s.Cache.Put(key, table, s.TTL)
}

func (s *WeeklyService) fetchTimeout() time.Duration {
	if s.FetchTimeout <= 0 {
		return DefaultFetchTimeout
	}
	return s.FetchTimeout
}

func (s *WeeklyService) fetch(ctx context.Context, tickers []string, years int) (model.PriceTable, error) {
	start, end := Window(s.Now(), years)
	log.Printf("[INFO] fetching %d tickers from %s (%s .. %s)",
		len(tickers), s.Fetcher.Name(), start.Format(model.DateLayout), end.Format(model.DateLayout))

	began := time.Now()
	evt := &recorder.FetchEvent{
		Source:  s.Fetcher.Name(),
		Tickers: tickers,
		Years:   years,
		Start:   start,
		End:     end,
	}
	defer func() {
		evt.Duration = time.Since(began)
		if err := s.Recorder.RecordFetch(evt); err != nil {
			log.Printf("[ERROR] record fetch: %v", err)
		}
	}()

	resp, err := s.Fetcher.FetchWeekly(ctx, tickers, start, end)
	if err != nil {
		evt.Error = err.Error()
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = &FetchError{Source: s.Fetcher.Name(), Tickers: tickers, Err: err}
		}
		return nil, err
	}
	table, err := Normalize(tickers, resp)
	if err != nil {
		evt.Error = err.Error()
		return nil, &FetchError{Source: s.Fetcher.Name(), Tickers: tickers, Err: err}
	}

	evt.Returned = len(table)
	for _, frame := range table {
		evt.Points += len(frame[model.FieldClose])
	}
	if missing := len(tickers) - len(table); missing > 0 {
		log.Printf("[WARN] %d of %d tickers returned no data", missing, len(tickers))
	}
	return table, nil
}

// Refresh invalidates every cached table so the next call refetches.
// Calls after Refresh never join a fetch that began before it.
func (s *WeeklyService) Refresh() {
	s.mu.Lock()
	s.gen++
	s.Cache.InvalidateAll()
	s.mu.Unlock()
	log.Println("[INFO] weekly data cache cleared")
}

// Prune drops expired tables and reports how many were removed.
func (s *WeeklyService) Prune() int {
	n := s.Cache.Cleanup()
	if n > 0 {
		log.Printf("[INFO] pruned %d expired tables", n)
	}
	return n
}

// cleanSymbols trims symbols and drops blanks and duplicates, keeping order.
func cleanSymbols(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
