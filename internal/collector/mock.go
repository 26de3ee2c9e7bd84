package collector

import (
	"context"
	"sync"
	"time"

	"BeesDashboard/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Tickers listed in Bars are answered with those bars; with Price set, any
// other ticker gets generated weekly bars; otherwise it is absent.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.OHLCV
	// Collapse answers single-ticker requests keyed by field, like sources
	// that drop the ticker level.
	Collapse bool
	Err      error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many batches have been requested.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFetcher) FetchWeekly(_ context.Context, tickers []string, start, end time.Time) (*Response, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, &FetchError{Source: m.Name(), Tickers: tickers, Err: m.Err}
	}

	resp := &Response{ByTicker: make(map[string]model.Frame)}
	for _, t := range tickers {
		bars, ok := m.Bars[t]
		if !ok && m.Price > 0 {
			bars = generateMockBars(m.Price, start, end)
		}
		if len(bars) == 0 {
			continue
		}
		resp.ByTicker[t] = model.FrameFromBars(bars)
	}
	if m.Collapse && len(tickers) == 1 {
		return &Response{Fields: resp.ByTicker[tickers[0]]}, nil
	}
	return resp, nil
}

func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for t := start; t.Before(end); t = t.AddDate(0, 0, 7) {
		p := basePrice * (1 + float64(i%26-13)*0.004 + float64(i)*0.0005)
		bars = append(bars, model.OHLCV{
			Time:   t,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
