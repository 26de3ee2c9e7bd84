package collector

import (
	"context"
	"time"

	"BeesDashboard/internal/model"
)

// Fetcher retrieves adjusted weekly bars for a batch of tickers over [start, end).
type Fetcher interface {
	FetchWeekly(ctx context.Context, tickers []string, start, end time.Time) (*Response, error)
	Name() string
}

// Response is a batched upstream answer before normalization.
// Sources that key by ticker fill ByTicker. Sources that collapse the ticker
// level when a single symbol was requested fill Fields instead.
type Response struct {
	ByTicker map[string]model.Frame
	Fields   model.Frame
}
