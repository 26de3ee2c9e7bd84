package recorder

import "time"

// FetchEvent describes one upstream fetch. Price data itself is never stored.
type FetchEvent struct {
	ID       string
	Source   string
	Tickers  []string
	Years    int
	Start    time.Time
	End      time.Time
	Returned int // tickers present in the normalized table
	Points   int // Close points across all returned tickers
	Duration time.Duration
	Error    string
}

// RenderEvent summarizes one dashboard render cycle.
type RenderEvent struct {
	Years    int
	Charts   int
	Warnings []string // "label (ticker)" entries that could not be charted
	Failed   string   // fatal fetch error, if any
}

// Recorder persists historical fetch and render metadata for analysis.
type Recorder interface {
	RecordFetch(evt *FetchEvent) error
	RecordRender(evt *RenderEvent) error
	Close() error
}
