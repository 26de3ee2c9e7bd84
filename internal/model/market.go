package model

import (
	"math"
	"sort"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Field names a column of a ticker's frame.
type Field string

const (
	FieldOpen   Field = "Open"
	FieldHigh   Field = "High"
	FieldLow    Field = "Low"
	FieldClose  Field = "Close"
	FieldVolume Field = "Volume"
)

// Fields lists the frame columns in display order.
var Fields = []Field{FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume}

// IsField reports whether name is one of the known frame columns.
func IsField(name string) bool {
	for _, f := range Fields {
		if string(f) == name {
			return true
		}
	}
	return false
}

// Point is one weekly observation. A NaN Value marks a missing week.
type Point struct {
	Date  time.Time
	Value float64
}

// Missing reports whether the point carries no value.
func (p Point) Missing() bool { return math.IsNaN(p.Value) }

// Series is an ordered sequence of points, ascending by date.
type Series []Point

// DropMissing returns the points that carry a value, preserving order.
func (s Series) DropMissing() Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if !p.Missing() {
			out = append(out, p)
		}
	}
	return out
}

// Values returns the raw values of the series.
func (s Series) Values() []float64 {
	vals := make([]float64, len(s))
	for i, p := range s {
		vals[i] = p.Value
	}
	return vals
}

// Frame holds every field of a single ticker.
type Frame map[Field]Series

// FrameFromBars converts bars into a frame holding one point per ISO week.
// A bar repeating a date replaces the earlier one. A later bar in the same
// week, such as a live partial-week row, is merged into the week's bar and
// keeps its date.
func FrameFromBars(bars []OHLCV) Frame {
	sorted := make([]OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	dedup := sorted[:0]
	for _, b := range sorted {
		b.Time = Day(b.Time)
		if n := len(dedup); n > 0 {
			last := dedup[n-1]
			if last.Time.Equal(b.Time) {
				dedup[n-1] = b
				continue
			}
			if sameWeek(last.Time, b.Time) {
				dedup[n-1] = mergeBars(last, b)
				continue
			}
		}
		dedup = append(dedup, b)
	}

	f := make(Frame, len(Fields))
	for _, field := range Fields {
		f[field] = make(Series, len(dedup))
	}
	for i, b := range dedup {
		f[FieldOpen][i] = Point{Date: b.Time, Value: b.Open}
		f[FieldHigh][i] = Point{Date: b.Time, Value: b.High}
		f[FieldLow][i] = Point{Date: b.Time, Value: b.Low}
		f[FieldClose][i] = Point{Date: b.Time, Value: b.Close}
		f[FieldVolume][i] = Point{Date: b.Time, Value: b.Volume}
	}
	return f
}

func sameWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

// mergeBars folds a later bar of the same week into the earlier one.
// Missing values on either side defer to the other.
func mergeBars(first, later OHLCV) OHLCV {
	m := first
	if math.IsNaN(m.Open) {
		m.Open = later.Open
	}
	m.High = pick(first.High, later.High, math.Max)
	m.Low = pick(first.Low, later.Low, math.Min)
	if !math.IsNaN(later.Close) {
		m.Close = later.Close
	}
	m.Volume = pick(first.Volume, later.Volume, func(a, b float64) float64 { return a + b })
	return m
}

func pick(a, b float64, combine func(a, b float64) float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	}
	return combine(a, b)
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PriceTable keys frames by ticker symbol. A ticker the source had no data
// for is simply absent. Tables are never mutated once returned by a fetch.
type PriceTable map[string]Frame

// Has reports whether the table holds a frame for ticker.
func (t PriceTable) Has(ticker string) bool {
	_, ok := t[ticker]
	return ok
}

// Tickers returns the outer keys in sorted order.
func (t PriceTable) Tickers() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Column identifies one cell column of a TableView.
type Column struct {
	Ticker string `json:"ticker"`
	Field  Field  `json:"field"`
}

// Row is one date of a TableView; Values is aligned with TableView.Columns.
// A nil entry means the ticker had no value that week.
type Row struct {
	Date   string     `json:"date"`
	Values []*float64 `json:"values"`
}

// TableView is a flattened, date-aligned slice of a PriceTable.
type TableView struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Tail returns the last n dates across all tickers as a flat view.
func (t PriceTable) Tail(n int) TableView {
	tickers := t.Tickers()
	var view TableView
	for _, ticker := range tickers {
		for _, field := range Fields {
			if _, ok := t[ticker][field]; ok {
				view.Columns = append(view.Columns, Column{Ticker: ticker, Field: field})
			}
		}
	}

	dateSet := make(map[time.Time]struct{})
	for _, frame := range t {
		for _, s := range frame {
			for _, p := range s {
				dateSet[p.Date] = struct{}{}
			}
		}
	}
	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	if n >= 0 && len(dates) > n {
		dates = dates[len(dates)-n:]
	}

	lookup := make(map[Column]map[time.Time]float64, len(view.Columns))
	for _, c := range view.Columns {
		m := make(map[time.Time]float64)
		for _, p := range t[c.Ticker][c.Field] {
			if !p.Missing() {
				m[p.Date] = p.Value
			}
		}
		lookup[c] = m
	}

	view.Rows = make([]Row, len(dates))
	for i, d := range dates {
		row := Row{Date: d.Format(DateLayout), Values: make([]*float64, len(view.Columns))}
		for j, c := range view.Columns {
			if v, ok := lookup[c][d]; ok {
				v := v
				row.Values[j] = &v
			}
		}
		view.Rows[i] = row
	}
	return view
}

// DateLayout is the YYYY-MM-DD form used for dates on the wire and in charts.
const DateLayout = "2006-01-02"
