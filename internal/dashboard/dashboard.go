package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"BeesDashboard/internal/chart"
	"BeesDashboard/internal/model"
	"BeesDashboard/internal/recorder"
)

// TailRows is the number of most recent weeks shown in the raw data table.
const TailRows = 20

// Source is the weekly data provider the dashboard reads from.
type Source interface {
	FetchWeekly(ctx context.Context, tickers []string, years int) (model.PriceTable, error)
	Refresh()
	Prune() int
}

// YearsRange bounds the history control.
type YearsRange struct {
	Min     int
	Max     int
	Default int
}

// DefaultYears is the stock [2, 15] range with a default of 7.
var DefaultYears = YearsRange{Min: 2, Max: 15, Default: 7}

// Clamp maps a requested value into the range; zero selects the default.
func (r YearsRange) Clamp(years int) int {
	if years == 0 {
		return r.Default
	}
	if years < r.Min {
		return r.Min
	}
	if years > r.Max {
		return r.Max
	}
	return years
}

// ChartResult is the outcome for one configured ticker: a spec or the error
// that prevented it.
type ChartResult struct {
	Label  string
	Ticker string
	Column int // 0 = left, 1 = right
	Spec   *model.ChartSpec
	Err    error
}

// Warning is the banner text for a failed ticker.
func (r ChartResult) Warning() string {
	if r.Err == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s) - %v", r.Label, r.Ticker, r.Err)
}

// Page is one rendered dashboard.
type Page struct {
	Years      int
	YearsRange YearsRange
	Theme      chart.Theme
	Charts     []ChartResult
	Table      model.TableView
	RenderedAt time.Time
}

// Column returns the results placed in grid column col, in order.
func (p *Page) Column(col int) []ChartResult {
	var out []ChartResult
	for _, r := range p.Charts {
		if r.Column == col {
			out = append(out, r)
		}
	}
	return out
}

// Warnings returns the banner texts of every failed ticker.
func (p *Page) Warnings() []string {
	var out []string
	for _, r := range p.Charts {
		if r.Err != nil {
			out = append(out, r.Warning())
		}
	}
	return out
}

// Dashboard wires the data source, ticker configuration and theme together.
type Dashboard struct {
	Source   Source
	Tickers  model.TickerSet
	Theme    chart.ThemeContext
	Years    YearsRange
	Recorder recorder.Recorder
	Now      func() time.Time
}

// New creates a Dashboard.
func New(src Source, tickers model.TickerSet, theme chart.ThemeContext, years YearsRange, rec recorder.Recorder) *Dashboard {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Dashboard{
		Source:   src,
		Tickers:  tickers,
		Theme:    theme,
		Years:    years,
		Recorder: rec,
		Now:      time.Now,
	}
}

// BuildCharts builds one result per non-blank ticker. A ticker missing from
// the table yields a result carrying the error; any other error aborts.
// Grid columns follow the ticker's position in the configured list.
func BuildCharts(table model.PriceTable, tickers model.TickerSet, theme chart.Theme) ([]ChartResult, error) {
	results := make([]ChartResult, 0, len(tickers))
	for idx, t := range tickers {
		if t.Blank() {
			continue
		}
		t = t.Trimmed()
		res := ChartResult{Label: t.Label, Ticker: t.Symbol, Column: idx % 2}
		spec, err := chart.BuildChart(table, t.Label, t.Symbol, theme)
		if err != nil {
			var mte *chart.MissingTickerError
			if !errors.As(err, &mte) {
				return nil, fmt.Errorf("build chart %s: %w", t.Symbol, err)
			}
			log.Printf("[WARN] %s", ChartResult{Label: t.Label, Ticker: t.Symbol, Err: err}.Warning())
			res.Err = err
		}
		res.Spec = spec
		results = append(results, res)
	}
	return results, nil
}

// Render runs one render cycle for the given history length and theme.
// A fetch failure is returned unchanged; missing tickers become warnings.
func (d *Dashboard) Render(ctx context.Context, years int, theme chart.Theme) (*Page, error) {
	years = d.Years.Clamp(years)
	evt := &recorder.RenderEvent{Years: years}
	defer func() {
		if err := d.Recorder.RecordRender(evt); err != nil {
			log.Printf("[ERROR] record render: %v", err)
		}
	}()

	table, err := d.Source.FetchWeekly(ctx, d.Tickers.Symbols(), years)
	if err != nil {
		evt.Failed = err.Error()
		return nil, err
	}

	charts, err := BuildCharts(table, d.Tickers, theme)
	if err != nil {
		evt.Failed = err.Error()
		return nil, err
	}

	page := &Page{
		Years:      years,
		YearsRange: d.Years,
		Theme:      theme,
		Charts:     charts,
		Table:      table.Tail(TailRows),
		RenderedAt: d.Now(),
	}
	for _, r := range charts {
		if r.Err == nil {
			evt.Charts++
		} else {
			evt.Warnings = append(evt.Warnings, fmt.Sprintf("%s (%s)", r.Label, r.Ticker))
		}
	}
	return page, nil
}

// RenderDefault renders with the configured theme.
func (d *Dashboard) RenderDefault(ctx context.Context, years int) (*Page, error) {
	return d.Render(ctx, years, d.Theme.Resolve())
}

// Refresh clears cached data so the next render refetches.
func (d *Dashboard) Refresh() {
	d.Source.Refresh()
}

// Prune drops expired cached data and returns how many tables went.
func (d *Dashboard) Prune() int {
	return d.Source.Prune()
}
