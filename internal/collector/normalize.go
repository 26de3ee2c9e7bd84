package collector

import (
	"fmt"

	"BeesDashboard/internal/model"
)

// Normalize turns a batched response into a two-level PriceTable, whatever
// the number of tickers requested. Frames for tickers outside the request,
// and frames with no Close value at all, are left out: an absent ticker
// means the source had nothing for it.
func Normalize(tickers []string, resp *Response) (model.PriceTable, error) {
	table := make(model.PriceTable)
	if resp == nil {
		return table, nil
	}

	frames := resp.ByTicker
	if len(frames) == 0 && len(resp.Fields) > 0 {
		if len(tickers) != 1 {
			return nil, fmt.Errorf("response keyed by field for %d tickers", len(tickers))
		}
		frames = map[string]model.Frame{tickers[0]: resp.Fields}
	}

	requested := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		requested[t] = true
	}
	for ticker, frame := range frames {
		if !requested[ticker] {
			continue
		}
		if len(frame[model.FieldClose].DropMissing()) == 0 {
			continue
		}
		table[ticker] = frame
	}
	return table, nil
}
