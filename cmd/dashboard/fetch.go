package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"BeesDashboard/internal/calculator"
	"BeesDashboard/internal/dashboard"
	"BeesDashboard/internal/model"
)

type fetchCmd struct {
	years int
	rows  int
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "download weekly data and print the latest weeks" }
func (*fetchCmd) Usage() string {
	return `fetch [-years N] [-rows N]

  Downloads weekly bars for the configured tickers and prints the latest
  close and 30-week SMA per ticker followed by the tail of the raw table.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.years, "years", 0, "history length in years (default from config)")
	f.IntVar(&c.rows, "rows", dashboard.TailRows, "number of most recent weeks to print")
}

func (c *fetchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	years := a.dashboard.Years.Clamp(c.years)
	table, err := a.service.FetchWeekly(ctx, a.cfg.Tickers.Symbols(), years)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching weekly data: %v\n", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Label\tTicker\tWeeks\tClose\t30W SMA")
	for _, t := range a.cfg.Tickers {
		if t.Blank() {
			continue
		}
		t = t.Trimmed()
		frame, ok := table[t.Symbol]
		if !ok {
			fmt.Fprintf(w, "%s\t%s\t-\t-\tno data\n", t.Label, t.Symbol)
			continue
		}
		closes := frame[model.FieldClose].DropMissing().Values()
		if len(closes) == 0 {
			fmt.Fprintf(w, "%s\t%s\t0\t-\t-\n", t.Label, t.Symbol)
			continue
		}
		window := calculator.WeeklySMAWindow
		if len(closes) < window {
			window = len(closes)
		}
		sma, _ := calculator.CalculateSMA(closes, window)
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n", t.Label, t.Symbol, len(closes), closes[len(closes)-1], sma)
	}
	w.Flush()

	fmt.Println()
	view := table.Tail(c.rows)
	header := []string{"Date"}
	for _, col := range view.Columns {
		header = append(header, fmt.Sprintf("%s %s", col.Ticker, col.Field))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range view.Rows {
		cells := []string{row.Date}
		for _, v := range row.Values {
			if v == nil {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, fmt.Sprintf("%.2f", *v))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	return subcommands.ExitSuccess
}
