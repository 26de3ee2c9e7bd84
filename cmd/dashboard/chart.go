package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"BeesDashboard/internal/chart"
	"BeesDashboard/internal/model"
)

type chartCmd struct {
	ticker string
	years  int
	theme  string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "print the chart description of one ticker as JSON" }
func (*chartCmd) Usage() string {
	return `chart -t <ticker> [-years N] [-theme dark|light]

  Prints the Plotly-compatible chart description of a configured ticker.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker symbol or label to chart")
	f.IntVar(&c.years, "years", 0, "history length in years (default from config)")
	f.StringVar(&c.theme, "theme", "", "force dark or light theme")
}

func (c *chartCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		fmt.Fprintln(os.Stderr, "-t is required")
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	target := model.Ticker{Label: c.ticker, Symbol: c.ticker}.Trimmed()
	for _, t := range a.cfg.Tickers {
		t = t.Trimmed()
		if t.Symbol == target.Symbol || t.Label == target.Label {
			target = t
			break
		}
	}

	years := a.dashboard.Years.Clamp(c.years)
	table, err := a.service.FetchWeekly(ctx, []string{target.Symbol}, years)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching weekly data: %v\n", err)
		return subcommands.ExitFailure
	}

	themeCtx := a.dashboard.Theme
	if c.theme != "" {
		themeCtx.Base = c.theme
	}
	spec, err := chart.BuildChart(table, target.Label, target.Symbol, themeCtx.Resolve())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s (%s) - %v\n", target.Label, target.Symbol, err)
		return subcommands.ExitFailure
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(spec); err != nil {
		fmt.Fprintf(os.Stderr, "encode chart: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
