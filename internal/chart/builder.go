package chart

import (
	"fmt"

	"BeesDashboard/internal/calculator"
	"BeesDashboard/internal/model"
)

const (
	CloseColor = "#1F77B4"
	SMAColor   = "#FF7F0E"

	SMATraceName  = "30W SMA"
	hoverTemplate = "%{x|%Y-%m-%d}<br>%{y:.2f}<extra></extra>"
	lineWidth     = 2.5
)

// MissingTickerError reports that a table has no frame for a ticker.
type MissingTickerError struct {
	Ticker string
}

func (e *MissingTickerError) Error() string {
	return fmt.Sprintf("no data returned for %s", e.Ticker)
}

// CloseTraceName is the legend name of a ticker's close series.
func CloseTraceName(label string) string { return label + " Close" }

// Title is the chart heading for a ticker.
func Title(label, ticker string) string {
	return fmt.Sprintf("%s (%s) - Weekly Close & 30W SMA", label, ticker)
}

// BuildChart derives the close series of ticker and its 30-week moving
// average and lays them out in the given theme. It reads table only.
func BuildChart(table model.PriceTable, label, ticker string, theme Theme) (*model.ChartSpec, error) {
	frame, ok := table[ticker]
	if !ok {
		return nil, &MissingTickerError{Ticker: ticker}
	}

	closes := frame[model.FieldClose].DropMissing()
	sma := calculator.WeeklySMA(closes.Values())

	dates := make([]string, len(closes))
	for i, p := range closes {
		dates[i] = p.Date.Format(model.DateLayout)
	}

	pal := PaletteFor(theme)
	axis := func(title string) model.Axis {
		return model.Axis{
			Title:     model.Title{Text: title, Font: model.Font{Color: pal.Font}},
			ShowGrid:  true,
			GridColor: pal.Grid,
			ZeroLine:  false,
			TickFont:  model.Font{Color: pal.Font},
		}
	}

	return &model.ChartSpec{
		Theme: theme.String(),
		Data: []model.Trace{
			{
				Type:          "scatter",
				Mode:          "lines",
				Name:          CloseTraceName(label),
				X:             dates,
				Y:             closes.Values(),
				Line:          model.Line{Width: lineWidth, Color: CloseColor},
				HoverTemplate: hoverTemplate,
			},
			{
				Type:          "scatter",
				Mode:          "lines",
				Name:          SMATraceName,
				X:             append([]string(nil), dates...),
				Y:             sma,
				Line:          model.Line{Width: lineWidth, Color: SMAColor},
				HoverTemplate: hoverTemplate,
			},
		},
		Layout: model.Layout{
			Title:     model.Title{Text: Title(label, ticker), Font: model.Font{Color: pal.Font, Size: 16}},
			XAxis:     axis("Week"),
			YAxis:     axis("Price"),
			HoverMode: "x unified",
			Legend: model.Legend{
				Orientation: "h",
				YAnchor:     "bottom",
				Y:           1.02,
				XAnchor:     "right",
				X:           1,
				Font:        model.Font{Color: pal.Font},
			},
			Margin:       model.Margin{L: 40, R: 20, T: 70, B: 40},
			PaperBGColor: pal.Paper,
			PlotBGColor:  pal.Plot,
			Font:         model.Font{Color: pal.Font},
		},
	}, nil
}
