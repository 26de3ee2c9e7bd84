package chart

import (
	"errors"
	"math"
	"testing"
	"time"

	"BeesDashboard/internal/model"
)

func goldTable(n int) model.PriceTable {
	start := time.Date(2022, 10, 24, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, 7*i), Close: 40 + math.Sin(float64(i)/5)*3 + float64(i)*0.05}
	}
	return model.PriceTable{"GOLDBEES.NS": model.FrameFromBars(bars)}
}

func TestBuildChart_GoldEndToEnd(t *testing.T) {
	table := goldTable(104)
	spec, err := BuildChart(table, "Gold BeES", "GOLDBEES.NS", Light)
	if err != nil {
		t.Fatal(err)
	}
	closeTr, ok := spec.Trace("Gold BeES Close")
	if !ok {
		t.Fatal("missing close trace")
	}
	smaTr, ok := spec.Trace(SMATraceName)
	if !ok {
		t.Fatal("missing sma trace")
	}
	if len(closeTr.Y) != 104 || len(smaTr.Y) != 104 {
		t.Fatalf("expected 104 points, got close=%d sma=%d", len(closeTr.Y), len(smaTr.Y))
	}
	if smaTr.Y[0] != closeTr.Y[0] {
		t.Errorf("sma[0]=%v, want close[0]=%v", smaTr.Y[0], closeTr.Y[0])
	}
	sum := 0.0
	for _, v := range closeTr.Y[:30] {
		sum += v
	}
	if math.Abs(smaTr.Y[29]-sum/30) > 1e-9 {
		t.Errorf("sma[29]=%v, want %v", smaTr.Y[29], sum/30)
	}
	if closeTr.X[0] != "2022-10-24" || smaTr.X[103] != closeTr.X[103] {
		t.Errorf("unexpected dates %s / %s", closeTr.X[0], smaTr.X[103])
	}
	if closeTr.Line.Color != CloseColor || smaTr.Line.Color != SMAColor {
		t.Error("unexpected trace colors")
	}
	if want := "Gold BeES (GOLDBEES.NS) - Weekly Close & 30W SMA"; spec.Layout.Title.Text != want {
		t.Errorf("title %q, want %q", spec.Layout.Title.Text, want)
	}
	if spec.Layout.HoverMode != "x unified" || spec.Layout.Legend.Orientation != "h" || spec.Layout.Legend.XAnchor != "right" {
		t.Error("unexpected hover/legend layout")
	}
	if closeTr.HoverTemplate != "%{x|%Y-%m-%d}<br>%{y:.2f}<extra></extra>" {
		t.Errorf("unexpected hover template %q", closeTr.HoverTemplate)
	}
}

func TestBuildChart_DropsMissingCloses(t *testing.T) {
	table := goldTable(5)
	closes := table["GOLDBEES.NS"][model.FieldClose]
	closes[2].Value = math.NaN()

	spec, err := BuildChart(table, "Gold BeES", "GOLDBEES.NS", Dark)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(spec.Data[0].Y); n != 4 {
		t.Errorf("expected 4 points after dropping missing, got %d", n)
	}
	if !math.IsNaN(closes[2].Value) {
		t.Error("input table must not be modified")
	}
}

func TestBuildChart_MissingTicker(t *testing.T) {
	table := goldTable(10)
	_, err := BuildChart(table, "MON 100", "MON100.NS", Light)
	var mte *MissingTickerError
	if !errors.As(err, &mte) || mte.Ticker != "MON100.NS" {
		t.Fatalf("expected MissingTickerError, got %v", err)
	}
	if err.Error() != "no data returned for MON100.NS" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if _, err := BuildChart(table, "Gold BeES", "GOLDBEES.NS", Light); err != nil {
		t.Errorf("present ticker must still build: %v", err)
	}
}

func TestBuildChart_Palettes(t *testing.T) {
	table := goldTable(3)
	dark, _ := BuildChart(table, "G", "GOLDBEES.NS", Dark)
	if dark.Layout.PaperBGColor != "#0E0E0E" || dark.Layout.PlotBGColor != "#111111" ||
		dark.Layout.Font.Color != "#F0F0F0" || dark.Layout.XAxis.GridColor != "#2A2A2A" {
		t.Errorf("unexpected dark palette %+v", dark.Layout)
	}
	light, _ := BuildChart(table, "G", "GOLDBEES.NS", Light)
	if light.Layout.PaperBGColor != "#FAFAFA" || light.Layout.PlotBGColor != "#FFFFFF" ||
		light.Layout.Font.Color != "#1A1A1A" || light.Layout.YAxis.GridColor != "#E6E6E6" {
		t.Errorf("unexpected light palette %+v", light.Layout)
	}
	if dark.Theme != "dark" || light.Theme != "light" {
		t.Error("unexpected theme names")
	}
}

func TestThemeContext_Resolve(t *testing.T) {
	tests := []struct {
		name string
		ctx  ThemeContext
		want Theme
	}{
		{"black background", ThemeContext{BackgroundColor: "#000000"}, Dark},
		{"white background", ThemeContext{BackgroundColor: "#FFFFFF"}, Light},
		{"shorthand black", ThemeContext{BackgroundColor: "#000"}, Dark},
		{"shorthand white", ThemeContext{BackgroundColor: "#fff"}, Light},
		{"explicit dark beats light color", ThemeContext{Base: "dark", BackgroundColor: "#FFFFFF"}, Dark},
		{"explicit light beats dark color", ThemeContext{Base: "Light", BackgroundColor: "#000000"}, Light},
		{"dark gray", ThemeContext{BackgroundColor: "#0E1117"}, Dark},
		{"unparseable", ThemeContext{BackgroundColor: "black"}, Light},
		{"bad length", ThemeContext{BackgroundColor: "#00000"}, Light},
		{"bad digits", ThemeContext{BackgroundColor: "#GGGGGG"}, Light},
		{"nothing", ThemeContext{}, Light},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ctx.Resolve(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLuminance(t *testing.T) {
	if l, ok := Luminance("#000000"); !ok || l != 0 {
		t.Errorf("black: %v %v", l, ok)
	}
	if l, ok := Luminance("#FFFFFF"); !ok || math.Abs(l-1) > 1e-12 {
		t.Errorf("white: %v %v", l, ok)
	}
	a, _ := Luminance("#abc")
	b, _ := Luminance("#aabbcc")
	if a != b {
		t.Errorf("shorthand mismatch %v != %v", a, b)
	}
}
