package model

import (
	"math"
	"testing"
	"time"
)

func TestFrameFromBars_SortsAndReplacesRepeatedDate(t *testing.T) {
	mon := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)
	f := FrameFromBars([]OHLCV{
		{Time: mon.AddDate(0, 0, 7), Close: 12},
		{Time: mon, Close: 10},
		{Time: mon.Add(5 * time.Hour), Close: 11},
	})
	closes := f[FieldClose]
	if len(closes) != 2 {
		t.Fatalf("expected 2 points, got %d", len(closes))
	}
	if !closes[0].Date.Equal(mon) || closes[0].Value != 11 {
		t.Errorf("expected repeated date to keep the last bar, got %+v", closes[0])
	}
	if closes[1].Value != 12 {
		t.Errorf("unexpected second close %v", closes[1].Value)
	}
}

func TestFrameFromBars_MergesPartialWeek(t *testing.T) {
	mon := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	wed := time.Date(2024, 10, 16, 9, 45, 0, 0, time.UTC)
	f := FrameFromBars([]OHLCV{
		{Time: mon.AddDate(0, 0, -7), Open: 9, High: 10, Low: 8, Close: 9.5, Volume: 50},
		{Time: mon, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
		{Time: wed, Open: 10.6, High: 12, Low: 9.5, Close: 11.5, Volume: 40},
	})
	if n := len(f[FieldClose]); n != 2 {
		t.Fatalf("expected one point per week, got %d", n)
	}
	last := func(field Field) Point { s := f[field]; return s[len(s)-1] }
	if !last(FieldClose).Date.Equal(mon) {
		t.Errorf("expected merged bar to keep the week's date, got %v", last(FieldClose).Date)
	}
	if last(FieldOpen).Value != 10 || last(FieldHigh).Value != 12 || last(FieldLow).Value != 9 {
		t.Errorf("unexpected merged range o=%v h=%v l=%v", last(FieldOpen).Value, last(FieldHigh).Value, last(FieldLow).Value)
	}
	if last(FieldClose).Value != 11.5 || last(FieldVolume).Value != 140 {
		t.Errorf("unexpected merged close=%v volume=%v", last(FieldClose).Value, last(FieldVolume).Value)
	}
}

func TestFrameFromBars_MergeKeepsKnownValues(t *testing.T) {
	mon := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	nan := math.NaN()
	f := FrameFromBars([]OHLCV{
		{Time: mon, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
		{Time: mon.AddDate(0, 0, 3), Open: nan, High: nan, Low: nan, Close: nan, Volume: nan},
	})
	if got := f[FieldClose][0].Value; got != 10.5 {
		t.Errorf("expected known close to survive, got %v", got)
	}
	if got := f[FieldVolume][0].Value; got != 100 {
		t.Errorf("expected known volume to survive, got %v", got)
	}
}

func TestTickerSet_SymbolsTrimmed(t *testing.T) {
	s := TickerSet{{Label: "Gold", Symbol: " GOLDBEES.NS "}, {Label: "Dup", Symbol: "GOLDBEES.NS"}, {Label: "Blank", Symbol: " "}}
	got := s.Symbols()
	if len(got) != 1 || got[0] != "GOLDBEES.NS" {
		t.Errorf("unexpected symbols %v", got)
	}
	if tr := s[0].Trimmed(); tr.Symbol != "GOLDBEES.NS" || tr.Label != "Gold" {
		t.Errorf("unexpected trimmed ticker %+v", tr)
	}
}
