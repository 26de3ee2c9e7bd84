package calculator

import (
	"math"
	"testing"
)

func mean(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4.5 {
		t.Errorf("expected 4.5, got %v", got)
	}
	if _, err := CalculateSMA([]float64{1}, 2); err == nil {
		t.Error("expected error for short input")
	}
	if _, err := CalculateSMA([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestWeeklySMA_ShrinkingWindow(t *testing.T) {
	closes := make([]float64, 104)
	for i := range closes {
		closes[i] = 100 + float64(i%7)*1.5 - float64(i%3)
	}
	sma := WeeklySMA(closes)
	if len(sma) != len(closes) {
		t.Fatalf("expected %d values, got %d", len(closes), len(sma))
	}
	for i := range closes {
		start := 0
		if i >= 29 {
			start = i - 29
		}
		want := mean(closes[start : i+1])
		if math.Abs(sma[i]-want) > 1e-9 {
			t.Fatalf("sma[%d] = %v, want %v", i, sma[i], want)
		}
	}
	if sma[0] != closes[0] {
		t.Errorf("sma[0] = %v, want first close %v", sma[0], closes[0])
	}
}

func TestRollingSMA_MinPeriods(t *testing.T) {
	got, err := RollingSMA([]float64{2, 4, 6, 8}, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Errorf("expected NaN warm-up, got %v", got[:2])
	}
	if got[2] != 4 || got[3] != 6 {
		t.Errorf("unexpected tail %v", got[2:])
	}
}

func TestRollingSMA_InvalidArgs(t *testing.T) {
	if _, err := RollingSMA(nil, 0, 1); err == nil {
		t.Error("expected error for zero window")
	}
	if _, err := RollingSMA(nil, 3, 4); err == nil {
		t.Error("expected error for min periods above window")
	}
	out, err := RollingSMA(nil, 30, 1)
	if err != nil || len(out) != 0 {
		t.Errorf("expected empty result, got %v, %v", out, err)
	}
}
