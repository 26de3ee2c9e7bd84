package calculator

import (
	"errors"
	"math"
)

// WeeklySMAWindow is the window of the weekly moving average drawn on every chart.
const WeeklySMAWindow = 30

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// RollingSMA returns the trailing mean at every position of prices.
// Positions with fewer than window predecessors average what is available,
// provided at least minPeriods points are in range; otherwise they are NaN.
func RollingSMA(prices []float64, window, minPeriods int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	if minPeriods <= 0 || minPeriods > window {
		return nil, errors.New("min periods must be in [1, window]")
	}
	out := make([]float64, len(prices))
	for i := range prices {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		n := i - start + 1
		if n < minPeriods {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := start; j <= i; j++ {
			sum += prices[j]
		}
		out[i] = sum / float64(n)
	}
	return out, nil
}

// WeeklySMA is RollingSMA with the dashboard's 30-week window and a one-point minimum.
func WeeklySMA(closes []float64) []float64 {
	out, _ := RollingSMA(closes, WeeklySMAWindow, 1)
	return out
}
