package model

import "strings"

// Ticker pairs a display label with an exchange symbol.
type Ticker struct {
	Label  string `yaml:"label" json:"label"`
	Symbol string `yaml:"symbol" json:"symbol"`
}

// Blank reports whether the ticker has no usable symbol.
func (t Ticker) Blank() bool { return strings.TrimSpace(t.Symbol) == "" }

// Trimmed returns the ticker with surrounding spaces removed from both
// fields. Fetched tables are keyed by the trimmed symbol.
func (t Ticker) Trimmed() Ticker {
	return Ticker{Label: strings.TrimSpace(t.Label), Symbol: strings.TrimSpace(t.Symbol)}
}

// TickerSet is an ordered list of tickers; order drives grid placement.
type TickerSet []Ticker

// DefaultTickers returns the built-in BeES set.
func DefaultTickers() TickerSet {
	return TickerSet{
		{Label: "Nifty BeES", Symbol: "NIFTYBEES.NS"},
		{Label: "Bank BeES", Symbol: "BANKBEES.NS"},
		{Label: "Gold BeES", Symbol: "GOLDBEES.NS"},
		{Label: "Silver BeES", Symbol: "SILVERBEES.NS"},
		{Label: "Hang Seng BeES", Symbol: "HNGSNGBEES.NS"},
		{Label: "MON 100", Symbol: "MON100.NS"},
	}
}

// Symbols returns the non-blank symbols in order, without duplicates.
func (s TickerSet) Symbols() []string {
	seen := make(map[string]bool, len(s))
	out := make([]string, 0, len(s))
	for _, t := range s {
		sym := strings.TrimSpace(t.Symbol)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
