package market

import "time"

// Bar is one daily OHLCV record for a symbol.
//
// Indicator columns (MACD, RSI, SMAs) are precomputed offline and loaded
// with the bar; the engine never derives them during a run.
type Bar struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64

	MACD       float64
	MACDSignal float64
	RSI        float64
	SMA20      float64
	SMA50      float64
}

// Day truncates t to midnight UTC. All bar lookups work at day granularity.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
