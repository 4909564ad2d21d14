// Package indicators provides the streaming moving averages strategies
// maintain during a run. Heavier indicators (MACD, RSI) arrive precomputed
// on the bars themselves.
package indicators

import "fmt"

// SMA is a streaming simple moving average over closing prices.
type SMA struct {
	period int
	window []float64
}

func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		window: make([]float64, 0, period),
	}
}

func (m *SMA) Name() string {
	return fmt.Sprintf("SMA(%d)", m.period)
}

func (m *SMA) Reset() {
	m.window = m.window[:0]
}

func (m *SMA) Update(close float64) {
	m.window = append(m.window, close)
	if len(m.window) > m.period {
		m.window = m.window[1:]
	}
}

// Ready reports whether a full window has been observed.
func (m *SMA) Ready() bool {
	return len(m.window) >= m.period
}

func (m *SMA) Value() float64 {
	if !m.Ready() {
		return 0
	}

	sum := 0.0
	for _, c := range m.window {
		sum += c
	}
	return sum / float64(len(m.window))
}
