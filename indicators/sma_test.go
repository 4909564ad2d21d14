package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMAWarmupAndValue(t *testing.T) {
	t.Parallel()

	m := NewSMA(3)
	assert.False(t, m.Ready())
	assert.Zero(t, m.Value())

	m.Update(10)
	m.Update(20)
	assert.False(t, m.Ready())

	m.Update(30)
	assert.True(t, m.Ready())
	assert.InDelta(t, 20.0, m.Value(), 1e-12)

	// Window slides.
	m.Update(40)
	assert.InDelta(t, 30.0, m.Value(), 1e-12)
}

func TestSMAReset(t *testing.T) {
	t.Parallel()

	m := NewSMA(2)
	m.Update(5)
	m.Update(7)
	assert.True(t, m.Ready())

	m.Reset()
	assert.False(t, m.Ready())
	assert.Zero(t, m.Value())
}
