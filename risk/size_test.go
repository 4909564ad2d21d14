package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionSize(t *testing.T) {
	t.Parallel()

	// 100000 * 0.01 / (50 - 45) = 200
	shares, err := PositionSize(100000, 0.01, 50, 45)
	require.NoError(t, err)
	assert.Equal(t, 200, shares)
}

func TestPositionSizeFloors(t *testing.T) {
	t.Parallel()

	// 10000 * 0.01 / 3 = 33.33 -> 33
	shares, err := PositionSize(10000, 0.01, 48, 45)
	require.NoError(t, err)
	assert.Equal(t, 33, shares)
}

func TestPositionSizeInvalidStop(t *testing.T) {
	t.Parallel()

	_, err := PositionSize(100000, 0.01, 50, 50)
	assert.ErrorIs(t, err, ErrInvalidStopPrice)

	_, err = PositionSize(100000, 0.01, 50, 55)
	assert.ErrorIs(t, err, ErrInvalidStopPrice)
}
