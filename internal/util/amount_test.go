package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	v, err := NormalizeAmount(19.999)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)

	v, err = NormalizeAmount(0.004)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v) // rounds down below a cent

	_, err = NormalizeAmount(0)
	assert.Error(t, err)

	_, err = NormalizeAmount(-5)
	assert.Error(t, err)

	_, err = NormalizeAmount(2_000_000_000)
	assert.Error(t, err)
}

func TestSumRound2AvoidsFloatDrift(t *testing.T) {
	// 0.1+0.2 famously isn't 0.3 in binary floats
	assert.Equal(t, 0.3, SumRound2([]float64{0.1, 0.2}))
	assert.Equal(t, 0.0, SumRound2(nil))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.33, Round2(10.0/3.0))
	assert.Equal(t, -3.33, Round2(-10.0/3.0))
}
