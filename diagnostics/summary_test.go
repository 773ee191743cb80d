package diagnostics

import (
	"testing"

	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	values := make([]float64, 101)
	for i := range values {
		values[i] = float64(i)
	}

	s, err := Summarize(values)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, s.Mean, 1e-12)
	assert.InDelta(t, 50.0, s.P50, 1e-12)
	assert.Positive(t, s.Std)
	assert.Less(t, s.P5, s.P50)
	assert.Greater(t, s.P95, s.P50)
	assert.Equal(t, 5.0, s.P5)
	assert.Equal(t, 95.0, s.P95)
}

func TestSummarizeSingleValue(t *testing.T) {
	s, err := Summarize([]float64{0.3})
	require.NoError(t, err)
	assert.Equal(t, 0.3, s.Mean)
	assert.Zero(t, s.Std)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestPostBurnIn(t *testing.T) {
	trace := []float64{1, 2, 3, 4}
	assert.Equal(t, []float64{3, 4}, PostBurnIn(trace, 2))
	assert.Equal(t, trace, PostBurnIn(trace, -1))
	assert.Nil(t, PostBurnIn(trace, 4))
}
