package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bartgo/pkg/errors"
)

func TestResponseScaler_RoundTrip(t *testing.T) {
	y := mat.NewVecDense(5, []float64{3, -1, 7, 2, 5})

	s := NewResponseScaler()
	scaled, err := s.FitTransform(y)
	require.NoError(t, err)

	assert.Equal(t, -1.0, s.YMin)
	assert.Equal(t, 7.0, s.YMax)
	assert.InDelta(t, -0.5, mat.Min(scaled), 1e-15)
	assert.InDelta(t, 0.5, mat.Max(scaled), 1e-15)
	assert.InDelta(t, (3.0+1)/8-0.5, scaled.AtVec(0), 1e-15)

	back, err := s.InverseTransform(scaled)
	require.NoError(t, err)
	for i := 0; i < y.Len(); i++ {
		assert.InDelta(t, y.AtVec(i), back.AtVec(i), 1e-12)
	}
	assert.Contains(t, s.String(), "y_min=-1")
}

func TestResponseScaler_Errors(t *testing.T) {
	s := NewResponseScaler()

	_, err := s.Transform(mat.NewVecDense(1, []float64{1}))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	err = s.Fit(mat.NewVecDense(3, []float64{2, 2, 2}))
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))
	assert.False(t, s.IsFitted())
}
