package dataset

import (
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMatrixRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.npy")
	want := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, SaveMatrixNpy(path, want))

	got, err := LoadNpy(path)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}

func TestVectorLoadsAsColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "y.npy")
	require.NoError(t, SaveNpy(path, mat.NewVecDense(4, []float64{0.5, -1, 2, 3})))

	got, err := LoadNpy(path)
	require.NoError(t, err)
	r, c := got.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 1, c)
	assert.Equal(t, []float64{0.5, -1, 2, 3}, mat.Col(nil, 0, got))
}

func TestLoadNpyErrors(t *testing.T) {
	_, err := LoadNpy(filepath.Join(t.TempDir(), "missing.npy"))
	assert.Error(t, err)

	_, _, err = dims([]int{2, 2, 2})
	var verr *errors.ValueError
	assert.True(t, errors.As(err, &verr))

	_, _, err = dims([]int{0})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}
