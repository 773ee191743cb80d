package diagnostics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracePlot(t *testing.T) {
	values := []float64{1.2, 0.9, 0.7, 0.55, 0.5, 0.52, 0.49}

	p, err := TracePlot(values, 3, "sigma")
	require.NoError(t, err)
	assert.Equal(t, "sigma", p.Title.Text)
	assert.Equal(t, 0.0, p.X.Min)
	assert.Equal(t, 6.0, p.X.Max)

	_, err = TracePlot(nil, 0, "empty")
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestPlotTraceWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigma.png")
	require.NoError(t, PlotTrace([]float64{1, 0.8, 0.6, 0.5}, 2, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPlotTraceUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigma.unknown")
	assert.Error(t, PlotTrace([]float64{1, 0.8}, 0, path))
}
