package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "FitPredict",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "bartgo: FitPredict: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "Trees",
			kind:    "not fitted",
			err:     nil,
			wantMsg: "bartgo: Trees: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)
			assert.Equal(t, tt.wantMsg, err.Error())

			// スタックトレースの存在確認
			assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")

			var modelErr *ModelError
			assert.True(t, As(err, &modelErr))
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("FitPredict", 20, 19, 0)
	assert.Equal(t, "bartgo: FitPredict: dimension mismatch on axis 0 (rows). Expected 20, got 19", err.Error())

	var dimErr *DimensionError
	require.True(t, As(err, &dimErr))
	assert.Equal(t, 19, dimErr.Got)

	err = NewDimensionError("FitPredict", 2, 3, 1)
	assert.Contains(t, err.Error(), "(features)")
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("BART", "SigmaTrace")
	assert.Equal(t, "bartgo: BART: this model is not fitted yet. Call FitPredict() before using SigmaTrace()", err.Error())

	var notFittedErr *NotFittedError
	assert.True(t, As(err, &notFittedErr))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("move_probabilities", "must sum to 1.0", 0.9)
	assert.Equal(t, "bartgo: validation failed for parameter 'move_probabilities': must sum to 1.0 (got: 0.9)", err.Error())

	var valErr *ValidationError
	require.True(t, As(err, &valErr))
	assert.Equal(t, "move_probabilities", valErr.ParamName)
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("FitPredict", "response is constant")
	assert.Equal(t, "bartgo: FitPredict: response is constant", err.Error())

	var valErr *ValueError
	assert.True(t, As(err, &valErr))
}

func TestZerologMarshalling(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	verr := &ValidationError{ParamName: "num_trees", Reason: "must be at least 1", Value: 0}
	logger.Error().EmbedObject(verr).Msg("invalid configuration")

	out := buf.String()
	assert.Contains(t, out, `"param_name":"num_trees"`)
	assert.Contains(t, out, `"type":"ValidationError"`)

	buf.Reset()
	w := NewPriorFallbackWarning("sigma", "singular normal equations", 0.25)
	logger.Warn().EmbedObject(w).Msg(w.Error())
	assert.Contains(t, buf.String(), `"prior":"sigma"`)
	assert.Contains(t, buf.String(), `"fallback":0.25`)
}

func TestWarnRouting(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewPriorFallbackWarning("sigma", "test", 1))
	require.Len(t, got, 1)

	var routed []error
	SetZerologWarnFunc(func(w error) { routed = append(routed, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewPriorFallbackWarning("sigma", "test", 2))
	assert.Len(t, got, 1)
	assert.Len(t, routed, 1)
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "in FitPredict")
	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.True(t, strings.Contains(wrapped.Error(), "in FitPredict"))

	wrapped = Wrapf(ErrSingularMatrix, "in %s: %d features", "LinearRegression.Fit", 3)
	assert.True(t, Is(wrapped, ErrSingularMatrix))
	assert.Contains(t, wrapped.Error(), "in LinearRegression.Fit: 3 features")
}

func TestErrorChaining(t *testing.T) {
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	assert.Contains(t, err3.Error(), "base error")
	assert.Contains(t, fmt.Sprintf("%+v", err3), "errors_test.go")
}

func TestNumericalChecks(t *testing.T) {
	assert.True(t, IsFinite(1.5))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))

	assert.NoError(t, CheckScalar("sigma", 0.3, 4))
	err := CheckScalar("sigma", math.Inf(1), 4)
	var numErr *NumericalInstabilityError
	require.True(t, As(err, &numErr))
	assert.Equal(t, 4, numErr.Iteration)

	m := matrixOf{{1, 2}, {math.NaN(), 4}}
	assert.Error(t, CheckMatrix("x", m, 2, 2, -1))
	assert.NoError(t, CheckMatrix("x", matrixOf{{1, 2}}, 1, 2, -1))
}

type matrixOf [][]float64

func (m matrixOf) At(i, j int) float64 { return m[i][j] }

func TestAcceptanceFromLog(t *testing.T) {
	assert.Equal(t, 1.0, AcceptanceFromLog(0.5))
	assert.Equal(t, 1.0, AcceptanceFromLog(0))
	assert.InDelta(t, math.Exp(-2), AcceptanceFromLog(-2), 1e-15)
	assert.Equal(t, 0.0, AcceptanceFromLog(math.NaN()))
	assert.Equal(t, 0.0, AcceptanceFromLog(math.Inf(1)))
	assert.Equal(t, 0.0, AcceptanceFromLog(math.Inf(-1)))

	assert.Equal(t, 0.0, ClipProbability(math.NaN()))
	assert.Equal(t, 1.0, ClipProbability(3))
	assert.Equal(t, 0.25, ClipProbability(0.25))
}
