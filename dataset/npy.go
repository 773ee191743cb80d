// Package dataset reads and writes feature matrices and response vectors in
// NumPy .npy format.
package dataset

import (
	"os"

	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// LoadNpy reads a float64 .npy file. A 2-D array becomes a matrix of the same
// shape, a 1-D array becomes a column vector.
func LoadNpy(path string) (m *mat.Dense, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read npy header of %s", path)
	}

	rows, cols, err := dims(r.Header.Descr.Shape)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}

	var data []float64
	if err := r.Read(&data); err != nil {
		return nil, errors.Wrapf(err, "read npy data of %s", path)
	}
	if len(data) != rows*cols {
		return nil, errors.Newf("load %s: expected %d values, got %d", path, rows*cols, len(data))
	}

	if r.Header.Descr.Fortran && cols > 1 {
		// column-major on disk
		m = mat.NewDense(cols, rows, data)
		return mat.DenseCopyOf(m.T()), nil
	}
	return mat.NewDense(rows, cols, data), nil
}

func dims(shape []int) (rows, cols int, err error) {
	switch len(shape) {
	case 1:
		rows, cols = shape[0], 1
	case 2:
		rows, cols = shape[0], shape[1]
	default:
		return 0, 0, errors.NewValueError("LoadNpy", "only 1-D and 2-D arrays are supported")
	}
	if rows == 0 || cols == 0 {
		return 0, 0, errors.ErrEmptyData
	}
	return rows, cols, nil
}

// SaveNpy writes v to path as a 1-D float64 array.
func SaveNpy(path string, v mat.Vector) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	if err := npyio.Write(f, data); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// SaveMatrixNpy writes m to path as a 2-D float64 array.
func SaveMatrixNpy(path string, m mat.Matrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	if err := npyio.Write(f, mat.DenseCopyOf(m)); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
