package mask

import (
	"errors"
	"fmt"
	"io"

	"github.com/sbinet/npyio/npy"
	"gonum.org/v1/gonum/mat"
)

var ErrInvalidNPY = errors.New("invalid npy file")

// WriteNPY encodes m as a C-ordered NumPy array of shape (height, width)
// holding 0 and 1.
func WriteNPY(w io.Writer, m *Mask) error {
	if m.Width == 0 || m.Height == 0 {
		return fmt.Errorf("cannot write an empty %dx%d mask", m.Height, m.Width)
	}

	values := make([]float64, len(m.Data))
	for i, v := range m.Data {
		values[i] = float64(v)
	}
	if err := npy.Write(w, mat.NewDense(m.Height, m.Width, values)); err != nil {
		return fmt.Errorf("failed to write npy data: %w", err)
	}
	return nil
}

// ReadNPY decodes a 2-D C-ordered numeric or boolean array of 0/1 values.
func ReadNPY(r io.Reader) (*Mask, error) {
	reader, err := npy.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNPY, err)
	}

	descr := reader.Header.Descr
	if descr.Fortran {
		return nil, fmt.Errorf("%w: fortran order is not supported", ErrInvalidNPY)
	}
	if len(descr.Shape) != 2 {
		return nil, fmt.Errorf("%w: expected a 2-D array, got shape %v", ErrInvalidNPY, descr.Shape)
	}

	values, err := readValues(reader, descr.Type)
	if err != nil {
		return nil, err
	}

	m := New(descr.Shape[1], descr.Shape[0])
	if len(values) != len(m.Data) {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrInvalidNPY, len(values), descr.Shape)
	}
	for i, v := range values {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("%w: value %v at index %d is not binary", ErrInvalidNPY, v, i)
		}
		m.Data[i] = uint8(v)
	}
	return m, nil
}

func readValues(reader *npy.Reader, dtype string) ([]float64, error) {
	switch dtype {
	case "<f8":
		var values []float64
		if err := reader.Read(&values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNPY, err)
		}
		return values, nil
	case "<i8":
		var values []int64
		if err := reader.Read(&values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNPY, err)
		}
		return convert(values), nil
	case "<i4":
		var values []int32
		if err := reader.Read(&values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNPY, err)
		}
		return convert(values), nil
	case "|u1":
		var values []uint8
		if err := reader.Read(&values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNPY, err)
		}
		return convert(values), nil
	case "|b1":
		var values []bool
		if err := reader.Read(&values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNPY, err)
		}
		out := make([]float64, len(values))
		for i, v := range values {
			if v {
				out[i] = 1
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %s", ErrInvalidNPY, dtype)
	}
}

func convert[T int64 | int32 | uint8](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
