package images

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// BoxesFromTensor reads an N x 4 tensor of (x1, y1, x2, y2) rows into validated
// boxes. Float32, float64, int and int64 tensors are accepted; every value is
// upcast to float64.
func BoxesFromTensor(t tensor.Tensor) ([]Box, error) {
	shape := t.Shape()
	if len(shape) != 2 || shape[1] != 4 {
		return nil, errors.Errorf("expected an N x 4 box tensor, got shape %v", shape)
	}

	boxes := make([]Box, shape[0])
	var coords [4]float64
	for i := range boxes {
		for k := range coords {
			v, err := t.At(i, k)
			if err != nil {
				return nil, errors.Wrapf(err, "reading box %d", i)
			}
			f, err := toFloat64(v)
			if err != nil {
				return nil, errors.Wrapf(err, "box %d", i)
			}
			coords[k] = f
		}
		b, err := NewBox(coords[0], coords[1], coords[2], coords[3])
		if err != nil {
			return nil, errors.Wrapf(err, "box %d", i)
		}
		boxes[i] = b
	}
	return boxes, nil
}

func toFloat64(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	default:
		return 0, errors.Errorf("unsupported tensor element type %T", v)
	}
}
