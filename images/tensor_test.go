package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestBoxesFromTensor(t *testing.T) {
	t.Run("float32", func(t *testing.T) {
		tt := tensor.New(tensor.WithShape(2, 4), tensor.WithBacking([]float32{
			0, 0, 10, 10,
			5.5, 5.5, 20, 30,
		}))
		boxes, err := BoxesFromTensor(tt)
		require.NoError(t, err)
		assert.Equal(t, []Box{{0, 0, 10, 10}, {5.5, 5.5, 20, 30}}, boxes)
	})

	t.Run("float64", func(t *testing.T) {
		tt := tensor.New(tensor.WithShape(1, 4), tensor.WithBacking([]float64{1, 2, 3, 4}))
		boxes, err := BoxesFromTensor(tt)
		require.NoError(t, err)
		assert.Equal(t, []Box{{1, 2, 3, 4}}, boxes)
	})

	t.Run("int64", func(t *testing.T) {
		tt := tensor.New(tensor.WithShape(1, 4), tensor.WithBacking([]int64{1, 2, 3, 4}))
		boxes, err := BoxesFromTensor(tt)
		require.NoError(t, err)
		assert.Equal(t, []Box{{1, 2, 3, 4}}, boxes)
	})
}

func TestBoxesFromTensor_Errors(t *testing.T) {
	t.Run("wrong shape", func(t *testing.T) {
		tt := tensor.New(tensor.WithShape(2, 3), tensor.WithBacking([]float32{0, 0, 1, 1, 1, 1}))
		_, err := BoxesFromTensor(tt)
		assert.Error(t, err)
	})

	t.Run("invalid box", func(t *testing.T) {
		tt := tensor.New(tensor.WithShape(2, 4), tensor.WithBacking([]float32{
			0, 0, 1, 1,
			3, 3, 2, 2,
		}))
		_, err := BoxesFromTensor(tt)
		assert.ErrorIs(t, err, ErrInvalidBox)
		assert.Contains(t, err.Error(), "box 1")
	})
}
