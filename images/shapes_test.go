package images

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIoU_Correctness validates the IoU implementation against known test cases
func TestIoU_Correctness(t *testing.T) {
	tests := []struct {
		name     string
		a        Box
		b        Box
		expected float64
	}{
		{"Identical boxes", Box{0, 0, 100, 100}, Box{0, 0, 100, 100}, 1.0},
		{"No overlap", Box{0, 0, 100, 100}, Box{200, 200, 300, 300}, 0.0},
		{"Touching edges", Box{0, 0, 100, 100}, Box{100, 0, 200, 100}, 0.0},
		{"Half overlap", Box{0, 0, 100, 100}, Box{50, 50, 150, 150}, 2500.0 / 17500.0},
		{"Small overlap", Box{0, 0, 100, 100}, Box{90, 90, 190, 190}, 100.0 / 19900.0},
		{"One inside other", Box{0, 0, 100, 100}, Box{25, 25, 75, 75}, 0.25},
		{"Fractional coordinates", Box{0.5, 0.5, 1.5, 1.5}, Box{1, 0.5, 2, 1.5}, 0.5 / 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateIoU(tt.a, tt.b)
			assert.InDelta(t, tt.expected, result, 1e-12)

			// IoU(A, B) must equal IoU(B, A) exactly.
			assert.Equal(t, result, CalculateIoU(tt.b, tt.a))
		})
	}
}

// TestIoU_EdgeCases tests degenerate boxes and extreme coordinates
func TestIoU_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		a    Box
		b    Box
	}{
		{"Zero area box 1", Box{0, 0, 0, 0}, Box{0, 0, 100, 100}},
		{"Zero area box 2", Box{0, 0, 100, 100}, Box{50, 50, 50, 50}},
		{"Both zero area", Box{0, 0, 0, 0}, Box{10, 10, 10, 10}},
		{"Inverted box", Box{100, 100, 0, 0}, Box{0, 0, 100, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateIoU(tt.a, tt.b)
			assert.False(t, math.IsNaN(result))
			assert.Equal(t, 0.0, result)
			assert.Equal(t, 0.0, CalculateIoU(tt.b, tt.a))
		})
	}
}

func TestIoU_LargeCoordinates(t *testing.T) {
	// Products far outside the int32 range stay exact in float64.
	a := Box{0, 0, 4e9, 4e9}
	b := Box{2e9, 0, 6e9, 4e9}
	assert.InDelta(t, 1.0/3.0, CalculateIoU(a, b), 1e-12)
	assert.Equal(t, 1.6e19, a.Area())

	// Areas near MaxFloat64: the union would overflow if summed directly.
	huge := Box{0, 0, 1e154, 1e154}
	require.NoError(t, huge.Validate())
	assert.Equal(t, 1.0, CalculateIoU(huge, huge))
	m, err := PairwiseIoU([]Box{huge}, []Box{huge})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.At(0, 0))

	wide := Box{0, 0, 1e154, 1.7e154}
	shifted := Box{0.5e154, 0, 1.5e154, 1.7e154}
	require.NoError(t, wide.Validate())
	require.NoError(t, shifted.Validate())
	assert.InDelta(t, 1.0/3.0, CalculateIoU(wide, shifted), 1e-12)
	assert.InDelta(t, 1.0/3.0, CalculateIoU(shifted, wide), 1e-12)
}

func TestNewBox(t *testing.T) {
	tests := []struct {
		name    string
		coords  [4]float64
		wantErr bool
	}{
		{"valid", [4]float64{0, 0, 1, 1}, false},
		{"negative coordinates", [4]float64{-10, -10, -5, -5}, false},
		{"x1 equals x2", [4]float64{1, 0, 1, 1}, true},
		{"y1 greater than y2", [4]float64{0, 2, 1, 1}, true},
		{"NaN", [4]float64{math.NaN(), 0, 1, 1}, true},
		{"Inf", [4]float64{0, 0, math.Inf(1), 1}, true},
		{"overflowing area", [4]float64{-math.MaxFloat64, -math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBox(tt.coords[0], tt.coords[1], tt.coords[2], tt.coords[3])
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidBox)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Box{tt.coords[0], tt.coords[1], tt.coords[2], tt.coords[3]}, b)
		})
	}
}

func TestNewBox32(t *testing.T) {
	b, err := NewBox32(1.5, 2.5, 3.5, 4.5)
	require.NoError(t, err)
	assert.Equal(t, Box{1.5, 2.5, 3.5, 4.5}, b)
	assert.Equal(t, 4.0, b.Area())

	_, err = NewBox32(float32(math.NaN()), 0, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidBox)

	_, err = NewBox32(0, 0, float32(math.Inf(1)), 1)
	assert.ErrorIs(t, err, ErrInvalidBox)
}

func TestFromRectangle(t *testing.T) {
	b, err := FromRectangle(image.Rect(100, 50, 10, 5))
	require.NoError(t, err)
	assert.Equal(t, Box{10, 5, 100, 50}, b)

	_, err = FromRectangle(image.Rect(0, 0, 0, 10))
	assert.ErrorIs(t, err, ErrInvalidBox)
}

// TestIoU_vs_ImageRectangle compares the float implementation against image.Rectangle
// on integral boxes.
func TestIoU_vs_ImageRectangle(t *testing.T) {
	testCases := []struct {
		name   string
		r1, r2 image.Rectangle
	}{
		{"No overlap", image.Rect(0, 0, 100, 100), image.Rect(200, 200, 300, 300)},
		{"Partial overlap", image.Rect(0, 0, 100, 100), image.Rect(50, 50, 150, 150)},
		{"Full overlap", image.Rect(50, 50, 150, 150), image.Rect(50, 50, 150, 150)},
		{"One inside other", image.Rect(0, 0, 100, 100), image.Rect(25, 25, 75, 75)},
		{"Large boxes", image.Rect(0, 0, 1920, 1080), image.Rect(960, 540, 1920, 1080)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b1, err := FromRectangle(tc.r1)
			require.NoError(t, err)
			b2, err := FromRectangle(tc.r2)
			require.NoError(t, err)

			assert.InDelta(t, imageRectangleIoU(tc.r1, tc.r2), CalculateIoU(b1, b2), 1e-12)
		})
	}
}

// imageRectangleIoU implements IoU using Go's standard library image.Rectangle
func imageRectangleIoU(r1, r2 image.Rectangle) float64 {
	intersect := r1.Intersect(r2)
	if intersect.Empty() {
		return 0.0
	}

	intersectArea := intersect.Dx() * intersect.Dy()
	union := r1.Dx()*r1.Dy() + r2.Dx()*r2.Dy() - intersectArea

	return float64(intersectArea) / float64(union)
}

func TestAreas(t *testing.T) {
	assert.Equal(t, []float64{1, 6, 0.25}, Areas([]Box{
		{0, 0, 1, 1},
		{0, 0, 2, 3},
		{0.5, 0.5, 1, 1},
	}))
	assert.Empty(t, Areas(nil))
}
