// Package images - Image-space box geometry used for detection matching.
package images

import (
	"fmt"
	"image"
	"math"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// ErrInvalidBox is returned when a box violates x1 < x2 and y1 < y2 or carries a
// non-finite coordinate.
var ErrInvalidBox = errors.New("invalid box")

// Box is an axis-aligned bounding box in (x1, y1, x2, y2) format.
//
// Coordinates are held as float64 regardless of how the caller stored them, so
// area and intersection products never overflow or wrap.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// NewBox builds a validated box.
//
// Arguments:
//   - x1, y1: Top-left corner.
//   - x2, y2: Bottom-right corner.
//
// Returns:
//   - Box: The box.
//   - error: ErrInvalidBox if x1 >= x2, y1 >= y2 or any coordinate is NaN/Inf.
func NewBox(x1, y1, x2, y2 float64) (Box, error) {
	b := Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
	if err := b.Validate(); err != nil {
		return Box{}, err
	}
	return b, nil
}

// NewBox32 builds a validated box from float32 coordinates, as produced by most
// model outputs.
func NewBox32(x1, y1, x2, y2 float32) (Box, error) {
	for _, v := range [...]float32{x1, y1, x2, y2} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return Box{}, errors.Wrapf(ErrInvalidBox, "non-finite coordinate in (%v, %v, %v, %v)", x1, y1, x2, y2)
		}
	}
	return NewBox(float64(x1), float64(y1), float64(x2), float64(y2))
}

// FromRectangle converts an image.Rectangle. Max is exclusive in image.Rectangle,
// which matches the continuous (x2, y2) corner used here.
func FromRectangle(r image.Rectangle) (Box, error) {
	r = r.Canon()
	return NewBox(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
}

// Validate checks the box invariant.
func (b Box) Validate() error {
	for _, v := range [...]float64{b.X1, b.Y1, b.X2, b.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidBox, "non-finite coordinate in %s", b)
		}
	}
	if !(b.X1 < b.X2) || !(b.Y1 < b.Y2) {
		return errors.Wrapf(ErrInvalidBox, "%s must satisfy x1 < x2 and y1 < y2", b)
	}
	// Extreme coordinates can still overflow or underflow the product.
	if area := b.Area(); !(area > 0) || math.IsInf(area, 0) {
		return errors.Wrapf(ErrInvalidBox, "%s has unrepresentable area %g", b, area)
	}
	return nil
}

// Width of the box.
func (b Box) Width() float64 { return b.X2 - b.X1 }

// Height of the box.
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

func (b Box) positive() bool {
	return b.Width() > 0 && b.Height() > 0 && b.Area() > 0
}

// Area returns (x2-x1)*(y2-y1).
func (b Box) Area() float64 {
	return b.Width() * b.Height()
}

func (b Box) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", b.X1, b.Y1, b.X2, b.Y2)
}

// Areas computes the area of every box in order.
func Areas(boxes []Box) []float64 {
	areas := make([]float64, len(boxes))
	for i, b := range boxes {
		areas[i] = b.Area()
	}
	return areas
}

// CalculateIoU measures the overlap of two boxes as intersection over union.
//
//	IoU = Area of Intersection / Area of Union
//
// The intersection rectangle starts at the maximum of the two top-left corners
// and ends at the minimum of the two bottom-right corners. When its width or
// height is zero or negative the boxes do not overlap and the result is 0.
//
// The union follows inclusion-exclusion:
//
//	Area(Union) = Area(A) + Area(B) - Area(Intersection)
//
// A degenerate box (zero or negative area) produces 0 rather than NaN.
//
// Arguments:
//   - a: The first box.
//   - b: The second box.
//
// Returns:
//   - float64: A value in [0, 1].
//
// Example Usage:
//
//	a := Box{X1: 0, Y1: 0, X2: 10, Y2: 10}
//	b := Box{X1: 5, Y1: 5, X2: 15, Y2: 15}
//	iou := CalculateIoU(a, b) // 25 / 175 = 0.142857
func CalculateIoU(a, b Box) float64 {
	if !a.positive() || !b.positive() {
		return 0
	}
	return iou(a, b, a.Area(), b.Area())
}

// iou assumes both areas are positive.
func iou(a, b Box, areaA, areaB float64) float64 {
	interW := min(a.X2, b.X2) - max(a.X1, b.X1)
	interH := min(a.Y2, b.Y2) - max(a.Y1, b.Y1)
	if interW <= 0 || interH <= 0 {
		return 0
	}
	inter := interW * interH
	// Subtract before adding so two finite areas near MaxFloat64 do not overflow.
	// Ordering the areas keeps the result bit-identical for (a, b) and (b, a).
	small, large := min(areaA, areaB), max(areaA, areaB)
	union := (small - inter) + large
	if math.IsInf(union, 1) {
		return (inter / 2) / ((small-inter)/2 + large/2)
	}
	return inter / union
}
