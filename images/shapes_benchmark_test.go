package images

import (
	"fmt"
	"math/rand"
	"testing"
)

// BenchmarkIoU_NonOverlapping tests performance with boxes that don't overlap.
// This returns early once the intersection width or height is <= 0.
func BenchmarkIoU_NonOverlapping(b *testing.B) {
	box1 := Box{X1: 0, Y1: 0, X2: 100, Y2: 100}
	box2 := Box{X1: 200, Y1: 200, X2: 300, Y2: 300}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = CalculateIoU(box1, box2)
	}
}

// BenchmarkIoU_PartialOverlap tests the common prediction vs ground truth case.
func BenchmarkIoU_PartialOverlap(b *testing.B) {
	box1 := Box{X1: 0, Y1: 0, X2: 100, Y2: 100}
	box2 := Box{X1: 50, Y1: 50, X2: 150, Y2: 150}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = CalculateIoU(box1, box2)
	}
}

// BenchmarkPairwiseIoU measures matrix construction for typical per-image box counts.
func BenchmarkPairwiseIoU(b *testing.B) {
	sizes := []struct{ preds, gts int }{
		{10, 10},
		{100, 20},
		{300, 100},
	}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dx%d", size.preds, size.gts), func(b *testing.B) {
			rng := rand.New(rand.NewSource(42))
			preds := randomBoxes(rng, size.preds)
			gts := randomBoxes(rng, size.gts)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if _, err := PairwiseIoU(preds, gts); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
