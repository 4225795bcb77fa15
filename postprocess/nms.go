package postprocess

import (
	"cmp"
	"slices"

	"github.com/nvr-ai/go-detmatch/images"
)

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	IoUThreshold float64 // Overlap above which the lower-scored box is suppressed.
	ClassAware   bool    // If true, suppress only within same class.
}

// SortByScore orders results by descending score. Equal scores keep their
// relative order.
func SortByScore(results []Result) {
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})
}

// ApplyGreedyNMS performs standard greedy Non-Maximum Suppression.
//
// Arguments:
//   - results: Detections in any order; the input slice is not modified.
//   - config: NMS configuration.
//
// Returns:
//   - Kept detections by descending score. Empty input returns an empty slice.
func ApplyGreedyNMS(results []Result, config *NMSConfig) []Result {
	n := len(results)
	sorted := slices.Clone(results)
	SortByScore(sorted)

	filtered := make([]Result, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := sorted[i]
		filtered = append(filtered, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if config.ClassAware && anchor.Class != sorted[j].Class {
				continue
			}

			// Suppress if IoU exceeds threshold
			if images.CalculateIoU(anchor.Box, sorted[j].Box) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
