// Package postprocess - Turns raw detector output into the labelled predictions the matcher
// consumes.
package postprocess

import (
	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-detmatch/images"
	"github.com/nvr-ai/go-detmatch/matching"
	"github.com/pkg/errors"
)

// ErrNoScores is returned when a detection carries no usable class score.
var ErrNoScores = errors.New("no valid class scores")

// Result represents a single detection with its chosen class.
type Result struct {
	// The bounding box of the result.
	Box images.Box
	// The confidence score of the result.
	Score float32
	// The predicted class index of the result.
	Class int
}

// Detection is a raw detection with one score per candidate class.
type Detection struct {
	Box    images.Box
	Scores []float32
}

// MaxScoreLabel picks the class with the highest score.
//
// NaN scores are ignored. On ties the lower class index wins.
//
// Arguments:
//   - scores: One score per class index.
//
// Returns:
//   - int: The chosen class index.
//   - float32: Its score, used as the prediction confidence.
//   - error: ErrNoScores if every score is NaN or there are none.
func MaxScoreLabel(scores []float32) (int, float32, error) {
	label, best := -1, math32.Inf(-1)
	for i, s := range scores {
		if math32.IsNaN(s) {
			continue
		}
		if label < 0 || s > best {
			label, best = i, s
		}
	}
	if label < 0 {
		return 0, 0, ErrNoScores
	}
	return label, best, nil
}

// Select labels every detection with MaxScoreLabel and keeps those scoring at
// least minScore, preserving input order.
func Select(detections []Detection, minScore float32) ([]Result, error) {
	out := make([]Result, 0, len(detections))
	for i, d := range detections {
		label, score, err := MaxScoreLabel(d.Scores)
		if err != nil {
			return nil, errors.Wrapf(err, "detection %d", i)
		}
		if score < minScore {
			continue
		}
		out = append(out, Result{Box: d.Box, Score: score, Class: label})
	}
	return out, nil
}

// ToPredictions converts results into a prediction set, one prediction per
// result in the same order.
func ToPredictions(results []Result) matching.Predictions {
	p := matching.Predictions{
		Boxes:       make([]images.Box, len(results)),
		Labels:      make([]int, len(results)),
		Confidences: make([]float32, len(results)),
	}
	for i, r := range results {
		p.Boxes[i] = r.Box
		p.Labels[i] = r.Class
		p.Confidences[i] = r.Score
	}
	return p
}
