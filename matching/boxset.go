// Package matching - Optimal one-to-one matching of predicted boxes against ground truths
// for a single image.
package matching

import (
	"github.com/nvr-ai/go-detmatch/images"
	"github.com/pkg/errors"
)

// ErrShapeMismatch is returned when the parallel slices of a box set disagree in
// length.
var ErrShapeMismatch = errors.New("shape mismatch")

// Predictions is the prediction box set of one image.
//
// Labels holds the single label each prediction is judged by. Choosing it among
// several candidate classes is up to the caller (see postprocess.MaxScoreLabel).
type Predictions struct {
	Boxes       []images.Box
	Labels      []int
	Confidences []float32
}

// Len returns the number of predictions.
func (p Predictions) Len() int { return len(p.Boxes) }

// Validate checks that boxes, labels and confidences line up.
func (p Predictions) Validate() error {
	if len(p.Labels) != len(p.Boxes) || len(p.Confidences) != len(p.Boxes) {
		return errors.Wrapf(ErrShapeMismatch, "predictions: %d boxes, %d labels, %d confidences",
			len(p.Boxes), len(p.Labels), len(p.Confidences))
	}
	return nil
}

// GroundTruths is the annotated box set of one image.
type GroundTruths struct {
	Boxes  []images.Box
	Labels []int
}

// Len returns the number of ground truths.
func (g GroundTruths) Len() int { return len(g.Boxes) }

// Validate checks that boxes and labels line up.
func (g GroundTruths) Validate() error {
	if len(g.Labels) != len(g.Boxes) {
		return errors.Wrapf(ErrShapeMismatch, "ground truths: %d boxes, %d labels", len(g.Boxes), len(g.Labels))
	}
	return nil
}
