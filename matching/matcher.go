package matching

import (
	"log/slog"
	"math"

	"github.com/nvr-ai/go-detmatch/assignment"
	"github.com/nvr-ai/go-detmatch/images"
	"github.com/pkg/errors"
)

// PredictionOutcome is the match state of one prediction.
type PredictionOutcome struct {
	// Matched is true when the prediction holds a pair that survived the threshold.
	Matched bool
	// GroundTruth is the matched ground-truth index, -1 when unmatched.
	GroundTruth int
	// IoU with the matched ground truth, 0 when unmatched.
	IoU float64
	// CorrectMatch is true when the matched ground truth carries the same label.
	CorrectMatch bool
}

// Result is the matching of one image.
type Result struct {
	// Raw is the solver's assignment before thresholding, ordered by prediction.
	Raw Outcome
	// Matches are the pairs that survived the threshold, ordered by prediction.
	Matches Outcome
	// Predictions has one entry per input prediction, in input order.
	Predictions []PredictionOutcome
	// UnmatchedGroundTruths lists, ascending, the ground truths without a
	// surviving match.
	UnmatchedGroundTruths []int
	// UnmatchedLabels are the labels of UnmatchedGroundTruths, same order.
	UnmatchedLabels []int
}

// ForPrediction returns the surviving pair of prediction i, if any.
func (r *Result) ForPrediction(i int) (Pair, bool) {
	p := r.Predictions[i]
	if !p.Matched {
		return Pair{}, false
	}
	return Pair{Prediction: i, GroundTruth: p.GroundTruth, IoU: p.IoU}, true
}

// Matcher matches predictions to ground truths with a globally optimal
// assignment on 1 - IoU, then drops pairs below the IoU threshold.
//
// A Matcher holds no mutable state and is safe for concurrent use.
type Matcher struct {
	threshold float64
	solver    assignment.Solver
	logger    *slog.Logger
}

// New creates a Matcher.
//
// Arguments:
//   - opts: Threshold, solver and logger options.
//
// Returns:
//   - *Matcher: The configured matcher.
//   - error: An error if the IoU threshold is NaN or outside [0, 1].
func New(opts ...Option) (*Matcher, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if math.IsNaN(cfg.threshold) || cfg.threshold < 0 || cfg.threshold > 1 {
		return nil, errors.Errorf("iou threshold %v outside [0, 1]", cfg.threshold)
	}
	return &Matcher{threshold: cfg.threshold, solver: cfg.solver, logger: cfg.logger}, nil
}

// Threshold returns the configured IoU threshold.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Solver returns the configured assignment solver.
func (m *Matcher) Solver() assignment.Solver { return m.solver }

// With returns a copy of the matcher whose log lines carry the given attributes,
// e.g. m.With("image", name).
func (m *Matcher) With(args ...any) *Matcher {
	c := *m
	c.logger = m.logger.With(args...)
	return &c
}

// Match pairs the predictions of one image with its ground truths.
//
// With no predictions every ground truth is unmatched and neither the IoU kernel
// nor the solver runs. Predictions left without a pair (more predictions than
// ground truths, or a pair under the threshold) are reported unmatched; they are
// never dropped.
//
// Arguments:
//   - preds: The image's predictions with one assigned label each.
//   - gts: The image's ground truths.
//
// Returns:
//   - *Result: Per-prediction outcomes plus unmatched ground truths.
//   - error: ErrShapeMismatch, images.ErrInvalidBox or assignment.ErrSolverFailure.
func (m *Matcher) Match(preds Predictions, gts GroundTruths) (*Result, error) {
	if err := preds.Validate(); err != nil {
		return nil, err
	}
	if err := gts.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Predictions: make([]PredictionOutcome, preds.Len()),
		Raw:         emptyOutcome(),
		Matches:     emptyOutcome(),
	}
	for i := range res.Predictions {
		res.Predictions[i].GroundTruth = -1
	}

	if preds.Len() == 0 {
		for j, b := range gts.Boxes {
			if err := b.Validate(); err != nil {
				return nil, errors.Wrapf(err, "ground truth %d", j)
			}
		}
		res.setUnmatched(gts, make([]bool, gts.Len()))
		m.logMatch(res, preds, gts)
		return res, nil
	}

	ious, err := images.PairwiseIoU(preds.Boxes, gts.Boxes)
	if err != nil {
		return nil, errors.Wrap(err, "predictions vs ground truths")
	}

	rows, cols, err := m.solver.Solve(ious.Complement())
	if err != nil {
		return nil, errors.Wrapf(err, "%s solver", m.solver.Name())
	}
	if err := assignment.Check(rows, cols, preds.Len(), gts.Len()); err != nil {
		return nil, errors.Wrapf(err, "%s solver", m.solver.Name())
	}

	res.Raw = Outcome{PredictionIndex: rows, GroundTruthIndex: cols, IoU: make([]float64, len(rows))}
	for k := range rows {
		res.Raw.IoU[k] = ious.At(rows[k], cols[k])
	}
	res.Matches = res.Raw.Filter(m.threshold)

	matched := make([]bool, gts.Len())
	for k := range res.Matches.PredictionIndex {
		i, j := res.Matches.PredictionIndex[k], res.Matches.GroundTruthIndex[k]
		matched[j] = true
		res.Predictions[i] = PredictionOutcome{
			Matched:      true,
			GroundTruth:  j,
			IoU:          res.Matches.IoU[k],
			CorrectMatch: gts.Labels[j] == preds.Labels[i],
		}
	}
	res.setUnmatched(gts, matched)

	m.logMatch(res, preds, gts)
	return res, nil
}

func (m *Matcher) logMatch(res *Result, preds Predictions, gts GroundTruths) {
	m.logger.Debug("matched predictions",
		"predictions", preds.Len(),
		"ground_truths", gts.Len(),
		"assigned", res.Raw.Len(),
		"matches", res.Matches.Len(),
		"unmatched", len(res.UnmatchedGroundTruths),
	)
}

func (r *Result) setUnmatched(gts GroundTruths, matched []bool) {
	r.UnmatchedGroundTruths = make([]int, 0, len(matched))
	r.UnmatchedLabels = make([]int, 0, len(matched))
	for j, ok := range matched {
		if !ok {
			r.UnmatchedGroundTruths = append(r.UnmatchedGroundTruths, j)
			r.UnmatchedLabels = append(r.UnmatchedLabels, gts.Labels[j])
		}
	}
}
