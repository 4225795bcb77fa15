package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/nvr-ai/go-detmatch/matching"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrLabelOutOfRange is returned when a label does not fit the UInt8 label column.
var ErrLabelOutOfRange = errors.New("label outside the uint8 range")

// Image is the input of one image in a batch.
type Image struct {
	Name         string
	Predictions  matching.Predictions
	GroundTruths matching.GroundTruths
}

// ImageError reports a failure while matching one image of a batch.
type ImageError struct {
	Index int
	Name  string
	Err   error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }

// Builder turns a batch of images into a match Table.
//
// Images are matched in parallel; records are then emitted by a single writer in
// batch order, so the table is identical for any concurrency level.
type Builder struct {
	matcher *matching.Matcher
	policy  ErrorPolicy
	workers int
	logger  *slog.Logger
	metrics MetricsCollector
}

// NewBuilder creates a Builder.
//
// Arguments:
//   - opts: Threshold, solver, error policy, concurrency, logger and metrics options.
//
// Returns:
//   - *Builder: The configured builder.
//   - error: An error if the IoU threshold is invalid.
func NewBuilder(opts ...Option) (*Builder, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m, err := matching.New(
		matching.WithIoUThreshold(cfg.threshold),
		matching.WithSolver(cfg.solver),
		matching.WithLogger(cfg.logger),
	)
	if err != nil {
		return nil, err
	}

	return &Builder{
		matcher: m,
		policy:  cfg.policy,
		workers: cfg.workers,
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}, nil
}

// Matcher returns the per-image matcher used by the builder.
func (b *Builder) Matcher() *matching.Matcher { return b.matcher }

// Build matches every image and returns the batch table.
//
// For each image, in batch order, one record is emitted per prediction in
// prediction order, followed by one synthetic record per unmatched ground truth
// in ascending ground-truth order. IDs are dense over the whole table.
//
// Arguments:
//   - ctx: Cancels the batch; pending images are not started.
//   - imgs: The batch.
//
// Returns:
//   - *Table: The record table, with DefaultSchema even when empty.
//   - error: The first failing image (by batch order) as *ImageError under
//     AbortOnError, or the context error.
func (b *Builder) Build(ctx context.Context, imgs []Image) (*Table, error) {
	start := time.Now()

	results := make([]*matching.Result, len(imgs))
	errs := make([]error, len(imgs))

	// Lowest failing index under AbortOnError. Later images are not started; earlier
	// ones still run so the reported error is the first in batch order.
	var firstFailed atomic.Int64
	firstFailed.Store(math.MaxInt64)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range imgs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if b.policy == AbortOnError && int64(i) > firstFailed.Load() {
				return nil
			}

			res, err := b.matchImage(i, &imgs[i])
			if err != nil {
				errs[i] = err
				if b.policy == AbortOnError {
					lowerMin(&firstFailed, int64(i))
				}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "matching batch")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "matching batch")
	}

	table := newTable(DefaultSchema())
	for i := range imgs {
		if errs[i] != nil {
			if b.policy == AbortOnError {
				return nil, errs[i]
			}
			b.logger.Warn("skipping image", "index", i, "image", imgs[i].Name, "error", errs[i])
			table.skipped = append(table.skipped, SkippedImage{Index: i, Name: imgs[i].Name, Err: errs[i]})
			continue
		}
		if err := emit(table, &imgs[i], results[i]); err != nil {
			return nil, &ImageError{Index: i, Name: imgs[i].Name, Err: err}
		}
	}

	elapsed := time.Since(start)
	b.metrics.RecordBatch(len(imgs), table.Len(), len(table.skipped), elapsed)
	b.logger.Info("built match table",
		"images", len(imgs),
		"records", table.Len(),
		"skipped", len(table.skipped),
		"workers", b.workers,
		"solver", b.matcher.Solver().Name(),
		"duration", elapsed,
	)
	return table, nil
}

func (b *Builder) matchImage(i int, img *Image) (*matching.Result, error) {
	began := time.Now()
	err := checkLabels(img)
	var res *matching.Result
	if err == nil {
		res, err = b.matcher.With("image", img.Name).Match(img.Predictions, img.GroundTruths)
	}
	if err != nil {
		b.metrics.RecordImage(time.Since(began), 0, 0, err)
		return nil, &ImageError{Index: i, Name: img.Name, Err: err}
	}
	b.metrics.RecordImage(time.Since(began), res.Matches.Len(), len(res.UnmatchedGroundTruths), nil)
	return res, nil
}

func emit(t *Table, img *Image, res *matching.Result) error {
	for p, o := range res.Predictions {
		err := t.append(Record{
			ImageName:    img.Name,
			Confidence:   img.Predictions.Confidences[p],
			Label:        uint8(img.Predictions.Labels[p]),
			IoU:          float32(o.IoU),
			Match:        o.Matched,
			CorrectMatch: o.CorrectMatch,
		})
		if err != nil {
			return err
		}
	}
	for _, label := range res.UnmatchedLabels {
		if err := t.append(Record{ImageName: img.Name, Label: uint8(label), Synthetic: true}); err != nil {
			return err
		}
	}
	return nil
}

func checkLabels(img *Image) error {
	for i, l := range img.Predictions.Labels {
		if l < 0 || l > math.MaxUint8 {
			return errors.Wrapf(ErrLabelOutOfRange, "prediction %d: label %d", i, l)
		}
	}
	for j, l := range img.GroundTruths.Labels {
		if l < 0 || l > math.MaxUint8 {
			return errors.Wrapf(ErrLabelOutOfRange, "ground truth %d: label %d", j, l)
		}
	}
	return nil
}

func lowerMin(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n >= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}

// BuildTable matches a batch with the default solver and the given IoU threshold.
func BuildTable(ctx context.Context, imgs []Image, iouThreshold float64) (*Table, error) {
	b, err := NewBuilder(WithIoUThreshold(iouThreshold))
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, imgs)
}
