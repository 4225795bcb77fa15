// Command detmatch matches detections against ground truths for a batch of images
// and writes the resulting match table as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/nvr-ai/go-detmatch/assignment"
	"github.com/nvr-ai/go-detmatch/evaluation"
	"github.com/nvr-ai/go-detmatch/matching"
	"github.com/nvr-ai/go-detmatch/postprocess"
	"github.com/nvr-ai/go-detmatch/util"
	"github.com/pkg/errors"
)

type options struct {
	input        string
	dir          string
	iouThreshold float64
	solver       string
	workers      int
	skipFailed   bool
	nms          float64
	classAware   bool
	classes      string
	summary      bool
	verbose      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "input", "", "Path to a JSON batch file")
	flag.StringVar(&opts.dir, "dir", "", "Directory with one JSON annotation file per image")
	flag.Float64Var(&opts.iouThreshold, "iou-threshold", matching.DefaultIoUThreshold, "Minimum IoU for a match (inclusive)")
	flag.StringVar(&opts.solver, "solver", assignment.NameJonkerVolgenant, "Assignment solver: jv (optimal), or the hungarian and greedy baselines")
	flag.IntVar(&opts.workers, "workers", runtime.NumCPU(), "Number of images matched in parallel")
	flag.BoolVar(&opts.skipFailed, "skip-failed", false, "Skip images that fail to match instead of aborting")
	flag.Float64Var(&opts.nms, "nms", 0, "Apply greedy NMS with this IoU threshold before matching (0 disables)")
	flag.BoolVar(&opts.classAware, "nms-class-aware", true, "Suppress only within the same class")
	flag.StringVar(&opts.classes, "classes", "", "Class set for \"class\" names in the input (coco)")
	flag.BoolVar(&opts.summary, "summary", false, "Print a summary to stderr")
	flag.BoolVar(&opts.verbose, "v", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr, logger); err != nil {
		logger.Error("detmatch failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer, logger *slog.Logger) error {
	var (
		records []util.ImageRecord
		err     error
	)
	switch {
	case opts.input != "" && opts.dir != "":
		return errors.New("-input and -dir are mutually exclusive")
	case opts.input != "":
		records, err = util.LoadBatchFile(opts.input)
	case opts.dir != "":
		records, err = util.LoadAnnotationDir(opts.dir)
	default:
		return errors.New("one of -input or -dir is required")
	}
	if err != nil {
		return err
	}

	var convert util.ConvertOptions
	if opts.nms > 0 {
		convert.NMS = &postprocess.NMSConfig{IoUThreshold: opts.nms, ClassAware: opts.classAware}
	}
	if opts.classes != "" {
		if convert.Classes, err = postprocess.ClassSetByName(opts.classes); err != nil {
			return err
		}
	}
	imgs, err := util.ToImages(records, convert)
	if err != nil {
		return err
	}

	solver, err := assignment.ByName(opts.solver)
	if err != nil {
		return err
	}
	policy := evaluation.AbortOnError
	if opts.skipFailed {
		policy = evaluation.SkipFailedImages
	}

	metrics := &evaluation.BasicMetricsCollector{}
	builder, err := evaluation.NewBuilder(
		evaluation.WithIoUThreshold(opts.iouThreshold),
		evaluation.WithSolver(solver),
		evaluation.WithErrorPolicy(policy),
		evaluation.WithConcurrency(opts.workers),
		evaluation.WithLogger(logger),
		evaluation.WithMetricsCollector(metrics),
	)
	if err != nil {
		return err
	}

	table, err := builder.Build(ctx, imgs)
	if err != nil {
		return err
	}
	if err := table.WriteCSV(stdout); err != nil {
		return err
	}

	if opts.summary {
		s := table.Summary()
		fmt.Fprintf(stderr, "images=%d records=%d predictions=%d matches=%d correct=%d synthetic=%d skipped=%d avg_image_latency=%s\n",
			len(imgs), s.Records, s.Predictions, s.Matches, s.CorrectMatches, s.Synthetic, s.SkippedImages,
			metrics.AverageImageLatency())
	}
	return nil
}
