package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nvr-ai/go-detmatch/evaluation"
	"github.com/nvr-ai/go-detmatch/images"
	"github.com/nvr-ai/go-detmatch/matching"
	"github.com/nvr-ai/go-detmatch/postprocess"
	"github.com/pkg/errors"
)

// PredictionRecord is one prediction as stored on disk.
//
// Exactly one of Label, Class (with Confidence) or Scores is used, in that order.
// With Scores the label is chosen by postprocess.MaxScoreLabel and the confidence
// is the chosen score.
type PredictionRecord struct {
	Box        [4]float64 `json:"box"`
	Label      *int       `json:"label,omitempty"`
	Class      string     `json:"class,omitempty"`
	Confidence float32    `json:"confidence,omitempty"`
	Scores     []float32  `json:"scores,omitempty"`
}

// GroundTruthRecord is one annotated box as stored on disk. Class, when set,
// overrides Label through the conversion's class set.
type GroundTruthRecord struct {
	Box   [4]float64 `json:"box"`
	Label int        `json:"label"`
	Class string     `json:"class,omitempty"`
}

// ConvertOptions controls how records become matcher input.
type ConvertOptions struct {
	// NMS, when set, runs greedy NMS over the predictions first, which reorders
	// them by descending score.
	NMS *postprocess.NMSConfig
	// Classes resolves "class" names to labels.
	Classes *postprocess.ClassSet
}

// ImageRecord holds the predictions and ground truths of one image.
type ImageRecord struct {
	Name         string              `json:"name"`
	Predictions  []PredictionRecord  `json:"predictions"`
	GroundTruths []GroundTruthRecord `json:"ground_truths"`
}

// BatchFile is the layout of a single-file batch.
type BatchFile struct {
	Images []ImageRecord `json:"images"`
}

// LoadBatchFile reads a batch from one JSON file.
//
// Arguments:
// - path: Path to a JSON file with a top-level "images" array. Files ending in
// .gz, .zst or .lz4 are decompressed first.
//
// Returns:
// - []ImageRecord: The images in file order.
// - error: Error if reading or decoding fails.
func LoadBatchFile(path string) ([]ImageRecord, error) {
	data, err := readJSONFile(path)
	if err != nil {
		return nil, err
	}

	var batch BatchFile
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return batch.Images, nil
}

// LoadAnnotationDir reads one JSON file per image from a directory. Compressed
// files (.json.gz, .json.zst, .json.lz4) are read as well.
//
// Files are ordered by frame number when every name is numeric (optionally
// prefixed with "frame-"), by name otherwise. An image without a "name" field
// takes its file name without extension.
//
// Arguments:
// - dir: Directory path containing .json files.
//
// Returns:
// - []ImageRecord: The images in file order.
// - error: Error if reading or decoding fails.
func LoadAnnotationDir(dir string) ([]ImageRecord, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type entry struct {
		record ImageRecord
		stem   string
		frame  int
	}
	var entries []entry
	numeric := true
	for _, file := range files {
		stem, ok := jsonStem(file.Name())
		if file.IsDir() || !ok {
			continue
		}

		path := filepath.Join(dir, file.Name())
		data, readErr := readJSONFile(path)
		if readErr != nil {
			return nil, readErr
		}
		var rec ImageRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", path)
		}

		if rec.Name == "" {
			rec.Name = stem
		}
		frame, err := strconv.Atoi(strings.TrimPrefix(stem, "frame-"))
		if err != nil {
			numeric = false
		}
		entries = append(entries, entry{record: rec, stem: stem, frame: frame})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if numeric {
			return entries[i].frame < entries[j].frame
		}
		return entries[i].stem < entries[j].stem
	})

	records := make([]ImageRecord, len(entries))
	for i, e := range entries {
		records[i] = e.record
	}
	return records, nil
}

// Results resolves the label and confidence of every prediction. classes may be
// nil when no record uses class names.
func (r ImageRecord) Results(classes *postprocess.ClassSet) ([]postprocess.Result, error) {
	out := make([]postprocess.Result, len(r.Predictions))
	for i, p := range r.Predictions {
		res := postprocess.Result{Box: toBox(p.Box), Score: p.Confidence}
		switch {
		case p.Label != nil:
			res.Class = *p.Label
		case p.Class != "":
			label, err := resolve(classes, p.Class)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: prediction %d", r.Name, i)
			}
			res.Class = label
		case len(p.Scores) > 0:
			label, score, err := postprocess.MaxScoreLabel(p.Scores)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: prediction %d", r.Name, i)
			}
			res.Class, res.Score = label, score
		default:
			return nil, errors.Errorf("%s: prediction %d has neither label nor scores", r.Name, i)
		}
		out[i] = res
	}
	return out, nil
}

// Image converts the record into matcher input.
func (r ImageRecord) Image(opts ConvertOptions) (evaluation.Image, error) {
	results, err := r.Results(opts.Classes)
	if err != nil {
		return evaluation.Image{}, err
	}
	if opts.NMS != nil {
		results = postprocess.ApplyGreedyNMS(results, opts.NMS)
	}

	gts := matching.GroundTruths{
		Boxes:  make([]images.Box, len(r.GroundTruths)),
		Labels: make([]int, len(r.GroundTruths)),
	}
	for j, g := range r.GroundTruths {
		gts.Boxes[j] = toBox(g.Box)
		gts.Labels[j] = g.Label
		if g.Class != "" {
			label, err := resolve(opts.Classes, g.Class)
			if err != nil {
				return evaluation.Image{}, errors.Wrapf(err, "%s: ground truth %d", r.Name, j)
			}
			gts.Labels[j] = label
		}
	}

	return evaluation.Image{
		Name:         r.Name,
		Predictions:  postprocess.ToPredictions(results),
		GroundTruths: gts,
	}, nil
}

// ToImages converts every record with ImageRecord.Image.
func ToImages(records []ImageRecord, opts ConvertOptions) ([]evaluation.Image, error) {
	imgs := make([]evaluation.Image, len(records))
	for i, r := range records {
		img, err := r.Image(opts)
		if err != nil {
			return nil, err
		}
		imgs[i] = img
	}
	return imgs, nil
}

// Boxes are not validated here; the matcher reports invalid boxes per image.
func toBox(b [4]float64) images.Box {
	return images.Box{X1: b[0], Y1: b[1], X2: b[2], Y2: b[3]}
}

func resolve(classes *postprocess.ClassSet, name string) (int, error) {
	if classes == nil {
		return 0, errors.Errorf("class %q given without a class set", name)
	}
	return classes.Index(name)
}
