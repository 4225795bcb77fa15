package postprocess

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownClass is returned when a class name or set is not registered.
var ErrUnknownClass = errors.New("unknown class")

// ClassSet maps class names to the label indices used by a dataset.
type ClassSet struct {
	Name    string
	Classes []string
	index   map[string]int
}

// NewClassSet builds a ClassSet where Classes[i] has label i.
func NewClassSet(name string, classes []string) *ClassSet {
	s := &ClassSet{Name: name, Classes: classes, index: make(map[string]int, len(classes))}
	for i, c := range classes {
		s.index[strings.ToLower(c)] = i
	}
	return s
}

// Index returns the label of a class name. Lookup is case-insensitive.
func (s *ClassSet) Index(name string) (int, error) {
	i, ok := s.index[strings.ToLower(name)]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownClass, "%q not in %s", name, s.Name)
	}
	return i, nil
}

// ClassName returns the name of a label, or "" when out of range.
func (s *ClassSet) ClassName(label int) string {
	if label < 0 || label >= len(s.Classes) {
		return ""
	}
	return s.Classes[label]
}

// COCO is the 80-class COCO label set in YOLO order.
var COCO = NewClassSet("coco", []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse",
	"sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie",
	"suitcase", "frisbee", "skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon",
	"bowl", "banana", "apple", "sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut",
	"cake", "chair", "couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator", "book",
	"clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
})

// ClassSetByName resolves a registered class set.
func ClassSetByName(name string) (*ClassSet, error) {
	switch strings.ToLower(name) {
	case "coco":
		return COCO, nil
	default:
		return nil, errors.Wrapf(ErrUnknownClass, "class set %q", name)
	}
}
