package evaluation

import (
	"math"
	"slices"

	"github.com/pkg/errors"
)

// ErrUnknownColumn is returned when a column name is not part of the schema.
var ErrUnknownColumn = errors.New("unknown column")

// Record is one row of the match table.
//
// A record stands either for a real prediction (matched or not) or, when
// Synthetic is set, for a ground truth that kept no match. Synthetic records
// carry zero confidence and zero IoU.
type Record struct {
	ID           uint32
	ImageName    string
	Confidence   float32
	Label        uint8
	IoU          float32
	Match        bool
	CorrectMatch bool
	Synthetic    bool
}

// SkippedImage names an image dropped under SkipFailedImages.
type SkippedImage struct {
	Index int
	Name  string
	Err   error
}

// Table is the ordered, append-only record table of a batch. IDs are dense and
// start at 0. A returned Table is not modified further.
type Table struct {
	schema  Schema
	records []Record
	skipped []SkippedImage
}

func newTable(schema Schema) *Table {
	return &Table{schema: schema, records: []Record{}}
}

func (t *Table) append(r Record) error {
	if uint64(len(t.records)) > math.MaxUint32 {
		return errors.New("table exceeds the uint32 id range")
	}
	r.ID = uint32(len(t.records))
	t.records = append(t.records, r)
	return nil
}

// Schema returns the table's column set.
func (t *Table) Schema() Schema { return t.schema }

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// At returns the k-th record; k equals its ID.
func (t *Table) At(k int) Record { return t.records[k] }

// Records returns a copy of all records in ID order.
func (t *Table) Records() []Record { return slices.Clone(t.records) }

// Skipped lists images dropped under SkipFailedImages, in batch order.
func (t *Table) Skipped() []SkippedImage { return slices.Clone(t.skipped) }

// Column returns the values of one column in ID order. The concrete type follows
// the column's ColumnType: []uint32, []string, []float32 or []uint8. Zero-row
// tables return empty, non-nil slices.
func (t *Table) Column(name string) (any, error) {
	n := len(t.records)
	switch name {
	case ColumnID:
		out := make([]uint32, n)
		for i, r := range t.records {
			out[i] = r.ID
		}
		return out, nil
	case ColumnImageName:
		out := make([]string, n)
		for i, r := range t.records {
			out[i] = r.ImageName
		}
		return out, nil
	case ColumnConfidence:
		out := make([]float32, n)
		for i, r := range t.records {
			out[i] = r.Confidence
		}
		return out, nil
	case ColumnLabel:
		out := make([]uint8, n)
		for i, r := range t.records {
			out[i] = r.Label
		}
		return out, nil
	case ColumnIoU:
		out := make([]float32, n)
		for i, r := range t.records {
			out[i] = r.IoU
		}
		return out, nil
	case ColumnMatch:
		out := make([]uint8, n)
		for i, r := range t.records {
			out[i] = flag(r.Match)
		}
		return out, nil
	case ColumnCorrectMatch:
		out := make([]uint8, n)
		for i, r := range t.records {
			out[i] = flag(r.CorrectMatch)
		}
		return out, nil
	default:
		return nil, errors.Wrapf(ErrUnknownColumn, "%q", name)
	}
}

// Summary counts the records of a table.
type Summary struct {
	Records        int
	Predictions    int
	Synthetic      int
	Matches        int
	CorrectMatches int
	SkippedImages  int
}

// Summary returns record counts. Predictions + Synthetic == Records.
func (t *Table) Summary() Summary {
	s := Summary{Records: len(t.records), SkippedImages: len(t.skipped)}
	for _, r := range t.records {
		if r.Synthetic {
			s.Synthetic++
			continue
		}
		s.Predictions++
		if r.Match {
			s.Matches++
			if r.CorrectMatch {
				s.CorrectMatches++
			}
		}
	}
	return s
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
