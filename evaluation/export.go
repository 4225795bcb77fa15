package evaluation

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// WriteCSV writes the table as CSV with a header row of the schema's column
// names. Booleans are written as 0/1 to match the UInt8 columns.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.schema.Names()); err != nil {
		return errors.Wrap(err, "writing csv header")
	}

	row := make([]string, len(t.schema.Columns))
	for _, r := range t.records {
		for c, col := range t.schema.Columns {
			row[c] = r.field(col.Name)
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "writing record %d", r.ID)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

func (r Record) field(name string) string {
	switch name {
	case ColumnID:
		return strconv.FormatUint(uint64(r.ID), 10)
	case ColumnImageName:
		return r.ImageName
	case ColumnConfidence:
		return strconv.FormatFloat(float64(r.Confidence), 'g', -1, 32)
	case ColumnLabel:
		return strconv.FormatUint(uint64(r.Label), 10)
	case ColumnIoU:
		return strconv.FormatFloat(float64(r.IoU), 'g', -1, 32)
	case ColumnMatch:
		return strconv.Itoa(int(flag(r.Match)))
	case ColumnCorrectMatch:
		return strconv.Itoa(int(flag(r.CorrectMatch)))
	default:
		return ""
	}
}
