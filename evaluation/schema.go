// Package evaluation - Batch aggregation of per-image matches into one record table for
// AP/mAP computation.
package evaluation

// ColumnType is the logical type of a table column.
type ColumnType int

// Column types of the match table.
const (
	ColumnUInt32 ColumnType = iota
	ColumnUtf8
	ColumnFloat32
	ColumnUInt8
)

func (t ColumnType) String() string {
	switch t {
	case ColumnUInt32:
		return "UInt32"
	case ColumnUtf8:
		return "Utf8"
	case ColumnFloat32:
		return "Float32"
	case ColumnUInt8:
		return "UInt8"
	default:
		return "Unknown"
	}
}

// Column names of the match table.
const (
	ColumnID           = "id"
	ColumnImageName    = "img_name"
	ColumnConfidence   = "confidence"
	ColumnLabel        = "label"
	ColumnIoU          = "iou"
	ColumnMatch        = "match"
	ColumnCorrectMatch = "correct_match"
)

// Column describes one table column.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is the ordered column set of a match table.
type Schema struct {
	Columns []Column
}

// DefaultSchema returns the column set every Table is built with.
func DefaultSchema() Schema {
	return Schema{Columns: []Column{
		{ColumnID, ColumnUInt32},
		{ColumnImageName, ColumnUtf8},
		{ColumnConfidence, ColumnFloat32},
		{ColumnLabel, ColumnUInt8},
		{ColumnIoU, ColumnFloat32},
		{ColumnMatch, ColumnUInt8},
		{ColumnCorrectMatch, ColumnUInt8},
	}}
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
