// Package check evaluates a loaded table against its declared schema and
// classifies the findings: size errors, not-null constraint errors, and
// superkey violations. Findings are report data, not errors; a failing
// check still produces a report.
package check

import (
	"fmt"
	"math"

	"table-check/internal/dtype"
	"table-check/internal/frame"
	"table-check/internal/schema"
)

// MaxSize is the observed maximum size of one column.
//
// For text columns Size is the largest UTF-8 byte length, for integer
// columns the largest absolute value. Valid is false for float columns,
// which are not size-checked. Unset marks an integer or text column whose
// cells were all null: no size was observed, which is neither zero nor an
// error.
type MaxSize struct {
	Size  int64
	Valid bool
	Unset bool
}

// Checker pairs one schema with one loaded frame. All methods are pure
// reads over the two immutable inputs, recomputed on demand.
type Checker struct {
	sch *schema.Schema
	fr  *frame.Frame
}

// New builds a Checker. Schema and frame must align 1:1 by column order;
// frame.Load guarantees the count for files it loaded, this keeps the
// contract explicit for frames built any other way.
func New(sch *schema.Schema, fr *frame.Frame) (*Checker, error) {
	if fr.NumCols() != len(sch.Columns) {
		return nil, fmt.Errorf("schema declares %d columns, table has %d: %w",
			len(sch.Columns), fr.NumCols(), frame.ErrSchemaMismatch)
	}
	return &Checker{sch: sch, fr: fr}, nil
}

// MaxSizeOf reports the maximum observed size of the named column.
func (c *Checker) MaxSizeOf(name string) (MaxSize, error) {
	i := c.sch.Index(name)
	if i < 0 {
		return MaxSize{}, fmt.Errorf("unknown column %q", name)
	}
	return c.maxSizeAt(i), nil
}

func (c *Checker) maxSizeAt(i int) MaxSize {
	switch c.sch.Columns[i].Type.Kind {
	case dtype.KindText:
		n, ok := c.fr.MaxTextBytes(i)
		if !ok {
			return MaxSize{Valid: true, Unset: true}
		}
		return MaxSize{Size: int64(n), Valid: true}
	case dtype.KindInt:
		v, ok := c.fr.MaxAbs(i)
		if !ok {
			return MaxSize{Valid: true, Unset: true}
		}
		// Cells load as float64 and can exceed the int64 range; the
		// conversion would wrap, so saturate instead.
		if v >= math.MaxInt64 {
			return MaxSize{Size: math.MaxInt64, Valid: true}
		}
		return MaxSize{Size: int64(math.Round(v)), Valid: true}
	default:
		// Float columns carry no size.
		return MaxSize{}
	}
}

// MaxSizes reports the maximum observed size of every column, keyed by
// column name.
func (c *Checker) MaxSizes() map[string]MaxSize {
	out := make(map[string]MaxSize, len(c.sch.Columns))
	for i := range c.sch.Columns {
		out[c.sch.Columns[i].Name] = c.maxSizeAt(i)
	}
	return out
}

// CountNaNOf returns the number of null cells in the named column.
func (c *Checker) CountNaNOf(name string) (int, error) {
	i := c.sch.Index(name)
	if i < 0 {
		return 0, fmt.Errorf("unknown column %q", name)
	}
	return c.fr.NullCount(i), nil
}

// CountNaN returns null counts for the columns declared not-null. Columns
// without the constraint are omitted entirely, not zero-filled.
func (c *Checker) CountNaN() map[string]int {
	out := make(map[string]int)
	for i := range c.sch.Columns {
		if c.sch.Columns[i].NotNull {
			out[c.sch.Columns[i].Name] = c.fr.NullCount(i)
		}
	}
	return out
}

// SizeErrorColumns lists, in declared column order, every column whose
// observed maximum size exceeds its type bound. Integers are checked by
// magnitude against the declared upper bound only; very negative values
// count through their absolute value, never against the lower bound. Float
// columns never contribute.
func (c *Checker) SizeErrorColumns() []string {
	var out []string
	for i := range c.sch.Columns {
		col := &c.sch.Columns[i]
		switch col.Type.Kind {
		case dtype.KindText:
			n, ok := c.fr.MaxTextBytes(i)
			if ok && n > col.Type.MaxBytes {
				out = append(out, col.Name)
			}
		case dtype.KindInt:
			// Compared in float64: the cells were loaded as floats and
			// can exceed the int64 range.
			v, ok := c.fr.MaxAbs(i)
			if ok && v > float64(col.Type.Max) {
				out = append(out, col.Name)
			}
		}
	}
	return out
}

// NotNullErrorColumns lists, in declared column order, the not-null columns
// that contain at least one null cell.
func (c *Checker) NotNullErrorColumns() []string {
	var out []string
	for i := range c.sch.Columns {
		col := &c.sch.Columns[i]
		if col.NotNull && c.fr.NullCount(i) > 0 {
			out = append(out, col.Name)
		}
	}
	return out
}

// SuperkeyViolation reports whether the declared superkey column set fails
// to identify every row: true when the distinct tuple count over those
// columns is less than the row count. An empty superkey set only ever
// identifies a table of at most one row, handled explicitly rather than
// left to empty-tuple counting.
func (c *Checker) SuperkeyViolation() bool {
	key := c.sch.SuperkeyIndexes()
	if len(key) == 0 {
		return c.fr.Rows() > 1
	}
	return c.fr.DistinctCount(key) < c.fr.Rows()
}
