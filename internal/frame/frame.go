// Package frame loads a raw delimited file into an immutable column-wise
// table and answers the per-column questions the checker asks: null counts,
// maximum sizes, and distinct tuple counts.
package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"table-check/internal/dtype"
	"table-check/internal/schema"
)

// ErrSchemaMismatch reports a raw data row whose field count does not line
// up with the declared schema.
var ErrSchemaMismatch = errors.New("schema and raw data do not align")

// column is one loaded column. Numeric columns, integer kinds included, are
// held as float64 so a null cell stays representable; text columns keep the
// decoded string as-is.
type column struct {
	name string
	kind dtype.Kind
	nums []float64
	strs []string
	null []bool
}

// Frame is an immutable column-wise table loaded from one raw data file.
// Columns follow the declared schema order; the raw file has no header row.
type Frame struct {
	cols []column
	rows int
}

// Load reads the whole raw file through the charset named by the format
// descriptor and types every cell by its schema column. A cell equal to the
// configured na_value loads as null. Numeric cells that fail to parse and
// rows whose field count diverges from the schema are fatal: a misaligned
// file must never produce a report.
func Load(r io.Reader, sch *schema.Schema, format schema.Format) (*Frame, error) {
	dec, err := decodeReader(r, format.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(dec)
	cr.Comma = format.Delimiter
	cr.FieldsPerRecord = -1 // counted against the schema below
	cr.ReuseRecord = true

	cols := make([]column, len(sch.Columns))
	for i, sc := range sch.Columns {
		cols[i] = column{name: sc.Name, kind: sc.Type.Kind}
	}

	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read raw data row %d: %w", rows+1, err)
		}
		rows++

		if len(rec) != len(cols) {
			return nil, fmt.Errorf("row %d has %d fields, schema declares %d: %w",
				rows, len(rec), len(cols), ErrSchemaMismatch)
		}

		for i := range cols {
			c := &cols[i]
			cell := rec[i]

			if cell == format.NAValue {
				c.null = append(c.null, true)
				if c.kind == dtype.KindText {
					c.strs = append(c.strs, "")
				} else {
					c.nums = append(c.nums, math.NaN())
				}
				continue
			}

			c.null = append(c.null, false)
			if c.kind == dtype.KindText {
				c.strs = append(c.strs, cell)
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: parse numeric cell %q: %w",
					rows, c.name, cell, err)
			}
			c.nums = append(c.nums, v)
		}
	}

	return &Frame{cols: cols, rows: rows}, nil
}

// decodeReader wraps r so its bytes come out as UTF-8. Charset names are
// resolved through the IANA registry; underscores are tolerated because the
// format files traditionally spell utf_8.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if n == "" || n == "utf-8" || n == "utf8" {
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(n)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Rows returns the number of loaded rows.
func (f *Frame) Rows() int { return f.rows }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// NullCount returns the number of null cells in column i.
func (f *Frame) NullCount(i int) int {
	n := 0
	for _, isNull := range f.cols[i].null {
		if isNull {
			n++
		}
	}
	return n
}

// MaxAbs returns the maximum absolute numeric value in column i, nulls
// ignored. ok is false when the column holds no non-null cell.
func (f *Frame) MaxAbs(i int) (max float64, ok bool) {
	c := &f.cols[i]
	for r, v := range c.nums {
		if c.null[r] {
			continue
		}
		if a := math.Abs(v); !ok || a > max {
			max, ok = a, true
		}
	}
	return max, ok
}

// MaxTextBytes returns the maximum UTF-8 byte length among the non-null
// cells of text column i. ok is false when the column is entirely null.
func (f *Frame) MaxTextBytes(i int) (max int, ok bool) {
	c := &f.cols[i]
	for r, s := range c.strs {
		if c.null[r] {
			continue
		}
		if n := len(s); !ok || n > max {
			max, ok = n, true
		}
	}
	return max, ok
}

// DistinctCount counts the distinct value tuples over the given columns,
// duplicates removed. Null cells compare equal to each other, the way a
// drop-duplicates pass treats missing values.
//
// Tuple keys length-prefix every field, so a cell is free to contain any
// byte without colliding with a neighbouring field or the null marker.
func (f *Frame) DistinctCount(cols []int) int {
	seen := make(map[string]struct{}, f.rows)
	var b strings.Builder
	for r := 0; r < f.rows; r++ {
		b.Reset()
		for _, ci := range cols {
			c := &f.cols[ci]
			if c.null[r] {
				// "n:" cannot be confused with a length prefix.
				b.WriteString("n:")
				continue
			}
			var cell string
			if c.kind == dtype.KindText {
				cell = c.strs[r]
			} else {
				cell = strconv.FormatFloat(c.nums[r], 'g', -1, 64)
			}
			b.WriteString(strconv.Itoa(len(cell)))
			b.WriteByte(':')
			b.WriteString(cell)
		}
		seen[b.String()] = struct{}{}
	}
	return len(seen)
}
