package frame

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"table-check/internal/dtype"
	"table-check/internal/schema"
)

func testSchema(t *testing.T, types ...string) *schema.Schema {
	t.Helper()
	sch := &schema.Schema{}
	for i, raw := range types {
		desc, err := dtype.Normalize(raw)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", raw, err)
		}
		sch.Columns = append(sch.Columns, schema.Column{
			Name: fmt.Sprintf("col%d", i+1),
			Type: desc,
		})
	}
	return sch
}

func csvFormat() schema.Format {
	return schema.Format{Delimiter: ',', Encoding: "utf-8", NAValue: ""}
}

func TestLoad(t *testing.T) {
	sch := testSchema(t, "VARCHAR(8)", "INT", "NUMERIC(11,4)")
	raw := "red,12,0.5\nblue,,1.25\n,-900,\n"

	fr, err := Load(strings.NewReader(raw), sch, csvFormat())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if fr.Rows() != 3 || fr.NumCols() != 3 {
		t.Fatalf("got %dx%d, want 3x3", fr.Rows(), fr.NumCols())
	}

	if got := fr.NullCount(0); got != 1 {
		t.Errorf("NullCount(text) = %d, want 1", got)
	}
	if got := fr.NullCount(1); got != 1 {
		t.Errorf("NullCount(int) = %d, want 1", got)
	}
	if got := fr.NullCount(2); got != 1 {
		t.Errorf("NullCount(float) = %d, want 1", got)
	}

	// Integer max size is the max absolute value, so -900 wins over 12.
	if max, ok := fr.MaxAbs(1); !ok || max != 900 {
		t.Errorf("MaxAbs(int) = %v/%v, want 900/true", max, ok)
	}
	if max, ok := fr.MaxTextBytes(0); !ok || max != 4 {
		t.Errorf("MaxTextBytes = %v/%v, want 4/true", max, ok)
	}
}

func TestLoad_NAValueLiteral(t *testing.T) {
	sch := testSchema(t, "VARCHAR(8)", "INT")
	format := csvFormat()
	format.NAValue = "NULL"

	fr, err := Load(strings.NewReader("red,NULL\nNULL,3\n"), sch, format)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fr.NullCount(0) != 1 || fr.NullCount(1) != 1 {
		t.Errorf("null counts = %d/%d, want 1/1", fr.NullCount(0), fr.NullCount(1))
	}
}

func TestLoad_MultibyteTextBytes(t *testing.T) {
	sch := testSchema(t, "VARCHAR(16)")

	// Size is counted in UTF-8 bytes, not runes.
	fr, err := Load(strings.NewReader("héllo\n"), sch, csvFormat())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if max, ok := fr.MaxTextBytes(0); !ok || max != 6 {
		t.Errorf("MaxTextBytes = %v/%v, want 6/true", max, ok)
	}
}

func TestLoad_Latin1Decoding(t *testing.T) {
	sch := testSchema(t, "VARCHAR(16)")
	format := csvFormat()
	format.Encoding = "latin1"

	// "café" in latin-1: the é is the single byte 0xE9.
	raw := []byte{'c', 'a', 'f', 0xE9, '\n'}
	fr, err := Load(strings.NewReader(string(raw)), sch, format)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Decoded to UTF-8 the é becomes two bytes.
	if max, ok := fr.MaxTextBytes(0); !ok || max != 5 {
		t.Errorf("MaxTextBytes = %v/%v, want 5/true", max, ok)
	}
}

func TestLoad_UnsupportedEncoding(t *testing.T) {
	sch := testSchema(t, "VARCHAR(16)")
	format := csvFormat()
	format.Encoding = "no-such-charset"

	if _, err := Load(strings.NewReader("x\n"), sch, format); err == nil {
		t.Fatal("Load succeeded, want unsupported encoding error")
	}
}

func TestLoad_FieldCountMismatch(t *testing.T) {
	sch := testSchema(t, "VARCHAR(8)", "INT")

	_, err := Load(strings.NewReader("a,1\nb,2,extra\n"), sch, csvFormat())
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("error = %v, want ErrSchemaMismatch", err)
	}
}

func TestLoad_BadNumericCell(t *testing.T) {
	sch := testSchema(t, "INT")

	if _, err := Load(strings.NewReader("12\nabc\n"), sch, csvFormat()); err == nil {
		t.Fatal("Load succeeded, want numeric parse error")
	}
}

func TestMaxAbs_AllNull(t *testing.T) {
	sch := testSchema(t, "INT", "VARCHAR(8)")

	fr, err := Load(strings.NewReader(",x\n,y\n"), sch, csvFormat())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := fr.MaxAbs(0); ok {
		t.Error("MaxAbs on all-null column reported a value")
	}
	if fr.NullCount(0) != 2 {
		t.Errorf("NullCount = %d, want 2", fr.NullCount(0))
	}
}

func TestDistinctCount(t *testing.T) {
	sch := testSchema(t, "VARCHAR(8)", "INT")
	raw := "a,1\na,2\na,1\nb,1\n,3\n,3\n"

	fr, err := Load(strings.NewReader(raw), sch, csvFormat())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// (a,1) and (,3) repeat: 6 rows, 4 distinct tuples.
	if got := fr.DistinctCount([]int{0, 1}); got != 4 {
		t.Errorf("DistinctCount(both) = %d, want 4", got)
	}
	// Over the first column alone: a, b, null.
	if got := fr.DistinctCount([]int{0}); got != 3 {
		t.Errorf("DistinctCount(col1) = %d, want 3", got)
	}
}

func TestDistinctCount_ControlBytesInCells(t *testing.T) {
	sch := testSchema(t, "VARCHAR(8)", "VARCHAR(8)")
	// Quoted cells carrying a 0x1f byte: ("a\x1f","b") and ("a","\x1fb")
	// are distinct tuples even though their concatenations agree.
	raw := "\"a\x1f\",b\na,\"\x1fb\"\n"

	fr, err := Load(strings.NewReader(raw), sch, csvFormat())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := fr.DistinctCount([]int{0, 1}); got != 2 {
		t.Errorf("DistinctCount = %d, want 2", got)
	}
}

func TestDistinctCount_NulByteIsNotNull(t *testing.T) {
	sch := testSchema(t, "VARCHAR(8)")
	format := csvFormat()
	format.NAValue = "NULL"

	// A cell holding the single byte 0x00 is a value, not a null.
	fr, err := Load(strings.NewReader("\x00\nNULL\n"), sch, format)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fr.NullCount(0) != 1 {
		t.Fatalf("NullCount = %d, want 1", fr.NullCount(0))
	}
	if got := fr.DistinctCount([]int{0}); got != 2 {
		t.Errorf("DistinctCount = %d, want 2", got)
	}
}

func TestLoad_GeneratedRows(t *testing.T) {
	gofakeit.Seed(11)

	sch := testSchema(t, "VARCHAR(64)", "INT", "NUMERIC(11,4)")

	const rows = 500
	var b strings.Builder
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%s,%d,%f\n",
			gofakeit.Color(), gofakeit.Number(-5000, 5000), gofakeit.Float64Range(0, 100))
	}

	fr, err := Load(strings.NewReader(b.String()), sch, csvFormat())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fr.Rows() != rows {
		t.Fatalf("Rows() = %d, want %d", fr.Rows(), rows)
	}
	if fr.NullCount(0) != 0 || fr.NullCount(1) != 0 || fr.NullCount(2) != 0 {
		t.Error("generated rows should contain no nulls")
	}
	if max, ok := fr.MaxAbs(1); !ok || max > 5000 {
		t.Errorf("MaxAbs = %v/%v, want <= 5000", max, ok)
	}
}
