package schema

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"

	"table-check/internal/dtype"
)

// confHeader is the header row every dataconf csv must carry, in this order.
var confHeader = []string{"physical_column_name", "pk", "not_null_constraint", "data_type"}

// LoadColumns reads the column configuration csv (dataconf/<table>.csv) and
// builds the schema, running every declared data type through the
// normalizer. Any unresolvable type aborts the whole load: a malformed
// schema must never silently validate data.
func LoadColumns(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema config: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read schema config %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("schema config %s is empty", path)
	}
	if err := checkConfHeader(rows[0]); err != nil {
		return nil, fmt.Errorf("schema config %s: %w", path, err)
	}

	sch := &Schema{Columns: make([]Column, 0, len(rows)-1)}
	seen := make(map[string]bool, len(rows)-1)

	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header
		if len(row) != len(confHeader) {
			return nil, fmt.Errorf("schema config %s line %d: got %d fields, want %d",
				path, line, len(row), len(confHeader))
		}

		name := strings.TrimSpace(row[0])
		if name == "" {
			return nil, fmt.Errorf("schema config %s line %d: empty column name", path, line)
		}
		if seen[name] {
			return nil, fmt.Errorf("schema config %s line %d: duplicate column %q", path, line, name)
		}
		seen[name] = true

		pk, err := parseFlag(row[1])
		if err != nil {
			return nil, fmt.Errorf("schema config %s line %d, column %q: pk: %w", path, line, name, err)
		}
		notNull, err := parseFlag(row[2])
		if err != nil {
			return nil, fmt.Errorf("schema config %s line %d, column %q: not_null_constraint: %w",
				path, line, name, err)
		}

		desc, err := dtype.Normalize(row[3])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}

		sch.Columns = append(sch.Columns, Column{
			Name:     name,
			Superkey: pk,
			NotNull:  notNull,
			Type:     desc,
		})
	}

	return sch, nil
}

func checkConfHeader(row []string) error {
	if len(row) != len(confHeader) {
		return fmt.Errorf("header has %d fields, want %d", len(row), len(confHeader))
	}
	for i, want := range confHeader {
		got := strings.ToLower(strings.TrimSpace(row[i]))
		if got != want {
			return fmt.Errorf("header field %d is %q, want %q", i+1, row[i], want)
		}
	}
	return nil
}

func parseFlag(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("flag must be 0 or 1, got %q", s)
	}
}

// Format describes how one raw data file is encoded: the field delimiter,
// the character set, and the literal that marks a null cell.
type Format struct {
	Delimiter rune
	Encoding  string
	NAValue   string
}

// LoadFormat reads the format descriptor yaml (dataconf/<table>.yml). The
// delimiter is required and must be a single character; the encoding
// defaults to utf-8, and na_value defaults to the empty string (an empty
// cell reads as null).
func LoadFormat(path string) (Format, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Format{}, fmt.Errorf("read format config: %w", err)
	}

	delim := v.GetString("delimiter")
	if delim == "" {
		return Format{}, fmt.Errorf("format config %s: delimiter is required", path)
	}
	if utf8.RuneCountInString(delim) != 1 {
		return Format{}, fmt.Errorf("format config %s: delimiter %q must be a single character", path, delim)
	}
	d, _ := utf8.DecodeRuneInString(delim)

	enc := v.GetString("encoding")
	if enc == "" {
		enc = "utf-8"
	}

	return Format{
		Delimiter: d,
		Encoding:  enc,
		NAValue:   v.GetString("na_value"),
	}, nil
}
