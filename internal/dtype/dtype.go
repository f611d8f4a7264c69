// Package dtype normalizes source-database column type spellings into
// canonical descriptors the validator can check against.
//
// The conversion is deliberately NOT strict about declared widths: every
// integer spelling widens to a 64-bit kind and every float spelling to a
// 64-bit float. The point of the tool is to import raw data and test it, so
// a too-narrow declared width must never keep the data from loading; the
// declared range is retained on the descriptor and checked afterwards.
package dtype

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Kind is the value family a source data type collapses into after
// normalization.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Descriptor is the canonical form of one column data type.
//
// Min/Max carry the range of the *declared* integer width even though the
// kind itself is widened to 64-bit; they are only set for KindInt. MaxBytes
// is the UTF-8 byte ceiling and is only set for KindText. KindFloat carries
// no bound at all: precision/scale arguments are accepted syntactically but
// never enforced.
type Descriptor struct {
	Kind     Kind
	Min, Max int64
	MaxBytes int
}

var (
	// ErrUnknownType marks a base type name missing from the alias table.
	ErrUnknownType = errors.New("unknown data type")
	// ErrTooManyArguments marks a type spelling with more than two
	// numeric arguments.
	ErrTooManyArguments = errors.New("data type takes two arguments at most")
)

// defaultTextBytes applies to text-mapped types declared without a length
// argument (BOOLEAN, DATE, TIMESTAMP and friends).
const defaultTextBytes = 64

// typeAliases groups the recognized source type spellings under one
// representative each.
var typeAliases = map[string][]string{
	"smallint":         {"smallint", "int2"},
	"integer":          {"integer", "int", "int4"},
	"bigint":           {"bigint", "int8"},
	"decimal":          {"decimal", "numeric"},
	"real":             {"real", "float4"},
	"double precision": {"double precision", "float8", "float"},
	"boolean":          {"boolean", "bool"},
	"char":             {"char", "character", "nchar", "bpchar"},
	"varchar":          {"varchar", "character varying", "nvarchar", "text"},
	"date":             {"date"},
	"timestamp":        {"timestamp", "timestamp without time zone"},
}

// preKind is the value family plus declared bit width of a representative,
// before widening.
type preKind struct {
	kind Kind
	bits int
}

// typeKinds maps every representative to its pre-widening kind.
var typeKinds = map[string]preKind{
	"smallint":         {KindInt, 16},
	"integer":          {KindInt, 32},
	"bigint":           {KindInt, 64},
	"real":             {KindFloat, 32},
	"decimal":          {KindFloat, 64},
	"double precision": {KindFloat, 64},
	"boolean":          {KindText, 0},
	"char":             {KindText, 0},
	"varchar":          {KindText, 0},
	"date":             {KindText, 0},
	"timestamp":        {KindText, 0},
}

// intRanges holds the signed value range per declared bit width.
var intRanges = map[int][2]int64{
	8:  {-128, 127},
	16: {-32_768, 32_767},
	32: {-2_147_483_648, 2_147_483_647},
	64: {-9_223_372_036_854_775_808, 9_223_372_036_854_775_807},
}

// aliasIndex is the inverted typeAliases table for O(1) lookups.
var aliasIndex = func() map[string]string {
	idx := make(map[string]string)
	for repr, aliases := range typeAliases {
		for _, a := range aliases {
			idx[a] = repr
		}
	}
	return idx
}()

// Normalize maps a source-system data type spelling, case-insensitive and
// with up to two numeric arguments, onto its canonical Descriptor.
//
//	"SMALLINT"      -> {KindInt, min/max of int16}
//	"NUMERIC(11,4)" -> {KindFloat}
//	"CHAR(128)"     -> {KindText, MaxBytes: 128}
//	"TIMESTAMP"     -> {KindText, MaxBytes: 64}
//
// Unrecognized base names fail with ErrUnknownType, more than two arguments
// with ErrTooManyArguments. Both errors carry the offending raw string.
func Normalize(raw string) (Descriptor, error) {
	base, args, err := splitTypeArgs(strings.ToLower(raw))
	if err != nil {
		return Descriptor{}, fmt.Errorf("%q: %w", raw, err)
	}

	repr, ok := aliasIndex[base]
	if !ok {
		return Descriptor{}, fmt.Errorf("%q: %w", raw, ErrUnknownType)
	}

	pre := typeKinds[repr]
	switch pre.kind {
	case KindText:
		d := Descriptor{Kind: KindText, MaxBytes: defaultTextBytes}
		if len(args) > 0 {
			d.MaxBytes = args[0]
		}
		return d, nil
	case KindInt:
		r := intRanges[pre.bits]
		return Descriptor{Kind: KindInt, Min: r[0], Max: r[1]}, nil
	default:
		return Descriptor{Kind: KindFloat}, nil
	}
}

// splitTypeArgs tokenizes a lowercased type spelling into its base name and
// numeric arguments. Parentheses, commas and whitespace all separate tokens,
// so "numeric( 11, 4 )" parses the same as "numeric(11,4)". Word tokens
// before the first number are joined into a multi-word base name, which is
// how "double precision" and "timestamp without time zone" resolve.
func splitTypeArgs(s string) (base string, args []int, err error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '(' || r == ')' || r == ',' || unicode.IsSpace(r)
	})

	var words []string
	for _, f := range fields {
		if n, convErr := strconv.Atoi(f); convErr == nil {
			if n < 0 {
				// A negative width or precision is never a valid
				// spelling.
				return "", nil, ErrUnknownType
			}
			args = append(args, n)
			continue
		}
		if len(args) > 0 {
			// A word token after a numeric argument cannot belong to
			// the base name.
			return "", nil, ErrUnknownType
		}
		words = append(words, f)
	}

	if len(args) > 2 {
		return "", nil, ErrTooManyArguments
	}
	if len(words) == 0 {
		return "", nil, ErrUnknownType
	}
	return strings.Join(words, " "), args, nil
}
