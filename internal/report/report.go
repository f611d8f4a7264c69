// Package report renders validation findings as plain text. Findings are
// ordinary report content; a table that fails every check still renders
// successfully.
package report

import (
	"fmt"
	"strings"

	"table-check/internal/check"
	"table-check/internal/schema"
)

const superkeyMessage = "\tThe candidate set of columns is not a superkey."

// Summary renders the summary report: the names of failing columns per
// finding class. Sections only appear when they carry findings, so a fully
// clean table renders to an empty string.
func Summary(c *check.Checker) string {
	var b strings.Builder

	writeNameSection(&b, "SIZE ERROR", c.SizeErrorColumns())
	writeNameSection(&b, "NOT-NULL CONSTRAINT ERROR", c.NotNullErrorColumns())
	if c.SuperkeyViolation() {
		writeHeader(&b, "SUPERKEY ERROR")
		b.WriteString(superkeyMessage)
	}

	return b.String()
}

// Detail renders the detail report: every observed max size, the null
// count of every not-null column, and the superkey verdict. Float columns
// and columns that were entirely null carry no size and are omitted from
// the size table, matching the summary tool's historical output.
func Detail(sch *schema.Schema, c *check.Checker) string {
	width := longestName(sch)
	var b strings.Builder

	sizes := c.MaxSizes()
	if len(sizes) > 0 {
		writeHeader(&b, "SIZE ERROR")
		fmt.Fprintf(&b, "\t%-*s  MAX SIZE\n", width, "COLUMN")
		for i := range sch.Columns {
			name := sch.Columns[i].Name
			ms := sizes[name]
			if !ms.Valid || ms.Unset {
				continue
			}
			fmt.Fprintf(&b, "\t%-*s: %d\n", width, name, ms.Size)
		}
		b.WriteString("\n")
	}

	nulls := c.CountNaN()
	if len(nulls) > 0 {
		writeHeader(&b, "NOT-NULL CONSTRAINT ERROR")
		fmt.Fprintf(&b, "\t%-*s  NULL COUNT\n", width, "COLUMN")
		for i := range sch.Columns {
			name := sch.Columns[i].Name
			n, ok := nulls[name]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "\t%-*s: %d\n", width, name, n)
		}
		b.WriteString("\n")
	}

	if c.SuperkeyViolation() {
		writeHeader(&b, "SUPERKEY ERROR")
		b.WriteString(superkeyMessage)
	}

	return b.String()
}

func writeNameSection(b *strings.Builder, title string, names []string) {
	if len(names) == 0 {
		return
	}
	writeHeader(b, title)
	for _, n := range names {
		b.WriteString("\t" + n + "\n")
	}
	b.WriteString("\n")
}

func writeHeader(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", len(title)) + "\n")
}

func longestName(sch *schema.Schema) int {
	w := 0
	for i := range sch.Columns {
		if n := len(sch.Columns[i].Name); n > w {
			w = n
		}
	}
	return w
}
