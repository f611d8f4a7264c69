package schema

import "table-check/internal/dtype"

// Column is one declared schema entry for a raw data file. Built once from
// configuration and never mutated afterwards.
type Column struct {
	Name     string
	Superkey bool // member of the declared superkey column set
	NotNull  bool // column must not contain null cells
	Type     dtype.Descriptor
}

// Schema is the ordered column layout declared for one raw data file. The
// raw file carries no header row, so order is the alignment contract.
type Schema struct {
	Columns []Column
}

// Names returns the column names in declared order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (s *Schema) Index(name string) int {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return i
		}
	}
	return -1
}

// SuperkeyIndexes returns the positions of all superkey member columns in
// declared order.
func (s *Schema) SuperkeyIndexes() []int {
	var out []int
	for i := range s.Columns {
		if s.Columns[i].Superkey {
			out = append(out, i)
		}
	}
	return out
}
