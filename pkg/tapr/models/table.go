package models

// Row is a single record, one Value per table column.
type Row []Value

// Table is an ordered set of named columns and the rows beneath them.
// Pipeline stages treat a Table as immutable and return modified copies.
type Table struct {
	// Columns holds the header names in sheet order.
	Columns []string
	// Rows holds the records, each len(Columns) wide.
	Rows []Row
}

// NewTable creates an empty table with the given header.
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of a column, or -1 if absent.
// When a name repeats the first occurrence wins.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool { return t.Index(name) >= 0 }

// Append adds a row, padding or truncating it to the table width.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, fit(row, len(t.Columns)))
}

// Get returns the value of a named column in row i. Unknown columns are Missing.
func (t *Table) Get(i int, name string) Value {
	idx := t.Index(name)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return Missing()
	}
	return t.Rows[i][idx]
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = fit(r, len(t.Columns))
	}
	return out
}

// Filter returns a copy holding only the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := NewTable(t.Columns...)
	for _, r := range t.Rows {
		r = fit(r, len(t.Columns))
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func fit(row Row, width int) Row {
	out := make(Row, width)
	copy(out, row)
	return out
}
