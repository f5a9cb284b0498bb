package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// IndexColumn is the 1-based row number column added by WithIndex
const IndexColumn = "Index"

// ErrColumnNotFound is returned when a requested column is not in the header
var ErrColumnNotFound = errors.New("column not found")

// Table is an in-memory evaluation result table
type Table struct {
	columns []string
	lookup  map[string]int
	rows    [][]string
}

// New builds a table from a header and rows of equal width
func New(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table has no columns")
	}

	lookup := make(map[string]int, len(columns))
	for i, name := range columns {
		name = strings.TrimSpace(name)
		if _, exists := lookup[name]; exists {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		lookup[name] = i
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(columns))
		}
	}

	cols := make([]string, len(columns))
	for i, name := range columns {
		cols[i] = strings.TrimSpace(name)
	}

	return &Table{columns: cols, lookup: lookup, rows: rows}, nil
}

// Load reads a result summary CSV file
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}
	defer file.Close()

	t, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV content whose first record is the header
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	// byte order mark written by spreadsheet exports
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return New(header, rows)
}

// Columns returns the header in file order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the header contains name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.lookup[name]
	return ok
}

// Strings returns the raw cell values of a column
func (t *Table) Strings(column string) ([]string, error) {
	idx, ok := t.lookup[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}

	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Float64s parses a column as numbers. Empty cells become NaN.
func (t *Table) Float64s(column string) ([]float64, error) {
	idx, ok := t.lookup[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}

	values := make([]float64, len(t.rows))
	for i, row := range t.rows {
		v, err := parseCell(row[idx])
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", column, i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

// Numeric reports whether every cell of a column parses as a number
func (t *Table) Numeric(column string) bool {
	_, err := t.Float64s(column)
	return err == nil
}

// Row returns one row keyed by column name
func (t *Table) Row(i int) (map[string]string, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, fmt.Errorf("row %d out of range [0, %d)", i, len(t.rows))
	}

	row := make(map[string]string, len(t.columns))
	for j, name := range t.columns {
		row[name] = t.rows[i][j]
	}
	return row, nil
}

// Page returns up to limit rows starting at offset
func (t *Table) Page(offset, limit int) [][]string {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(t.rows) || limit <= 0 {
		return [][]string{}
	}

	end := offset + limit
	if end > len(t.rows) {
		end = len(t.rows)
	}

	page := make([][]string, end-offset)
	for i := range page {
		row := make([]string, len(t.columns))
		copy(row, t.rows[offset+i])
		page[i] = row
	}
	return page
}

// WithIndex returns a copy with a 1-based Index column appended.
// The table is returned unchanged if it already has one.
func (t *Table) WithIndex() *Table {
	if t.HasColumn(IndexColumn) {
		return t
	}

	columns := append(t.Columns(), IndexColumn)
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		extended := make([]string, len(row), len(row)+1)
		copy(extended, row)
		rows[i] = append(extended, strconv.Itoa(i+1))
	}

	lookup := make(map[string]int, len(columns))
	for i, name := range columns {
		lookup[name] = i
	}
	return &Table{columns: columns, lookup: lookup, rows: rows}
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "nan", "na", "null":
		return math.NaN(), nil
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not numeric", cell)
	}
	return v, nil
}
