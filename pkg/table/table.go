// Package table holds a roster as a header row plus data rows of string cells,
// and reads and writes it as CSV.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Table is an in-memory roster. Rows may be shorter than Headers; missing cells are empty.
type Table struct {
	Headers []string
	Rows    [][]string
}

// New creates a table with the given headers and no rows
func New(headers ...string) *Table {
	return &Table{Headers: headers, Rows: [][]string{}}
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	return len(t.Headers)
}

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnNames returns a copy of the headers
func (t *Table) ColumnNames() []string {
	return slices.Clone(t.Headers)
}

// HasColumn returns true if a column with the given name exists
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Headers, name)
}

// ColumnByIndex returns the cells of a column indexed by row. Empty cells are nil.
func (t *Table) ColumnByIndex(index int) ([]any, error) {
	if index < 0 || index >= len(t.Headers) {
		return nil, fmt.Errorf("column index %d out of range (table has %d columns)", index, len(t.Headers))
	}

	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		if index >= len(row) || strings.TrimSpace(row[index]) == "" {
			values[i] = nil
			continue
		}
		values[i] = row[index]
	}
	return values, nil
}

// ColumnByName returns the cells of the named column
func (t *Table) ColumnByName(name string) ([]any, error) {
	index := slices.Index(t.Headers, name)
	if index == -1 {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return t.ColumnByIndex(index)
}

// SetColumn writes values into the named column by row index, replacing an existing
// column of that name or appending a new one
func (t *Table) SetColumn(name string, values []int) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values but table has %d rows", name, len(values), len(t.Rows))
	}

	index := slices.Index(t.Headers, name)
	if index == -1 {
		t.Headers = append(t.Headers, name)
		index = len(t.Headers) - 1
	}

	for i := range t.Rows {
		for len(t.Rows[i]) <= index {
			t.Rows[i] = append(t.Rows[i], "")
		}
		t.Rows[i][index] = strconv.Itoa(values[i])
	}

	return nil
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = slices.Clone(row)
	}
	return &Table{Headers: slices.Clone(t.Headers), Rows: rows}
}

// AddRow appends a data row
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// ReadCSV reads a table whose first record is the header row
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	rows := records[1:]
	if rows == nil {
		rows = [][]string{}
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

// WriteCSV writes the header row followed by every data row padded to the header width
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, row := range t.Rows {
		record := make([]string, len(t.Headers))
		copy(record, row)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}

// LoadCSVFile reads a table from a CSV file
func LoadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// SaveCSVFile writes the table to a CSV file, replacing any existing file
func (t *Table) SaveCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}
