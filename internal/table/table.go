// Package table holds a small row/column model for CSV files: read, write,
// union-of-columns concatenation and key-based de-duplication.
//
// Cells are kept as the raw text found in the file. Nothing is type-converted,
// so a merged or de-duplicated file round-trips values byte-for-byte.
package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrEmpty is returned when the input has no header row
	ErrEmpty = errors.New("no columns to parse from file")
	// ErrColumnNotFound is returned when a named column is absent
	ErrColumnNotFound = errors.New("column not found")
)

const utf8BOM = "\ufeff"

// Table is an ordered header plus rows of string cells. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// New creates an empty table with the given header
func New(header ...string) *Table {
	return &Table{Header: append([]string(nil), header...), Rows: make([][]string, 0)}
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of name in the header or -1
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether name is part of the header
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns every value of the named column
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Read parses CSV content. The first record is the header; short rows are
// padded with empty cells and rows wider than the header are rejected.
func Read(r io.Reader) (*Table, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	t := New(dedupeHeader(header)...)
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		if len(record) > len(header) {
			line, _ := csvReader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(record))
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

// Write emits the header followed by every row. A record made of one empty
// field is written as "" so that it is not read back as a blank line.
func Write(w io.Writer, t *Table) error {
	out := bufio.NewWriter(w)
	writer := csv.NewWriter(out)
	if err := writeRecord(writer, out, t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writeRecord(writer, out, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return out.Flush()
}

func writeRecord(writer *csv.Writer, out *bufio.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return writer.Write(record)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	_, err := out.WriteString("\"\"\n")
	return err
}

// Concat stacks tables row-wise. The result header is the union of the input
// headers in first-seen order; cells for columns a table lacks are left empty.
func Concat(tables ...*Table) *Table {
	positions := make(map[string]int)
	var header []string
	for _, t := range tables {
		for _, h := range t.Header {
			if _, ok := positions[h]; ok {
				continue
			}
			positions[h] = len(header)
			header = append(header, h)
		}
	}

	out := New(header...)
	for _, t := range tables {
		mapping := make([]int, len(t.Header))
		for i, h := range t.Header {
			mapping[i] = positions[h]
		}
		for _, row := range t.Rows {
			merged := make([]string, len(header))
			for i, v := range row {
				merged[mapping[i]] = v
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}

// DropDuplicates keeps the first row for every value of key, preserving order.
// It returns the filtered table and the number of rows removed.
func (t *Table) DropDuplicates(key string) (*Table, int, error) {
	idx := t.ColumnIndex(key)
	if idx < 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrColumnNotFound, key)
	}

	seen := make(map[string]struct{}, len(t.Rows))
	out := New(t.Header...)
	for _, row := range t.Rows {
		if _, dup := seen[row[idx]]; dup {
			continue
		}
		seen[row[idx]] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out, t.Len() - out.Len(), nil
}

// dedupeHeader renames repeated column names to name.1, name.2, ...
func dedupeHeader(header []string) []string {
	counts := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}
	out := make([]string, len(header))
	for i, h := range header {
		n := counts[h]
		counts[h] = n + 1
		if n == 0 {
			out[i] = h
			continue
		}
		name := fmt.Sprintf("%s.%d", h, n)
		for taken[name] {
			n++
			name = fmt.Sprintf("%s.%d", h, n)
		}
		counts[h] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}
