package cmd

import (
	"fmt"
	"io"
	"strings"
)

// tableFormat describes how a delimited table marks its header and row ids.
type tableFormat struct {
	Sep        string
	HeaderChar string // empty: first non-blank line is the header
	IDField    string // empty: first header column holds the ids
}

// Table is a delimited table keyed by its identifier column. Fields and row
// values exclude the identifier column and share one width.
type Table struct {
	IDField string
	Fields  []string
	IDs     []string
	rows    map[string][]string
}

func newTable(idField string, fields []string) *Table {
	return &Table{
		IDField: idField,
		Fields:  fields,
		rows:    make(map[string][]string),
	}
}

// Row returns the values of id, one per field.
func (t *Table) Row(id string) ([]string, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *Table) Len() int {
	return len(t.IDs)
}

// set stores a row; a repeated id keeps its first position and the last values.
func (t *Table) set(id string, values []string) bool {
	_, dup := t.rows[id]
	if !dup {
		t.IDs = append(t.IDs, id)
	}
	t.rows[id] = values
	return dup
}

func loadTable(path string, format tableFormat) (*Table, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = in.Close()
	}()
	return parseTable(in, path, format)
}

// parseTable reads a table whose header is the first line carrying
// format.HeaderChar. Later marker lines are treated as comments.
func parseTable(r io.Reader, name string, format tableFormat) (*Table, error) {
	var (
		table   *Table
		idIndex int
		width   int
		lineNum int
	)
	scanner := newScanner(r)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		isMarked := format.HeaderChar != "" && strings.HasPrefix(line, format.HeaderChar)
		if table == nil && (isMarked || format.HeaderChar == "") {
			header := strings.Split(strings.TrimPrefix(line, format.HeaderChar), format.Sep)
			idField := format.IDField
			if idField == "" {
				idField = header[0]
			}
			idIndex = indexOf(header, idField)
			if idIndex < 0 {
				return nil, &MissingFieldError{Path: name, Field: idField, Header: header}
			}
			fields := make([]string, 0, len(header)-1)
			fields = append(fields, header[:idIndex]...)
			fields = append(fields, header[idIndex+1:]...)
			table = newTable(idField, fields)
			width = len(header)
			continue
		}
		if isMarked {
			continue
		}
		if table == nil {
			return nil, formatErrorf(name, lineNum, "data row before header line (marker %q)", format.HeaderChar)
		}

		cells := strings.Split(line, format.Sep)
		if len(cells) != width {
			return nil, formatErrorf(name, lineNum, "expected %d fields, got %d", width, len(cells))
		}
		id := cells[idIndex]
		values := make([]string, 0, width-1)
		values = append(values, cells[:idIndex]...)
		values = append(values, cells[idIndex+1:]...)
		if table.set(id, values) {
			warnf("%s:%d: duplicate identifier %s, keeping last row", name, lineNum, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}
	if table == nil {
		return nil, &MissingFieldError{Path: name, Field: format.IDField}
	}
	return table, nil
}
