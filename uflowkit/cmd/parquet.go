package cmd

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// numericTable is an abundance table with parsed cells, one column per sample.
type numericTable struct {
	IDField string
	Columns []string
	IDs     []string
	Values  [][]float64 // Values[row][column]
}

// parseNumeric converts every cell of t to float64.
func parseNumeric(t *Table, name string) (*numericTable, error) {
	out := &numericTable{
		IDField: t.IDField,
		Columns: t.Fields,
		IDs:     t.IDs,
		Values:  make([][]float64, 0, t.Len()),
	}
	for _, id := range t.IDs {
		row, _ := t.Row(id)
		values := make([]float64, len(row))
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, &FormatError{Path: name, Message: fmt.Sprintf("row %s, column %s: non-numeric value %q", id, t.Fields[j], cell)}
			}
			values[j] = v
		}
		out.Values = append(out.Values, values)
	}
	return out, nil
}

// writeParquet stores the table with a string id column followed by one
// nullable float64 column per sample. NaN cells are written as nulls.
func writeParquet(path string, t *numericTable) error {
	fields := make([]arrow.Field, 0, len(t.Columns)+1)
	fields = append(fields, arrow.Field{Name: parquetIDName(t.IDField), Type: arrow.BinaryTypes.String})
	for _, c := range t.Columns {
		fields = append(fields, arrow.Field{Name: c, Type: arrow.PrimitiveTypes.Float64, Nullable: true})
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()

	ids := b.Field(0).(*array.StringBuilder)
	ids.AppendValues(t.IDs, nil)
	for j := range t.Columns {
		col := b.Field(j + 1).(*array.Float64Builder)
		col.Reserve(len(t.IDs))
		for i := range t.IDs {
			v := t.Values[i][j]
			if math.IsNaN(v) {
				col.AppendNull()
				continue
			}
			col.Append(v)
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	w, err := pqarrow.NewFileWriter(schema, f, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		_ = w.Close()
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close parquet %s: %w", path, err)
	}
	return nil
}

func parquetIDName(idField string) string {
	name := strings.TrimLeft(idField, "#")
	if name == "" {
		return "id"
	}
	return name
}
