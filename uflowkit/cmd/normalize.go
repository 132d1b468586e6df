package cmd

import (
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

type normalizeConfig struct {
	Input   string
	Output  string
	Sep     string
	Strict  bool
	Parquet string
}

func runNormalize(args []string) {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	var cfg normalizeConfig
	fs.StringVar(&cfg.Input, "i", "", "Input OTU table")
	fs.StringVar(&cfg.Input, "input", "", "Input OTU table")
	fs.StringVar(&cfg.Output, "o", "", "Output OTU table")
	fs.StringVar(&cfg.Output, "output", "", "Output OTU table")
	sep := fs.String("s", `\t`, "Input separator")
	fs.BoolVar(&cfg.Strict, "strict", false, "Fail when a column sums to zero")
	fs.StringVar(&cfg.Parquet, "parquet", "", "Optional Parquet output path")
	if err := fs.Parse(args); err != nil {
		fatalf("parse args failed: %v", err)
	}

	if cfg.Input == "" || cfg.Output == "" {
		fatalf("input and output are required")
	}
	var err error
	if cfg.Sep, err = parseSeparator(*sep); err != nil {
		fatalf("separator: %v", err)
	}
	if err := buildNormalize(cfg); err != nil {
		fatalf("normalize failed: %v", err)
	}
}

func buildNormalize(cfg normalizeConfig) error {
	if err := requireInputs(inputPath{"OTU table", cfg.Input}); err != nil {
		return err
	}
	table, err := loadTable(cfg.Input, tableFormat{Sep: cfg.Sep})
	if err != nil {
		return fmt.Errorf("load table: %w", err)
	}
	numeric, err := parseNumeric(table, cfg.Input)
	if err != nil {
		return err
	}

	zero := normalizeColumns(numeric)
	if len(zero) > 0 {
		if cfg.Strict {
			return fmt.Errorf("columns sum to zero: %s", strings.Join(zero, ","))
		}
		warnf("columns sum to zero, values are NaN: %s", strings.Join(zero, ","))
	}

	out, err := createOutput(cfg.Output)
	if err != nil {
		return err
	}
	if err := writeNumeric(out, numeric); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", cfg.Output, err)
	}
	if cfg.Parquet != "" {
		if err := writeParquet(cfg.Parquet, numeric); err != nil {
			return err
		}
	}
	return nil
}

// normalizeColumns divides every cell by its column total in place and
// returns the columns whose total is zero; their cells become NaN.
func normalizeColumns(t *numericTable) []string {
	var zero []string
	for j, name := range t.Columns {
		var total float64
		for i := range t.Values {
			total += t.Values[i][j]
		}
		if total == 0 {
			zero = append(zero, name)
		}
		for i := range t.Values {
			t.Values[i][j] /= total
		}
	}
	return zero
}

func writeNumeric(w io.StringWriter, t *numericTable) error {
	if _, err := w.WriteString(t.IDField + "\t" + strings.Join(t.Columns, "\t") + "\n"); err != nil {
		return err
	}
	cells := make([]string, len(t.Columns)+1)
	for i, id := range t.IDs {
		cells[0] = id
		for j, v := range t.Values[i] {
			cells[j+1] = formatFloat(v)
		}
		if _, err := w.WriteString(strings.Join(cells, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
