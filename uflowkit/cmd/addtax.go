package cmd

import (
	"encoding/csv"
	"flag"
	"fmt"
)

const taxonomyIndexName = "#TAXONOMY"

type addTaxonomyConfig struct {
	Input     string
	Fasta     string
	Taxonomy  string
	Output    string
	Sep       string
	IndexName string
	Condense  bool
	CSV       bool
}

func runAddTaxonomy(args []string) {
	fs := flag.NewFlagSet("add-taxonomy", flag.ExitOnError)
	var cfg addTaxonomyConfig
	fs.StringVar(&cfg.Input, "i", "", "Input OTU table")
	fs.StringVar(&cfg.Fasta, "f", "", "Input FASTA file (OTUs)")
	fs.StringVar(&cfg.Taxonomy, "t", "", "Input taxonomy file (dadaist2 format)")
	fs.StringVar(&cfg.Output, "o", "", "Output OTU table")
	sep := fs.String("s", `\t`, "Separator used in the OTU table")
	fs.StringVar(&cfg.IndexName, "k", nameHeader, "Index name")
	fs.BoolVar(&cfg.Condense, "condense", false, "Condense the taxonomy to a string")
	fs.BoolVar(&cfg.CSV, "csv", false, "Print CSV rather than TSV")
	if err := fs.Parse(args); err != nil {
		fatalf("parse args failed: %v", err)
	}

	if cfg.Input == "" || cfg.Fasta == "" || cfg.Taxonomy == "" || cfg.Output == "" {
		fatalf("-i, -f, -t and -o are required")
	}
	var err error
	if cfg.Sep, err = parseSeparator(*sep); err != nil {
		fatalf("separator: %v", err)
	}
	if err := buildAddTaxonomy(cfg); err != nil {
		fatalf("add-taxonomy failed: %v", err)
	}
}

// taxonomyColumns is the taxonomy as it is appended to an OTU table: either
// one column per rank or a single condensed lineage.
type taxonomyColumns struct {
	names []string
	cells func(id string) []string
}

func newTaxonomyColumns(tax *Taxonomy, condense bool) taxonomyColumns {
	if condense {
		lineages := condenseTaxonomy(tax)
		return taxonomyColumns{
			names: []string{condensedName},
			cells: func(id string) []string { return []string{lineages[id]} },
		}
	}
	depth := tax.Depth()
	return taxonomyColumns{
		names: tax.Labels[:depth],
		cells: func(id string) []string {
			ranks := tax.Ranks[id]
			return append([]string(nil), ranks[:depth]...)
		},
	}
}

func buildAddTaxonomy(cfg addTaxonomyConfig) error {
	if err := requireInputs(
		inputPath{"OTU table", cfg.Input},
		inputPath{"Taxonomy", cfg.Taxonomy},
		inputPath{"FASTA", cfg.Fasta},
	); err != nil {
		return err
	}
	table, err := loadTable(cfg.Input, tableFormat{Sep: cfg.Sep})
	if err != nil {
		return fmt.Errorf("load table: %w", err)
	}
	seqs, err := readSequences(cfg.Fasta)
	if err != nil {
		return fmt.Errorf("load FASTA: %w", err)
	}
	tax, err := loadTaxonomy(cfg.Taxonomy, seqs)
	if err != nil {
		return fmt.Errorf("load taxonomy: %w", err)
	}

	sep := '\t'
	if cfg.CSV {
		sep = ','
	}
	cols := newTaxonomyColumns(tax, cfg.Condense)

	taxPath := cfg.Output + ".taxonomy.txt"
	if err := writeDelimited(taxPath, sep, func(w *csv.Writer) error {
		return writeTaxonomyTable(w, tax, cols)
	}); err != nil {
		return err
	}
	var kept int
	if err := writeDelimited(cfg.Output, sep, func(w *csv.Writer) error {
		var err error
		kept, err = writeAnnotatedTable(w, table, tax, cols, cfg.IndexName)
		return err
	}); err != nil {
		return err
	}
	if dropped := table.Len() - kept; dropped > 0 {
		warnf("%d features without taxonomy were dropped", dropped)
	}
	logf("add-taxonomy: %d features -> %s", kept, cfg.Output)
	return nil
}

func writeDelimited(path string, sep rune, fill func(*csv.Writer) error) error {
	out, err := createOutput(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(out)
	w.Comma = sep
	if err := fill(w); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

func writeTaxonomyTable(w *csv.Writer, tax *Taxonomy, cols taxonomyColumns) error {
	if err := w.Write(append([]string{taxonomyIndexName}, cols.names...)); err != nil {
		return err
	}
	for _, id := range tax.IDs {
		if err := w.Write(append([]string{id}, cols.cells(id)...)); err != nil {
			return err
		}
	}
	return nil
}

// writeAnnotatedTable appends the taxonomy columns to every table row that
// has a taxonomy entry and returns how many rows were written.
func writeAnnotatedTable(w *csv.Writer, table *Table, tax *Taxonomy, cols taxonomyColumns, indexName string) (int, error) {
	header := make([]string, 0, 1+len(table.Fields)+len(cols.names))
	header = append(header, indexName)
	header = append(header, table.Fields...)
	header = append(header, cols.names...)
	if err := w.Write(header); err != nil {
		return 0, err
	}
	var kept int
	for _, id := range table.IDs {
		if !tax.Has(id) {
			continue
		}
		row, _ := table.Row(id)
		record := make([]string, 0, len(header))
		record = append(record, id)
		record = append(record, row...)
		record = append(record, cols.cells(id)...)
		if err := w.Write(record); err != nil {
			return kept, err
		}
		kept++
	}
	return kept, nil
}
