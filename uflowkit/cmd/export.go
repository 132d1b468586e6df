package cmd

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"
)

const (
	metadataOut = "metadata.csv"
	tableOut    = "table.csv"
	taxonomyOut = "taxonomy.csv"
	parquetOut  = "table.parquet"
	treeOut     = "rep-seqs.tree"
)

type exportConfig struct {
	FeatureTable string
	Fasta        string
	Taxonomy     string
	Metadata     string
	Tree         string
	OutDir       string
	TableFormat  tableFormat
	MetaFormat   tableFormat
	Quote        string
	Seed         uint64
	Parquet      bool
	ReportPath   string
	Progress     bool
}

type exportStats struct {
	Samples      int      `json:"samples"`
	Features     int      `json:"features"`
	Sequences    int      `json:"sequences"`
	TaxonomyRows int      `json:"taxonomy_rows"`
	TaxonomyCols int      `json:"taxonomy_depth"`
	Synthesized  bool     `json:"metadata_synthesized"`
	Seed         uint64   `json:"seed,omitempty"`
	Outputs      []string `json:"outputs"`
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var cfg exportConfig
	fs.StringVar(&cfg.FeatureTable, "i", "", "Input OTU table")
	fs.StringVar(&cfg.FeatureTable, "feature-table", "", "Input OTU table")
	fs.StringVar(&cfg.Fasta, "f", "", "Input FASTA file (OTUs)")
	fs.StringVar(&cfg.Fasta, "fasta", "", "Input FASTA file (OTUs)")
	fs.StringVar(&cfg.Taxonomy, "t", "", "Input taxonomy file (dadaist2 format)")
	fs.StringVar(&cfg.Taxonomy, "taxonomy", "", "Input taxonomy file (dadaist2 format)")
	fs.StringVar(&cfg.Metadata, "m", "", "Metadata file (synthesized when absent)")
	fs.StringVar(&cfg.Metadata, "metadata", "", "Metadata file (synthesized when absent)")
	fs.StringVar(&cfg.Tree, "tree", "", "Tree file (copied)")
	fs.StringVar(&cfg.OutDir, "o", "MicrobiomeAnalyst", "Output directory")
	fs.StringVar(&cfg.OutDir, "output", "MicrobiomeAnalyst", "Output directory")
	metaSep := fs.String("meta-sep", `\t`, "Metadata separator")
	fs.StringVar(&cfg.MetaFormat.HeaderChar, "meta-header", "#", "Metadata header char")
	fs.StringVar(&cfg.MetaFormat.IDField, "meta-id", "SampleID", "Metadata header identifier")
	tableSep := fs.String("table-sep", `\t`, "Feature table separator")
	fs.StringVar(&cfg.TableFormat.HeaderChar, "table-header", "#", "Feature table header char")
	fs.StringVar(&cfg.TableFormat.IDField, "table-id", "OTU ID", "Feature table header identifier")
	fs.StringVar(&cfg.Quote, "quote", `"`, "Quote character for fields containing commas")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Seed for synthesized metadata groups (0 picks one)")
	fs.BoolVar(&cfg.Parquet, "parquet", false, "Also write table.parquet")
	fs.StringVar(&cfg.ReportPath, "report", "", "Optional JSON report output path")
	fs.BoolVar(&cfg.Progress, "progress", false, "Show progress bar")
	verbose := fs.Bool("verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		fatalf("parse args failed: %v", err)
	}
	setVerbose(*verbose)

	if cfg.FeatureTable == "" || cfg.Fasta == "" || cfg.Taxonomy == "" {
		fatalf("feature table (-i), FASTA (-f) and taxonomy (-t) are required")
	}
	var err error
	if cfg.MetaFormat.Sep, err = parseSeparator(*metaSep); err != nil {
		fatalf("meta-sep: %v", err)
	}
	if cfg.TableFormat.Sep, err = parseSeparator(*tableSep); err != nil {
		fatalf("table-sep: %v", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	if _, err := buildExport(cfg); err != nil {
		fatalf("export failed: %v", err)
	}
}

// buildExport loads and reconciles every input, then writes the bundle. No
// output is created unless every check passes.
func buildExport(cfg exportConfig) (exportStats, error) {
	stats := exportStats{}
	if err := requireInputs(
		inputPath{"Feature table", cfg.FeatureTable},
		inputPath{"FASTA", cfg.Fasta},
		inputPath{"Taxonomy", cfg.Taxonomy},
		inputPath{"Metadata", cfg.Metadata},
		inputPath{"Tree", cfg.Tree},
	); err != nil {
		return stats, err
	}

	table, err := loadTable(cfg.FeatureTable, cfg.TableFormat)
	if err != nil {
		return stats, fmt.Errorf("load feature table: %w", err)
	}
	debugf("feature table: %d features x %d samples", table.Len(), len(table.Fields))

	var meta *Table
	if cfg.Metadata != "" {
		meta, err = loadTable(cfg.Metadata, cfg.MetaFormat)
		if err != nil {
			return stats, fmt.Errorf("load metadata: %w", err)
		}
	} else {
		meta = synthesizeMetadata(table, rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)))
		stats.Synthesized = true
		stats.Seed = cfg.Seed
		logf("No metadata given, assigned %d samples to random groups (seed %d)", meta.Len(), cfg.Seed)
	}

	seqs, err := readSequences(cfg.Fasta)
	if err != nil {
		return stats, fmt.Errorf("load FASTA: %w", err)
	}
	tax, err := loadTaxonomy(cfg.Taxonomy, seqs)
	if err != nil {
		return stats, fmt.Errorf("load taxonomy: %w", err)
	}
	if err := reconcile(table, meta, seqs, tax); err != nil {
		return stats, err
	}

	var numeric *numericTable
	if cfg.Parquet {
		if numeric, err = parseNumeric(table, cfg.FeatureTable); err != nil {
			return stats, err
		}
	}

	outputs := []struct {
		name string
		data []byte
	}{
		{metadataOut, renderTable(meta, cfg.Quote)},
		{tableOut, renderTable(table, cfg.Quote)},
		{taxonomyOut, renderTaxonomy(tax, cfg.Quote)},
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return stats, fmt.Errorf("create output dir: %w", err)
	}
	total := len(outputs)
	if cfg.Tree != "" {
		total++
	}
	if numeric != nil {
		total++
	}
	reportEvery := 0
	if cfg.Progress {
		reportEvery = 1
	}
	progress := newProgress(total, reportEvery)

	if cfg.Tree != "" {
		dest := filepath.Join(cfg.OutDir, treeOut)
		if err := copyFile(cfg.Tree, dest); err != nil {
			return stats, err
		}
		stats.Outputs = append(stats.Outputs, dest)
		progress.increment()
	}
	for _, out := range outputs {
		dest := filepath.Join(cfg.OutDir, out.name)
		debugf("Write %s", dest)
		if err := writeOutput(dest, out.data); err != nil {
			return stats, err
		}
		stats.Outputs = append(stats.Outputs, dest)
		progress.increment()
	}
	if numeric != nil {
		dest := filepath.Join(cfg.OutDir, parquetOut)
		if err := writeParquet(dest, numeric); err != nil {
			return stats, err
		}
		stats.Outputs = append(stats.Outputs, dest)
		progress.increment()
	}
	progress.finish()

	stats.Samples = len(table.Fields)
	stats.Features = table.Len()
	stats.Sequences = seqs.Len()
	stats.TaxonomyRows = len(tax.IDs)
	stats.TaxonomyCols = tax.Depth()
	if cfg.ReportPath != "" {
		if err := writeReport(cfg.ReportPath, stats); err != nil {
			return stats, err
		}
	}
	logf("export: samples=%d features=%d -> %s", stats.Samples, stats.Features, cfg.OutDir)
	return stats, nil
}
