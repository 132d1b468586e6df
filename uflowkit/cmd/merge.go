package cmd

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

type mergeConfig struct {
	Inputs           []string
	Output           string
	SampleFromHeader bool
	Sort             bool
	NaturalSort      bool
	OTUIDName        string
	Progress         bool
}

// countTable is one two-column input: sample name plus id -> value.
type countTable struct {
	sample string
	ids    []string
	values map[string]string
}

// mergedTable is the wide join of several countTables.
type mergedTable struct {
	samples []string
	ids     []string
	tables  map[string]*countTable
}

func runMerge(args []string) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	var cfg mergeConfig
	fs.StringVar(&cfg.Output, "o", "", "Output table file (.gz compresses)")
	fs.StringVar(&cfg.Output, "output", "", "Output table file (.gz compresses)")
	fs.BoolVar(&cfg.SampleFromHeader, "s", false, "Sample names from table headers")
	fs.BoolVar(&cfg.SampleFromHeader, "sample-from-header", false, "Sample names from table headers")
	fs.BoolVar(&cfg.Sort, "sort", false, "Sort sample names")
	fs.BoolVar(&cfg.NaturalSort, "natural-sort", false, "Sort sample names in natural order (S2 before S10)")
	fs.StringVar(&cfg.OTUIDName, "otuid", "#OTUID", "OTU ID column name")
	fs.BoolVar(&cfg.Progress, "progress", true, "Show progress bar")
	verbose := fs.Bool("verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		fatalf("parse args failed: %v", err)
	}
	setVerbose(*verbose)

	cfg.Inputs = fs.Args()
	if len(cfg.Inputs) == 0 || cfg.Output == "" {
		fatalf("at least one input table and -o are required")
	}
	if err := buildMerge(cfg); err != nil {
		fatalf("merge failed: %v", err)
	}
}

func buildMerge(cfg mergeConfig) error {
	for _, path := range cfg.Inputs {
		if err := requireInputs(inputPath{"Table", path}); err != nil {
			return err
		}
	}

	reportEvery := 0
	if cfg.Progress {
		reportEvery = 1
	}
	progress := newProgress(len(cfg.Inputs), reportEvery)
	tables := make([]*countTable, 0, len(cfg.Inputs))
	for _, path := range cfg.Inputs {
		progress.describe(baseSampleName(path))
		debugf("Reading %s", path)
		t, err := loadCountTable(path, cfg.SampleFromHeader)
		if err != nil {
			return err
		}
		tables = append(tables, t)
		progress.increment()
	}
	progress.finish()

	merged, err := mergeCountTables(tables)
	if err != nil {
		return err
	}
	switch {
	case cfg.NaturalSort:
		sort.SliceStable(merged.samples, func(i, j int) bool {
			return natural.Less(merged.samples[i], merged.samples[j])
		})
	case cfg.Sort:
		sort.Strings(merged.samples)
	}

	out, err := createOutput(cfg.Output)
	if err != nil {
		return err
	}
	if err := merged.write(out, cfg.OTUIDName); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", cfg.Output, err)
	}
	logf("merge: %d tables, %d ids -> %s", len(merged.samples), len(merged.ids), cfg.Output)
	return nil
}

func loadCountTable(path string, sampleFromHeader bool) (*countTable, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = in.Close()
	}()
	return parseCountTable(in, path, baseSampleName(path), sampleFromHeader)
}

// parseCountTable skips the first line, optionally taking the sample name
// from its second tab-separated field. Every other non-blank line must be
// "<id> <value>".
func parseCountTable(r io.Reader, name, sample string, sampleFromHeader bool) (*countTable, error) {
	t := &countTable{sample: sample, values: make(map[string]string)}
	scanner := newScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 {
			if sampleFromHeader {
				header := strings.Split(strings.TrimSpace(line), "\t")
				if len(header) < 2 {
					return nil, formatErrorf(name, lineNum, "header has no sample column")
				}
				t.sample = header[1]
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, formatErrorf(name, lineNum, "expected 2 fields (id, value), got %d", len(fields))
		}
		if _, ok := t.values[fields[0]]; !ok {
			t.ids = append(t.ids, fields[0])
		}
		t.values[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}
	return t, nil
}

// mergeCountTables keeps ids in first-seen order across tables.
func mergeCountTables(tables []*countTable) (*mergedTable, error) {
	m := &mergedTable{tables: make(map[string]*countTable, len(tables))}
	seen := make(map[string]struct{})
	for _, t := range tables {
		if _, dup := m.tables[t.sample]; dup {
			return nil, fmt.Errorf("duplicate sample name %s", t.sample)
		}
		m.tables[t.sample] = t
		m.samples = append(m.samples, t.sample)
		for _, id := range t.ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			m.ids = append(m.ids, id)
		}
	}
	return m, nil
}

// value returns the count of id in sample, "0" when the table lacks id.
func (m *mergedTable) value(id, sample string) string {
	if v, ok := m.tables[sample].values[id]; ok {
		return v
	}
	return "0"
}

func (m *mergedTable) write(w io.StringWriter, otuID string) error {
	if _, err := w.WriteString(otuID + "\t" + strings.Join(m.samples, "\t") + "\n"); err != nil {
		return err
	}
	cells := make([]string, len(m.samples)+1)
	for _, id := range m.ids {
		cells[0] = id
		for j, s := range m.samples {
			cells[j+1] = m.value(id, s)
		}
		if _, err := w.WriteString(strings.Join(cells, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}
