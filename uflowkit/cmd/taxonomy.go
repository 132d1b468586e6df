package cmd

import (
	"fmt"
	"io"
	"strings"
)

const numRanks = 7

// rankNames lists the fixed hierarchy, Domain first.
var rankNames = [numRanks]string{"Domain", "Phylum", "Class", "Order", "Family", "Genus", "Species"}

const rankLetters = "dpcofgs"

// rankPrefix returns the encoded prefix of rank i, e.g. "g__" for Genus.
func rankPrefix(i int) string {
	return rankLetters[i:i+1] + "__"
}

// normalizeRank maps the classifier's missing marker to the empty rank.
func normalizeRank(value string) string {
	if value == "NA" {
		return ""
	}
	return value
}

// Taxonomy maps sequence ids to a fixed seven-slot rank record. Empty strings
// mark unclassified ranks.
type Taxonomy struct {
	Labels []string
	IDs    []string
	Ranks  map[string][numRanks]string
	depth  int
}

// Rank returns rank i of id, empty when unclassified.
func (t *Taxonomy) Rank(id string, i int) string {
	return t.Ranks[id][i]
}

func (t *Taxonomy) Has(id string) bool {
	_, ok := t.Ranks[id]
	return ok
}

// Depth is the number of rank columns the input carried.
func (t *Taxonomy) Depth() int {
	return t.depth
}

// taxonomyRow is one data line bound to the sequence at the same position.
type taxonomyRow struct {
	index int
	line  int
	id    string
	ranks []string
}

func loadTaxonomy(path string, seqs *SequenceSet) (*Taxonomy, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = in.Close()
	}()
	return parseTaxonomy(in, path, seqs.IDs)
}

// parseTaxonomy pairs data line k with ids[k-1]. The header line is kept
// only as column labels, and each line's leading row number is dropped.
func parseTaxonomy(r io.Reader, name string, ids []string) (*Taxonomy, error) {
	scanner := newScanner(r)
	var (
		header  []string
		rows    []taxonomyRow
		lineNum int
		seen    bool
	)
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if !seen {
			seen = true
			header = tokens
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		ranks := tokens[1:]
		if len(ranks) > numRanks {
			return nil, formatErrorf(name, lineNum, "%d ranks, at most %d supported", len(ranks), numRanks)
		}
		rows = append(rows, taxonomyRow{index: len(rows), line: lineNum, ranks: ranks})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}

	if len(rows) != len(ids) {
		return nil, &CardinalityError{
			What:   "taxonomy is joined to FASTA by position",
			Left:   name,
			NLeft:  len(rows),
			Right:  "FASTA",
			NRight: len(ids),
		}
	}

	tax := &Taxonomy{
		IDs:   make([]string, 0, len(rows)),
		Ranks: make(map[string][numRanks]string, len(rows)),
	}
	for i := range rows {
		rows[i].id = ids[rows[i].index]
		var rec [numRanks]string
		for j, v := range rows[i].ranks {
			rec[j] = normalizeRank(v)
		}
		tax.IDs = append(tax.IDs, rows[i].id)
		tax.Ranks[rows[i].id] = rec
		if len(rows[i].ranks) > tax.depth {
			tax.depth = len(rows[i].ranks)
		}
	}
	tax.Labels = rankLabels(header, tax.depth)
	if len(tax.Labels) > tax.depth {
		tax.depth = len(tax.Labels)
	}
	return tax, nil
}

// rankLabels names the rank columns from the header line. A header with one
// extra leading token names the row-number column and that token is dropped.
// Missing names fall back to the fixed hierarchy.
func rankLabels(header []string, depth int) []string {
	labels := header
	if len(labels) == depth+1 || len(labels) > numRanks {
		labels = labels[1:]
	}
	if len(labels) > numRanks {
		labels = labels[:numRanks]
	}
	out := append([]string(nil), labels...)
	for len(out) < depth {
		out = append(out, rankNames[len(out)])
	}
	return out
}
