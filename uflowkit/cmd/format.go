package cmd

import (
	"bytes"
	"strings"
)

const (
	outputSep     = ","
	nameHeader    = "#NAME"
	condensedName = "Taxonomy"
)

// quoteField wraps value in quote when it contains sep. Embedded quote
// characters are not escaped.
func quoteField(value, sep, quote string) string {
	if strings.Contains(value, sep) {
		return quote + value + quote
	}
	return value
}

func writeRow(buf *bytes.Buffer, cells []string, quote string) {
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(outputSep)
		}
		buf.WriteString(quoteField(c, outputSep, quote))
	}
	buf.WriteByte('\n')
}

// renderTable writes t as "#NAME,<field>..." followed by one line per id.
func renderTable(t *Table, quote string) []byte {
	var buf bytes.Buffer
	buf.WriteString(nameHeader)
	for _, f := range t.Fields {
		buf.WriteString(outputSep)
		buf.WriteString(f)
	}
	buf.WriteByte('\n')

	cells := make([]string, 0, len(t.Fields)+1)
	for _, id := range t.IDs {
		row, _ := t.Row(id)
		cells = append(cells[:0], id)
		cells = append(cells, row...)
		writeRow(&buf, cells, quote)
	}
	return buf.Bytes()
}

// renderTaxonomy writes seven rank-prefixed cells per id, in id order.
func renderTaxonomy(tax *Taxonomy, quote string) []byte {
	var buf bytes.Buffer
	buf.WriteString(nameHeader)
	for _, r := range rankNames {
		buf.WriteString(outputSep)
		buf.WriteString(r)
	}
	buf.WriteByte('\n')

	cells := make([]string, 0, numRanks+1)
	for _, id := range tax.IDs {
		cells = append(cells[:0], id)
		for i := 0; i < numRanks; i++ {
			cells = append(cells, rankPrefix(i)+tax.Rank(id, i))
		}
		writeRow(&buf, cells, quote)
	}
	return buf.Bytes()
}

// condenseTaxonomy joins the classified ranks of every id with ';'.
func condenseTaxonomy(tax *Taxonomy) map[string]string {
	out := make(map[string]string, len(tax.IDs))
	for _, id := range tax.IDs {
		out[id] = condensedLineage(tax.Ranks[id])
	}
	return out
}

func condensedLineage(ranks [numRanks]string) string {
	known := make([]string, 0, numRanks)
	for _, r := range ranks {
		if r != "" {
			known = append(known, r)
		}
	}
	return strings.Join(known, ";")
}
