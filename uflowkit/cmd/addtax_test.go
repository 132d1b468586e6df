package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTaxonomyFixture(t *testing.T) addTaxonomyConfig {
	t.Helper()
	dir := t.TempDir()
	return addTaxonomyConfig{
		Input:     writeFile(t, dir, "otutab.txt", "#OTU ID\tS1\tS2\nZotu2\t4\t5\nZotu1\t1\t2\nZotu9\t0\t1\n"),
		Fasta:     writeFile(t, dir, "zotus.fa", ">Zotu1\nACGT\n>Zotu2\nGGCA\n"),
		Taxonomy:  writeFile(t, dir, "taxonomy.txt", "Kingdom Phylum Class\n1 Fungi Ascomycota Saccharomycetes\n2 Fungi NA\n"),
		Output:    filepath.Join(dir, "annotated.tsv"),
		Sep:       "\t",
		IndexName: nameHeader,
	}
}

func TestBuildAddTaxonomyWide(t *testing.T) {
	cfg := addTaxonomyFixture(t)
	require.NoError(t, buildAddTaxonomy(cfg))

	assert.Equal(t,
		"#NAME\tS1\tS2\tKingdom\tPhylum\tClass\n"+
			"Zotu2\t4\t5\tFungi\t\t\n"+
			"Zotu1\t1\t2\tFungi\tAscomycota\tSaccharomycetes\n",
		readFile(t, cfg.Output))
	assert.Equal(t,
		"#TAXONOMY\tKingdom\tPhylum\tClass\n"+
			"Zotu1\tFungi\tAscomycota\tSaccharomycetes\n"+
			"Zotu2\tFungi\t\t\n",
		readFile(t, cfg.Output+".taxonomy.txt"))
}

func TestBuildAddTaxonomyCondensedCSV(t *testing.T) {
	cfg := addTaxonomyFixture(t)
	cfg.Condense = true
	cfg.CSV = true
	require.NoError(t, buildAddTaxonomy(cfg))

	assert.Equal(t,
		"#NAME,S1,S2,Taxonomy\n"+
			"Zotu2,4,5,Fungi\n"+
			"Zotu1,1,2,Fungi;Ascomycota;Saccharomycetes\n",
		readFile(t, cfg.Output))
	assert.Equal(t,
		"#TAXONOMY,Taxonomy\nZotu1,Fungi;Ascomycota;Saccharomycetes\nZotu2,Fungi\n",
		readFile(t, cfg.Output+".taxonomy.txt"))
}

func TestBuildAddTaxonomyCardinality(t *testing.T) {
	cfg := addTaxonomyFixture(t)
	cfg.Fasta = writeFile(t, t.TempDir(), "zotus.fa", ">Zotu1\nACGT\n")
	err := buildAddTaxonomy(cfg)
	var ce *CardinalityError
	assert.ErrorAs(t, err, &ce)
	assert.NoFileExists(t, cfg.Output)
}
