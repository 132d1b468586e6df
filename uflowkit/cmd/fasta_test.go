package cmd

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repSeqs = `>ASV1 size=1263 centroid
ACGT
acgt
>ASV2
  TTGG

>ASV3 x
CC
`

func TestParseSequences(t *testing.T) {
	set, err := parseSequences(strings.NewReader(repSeqs), "rep-seqs.fasta")
	require.NoError(t, err)

	assert.Equal(t, []string{"ASV1", "ASV2", "ASV3"}, set.IDs)
	assert.Equal(t, "ACGTacgt", set.Seqs["ASV1"])
	assert.Equal(t, "TTGG", set.Seqs["ASV2"])
	assert.Equal(t, "CC", set.Seqs["ASV3"], "last record is flushed at EOF")
	assert.Equal(t, []string{"size=1263", "centroid"}, set.Comments["ASV1"])
	assert.Empty(t, set.Comments["ASV2"])
	assert.True(t, set.Has("ASV3"))
	assert.False(t, set.Has("ASV4"))
}

func TestParseSequencesErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"blank lines only", "\n\n"},
		{"no header", "ACGT\n"},
		{"header without id", ">\nACGT\n"},
		{"duplicate id", ">a\nAC\n>a\nGT\n"},
		{"no sequence data", ">a\n>b\nAC\n"},
		{"last record empty", ">a\nAC\n>b\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := parseSequences(strings.NewReader(tc.in), "bad.fa")
			assert.Nil(t, set)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestReadSequencesGzip(t *testing.T) {
	path := writeGzip(t, t.TempDir(), "rep-seqs.fa.gz", repSeqs)
	set, err := readSequences(path)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
}

func TestWriteFasta(t *testing.T) {
	set, err := parseSequences(strings.NewReader(repSeqs), "rep-seqs.fasta")
	require.NoError(t, err)

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, writeFasta(w, set, 3))
	require.NoError(t, w.Flush())
	assert.Equal(t, ">ASV1 size=1263 centroid\nACG\nTac\ngt\n>ASV2\nTTG\nG\n>ASV3 x\nCC\n", buf.String())

	buf.Reset()
	w.Reset(&buf)
	require.NoError(t, writeFasta(w, set, 0))
	require.NoError(t, w.Flush())
	assert.Equal(t, ">ASV1 size=1263 centroid\nACGTacgt\n>ASV2\nTTGG\n>ASV3 x\nCC\n", buf.String())
}

func TestBuildFastaRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.fa", repSeqs)
	out := filepath.Join(dir, "out.fa.gz")
	require.NoError(t, buildFasta(in, out, 0))

	set, err := readSequences(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"ASV1", "ASV2", "ASV3"}, set.IDs)
}
