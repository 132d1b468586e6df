package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeparator(t *testing.T) {
	cases := map[string]string{
		`\t`: "\t",
		",":  ",",
		";":  ";",
		"\t": "\t",
		`\\`: `\`,
	}
	for in, want := range cases {
		got, err := parseSeparator(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := parseSeparator("")
	assert.Error(t, err)
}

func TestBaseSampleName(t *testing.T) {
	assert.Equal(t, "A01", baseSampleName("/data/A01.counts.tsv"))
	assert.Equal(t, "noext", baseSampleName("noext"))
}

func TestRequireInputs(t *testing.T) {
	dir := t.TempDir()
	present := writeFile(t, dir, "a.tsv", "x")

	assert.NoError(t, requireInputs(inputPath{"A", present}, inputPath{"Optional", ""}))

	err := requireInputs(inputPath{"A", present}, inputPath{"Tree", dir + "/missing.nwk"}, inputPath{"B", dir + "/b"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Tree", nf.What)
	assert.Equal(t, "Tree file does not exist: "+dir+"/missing.nwk", err.Error())

	assert.Error(t, requireInputs(inputPath{"Dir", dir}), "directories are not input files")
}

func TestCreateOutputGzipRoundTrip(t *testing.T) {
	path := t.TempDir() + "/out.txt.gz"
	require.NoError(t, writeOutput(path, []byte("hello\n")))
	assert.Equal(t, "hello\n", readFile(t, path))
}
