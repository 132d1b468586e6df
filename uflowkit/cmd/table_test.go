package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	in := "#OTU ID\tA01\tA02\n" +
		"ASV1\t1263\t1544\n" +
		"\n" +
		"ASV2\t116\t89\n"
	table, err := parseTable(strings.NewReader(in), "table.tsv", tsvFormat)
	require.NoError(t, err)

	assert.Equal(t, "OTU ID", table.IDField)
	assert.Equal(t, []string{"A01", "A02"}, table.Fields)
	assert.Equal(t, []string{"ASV1", "ASV2"}, table.IDs)
	row, ok := table.Row("ASV2")
	require.True(t, ok)
	assert.Equal(t, []string{"116", "89"}, row)
}

func TestParseTableIDNotFirst(t *testing.T) {
	in := "#Group\tSampleID\tSite\n" +
		"ctrl\tA\tgut\n" +
		"case\tB\tskin\n"
	table, err := parseTable(strings.NewReader(in), "meta.tsv", tableFormat{Sep: "\t", HeaderChar: "#", IDField: "SampleID"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Group", "Site"}, table.Fields)
	assert.Equal(t, []string{"A", "B"}, table.IDs)
	row, _ := table.Row("B")
	assert.Equal(t, []string{"case", "skin"}, row)
}

func TestParseTableMissingIDField(t *testing.T) {
	t.Run("header without id", func(t *testing.T) {
		_, err := parseTable(strings.NewReader("#OTUID\tA\nX\t1\n"), "table.tsv", tsvFormat)
		var mf *MissingFieldError
		require.ErrorAs(t, err, &mf)
		assert.Equal(t, "OTU ID", mf.Field)
		assert.Equal(t, []string{"OTUID", "A"}, mf.Header)
		assert.True(t, errors.Is(err, ErrSchema))
	})

	t.Run("no header line", func(t *testing.T) {
		_, err := parseTable(strings.NewReader(""), "table.tsv", tsvFormat)
		assert.ErrorIs(t, err, ErrSchema)
	})

	t.Run("first marker line is the header", func(t *testing.T) {
		in := "# Constructed from biom file\n#OTU ID\tA\nX\t1\n"
		_, err := parseTable(strings.NewReader(in), "table.tsv", tsvFormat)
		assert.ErrorIs(t, err, ErrSchema)
	})
}

func TestParseTableCommentsAfterHeader(t *testing.T) {
	in := "#OTU ID\tA\n# a comment\nX\t1\n"
	table, err := parseTable(strings.NewReader(in), "table.tsv", tsvFormat)
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, table.IDs)
}

func TestParseTableRowWidth(t *testing.T) {
	in := "#OTU ID\tA\tB\nX\t1\t2\nY\t1\n"
	_, err := parseTable(strings.NewReader(in), "table.tsv", tsvFormat)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 3, fe.Line)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseTableDataBeforeHeader(t *testing.T) {
	_, err := parseTable(strings.NewReader("X\t1\n#OTU ID\tA\n"), "table.tsv", tsvFormat)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseTableDuplicateKeepsLastValues(t *testing.T) {
	in := "#OTU ID\tA\nX\t1\nY\t2\nX\t3\n"
	table, err := parseTable(strings.NewReader(in), "table.tsv", tsvFormat)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, table.IDs)
	row, _ := table.Row("X")
	assert.Equal(t, []string{"3"}, row)
}

func TestParseTableFirstLineHeader(t *testing.T) {
	in := "OTU\tS1\tS2\r\nZotu1\t3\t4\r\n"
	table, err := parseTable(strings.NewReader(in), "otutab.txt", tableFormat{Sep: "\t"})
	require.NoError(t, err)
	assert.Equal(t, "OTU", table.IDField)
	assert.Equal(t, []string{"S1", "S2"}, table.Fields)
	row, _ := table.Row("Zotu1")
	assert.Equal(t, []string{"3", "4"}, row)
}

func TestLoadTableCompressed(t *testing.T) {
	dir := t.TempDir()
	content := "#OTU ID\tA\nX\t1\n"

	t.Run("gzip", func(t *testing.T) {
		path := writeGzip(t, dir, "table.tsv.gz", content)
		table, err := loadTable(path, tsvFormat)
		require.NoError(t, err)
		assert.Equal(t, []string{"X"}, table.IDs)
	})

	t.Run("zstd", func(t *testing.T) {
		path := filepath.Join(dir, "table.tsv.zst")
		f, err := os.Create(path)
		require.NoError(t, err)
		enc, err := zstd.NewWriter(f)
		require.NoError(t, err)
		_, err = enc.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, enc.Close())
		require.NoError(t, f.Close())

		table, err := loadTable(path, tsvFormat)
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, table.Fields)
	})
}
