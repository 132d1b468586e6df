package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err      error
		want     string
		sentinel error
	}{
		{
			&MissingFieldError{Path: "t.tsv", Field: "OTU ID", Header: []string{"OTUID", "A"}},
			`t.tsv: ID field "OTU ID" not found in header ["OTUID" "A"]`,
			ErrSchema,
		},
		{&FormatError{Path: "a.fa", Line: 3, Message: "bad"}, "a.fa:3: bad", ErrFormat},
		{&FormatError{Path: "a.fa", Message: "no FASTA records found"}, "a.fa: no FASTA records found", ErrFormat},
		{
			&SampleMismatchError{OnlyTable: []string{"C"}, OnlyMetadata: []string{"B"}},
			"samples in feature table and metadata do not match: table only [C], metadata only [B]",
			ErrMismatch,
		},
		{
			&FeatureCountMismatchError{TableCount: 3, FastaCount: 2, Missing: []string{"F3"}},
			"number of features in feature table (3) and FASTA (2) do not match: not in FASTA [F3]",
			ErrMismatch,
		},
		{&FeatureMissingError{Feature: "F9"}, "feature F9 not found in FASTA", ErrMismatch},
		{
			&CardinalityError{What: "taxonomy is joined to FASTA by position", Left: "tax.txt", NLeft: 1, Right: "FASTA", NRight: 2},
			"taxonomy is joined to FASTA by position: tax.txt has 1 rows, FASTA has 2",
			ErrMismatch,
		},
		{&NotFoundError{What: "FASTA", Path: "x.fa"}, "FASTA file does not exist: x.fa", ErrNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Error())
		wrapped := fmt.Errorf("load: %w", tc.err)
		assert.True(t, errors.Is(wrapped, tc.sentinel), tc.want)
	}
}
