package cmd

import (
	"math/rand/v2"
	"sort"
)

const randomGroupField = "RandomGroup"

// synthesizeMetadata assigns every sample of the feature table to group A or
// B. The draw order follows the table's sample order, so a seeded rng gives
// a reproducible assignment.
func synthesizeMetadata(table *Table, rng *rand.Rand) *Table {
	meta := newTable("SampleID", []string{randomGroupField})
	for _, sample := range table.Fields {
		group := "A"
		if rng.IntN(2) == 1 {
			group = "B"
		}
		meta.set(sample, []string{group})
	}
	return meta
}

// reconcile checks that the models describe the same samples and features.
// It runs before any output is written.
func reconcile(table, meta *Table, seqs *SequenceSet, tax *Taxonomy) error {
	if err := checkSamples(table.Fields, meta.IDs); err != nil {
		return err
	}
	if table.Len() != seqs.Len() {
		var missing []string
		for _, id := range table.IDs {
			if !seqs.Has(id) {
				missing = append(missing, id)
			}
		}
		return &FeatureCountMismatchError{
			TableCount: table.Len(),
			FastaCount: seqs.Len(),
			Missing:    missing,
		}
	}
	for _, id := range table.IDs {
		if !seqs.Has(id) {
			return &FeatureMissingError{Feature: id}
		}
	}
	if tax != nil {
		for _, id := range seqs.IDs {
			if !tax.Has(id) {
				return &CardinalityError{
					What:   "taxonomy does not cover every sequence",
					Left:   "taxonomy",
					NLeft:  len(tax.IDs),
					Right:  "FASTA",
					NRight: seqs.Len(),
				}
			}
		}
	}
	return nil
}

func checkSamples(tableSamples, metaSamples []string) error {
	inTable := make(map[string]struct{}, len(tableSamples))
	for _, s := range tableSamples {
		inTable[s] = struct{}{}
	}
	inMeta := make(map[string]struct{}, len(metaSamples))
	for _, s := range metaSamples {
		inMeta[s] = struct{}{}
	}

	var onlyTable, onlyMeta []string
	for s := range inTable {
		if _, ok := inMeta[s]; !ok {
			onlyTable = append(onlyTable, s)
		}
	}
	for s := range inMeta {
		if _, ok := inTable[s]; !ok {
			onlyMeta = append(onlyMeta, s)
		}
	}
	if len(onlyTable) == 0 && len(onlyMeta) == 0 {
		return nil
	}
	sort.Strings(onlyTable)
	sort.Strings(onlyMeta)
	return &SampleMismatchError{OnlyTable: onlyTable, OnlyMetadata: onlyMeta}
}
