package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

type fastaRecord struct {
	id      string
	comment []string
	seq     []byte
	line    int // line number of the header
}

// parseFasta calls onRecord for every record in file order. The last record
// is flushed at end of stream. A stream with no header lines yields nothing.
func parseFasta(r io.Reader, name string, onRecord func(fastaRecord) error) error {
	scanner := newScanner(r)

	var (
		rec     *fastaRecord
		seq     bytes.Buffer
		lineNum int
	)
	emit := func() error {
		if rec == nil {
			return nil
		}
		rec.seq = append([]byte(nil), seq.Bytes()...)
		seq.Reset()
		out := *rec
		rec = nil
		return onRecord(out)
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			if err := emit(); err != nil {
				return err
			}
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return formatErrorf(name, lineNum, "header line without identifier")
			}
			rec = &fastaRecord{id: fields[0], comment: fields[1:], line: lineNum}
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if rec == nil {
			return formatErrorf(name, lineNum, "sequence data before first header line")
		}
		seq.WriteString(trimmed)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan fasta: %w", err)
	}
	return emit()
}

// SequenceSet holds representative sequences in file order.
type SequenceSet struct {
	IDs      []string
	Seqs     map[string]string
	Comments map[string][]string
}

func (s *SequenceSet) Has(id string) bool {
	_, ok := s.Seqs[id]
	return ok
}

func (s *SequenceSet) Len() int {
	return len(s.IDs)
}

func readSequences(path string) (*SequenceSet, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = in.Close()
	}()
	return parseSequences(in, path)
}

func parseSequences(r io.Reader, name string) (*SequenceSet, error) {
	set := &SequenceSet{
		Seqs:     make(map[string]string),
		Comments: make(map[string][]string),
	}
	err := parseFasta(r, name, func(rec fastaRecord) error {
		if _, dup := set.Seqs[rec.id]; dup {
			return formatErrorf(name, rec.line, "duplicate sequence identifier %s", rec.id)
		}
		if len(rec.seq) == 0 {
			return formatErrorf(name, rec.line, "sequence %s has no sequence data", rec.id)
		}
		set.IDs = append(set.IDs, rec.id)
		set.Seqs[rec.id] = string(rec.seq)
		set.Comments[rec.id] = rec.comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(set.IDs) == 0 {
		return nil, formatErrorf(name, 0, "no FASTA records found")
	}
	return set, nil
}
