package cmd

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

func runFasta(args []string) {
	fs := flag.NewFlagSet("fasta", flag.ExitOnError)
	output := fs.String("o", "-", "Output FASTA path (.gz compresses, - for stdout)")
	width := fs.Int("width", 0, "Wrap sequences at this many columns (0 disables)")
	if err := fs.Parse(args); err != nil {
		fatalf("parse args failed: %v", err)
	}
	if fs.NArg() != 1 {
		fatalf("exactly one FASTA input is required")
	}
	if *width < 0 {
		fatalf("width must be >= 0")
	}
	if err := buildFasta(fs.Arg(0), *output, *width); err != nil {
		fatalf("fasta failed: %v", err)
	}
}

// buildFasta re-emits a FASTA through the sequence reader, so a successful
// run means export will accept the file.
func buildFasta(input, output string, width int) error {
	if err := requireInputs(inputPath{"FASTA", input}); err != nil {
		return err
	}
	seqs, err := readSequences(input)
	if err != nil {
		return err
	}
	out, err := createOutput(output)
	if err != nil {
		return err
	}
	if err := writeFasta(out, seqs, width); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", output, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	debugf("fasta: %d records", seqs.Len())
	return nil
}

func writeFasta(w io.StringWriter, seqs *SequenceSet, width int) error {
	for _, id := range seqs.IDs {
		header := ">" + id
		if comment := seqs.Comments[id]; len(comment) > 0 {
			header += " " + strings.Join(comment, " ")
		}
		if _, err := w.WriteString(header + "\n"); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		seq := seqs.Seqs[id]
		if width == 0 {
			if _, err := w.WriteString(seq + "\n"); err != nil {
				return fmt.Errorf("write seq: %w", err)
			}
			continue
		}
		for start := 0; start < len(seq); start += width {
			end := min(start+width, len(seq))
			if _, err := w.WriteString(seq[start:end] + "\n"); err != nil {
				return fmt.Errorf("write seq: %w", err)
			}
		}
	}
	return nil
}
