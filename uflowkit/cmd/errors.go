package cmd

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema marks a header that lacks a required column.
	ErrSchema = errors.New("schema error")
	// ErrFormat marks input that cannot be parsed into a model.
	ErrFormat = errors.New("format error")
	// ErrMismatch marks inputs whose identifier sets disagree.
	ErrMismatch = errors.New("identifier mismatch")
	// ErrNotFound marks a missing input path.
	ErrNotFound = errors.New("not found")
)

// MissingFieldError reports an identifier column absent from a header line.
type MissingFieldError struct {
	Path   string
	Field  string
	Header []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: ID field %q not found in header %q", e.Path, e.Field, e.Header)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrSchema
}

// FormatError reports a malformed input line or file.
type FormatError struct {
	Path    string
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// CardinalityError reports two inputs with different row counts that are
// joined by position.
type CardinalityError struct {
	What   string
	Left   string
	Right  string
	NLeft  int
	NRight int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("%s: %s has %d rows, %s has %d", e.What, e.Left, e.NLeft, e.Right, e.NRight)
}

func (e *CardinalityError) Is(target error) bool {
	return target == ErrMismatch
}

// SampleMismatchError lists the symmetric difference between the samples of
// the feature table and the metadata.
type SampleMismatchError struct {
	OnlyTable    []string
	OnlyMetadata []string
}

func (e *SampleMismatchError) Error() string {
	return fmt.Sprintf("samples in feature table and metadata do not match: table only [%s], metadata only [%s]",
		strings.Join(e.OnlyTable, ","), strings.Join(e.OnlyMetadata, ","))
}

func (e *SampleMismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// Difference returns every sample present in only one of the two inputs.
func (e *SampleMismatchError) Difference() []string {
	out := make([]string, 0, len(e.OnlyTable)+len(e.OnlyMetadata))
	out = append(out, e.OnlyTable...)
	return append(out, e.OnlyMetadata...)
}

type FeatureCountMismatchError struct {
	TableCount int
	FastaCount int
	Missing    []string // table features absent from the FASTA
}

func (e *FeatureCountMismatchError) Error() string {
	msg := fmt.Sprintf("number of features in feature table (%d) and FASTA (%d) do not match", e.TableCount, e.FastaCount)
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf(": not in FASTA [%s]", strings.Join(e.Missing, ","))
	}
	return msg
}

func (e *FeatureCountMismatchError) Is(target error) bool {
	return target == ErrMismatch
}

type FeatureMissingError struct {
	Feature string
}

func (e *FeatureMissingError) Error() string {
	return fmt.Sprintf("feature %s not found in FASTA", e.Feature)
}

func (e *FeatureMissingError) Is(target error) bool {
	return target == ErrMismatch
}

// NotFoundError reports an input path that does not exist.
type NotFoundError struct {
	What string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s file does not exist: %s", e.What, e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func formatErrorf(path string, line int, format string, args ...any) *FormatError {
	return &FormatError{Path: path, Line: line, Message: fmt.Sprintf(format, args...)}
}
