package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

const writerBufferSize = 1 << 20

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// inputPath names one input of a subcommand for requireInputs.
type inputPath struct {
	what string
	path string
}

// requireInputs fails on the first input that does not exist. Empty paths
// are optional inputs that were not given.
func requireInputs(inputs ...inputPath) error {
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		if !fileExists(in.path) {
			return &NotFoundError{What: in.what, Path: in.path}
		}
	}
	return nil
}

// parseSeparator turns flag values such as `\t` into the literal separator.
func parseSeparator(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("separator must not be empty")
	}
	if !strings.Contains(value, `\`) {
		return value, nil
	}
	sep, err := strconv.Unquote(`"` + value + `"`)
	if err != nil {
		return "", fmt.Errorf("invalid separator %q: %w", value, err)
	}
	return sep, nil
}

func indexOf(values []string, name string) int {
	for i, v := range values {
		if v == name {
			return i
		}
	}
	return -1
}

// baseSampleName is the file name up to its first dot.
func baseSampleName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

type readCloser struct {
	reader io.Reader
	close  func() error
}

func (r readCloser) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r readCloser) Close() error {
	return r.close()
}

// openInput opens path for reading, decompressing .gz and .zst by suffix.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := pgzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return readCloser{
			reader: gz,
			close: func() error {
				_ = gz.Close()
				return f.Close()
			},
		}, nil
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return readCloser{
			reader: dec,
			close: func() error {
				dec.Close()
				return f.Close()
			},
		}, nil
	}
	return f, nil
}

// outputWriter is a buffered sink, gzip-compressed when the path ends in .gz.
type outputWriter struct {
	*bufio.Writer
	file *os.File
	gz   io.Closer
}

// createOutput opens path for writing; "-" writes to stdout.
func createOutput(path string) (*outputWriter, error) {
	if path == "-" {
		return &outputWriter{Writer: bufio.NewWriterSize(os.Stdout, writerBufferSize)}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return &outputWriter{Writer: bufio.NewWriterSize(f, writerBufferSize), file: f}, nil
	}
	pw, err := pgzip.NewWriterLevel(f, pgzip.DefaultCompression)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create gzip writer: %w", err)
	}
	if err := pw.SetConcurrency(1<<20, runtime.GOMAXPROCS(0)); err != nil {
		_ = pw.Close()
		_ = f.Close()
		return nil, fmt.Errorf("set gzip concurrency: %w", err)
	}
	return &outputWriter{Writer: bufio.NewWriterSize(pw, writerBufferSize), file: f, gz: pw}, nil
}

// Close flushes buffered data and closes the compressor and file.
func (w *outputWriter) Close() error {
	err := w.Flush()
	if w.gz != nil {
		if cerr := w.gz.Close(); err == nil {
			err = cerr
		}
	}
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func writeOutput(path string, data []byte) error {
	out, err := createOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s -> %s: %w", src, dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 50*1024*1024)
	return scanner
}
