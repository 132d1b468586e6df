package cmd

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var gzipMagic = []byte{0x1f, 0x8b}

type prepareDBConfig struct {
	Input   string
	DestDir string
	Move    bool
	Force   bool
}

func runPrepareDB(args []string) {
	fs := flag.NewFlagSet("prepare-db", flag.ExitOnError)
	var cfg prepareDBConfig
	fs.StringVar(&cfg.Input, "i", "", "Input database file")
	fs.StringVar(&cfg.Input, "input", "", "Input database file")
	fs.StringVar(&cfg.DestDir, "d", ".", "Directory for the renamed database")
	fs.BoolVar(&cfg.Move, "m", false, "Move the file, otherwise symlink")
	fs.BoolVar(&cfg.Move, "move", false, "Move the file, otherwise symlink")
	fs.BoolVar(&cfg.Force, "force", false, "Replace an existing destination")
	if err := fs.Parse(args); err != nil {
		fatalf("parse args failed: %v", err)
	}
	if cfg.Input == "" {
		fatalf("input is required")
	}
	if _, err := buildPrepareDB(cfg); err != nil {
		fatalf("prepare-db failed: %v", err)
	}
}

// dbType infers the extension of a classifier database from its magic
// number: gzip means a FASTA reference, anything else an R data file.
func dbType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	magic := make([]byte, len(gzipMagic))
	if _, err := io.ReadFull(f, magic); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if bytes.Equal(magic, gzipMagic) {
		return ".fa.gz", nil
	}
	return ".RData", nil
}

func buildPrepareDB(cfg prepareDBConfig) (string, error) {
	if err := requireInputs(inputPath{"Database", cfg.Input}); err != nil {
		return "", err
	}
	ext, err := dbType(cfg.Input)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(cfg.DestDir, filepath.Base(cfg.Input)+ext)
	logf("%s -> %s", cfg.Input, dest)
	if cfg.Move {
		return dest, movePath(cfg.Input, dest, cfg.Force)
	}
	if pathExists(dest) {
		if !cfg.Force {
			return "", fmt.Errorf("destination exists (use -force): %s", dest)
		}
		if err := os.Remove(dest); err != nil {
			return "", fmt.Errorf("remove existing %s: %w", dest, err)
		}
	}
	target, err := filepath.Abs(cfg.Input)
	if err != nil {
		return "", err
	}
	if err := os.Symlink(target, dest); err != nil {
		return "", fmt.Errorf("symlink %s: %w", dest, err)
	}
	return dest, nil
}

func movePath(src, dest string, force bool) error {
	if filepath.Clean(src) == filepath.Clean(dest) {
		return nil
	}
	if pathExists(dest) {
		if !force {
			return fmt.Errorf("destination exists (use -force): %s", dest)
		}
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("remove existing %s: %w", dest, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create destination dir: %w", err)
	}
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}
