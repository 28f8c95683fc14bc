package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	compressedExt   = ".huff"
	decompressedExt = ".decompressed"
)

// IOError reports a failed file operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// compressedPath names the output of compressing in.
func compressedPath(in string) string {
	return in + compressedExt
}

// decompressedPath names the output of decompressing in.  A trailing .huff is
// stripped; if that name is taken, or there was no .huff to strip,
// .decompressed is appended, followed by .1, .2, ... until a free name turns
// up.
func decompressedPath(in string, exists func(string) bool) string {
	if base, found := strings.CutSuffix(in, compressedExt); found && base != "" && !exists(base) {
		return base
	}

	base := strings.TrimSuffix(in, compressedExt)
	if base == "" {
		base = in
	}
	candidate := base + decompressedExt
	for i := 1; exists(candidate); i++ {
		candidate = fmt.Sprintf("%s%s.%d", base, decompressedExt, i)
	}
	return candidate
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// writeOutput writes data to path through a temporary file in the same
// directory, so path either holds all of data or is left untouched.
func writeOutput(path string, data []byte) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
