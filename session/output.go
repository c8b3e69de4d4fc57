package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// Output decides where a reconstructed file lands (spec §4.7): the
// caller-specified path if one was given, else default_dir/name_from_unpack.
type Output interface {
	Write(name string, data []byte) (path string, err error)
}

// FileOutput is the default Output, writing to disk.
type FileOutput struct {
	// Path, if non-empty, overrides the unpacked name entirely.
	Path string
	// DefaultDir is joined with the unpacked name when Path is empty.
	DefaultDir string
}

func (o FileOutput) Write(name string, data []byte) (string, error) {
	target := o.Path
	if target == "" {
		target = filepath.Join(o.DefaultDir, name)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("session: write output file %q: %w", target, err)
	}
	return target, nil
}
