package qrchannel

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// item pairs one image with its error and label, used by SliceSource.
type item struct {
	img   Image
	label string
	err   error
}

// SliceSource is an in-memory ImageSource, primarily for tests: it replays
// a fixed sequence of (image, label, error) triples exactly once.
type SliceSource struct {
	items []item
	pos   int
}

// NewSliceSource builds an ImageSource over imgs, labeling each with its
// index. Use AddFailure to inject a per-item decode failure for testing the
// receiver's skip-and-continue behavior.
func NewSliceSource(imgs ...Image) *SliceSource {
	s := &SliceSource{items: make([]item, len(imgs))}
	for i, img := range imgs {
		s.items[i] = item{img: img, label: fmt.Sprintf("item %d", i)}
	}
	return s
}

// AddFailure appends a synthetic item whose Next call returns err instead
// of an image, simulating an unreadable frame.
func (s *SliceSource) AddFailure(label string, err error) {
	s.items = append(s.items, item{label: label, err: err})
}

func (s *SliceSource) Next() (Image, string, bool, error) {
	if s.pos >= len(s.items) {
		return nil, "", false, ErrNoMoreImages
	}
	it := s.items[s.pos]
	s.pos++
	if it.err != nil {
		return nil, it.label, true, it.err
	}
	return it.img, it.label, true, nil
}

// DirSource walks a directory's files in lexical order, presenting each
// file's raw bytes as an Image (the QRDecoder collaborator is responsible
// for turning those bytes into barcode text). It does not interpret pixels
// itself — that stays out of the core per spec §1's non-goals.
type DirSource struct {
	dir   string
	names []string
	pos   int
}

// NewDirSource lists dir once, eagerly, sorted by filename, and iterates it
// single-pass from then on.
func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("qrchannel: read directory %q: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return &DirSource{dir: dir, names: names}, nil
}

func (d *DirSource) Next() (Image, string, bool, error) {
	if d.pos >= len(d.names) {
		return nil, "", false, ErrNoMoreImages
	}
	name := d.names[d.pos]
	d.pos++

	path := filepath.Join(d.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, name, true, fmt.Errorf("qrchannel: read %q: %w", path, err)
	}
	return data, name, true, nil
}
