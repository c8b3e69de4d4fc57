// Package textcard is a reference qrchannel collaborator that carries
// envelope text verbatim through flat files instead of barcode pixels. It
// exists so the transport core can be driven end-to-end without a real QR
// implementation, which spec §1 explicitly excludes from this repo.
package textcard

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/handsomecheung/cube/qrchannel"
)

// Encoder writes one text file per packet into Dir, named by sequence
// number, and reports Image back as the same text (there is no pixel
// representation to produce).
type Encoder struct {
	Dir string

	next int
}

// Encode satisfies qrchannel.QREncoder. hint is ignored: a flat text file
// has no notion of barcode version, so there is nothing to pin.
func (e *Encoder) Encode(text string, hint *int) (qrchannel.Image, int, error) {
	path := filepath.Join(e.Dir, fmt.Sprintf("%05d.card", e.next))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return nil, 0, fmt.Errorf("textcard: write %q: %w", path, err)
	}
	e.next++
	return text, 0, nil
}

// Decoder returns the text it is handed unchanged; Image values produced by
// Source are already the file's text content.
type Decoder struct{}

func (Decoder) Decode(img qrchannel.Image) (string, error) {
	s, ok := img.(string)
	if !ok {
		return "", fmt.Errorf("textcard: image is %T, want string", img)
	}
	return s, nil
}

// Source iterates *.card files in dir in lexical order, which for the
// Encoder's zero-padded names is also emission order.
type Source struct {
	dir   string
	names []string
	pos   int
}

// NewSource lists dir once, eagerly, for *.card files.
func NewSource(dir string) (*Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("textcard: read directory %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".card" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return &Source{dir: dir, names: names}, nil
}

func (s *Source) Next() (qrchannel.Image, string, bool, error) {
	if s.pos >= len(s.names) {
		return nil, "", false, qrchannel.ErrNoMoreImages
	}
	name := s.names[s.pos]
	s.pos++

	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, name, true, fmt.Errorf("textcard: read %q: %w", path, err)
	}
	return string(data), name, true, nil
}

// Fits reports whether text, once written as a card, stays within max
// bytes. It stands in for a real QR encoder's capacity check (spec §4.5/§6):
// always consistent with Encode because neither imposes any true capacity
// limit beyond the caller's chosen max.
func Fits(max int) qrchannel.FitFunc {
	return func(text string) bool { return len(text) <= max }
}
