// Package compress deflates and inflates the packed blob before it is
// handed to the erasure codec. It is a thin wrapper over klauspost/compress's
// flate implementation, run at maximum compression.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// ErrCompressionError is returned by Decompress when the input is not a
// valid deflate stream produced by Compress.
var ErrCompressionError = errors.New("compress: corrupt deflate stream")

// Compress deflates p at flate.BestCompression.
func Compress(p []byte) []byte {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		// BestCompression is always a valid level; this cannot happen.
		panic(fmt.Sprintf("bug: flate.NewWriter: %v", err))
	}
	if _, err := w.Write(p); err != nil {
		panic(fmt.Sprintf("bug: flate write to bytes.Buffer failed: %v", err))
	}
	if err := w.Close(); err != nil {
		panic(fmt.Sprintf("bug: flate close failed: %v", err))
	}
	return buf.Bytes()
}

// Decompress inflates c, produced by Compress. Any corruption in the stream
// is reported as ErrCompressionError.
func Decompress(c []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(c))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressionError, err)
	}
	return out, nil
}
