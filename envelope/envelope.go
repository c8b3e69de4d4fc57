// Package envelope wraps packet bytes in a text-safe encoding before they
// are handed to a QR renderer, and unwraps them on the way back. The
// deployment-wide choice of codec is a constant (spec §9); this repo uses
// standard base64, since no base45 implementation exists anywhere in the
// corpus this codebase was grounded on (see DESIGN.md).
package envelope

import "encoding/base64"

// Codec is the inverse pair the sender and receiver must agree on. Both
// directions MUST be exact inverses of each other.
type Codec interface {
	Encode(b []byte) string
	Decode(s string) ([]byte, error)
}

// base64Codec implements Codec using padded standard base64, with no
// line wrapping, matching the "strict inverse" requirement of spec §6.
type base64Codec struct{}

// Standard is the deployment-wide envelope text codec used by this
// repository: base64 standard encoding, no line wrapping.
var Standard Codec = base64Codec{}

func (base64Codec) Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func (base64Codec) Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
