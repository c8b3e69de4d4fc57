// Package wire implements the fixed 11-byte packet header that prefixes
// every erasure-coded symbol before it is base-encoded and handed to the
// QR renderer.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Version is the only packet header version this codebase understands.
// Receivers MUST reject any other value (spec §3).
const Version = 1

// HeaderSize is the fixed, unpadded size of a serialized Header.
const HeaderSize = 11

var (
	// ErrHeaderTooShort is returned when there are not enough bytes to hold
	// a version byte, or a full header.
	ErrHeaderTooShort = errors.New("wire: header too short")
)

// UnsupportedVersionError reports a header carrying a version this codebase
// does not speak.
type UnsupportedVersionError struct {
	Version uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("wire: unsupported version %d", e.Version)
}

// Header is the fixed binary prefix of every packet: version, transfer
// length, encoding symbol identifier, and symbol size, all big-endian.
type Header struct {
	Version    uint8
	Transfer   uint32 // T: total transfer length in bytes
	ESI        uint32 // Encoding Symbol Identifier
	PacketSize uint16 // the erasure codec's symbol size, even, >= 4
}

// MarshalBinary serializes h to its fixed 11-byte wire representation.
func (h Header) MarshalBinary() []byte {
	b := make([]byte, HeaderSize)
	b[0] = h.Version
	binary.BigEndian.PutUint32(b[1:5], h.Transfer)
	binary.BigEndian.PutUint32(b[5:9], h.ESI)
	binary.BigEndian.PutUint16(b[9:11], h.PacketSize)
	return b
}

// Encode serializes h followed by body into a single envelope payload.
func Encode(h Header, body []byte) []byte {
	out := make([]byte, 0, HeaderSize+len(body))
	out = append(out, h.MarshalBinary()...)
	out = append(out, body...)
	return out
}

// ParseHeader parses the fixed header prefix of b, returning the header and
// the remaining body. It checks the version before requiring the full
// header length, so that a truncated-but-versioned packet is reported as
// an unsupported version only when the version byte itself is legible.
func ParseHeader(b []byte) (Header, []byte, error) {
	if len(b) < 1 {
		return Header{}, nil, ErrHeaderTooShort
	}
	version := b[0]
	if version != Version {
		return Header{}, nil, &UnsupportedVersionError{Version: version}
	}
	if len(b) < HeaderSize {
		return Header{}, nil, ErrHeaderTooShort
	}

	h := Header{
		Version:    version,
		Transfer:   binary.BigEndian.Uint32(b[1:5]),
		ESI:        binary.BigEndian.Uint32(b[5:9]),
		PacketSize: binary.BigEndian.Uint16(b[9:11]),
	}
	return h, b[HeaderSize:], nil
}
