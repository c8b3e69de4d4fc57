// Package frame attaches and detaches the filename+checksum envelope that
// turns raw file content into the blob the rest of the pipeline transports.
package frame

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"unicode/utf8"
)

// ChecksumSize is the number of leading SHA-256 bytes kept as the content
// checksum.
const ChecksumSize = 8

var (
	// ErrPackedTooShort is returned by Unpack when the input cannot possibly
	// contain a checksum and a name terminator.
	ErrPackedTooShort = errors.New("frame: packed blob too short")
	// ErrMissingNameTerminator is returned when no NUL byte follows the
	// checksum.
	ErrMissingNameTerminator = errors.New("frame: missing name terminator")
	// ErrMalformedName is returned when the name region is not valid UTF-8.
	ErrMalformedName = errors.New("frame: name is not valid UTF-8")
	// ErrChecksumMismatch is returned when the recomputed checksum of the
	// content does not match the one carried in the blob.
	ErrChecksumMismatch = errors.New("frame: checksum mismatch")
)

// Checksum returns the first ChecksumSize bytes of SHA-256(b).
func Checksum(b []byte) [ChecksumSize]byte {
	sum := sha256.Sum256(b)
	var out [ChecksumSize]byte
	copy(out[:], sum[:ChecksumSize])
	return out
}

// sanitize strips any NUL bytes from name, per spec: the packed blob uses a
// single NUL as the name/content separator, so the name itself must never
// contain one.
func sanitize(name string) string {
	if !bytes.ContainsRune([]byte(name), 0) {
		return name
	}
	return string(bytes.ReplaceAll([]byte(name), []byte{0}, nil))
}

// Pack lays out CHK(8) || NAME || 0x00 || B, where CHK is the leading 8
// bytes of SHA-256(b) and NAME is name with any NUL bytes removed.
func Pack(b []byte, name string) []byte {
	clean := sanitize(name)
	chk := Checksum(b)

	out := make([]byte, 0, ChecksumSize+len(clean)+1+len(b))
	out = append(out, chk[:]...)
	out = append(out, clean...)
	out = append(out, 0)
	out = append(out, b...)
	return out
}

// Unpack splits a packed blob back into its name and content, validating
// the embedded checksum and requiring the name to be valid UTF-8.
func Unpack(p []byte) (name string, b []byte, err error) {
	if len(p) < ChecksumSize+1 {
		return "", nil, ErrPackedTooShort
	}

	chk := p[:ChecksumSize]
	rest := p[ChecksumSize:]

	sep := bytes.IndexByte(rest, 0)
	if sep < 0 {
		return "", nil, ErrMissingNameTerminator
	}

	nameBytes := rest[:sep]
	if !utf8.Valid(nameBytes) {
		return "", nil, ErrMalformedName
	}

	content := rest[sep+1:]
	got := Checksum(content)
	if !bytes.Equal(chk, got[:]) {
		return "", nil, ErrChecksumMismatch
	}

	return string(nameBytes), content, nil
}

// Sanitize exposes the name-cleaning step so callers can compute the
// expected round-trip name without re-packing.
func Sanitize(name string) string { return sanitize(name) }
