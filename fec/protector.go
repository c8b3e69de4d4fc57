// Package fec implements the erasure codecs this codebase can transport
// packets with. RaptorQ is the only one addressable over the wire (spec §4.3
// pins version 1 to it); ReedSolomon and XOR remain as alternate
// implementations of the same Protector contract, inherited from the
// teacher's per-scheme wrappers, and are exercised directly by this
// package's own tests rather than by the wire format.
package fec

import "errors"

// Algorithm identifies which erasure scheme a Protector implements.
type Algorithm int

const (
	RaptorQ Algorithm = iota
	ReedSolomon
	XOR
)

func (a Algorithm) String() string {
	switch a {
	case RaptorQ:
		return "raptorq"
	case ReedSolomon:
		return "reedsolomon"
	case XOR:
		return "xor"
	default:
		return "unknown"
	}
}

// ErrShortSymbol is returned when a symbol shorter than the configured
// packet size is fed to a fixed-shard decoder.
var ErrShortSymbol = errors.New("fec: symbol shorter than packet size")

// Protector identifies the scheme backing an Encoder/Decoder pair.
type Protector interface {
	Algorithm() Algorithm
}

// Encoder produces symbols for an object on demand. Symbol(esi) must be
// deterministic: calling it twice with the same esi returns the same bytes.
type Encoder interface {
	Protector
	// Symbol returns the encoded symbol for the given encoding symbol
	// identifier. For a fountain code, esi may range unbounded; for a
	// fixed-shard code, esi must be less than the total shard count (data
	// plus parity).
	Symbol(esi uint32) ([]byte, error)
}

// Decoder accumulates symbols for a single object and reports when enough
// independent symbols have arrived to reconstruct it.
type Decoder interface {
	Protector
	// Add feeds one symbol. done is true once Reconstruct will succeed.
	// Feeding a duplicate esi a second time is a no-op returning the
	// decoder's current state.
	Add(esi uint32, symbol []byte) (done bool, err error)
	// Reconstruct returns the recovered object. Valid only after Add has
	// returned done == true.
	Reconstruct() ([]byte, error)
}
