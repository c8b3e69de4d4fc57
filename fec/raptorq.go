package fec

import (
	"fmt"

	"github.com/xssnick/raptorq"
)

// rqSymbolGenerator is the subset of the library's encoder type this
// package relies on; declared locally so this file depends only on the
// methods it calls, not on the concrete type name the library happens to
// return from CreateEncoder.
type rqSymbolGenerator interface {
	GenSymbol(id uint32) []byte
}

// rqSymbolAccumulator is the subset of the library's decoder type this
// package relies on.
type rqSymbolAccumulator interface {
	AddSymbol(id uint32, data []byte) (bool, error)
	Decode() (bool, []byte, error)
}

// raptorQEncoder wraps a single raptorq encoder instance created over the
// already-compressed transfer object. Symbol(esi) for esi < k returns a
// systematic (source) symbol; esi >= k returns a repair symbol, both
// generated deterministically by the underlying library.
type raptorQEncoder struct {
	enc rqSymbolGenerator
}

// NewRaptorQEncoder creates an Encoder over payload, emitting symbols of
// packetSize bytes. packetSize must be even and >= 4 per spec §4.3/§4.5.
func NewRaptorQEncoder(payload []byte, packetSize uint16) (Encoder, error) {
	rq := raptorq.NewRaptorQ(packetSize)
	enc, err := rq.CreateEncoder(payload)
	if err != nil {
		return nil, fmt.Errorf("fec: create raptorq encoder: %w", err)
	}
	return &raptorQEncoder{enc: enc}, nil
}

func (e *raptorQEncoder) Algorithm() Algorithm { return RaptorQ }

func (e *raptorQEncoder) Symbol(esi uint32) ([]byte, error) {
	return e.enc.GenSymbol(esi), nil
}

// raptorQDecoder owns one raptorq decoder instance for the lifetime of a
// receive session. It is the single mutable object per session described in
// spec §5: exclusively owned by its caller, never aliased.
type raptorQDecoder struct {
	dec    rqSymbolAccumulator
	result []byte
	done   bool
}

// NewRaptorQDecoder creates a Decoder configured for an object of the given
// transfer length and packet size, the "Object Transmission Information"
// spec §4.3 refers to, using the library's defaults for every other field.
func NewRaptorQDecoder(transferLen uint32, packetSize uint16) (Decoder, error) {
	rq := raptorq.NewRaptorQ(packetSize)
	dec, err := rq.CreateDecoder(uint64(transferLen))
	if err != nil {
		return nil, fmt.Errorf("fec: create raptorq decoder: %w", err)
	}
	return &raptorQDecoder{dec: dec}, nil
}

func (d *raptorQDecoder) Algorithm() Algorithm { return RaptorQ }

func (d *raptorQDecoder) Add(esi uint32, symbol []byte) (bool, error) {
	if d.done {
		return true, nil
	}

	canTry, err := d.dec.AddSymbol(esi, symbol)
	if err != nil {
		// The caller already deduplicates by ESI (spec §4.6 step 5), so
		// this only fires for symbols the library itself rejects outright.
		return false, fmt.Errorf("fec: add symbol %d: %w", esi, err)
	}
	if !canTry {
		return false, nil
	}

	success, data, err := d.dec.Decode()
	if err != nil {
		return false, fmt.Errorf("fec: decode attempt: %w", err)
	}
	if !success {
		return false, nil
	}

	d.result = data
	d.done = true
	return true, nil
}

func (d *raptorQDecoder) Reconstruct() ([]byte, error) {
	if !d.done {
		return nil, fmt.Errorf("fec: raptorq decoder not ready")
	}
	return d.result, nil
}
