package fec

import (
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// reedSolomonEncoder splits payload into a fixed number of dataShards of
// packetSize bytes (the final shard zero-padded) and produces parityShards
// parity shards up front. Unlike RaptorQ it has no fountain property: esi
// must stay within [0, dataShards+parityShards).
type reedSolomonEncoder struct {
	enc    reedsolomon.Encoder
	shards [][]byte
}

// NewReedSolomonEncoder builds a fixed-rate Reed-Solomon Encoder over
// payload. dataShards is derived from len(payload) and packetSize;
// parityShards is caller-chosen redundancy.
func NewReedSolomonEncoder(payload []byte, packetSize uint16, parityShards int) (Encoder, error) {
	dataShards := (len(payload) + int(packetSize) - 1) / int(packetSize)
	if dataShards == 0 {
		dataShards = 1
	}

	enc, err := reedsolomon.New(dataShards, parityShards, reedsolomon.WithAutoGoroutines(int(packetSize)))
	if err != nil {
		return nil, fmt.Errorf("fec: create reed-solomon encoder: %w", err)
	}

	shards := make([][]byte, dataShards+parityShards)
	for i := 0; i < dataShards; i++ {
		shard := make([]byte, packetSize)
		start := i * int(packetSize)
		end := start + int(packetSize)
		if end > len(payload) {
			end = len(payload)
		}
		if start < len(payload) {
			copy(shard, payload[start:end])
		}
		shards[i] = shard
	}
	for i := dataShards; i < dataShards+parityShards; i++ {
		shards[i] = make([]byte, packetSize)
	}

	if err := enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("fec: reed-solomon encode: %w", err)
	}

	return &reedSolomonEncoder{enc: enc, shards: shards}, nil
}

func (e *reedSolomonEncoder) Algorithm() Algorithm { return ReedSolomon }

func (e *reedSolomonEncoder) Symbol(esi uint32) ([]byte, error) {
	if int(esi) >= len(e.shards) {
		return nil, fmt.Errorf("fec: esi %d out of range for %d reed-solomon shards", esi, len(e.shards))
	}
	return e.shards[esi], nil
}

// reedSolomonDecoder accumulates shards by ESI until it has enough data
// shards (or enough total shards to reconstruct missing data shards) to
// recover the original payload.
type reedSolomonDecoder struct {
	enc          reedsolomon.Encoder
	dataShards   int
	packetSize   uint16
	transferLen  uint32
	shards       [][]byte
	have         int
	result       []byte
	done         bool
}

// NewReedSolomonDecoder configures a Decoder for an object known to have
// been split into dataShards shards of packetSize bytes, protected by
// parityShards parity shards.
func NewReedSolomonDecoder(transferLen uint32, packetSize uint16, dataShards, parityShards int) (Decoder, error) {
	enc, err := reedsolomon.New(dataShards, parityShards, reedsolomon.WithAutoGoroutines(int(packetSize)))
	if err != nil {
		return nil, fmt.Errorf("fec: create reed-solomon decoder: %w", err)
	}
	return &reedSolomonDecoder{
		enc:         enc,
		dataShards:  dataShards,
		packetSize:  packetSize,
		transferLen: transferLen,
		shards:      make([][]byte, dataShards+parityShards),
	}, nil
}

func (d *reedSolomonDecoder) Algorithm() Algorithm { return ReedSolomon }

func (d *reedSolomonDecoder) Add(esi uint32, symbol []byte) (bool, error) {
	if d.done {
		return true, nil
	}
	if int(esi) >= len(d.shards) {
		return false, fmt.Errorf("fec: esi %d out of range for %d reed-solomon shards", esi, len(d.shards))
	}
	if len(symbol) < int(d.packetSize) {
		return false, ErrShortSymbol
	}
	if d.shards[esi] != nil {
		return false, nil
	}

	d.shards[esi] = symbol
	d.have++

	if d.have < d.dataShards {
		return false, nil
	}

	work := make([][]byte, len(d.shards))
	copy(work, d.shards)
	if err := d.enc.ReconstructData(work); err != nil {
		return false, nil
	}

	out := make([]byte, 0, d.dataShards*int(d.packetSize))
	for i := 0; i < d.dataShards; i++ {
		out = append(out, work[i]...)
	}
	if uint32(len(out)) > d.transferLen {
		out = out[:d.transferLen]
	}

	d.result = out
	d.done = true
	return true, nil
}

func (d *reedSolomonDecoder) Reconstruct() ([]byte, error) {
	if !d.done {
		return nil, fmt.Errorf("fec: reed-solomon decoder not ready")
	}
	return d.result, nil
}
