package fec

import "fmt"

// xorEncoder splits payload into dataShards fixed-size shards and produces
// a single parity shard that is the XOR of all of them. It can recover from
// exactly one missing shard, data or parity.
type xorEncoder struct {
	shards [][]byte
}

// NewXOREncoder builds an Encoder over payload using dataShards shards of
// packetSize bytes (the final one zero-padded), plus one XOR parity shard
// at esi == dataShards.
func NewXOREncoder(payload []byte, packetSize uint16, dataShards int) (Encoder, error) {
	if dataShards <= 0 {
		return nil, fmt.Errorf("fec: dataShards must be positive")
	}

	shards := make([][]byte, dataShards+1)
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

	parity := make([]byte, packetSize)
	for i := 0; i < dataShards; i++ {
		for j := range parity {
			parity[j] ^= shards[i][j]
		}
	}
	shards[dataShards] = parity

	return &xorEncoder{shards: shards}, nil
}

func (e *xorEncoder) Algorithm() Algorithm { return XOR }

func (e *xorEncoder) Symbol(esi uint32) ([]byte, error) {
	if int(esi) >= len(e.shards) {
		return nil, fmt.Errorf("fec: esi %d out of range for %d xor shards", esi, len(e.shards))
	}
	return e.shards[esi], nil
}

// xorDecoder accumulates up to dataShards+1 shards and reconstructs the one
// missing data shard once every other shard (data or parity) has arrived.
type xorDecoder struct {
	dataShards  int
	packetSize  uint16
	transferLen uint32
	shards      [][]byte
	have        int
	result      []byte
	done        bool
}

// NewXORDecoder configures a Decoder for an object split into dataShards
// shards of packetSize bytes plus one XOR parity shard.
func NewXORDecoder(transferLen uint32, packetSize uint16, dataShards int) (Decoder, error) {
	if dataShards <= 0 {
		return nil, fmt.Errorf("fec: dataShards must be positive")
	}
	return &xorDecoder{
		dataShards:  dataShards,
		packetSize:  packetSize,
		transferLen: transferLen,
		shards:      make([][]byte, dataShards+1),
	}, nil
}

func (d *xorDecoder) Algorithm() Algorithm { return XOR }

func (d *xorDecoder) Add(esi uint32, symbol []byte) (bool, error) {
	if d.done {
		return true, nil
	}
	if int(esi) >= len(d.shards) {
		return false, fmt.Errorf("fec: esi %d out of range for %d xor shards", esi, len(d.shards))
	}
	if len(symbol) < int(d.packetSize) {
		return false, ErrShortSymbol
	}
	if d.shards[esi] != nil {
		return false, nil
	}

	d.shards[esi] = symbol
	d.have++

	missing := -1
	for i, s := range d.shards {
		if s == nil {
			if missing != -1 {
				return false, nil // more than one missing, can't reconstruct yet
			}
			missing = i
		}
	}
	if missing == -1 {
		// Every shard present; nothing to reconstruct, data shards are
		// already in hand.
		return d.finish(), nil
	}
	if d.have < len(d.shards)-1 {
		return false, nil
	}

	reconstructed := make([]byte, d.packetSize)
	for i, s := range d.shards {
		if i == missing {
			continue
		}
		for j := range reconstructed {
			reconstructed[j] ^= s[j]
		}
	}
	d.shards[missing] = reconstructed

	return d.finish(), nil
}

func (d *xorDecoder) finish() bool {
	out := make([]byte, 0, d.dataShards*int(d.packetSize))
	for i := 0; i < d.dataShards; i++ {
		out = append(out, d.shards[i]...)
	}
	if uint32(len(out)) > d.transferLen {
		out = out[:d.transferLen]
	}
	d.result = out
	d.done = true
	return true
}

func (d *xorDecoder) Reconstruct() ([]byte, error) {
	if !d.done {
		return nil, fmt.Errorf("fec: xor decoder not ready")
	}
	return d.result, nil
}
