package session

import (
	"fmt"

	"github.com/handsomecheung/cube/compress"
	"github.com/handsomecheung/cube/envelope"
	"github.com/handsomecheung/cube/frame"
	"github.com/handsomecheung/cube/sizing"
)

// Send runs the full encode side (spec §2): frame the named payload,
// deflate it, then hand the result to sizing.Plan to negotiate a packet
// size against fits and emit the full redundant packet set.
func Send(name string, data []byte, cfg sizing.Config, codec envelope.Codec, fits sizing.FitFunc) ([]sizing.Packet, int, error) {
	packed := frame.Pack(data, name)
	compressed := compress.Compress(packed)

	packets, packetSize, err := sizing.Plan(cfg, compressed, codec, fits)
	if err != nil {
		return nil, 0, fmt.Errorf("session: plan packets for %q: %w", name, err)
	}
	return packets, packetSize, nil
}
