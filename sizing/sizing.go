// Package sizing implements the sender's adaptive packet-size negotiation
// (spec §4.5): retreat the envelope size until the channel's fit predicate
// accepts a real probe packet, then emit the full redundant packet set at
// that size.
package sizing

import (
	"errors"
	"fmt"
	"math"

	"github.com/handsomecheung/cube/envelope"
	"github.com/handsomecheung/cube/fec"
	"github.com/handsomecheung/cube/wire"
)

var (
	// ErrTooSmall is returned when the chunk size has retreated to MinSize
	// and still leaves no room for an even packet size of at least 4.
	ErrTooSmall = errors.New("sizing: requested chunk size below minimum")
	// ErrTooLarge is returned when even MinSize does not fit the channel.
	ErrTooLarge = errors.New("sizing: data too large for channel even at minimum size")
)

// FitFunc reports whether envelope text fits the visual channel. It MUST be
// consistent with the collaborator that will actually render the text
// (spec §6): returning true implies rendering the same text will succeed.
type FitFunc func(text string) bool

// Config holds the caller-supplied constants driving the retreat loop.
// Defaults differ per channel; the algorithm is shared (spec §4.5).
type Config struct {
	ChunkSize     int     // requested initial envelope text size, in bytes
	MinSize       int     // lower bound the retreat loop will not cross
	ReductionStep int     // bytes shaved off ChunkSize per retreat
	Redundancy    float64 // >= 1.0; total packets / source packets
}

// DefaultImageConfig matches the reference implementation's disk-image and
// GIF renderer defaults: larger frames, lower redundancy (a lossless local
// write, unlike a camera capture).
func DefaultImageConfig() Config {
	return Config{ChunkSize: 1400, MinSize: 100, ReductionStep: 50, Redundancy: 1.5}
}

// DefaultTerminalConfig matches the reference implementation's terminal
// carousel defaults: smaller frames to fit a character grid, higher
// redundancy to cover a lossier capture path.
func DefaultTerminalConfig() Config {
	return Config{ChunkSize: 100, MinSize: 50, ReductionStep: 20, Redundancy: 2.0}
}

// Packet is one emitted, already-enveloped unit ready for the QR renderer.
type Packet struct {
	ESI  uint32
	Text string
}

// Plan runs the retreat algorithm of spec §4.5 over compressed (the
// transfer object C) and returns every packet to emit plus the chunk size
// that was settled on.
func Plan(cfg Config, compressed []byte, codec envelope.Codec, fits FitFunc) ([]Packet, int, error) {
	if codec == nil {
		codec = envelope.Standard
	}

	current := cfg.ChunkSize
	transferLen := uint32(len(compressed))

	for {
		packetSize := evenFloor(current - wire.HeaderSize)
		if packetSize < 4 {
			if current <= cfg.MinSize {
				return nil, 0, ErrTooSmall
			}
			current = retreat(current, cfg.ReductionStep, cfg.MinSize)
			continue
		}

		enc, err := fec.NewRaptorQEncoder(compressed, uint16(packetSize))
		if err != nil {
			return nil, 0, fmt.Errorf("sizing: build probe encoder: %w", err)
		}

		probeBody, err := enc.Symbol(0)
		if err != nil {
			return nil, 0, fmt.Errorf("sizing: generate probe symbol: %w", err)
		}
		probeText := envelopeText(codec, transferLen, 0, uint16(packetSize), probeBody)

		if fits(probeText) {
			k := ceilDiv(len(compressed), packetSize)
			n := int(math.Ceil(float64(k) * cfg.Redundancy))
			if n < k+2 {
				n = k + 2
			}

			packets := make([]Packet, 0, n)
			packets = append(packets, Packet{ESI: 0, Text: probeText})
			for esi := uint32(1); esi < uint32(n); esi++ {
				body, err := enc.Symbol(esi)
				if err != nil {
					return nil, 0, fmt.Errorf("sizing: generate symbol %d: %w", esi, err)
				}
				packets = append(packets, Packet{
					ESI:  esi,
					Text: envelopeText(codec, transferLen, esi, uint16(packetSize), body),
				})
			}
			return packets, current, nil
		}

		if current > cfg.MinSize {
			current = retreat(current, cfg.ReductionStep, cfg.MinSize)
			continue
		}
		return nil, 0, ErrTooLarge
	}
}

func envelopeText(codec envelope.Codec, transfer uint32, esi uint32, packetSize uint16, body []byte) string {
	h := wire.Header{Version: wire.Version, Transfer: transfer, ESI: esi, PacketSize: packetSize}
	return codec.Encode(wire.Encode(h, body))
}

func evenFloor(n int) int {
	if n < 0 {
		return n
	}
	return n - (n % 2)
}

func retreat(current, step, min int) int {
	next := current - step
	if next < min {
		return min
	}
	return next
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
