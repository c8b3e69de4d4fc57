// Package session implements the streaming receiver (spec §4.6): it
// iterates a qrchannel.ImageSource lazily, feeds a pinned RaptorQ decoder,
// and returns as soon as enough independent packets have been observed.
package session

import (
	"errors"
	"fmt"

	"github.com/handsomecheung/cube/compress"
	"github.com/handsomecheung/cube/envelope"
	"github.com/handsomecheung/cube/fec"
	"github.com/handsomecheung/cube/frame"
	"github.com/handsomecheung/cube/logging"
	"github.com/handsomecheung/cube/qrchannel"
	"github.com/handsomecheung/cube/wire"
)

// Result describes a successfully reconstructed file.
type Result struct {
	Name        string
	Path        string
	PacketsSeen int
}

// Config holds the caller-supplied collaborators and codec choice. Codec
// defaults to envelope.Standard if nil.
type Config struct {
	QRDecoder qrchannel.QRDecoder
	Codec     envelope.Codec
	Output    Output
	Logger    logging.Logger
}

// session config pinned by the first accepted packet (spec §4.6 step 4 /
// §5's "decoder session" ownership).
type pinned struct {
	transfer   uint32
	packetSize uint16
}

// Receive drains images until it reconstructs a file or the source is
// exhausted. It is single-pass and monotonic: it never rewinds images and
// returns as soon as the decoder converges (spec §5).
func Receive(images qrchannel.ImageSource, cfg Config) (*Result, error) {
	codec := cfg.Codec
	if codec == nil {
		codec = envelope.Standard
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard
	}
	if cfg.QRDecoder == nil {
		return nil, errors.New("session: Config.QRDecoder is required")
	}

	var (
		cfgPinned  *pinned
		dec        fec.Decoder
		seen       = map[uint32]bool{}
		matchCount int // packets that matched cfgPinned, including the one that set it
		count      int
	)

	for {
		img, label, ok, err := images.Next()
		if !ok {
			break
		}
		count++
		if err != nil {
			log.Infof("skipping %s: %v", label, err)
			continue
		}

		text, err := cfg.QRDecoder.Decode(img)
		if err != nil {
			log.Infof("skipping %s: QR decode failed: %v", label, err)
			continue
		}

		raw, err := codec.Decode(text)
		if err != nil {
			log.Infof("skipping %s: envelope decode failed: %v", label, err)
			continue
		}

		h, body, err := wire.ParseHeader(raw)
		if err != nil {
			log.Infof("skipping %s: %v", label, err)
			continue
		}

		if cfgPinned == nil {
			cfgPinned = &pinned{transfer: h.Transfer, packetSize: h.PacketSize}
			dec, err = fec.NewRaptorQDecoder(h.Transfer, h.PacketSize)
			if err != nil {
				log.Errorf("skipping %s: failed to start decoder: %v", label, err)
				cfgPinned = nil
				continue
			}
		} else if h.Transfer != cfgPinned.transfer || h.PacketSize != cfgPinned.packetSize {
			log.Infof("skipping %s: inconsistent session (T=%d size=%d, want T=%d size=%d)",
				label, h.Transfer, h.PacketSize, cfgPinned.transfer, cfgPinned.packetSize)
			continue
		}

		matchCount++

		if seen[h.ESI] {
			log.Debugf("skipping %s: duplicate ESI %d", label, h.ESI)
			continue
		}
		seen[h.ESI] = true

		done, err := dec.Add(h.ESI, body)
		if err != nil {
			log.Infof("skipping %s: decoder rejected symbol: %v", label, err)
			continue
		}
		if !done {
			continue
		}

		recovered, err := dec.Reconstruct()
		if err != nil {
			return nil, fmt.Errorf("session: reconstruct: %w", err)
		}
		if uint32(len(recovered)) > cfgPinned.transfer {
			recovered = recovered[:cfgPinned.transfer]
		}

		name, result, err := finish(recovered, cfg.Output)
		if err != nil {
			return nil, err
		}
		log.Infof("recovered %q from %d packets (%d items scanned)", name, len(seen), count)
		return &Result{Name: name, Path: result, PacketsSeen: len(seen)}, nil
	}

	if cfgPinned == nil {
		return nil, ErrNoValidPackets
	}
	if matchCount <= 1 {
		return nil, ErrInconsistentSession
	}
	return nil, ErrInsufficientPackets
}

// finish inflates and unpacks the recovered transfer object and writes it
// to out, returning the unpacked name and the path actually written.
func finish(recovered []byte, out Output) (name string, path string, err error) {
	packed, err := compress.Decompress(recovered)
	if err != nil {
		return "", "", fmt.Errorf("session: decompress: %w", err)
	}
	name, data, err := frame.Unpack(packed)
	if err != nil {
		return "", "", fmt.Errorf("session: unpack: %w", err)
	}
	path, err = out.Write(name, data)
	if err != nil {
		return "", "", err
	}
	return name, path, nil
}
