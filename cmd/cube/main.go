package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/handsomecheung/cube/logging"
	"github.com/handsomecheung/cube/qrchannel/textcard"
	"github.com/handsomecheung/cube/session"
	"github.com/handsomecheung/cube/sizing"
)

func main() {
	opts, err := parseOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level := logging.LevelInfo
	if opts.Verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(level, "cube: ")

	var runErr error
	switch opts.Command {
	case "send":
		runErr = runSend(opts, logger)
	case "receive":
		runErr = runReceive(opts, logger)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}

func runSend(opts *options, logger logging.Logger) error {
	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return fmt.Errorf("cube: read input: %w", err)
	}

	if err := os.MkdirAll(opts.CardsDir, 0o755); err != nil {
		return fmt.Errorf("cube: create card directory: %w", err)
	}

	cfg := sizing.Config{
		ChunkSize:     opts.ChunkSize,
		MinSize:       opts.MinSize,
		ReductionStep: 50,
		Redundancy:    opts.Redundancy,
	}

	enc := &textcard.Encoder{Dir: opts.CardsDir}
	packets, chunkSize, err := session.Send(filepath.Base(opts.InputPath), data, cfg, nil, textcard.Fits(opts.ChunkSize*2))
	if err != nil {
		return fmt.Errorf("cube: send: %w", err)
	}

	var hint *int
	for _, p := range packets {
		_, version, err := enc.Encode(p.Text, hint)
		if err != nil {
			return fmt.Errorf("cube: write card: %w", err)
		}
		if hint == nil {
			hint = &version
		}
	}
	logger.Infof("wrote %d cards at chunk size %d to %s", len(packets), chunkSize, opts.CardsDir)
	return nil
}

func runReceive(opts *options, logger logging.Logger) error {
	src, err := textcard.NewSource(opts.CardsDir)
	if err != nil {
		return fmt.Errorf("cube: open card directory: %w", err)
	}

	res, err := session.Receive(src, session.Config{
		QRDecoder: textcard.Decoder{},
		Output:    session.FileOutput{Path: opts.OutPath, DefaultDir: opts.DefaultDir},
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("cube: receive: %w", err)
	}
	logger.Infof("recovered %q at %s from %d packets", res.Name, res.Path, res.PacketsSeen)
	return nil
}
