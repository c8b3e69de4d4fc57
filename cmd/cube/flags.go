package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// options holds the parsed command line, shared by both the send and
// receive subcommands (spec §4.9).
type options struct {
	Command string // "send" or "receive"

	// send
	InputPath  string
	CardsDir   string
	ChunkSize  int
	MinSize    int
	Redundancy float64

	// receive
	OutPath    string
	DefaultDir string

	Verbose bool
}

func parseOptions() (*options, error) {
	opts := &options{}

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s send -i FILE -d DIR\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s receive -d DIR [-o FILE]\n", os.Args[0])
		pflag.PrintDefaults()
	}

	pflag.StringVarP(&opts.InputPath, "input", "i", "", "file to send")
	pflag.StringVarP(&opts.CardsDir, "dir", "d", "", "card directory shared between send and receive")
	pflag.IntVar(&opts.ChunkSize, "chunk-size", 1400, "initial envelope text size, in bytes")
	pflag.IntVar(&opts.MinSize, "min-size", 100, "smallest envelope text size the retreat loop will try")
	pflag.Float64Var(&opts.Redundancy, "redundancy", 1.5, "ratio of emitted packets to source packets")
	pflag.StringVarP(&opts.OutPath, "output", "o", "", "output file path (defaults to the recovered name)")
	pflag.StringVar(&opts.DefaultDir, "out-dir", ".", "directory for the recovered file when --output is unset")
	pflag.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	pflag.Parse()

	if pflag.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one subcommand (send or receive), got %d arguments", pflag.NArg())
	}
	opts.Command = pflag.Arg(0)

	switch opts.Command {
	case "send":
		if opts.InputPath == "" || opts.CardsDir == "" {
			return nil, fmt.Errorf("send requires --input and --dir")
		}
	case "receive":
		if opts.CardsDir == "" {
			return nil, fmt.Errorf("receive requires --dir")
		}
	default:
		return nil, fmt.Errorf("unknown subcommand %q", opts.Command)
	}
	return opts, nil
}
