// Package logging provides the small leveled logger used throughout cube,
// in the same shape the teacher uses across its device package: a handful
// of named levels, each backed by a standard library *log.Logger whose
// output is discarded below the configured level.
package logging

import (
	"io"
	"log"
	"os"
)

// Log levels, ordered from quietest to loudest.
const (
	LevelSilent = iota
	LevelError
	LevelInfo
	LevelDebug
)

// Logger is the leveled logging interface every package that can emit
// recoverable-error diagnostics (spec §7) depends on.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

type basicLogger struct {
	debug *log.Logger
	info  *log.Logger
	err   *log.Logger
}

var _ Logger = (*basicLogger)(nil)

// New constructs a Logger writing to stdout, with lines below level
// discarded. prefix follows the level tag on every line, e.g. "(session) ".
func New(level int, prefix string) Logger {
	return NewWithWriter(level, prefix, os.Stdout)
}

// NewWithWriter is like New but writes to out instead of stdout, so a
// caller (for example a test asserting on log output) can redirect
// diagnostics without going through the process's real stdout.
func NewWithWriter(level int, prefix string, out io.Writer) Logger {
	errW, infoW, debugW := func() (io.Writer, io.Writer, io.Writer) {
		switch {
		case level >= LevelDebug:
			return out, out, out
		case level >= LevelInfo:
			return out, out, io.Discard
		case level >= LevelError:
			return out, io.Discard, io.Discard
		default:
			return io.Discard, io.Discard, io.Discard
		}
	}()

	return &basicLogger{
		debug: log.New(debugW, "DEBUG: "+prefix, log.Ldate|log.Ltime),
		info:  log.New(infoW, "INFO: "+prefix, log.Ldate|log.Ltime),
		err:   log.New(errW, "ERROR: "+prefix, log.Ldate|log.Ltime),
	}
}

// Discard is a Logger that drops every line; useful as a zero-value default.
var Discard Logger = New(LevelSilent, "")

func (l *basicLogger) Debug(v ...interface{})                 { l.debug.Println(v...) }
func (l *basicLogger) Debugf(f string, v ...interface{})      { l.debug.Printf(f, v...) }
func (l *basicLogger) Info(v ...interface{})                  { l.info.Println(v...) }
func (l *basicLogger) Infof(f string, v ...interface{})       { l.info.Printf(f, v...) }
func (l *basicLogger) Error(v ...interface{})                 { l.err.Println(v...) }
func (l *basicLogger) Errorf(f string, v ...interface{})      { l.err.Printf(f, v...) }
