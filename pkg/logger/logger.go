// Package logger wires the process-wide zerolog instance shared by the
// API server and the console CLI. Call Init once at startup and pass the
// returned logger down; Get covers the few call sites that cannot take an
// instance.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options selects verbosity and output shape at startup.
type Options struct {
	// Level is one of zerolog's named levels (trace, debug, info, warn,
	// error). Empty or unknown values fall back to info.
	Level string
	// Service is stamped on every line so api and console output can be
	// told apart when aggregated.
	Service string
	// Pretty switches to the colourised console writer for development;
	// production keeps plain JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu       sync.Mutex
	instance zerolog.Logger
	ready    bool
)

// Init builds the singleton. The first call wins; later calls return the
// existing instance unchanged.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if ready {
		return instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	builder := zerolog.New(out).Level(lvl).With().Timestamp().Caller()
	if opts.Service != "" {
		builder = builder.Str("service", opts.Service)
	}
	instance = builder.Logger()
	ready = true
	return instance
}

// Get returns the singleton built by Init. Panics when Init has not run.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !ready {
		panic("logger: Init must run before Get")
	}
	return instance
}

// Reset discards the singleton so tests can rebuild it with different
// options.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = zerolog.Logger{}
	ready = false
}
