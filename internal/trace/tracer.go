package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Tracer receives events. Implementations are safe for concurrent use
// because units are analysed in parallel.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	// Close flushes and releases the output.
	Close() error
	Level() Level
	// Enabled reports Level() > LevelOff.
	Enabled() bool
}

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // kept in memory, dumped on failure
	ModeBoth                          // stream and ring
	ModeLog                           // zerolog debug records
)

var modeNames = [...]string{"", "stream", "ring", "both", "log"}

func (m StorageMode) String() string {
	if m > 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts stream, ring, both and log in any case.
func ParseMode(s string) (StorageMode, error) {
	s = strings.ToLower(s)
	for m, name := range modeNames {
		if m > 0 && name == s {
			return StorageMode(m), nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both|log)", s)
}

// Config is the tracer setup read from flags and the [trace] table of
// cxxscope.toml.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format          // FormatAuto picks by OutputPath extension
	Output     io.Writer       // takes precedence over OutputPath
	OutputPath string          // "" or "-" is stderr
	RingSize   int             // 0 means 4096
	Heartbeat  time.Duration   // started by the caller, see StartHeartbeat
	Logger     *zerolog.Logger // ModeLog target; nil logs to the output
}

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = formatFor(cfg.OutputPath)
	}

	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeStream, ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream := NewStreamTracer(w, cfg.Level, format)
		if cfg.Mode == ModeStream {
			return stream, nil
		}
		return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
	case ModeLog:
		if cfg.Logger != nil {
			return NewLogTracer(*cfg.Logger, cfg.Level), nil
		}
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		return NewLogTracer(zerolog.New(w).Level(zerolog.DebugLevel), cfg.Level), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}
