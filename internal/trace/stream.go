package trace

import (
	"io"
	"os"
	"sync"
)

// StreamTracer writes events as they arrive. Write errors never reach the
// analysis; the first one is returned by Close.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	wrote  bool // a Chrome record is already out, the next needs a comma
	err    error
}

// NewStreamTracer writes the Chrome document header right away.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{w: w, level: level, format: format}
	if format == FormatChrome {
		t.write([]byte("{\"traceEvents\":[\n"))
	}
	return t
}

func (t *StreamTracer) write(p []byte) {
	if t.err != nil {
		return
	}
	_, t.err = t.w.Write(p)
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format == FormatChrome {
		if t.wrote {
			t.write([]byte(",\n"))
		}
		t.wrote = true
	}
	t.write(data)
}

// Flush flushes writers that buffer, such as *bufio.Writer.
func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close ends the Chrome document and closes the writer unless it is
// stdout or stderr.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	if t.format == FormatChrome {
		t.write([]byte("\n]}\n"))
	}
	err := t.err
	t.mu.Unlock()

	if ferr := t.Flush(); err == nil {
		err = ferr
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return err
	}
	if c, ok := t.w.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
