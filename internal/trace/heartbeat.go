package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits driver-scope events at a fixed interval. A run that
// keeps beating without closing unit spans is stuck in one unit.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat returns nil when t is disabled or every is not positive.
func StartHeartbeat(t Tracer, every time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || every <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.run(t, every)
	return h
}

func (h *Heartbeat) run(t Tracer, every time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	gid := goroutineID()
	for n := 1; ; n++ {
		select {
		case <-h.stop:
			return
		case at := <-ticker.C:
			t.Emit(&Event{
				Time:   at,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    gid,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(n),
			})
		}
	}
}

// Stop ends the goroutine and waits for it. Repeated calls are no-ops.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
