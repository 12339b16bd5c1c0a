package workday

import (
	"sync"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads time.Now.
var SystemClock Clock = ClockFunc(time.Now)

// RenderFunc receives the HH:MM:SS headline and the raw elapsed value.
type RenderFunc func(clock string, elapsed time.Duration)

// TickSource produces one channel per run loop and a stop function.
type TickSource func(interval time.Duration) (<-chan time.Time, func())

type TickerOption func(*Ticker)

// WithTickSource replaces the time.Ticker backed source.
func WithTickSource(src TickSource) TickerOption {
	return func(t *Ticker) { t.source = src }
}

func WithInterval(d time.Duration) TickerOption {
	return func(t *Ticker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// Ticker re-renders the elapsed duration once per interval, only while the
// synced entry is active.
type Ticker struct {
	clock    Clock
	render   RenderFunc
	source   TickSource
	interval time.Duration

	mu    sync.Mutex
	entry Entry
	stop  chan struct{}
	done  chan struct{}
}

func NewTicker(clock Clock, render RenderFunc, opts ...TickerOption) *Ticker {
	if clock == nil {
		clock = SystemClock
	}
	t := &Ticker{
		clock:    clock,
		render:   render,
		interval: time.Second,
		source: func(d time.Duration) (<-chan time.Time, func()) {
			tk := time.NewTicker(d)
			return tk.C, tk.Stop
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Sync replaces the entry, renders it once and starts or stops the loop to
// match its status. Leaving active stops the loop; entering it starts a new one.
func (t *Ticker) Sync(e Entry) {
	t.mu.Lock()
	t.entry = e.Clone()
	running := t.stop != nil
	active := e.Status == StatusActive
	var stale chan struct{}
	var staleDone chan struct{}
	if running && !active {
		stale, staleDone = t.stop, t.done
		t.stop, t.done = nil, nil
	}
	if !running && active {
		t.stop = make(chan struct{})
		t.done = make(chan struct{})
		go t.loop(t.stop, t.done)
	}
	t.mu.Unlock()

	if stale != nil {
		close(stale)
		<-staleDone
	}
	t.tick()
}

// Running reports whether the loop is live.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// Stop tears the loop down. The ticker may be synced again afterwards.
func (t *Ticker) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

func (t *Ticker) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticks, release := t.source(t.interval)
	defer release()
	for {
		select {
		case <-stop:
			return
		case <-ticks:
			t.tick()
		}
	}
}

func (t *Ticker) tick() {
	t.mu.Lock()
	e := t.entry
	t.mu.Unlock()
	if t.render == nil {
		return
	}
	d := Elapsed(e, t.clock.Now())
	t.render(FormatClock(d), d)
}
