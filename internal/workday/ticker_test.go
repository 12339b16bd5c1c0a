package workday_test

import (
	"sync"
	"testing"
	"time"

	"go-timesheet/internal/workday"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTicks struct {
	mu      sync.Mutex
	chans   []chan time.Time
	stopped int
}

func (m *manualTicks) source(time.Duration) (<-chan time.Time, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan time.Time)
	m.chans = append(m.chans, ch)
	return ch, func() {
		m.mu.Lock()
		m.stopped++
		m.mu.Unlock()
	}
}

func (m *manualTicks) fire(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return len(m.chans) > 0
	}, time.Second, time.Millisecond)
	m.mu.Lock()
	ch := m.chans[len(m.chans)-1]
	m.mu.Unlock()
	ch <- time.Now()
}

type recorder struct {
	mu     sync.Mutex
	frames []string
}

func (r *recorder) render(clock string, _ time.Duration) {
	r.mu.Lock()
	r.frames = append(r.frames, clock)
	r.mu.Unlock()
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.frames...)
}

type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestTickerRunsOnlyWhileActive(t *testing.T) {
	clock := &steppingClock{now: at("09:00:00")}
	ticks := &manualTicks{}
	rec := &recorder{}
	tk := workday.NewTicker(clock, rec.render, workday.WithTickSource(ticks.source))
	defer tk.Stop()

	e := newEntry()
	tk.Sync(e)
	assert.False(t, tk.Running())
	assert.Equal(t, []string{"00:00:00"}, rec.all())

	require.NoError(t, e.Start(clock.Now(), nil))
	tk.Sync(e)
	assert.True(t, tk.Running())

	for want := 3; want <= 4; want++ {
		clock.advance(time.Second)
		ticks.fire(t)
		require.Eventually(t, func() bool { return len(rec.all()) == want }, time.Second, time.Millisecond)
	}
	assert.Equal(t, []string{"00:00:00", "00:00:00", "00:00:01", "00:00:02"}, rec.all())

	require.NoError(t, e.Pause(clock.Now(), "lunch", nil))
	tk.Sync(e)
	assert.False(t, tk.Running())

	require.NoError(t, e.Resume(clock.Now().Add(time.Hour), nil))
	tk.Sync(e)
	assert.True(t, tk.Running())

	require.Eventually(t, func() bool {
		ticks.mu.Lock()
		defer ticks.mu.Unlock()
		return len(ticks.chans) == 2
	}, time.Second, time.Millisecond)
	ticks.mu.Lock()
	assert.Equal(t, 1, ticks.stopped)
	ticks.mu.Unlock()
}

func TestTickerStopIsIdempotent(t *testing.T) {
	ticks := &manualTicks{}
	tk := workday.NewTicker(workday.SystemClock, nil, workday.WithTickSource(ticks.source))

	e := newEntry()
	require.NoError(t, e.Start(time.Now(), nil))
	tk.Sync(e)
	tk.Stop()
	tk.Stop()

	assert.False(t, tk.Running())
}
