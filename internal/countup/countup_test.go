package countup

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	frames  chan time.Time
	stopped chan struct{}
}

func newFakeClock() *fakeClock {
	return &fakeClock{frames: make(chan time.Time), stopped: make(chan struct{})}
}

func (c *fakeClock) Frames() (<-chan time.Time, func()) {
	return c.frames, func() { close(c.stopped) }
}

type recorder struct {
	mu     sync.Mutex
	values []float64
}

func (r *recorder) record(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) get() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.values...)
}

func waitDone(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("animation did not finish")
	}
}

func TestAnimate(t *testing.T) {
	t.Run("EasesToTarget", func(t *testing.T) {
		clock := newFakeClock()
		rec := &recorder{}
		h := Animate(clock, 8.8, time.Second, rec.record)

		start := time.Unix(0, 0)
		clock.frames <- start
		clock.frames <- start.Add(500 * time.Millisecond)
		clock.frames <- start.Add(time.Second)
		waitDone(t, h)

		assert.Equal(t, []float64{0, 7.7, 8.8}, rec.get())
		<-clock.stopped
	})

	t.Run("OvershootClampsToTarget", func(t *testing.T) {
		clock := newFakeClock()
		rec := &recorder{}
		h := Animate(clock, 87, 100*time.Millisecond, rec.record)

		start := time.Unix(0, 0)
		clock.frames <- start
		clock.frames <- start.Add(time.Hour)
		waitDone(t, h)

		assert.Equal(t, []float64{0, 87}, rec.get())
	})

	t.Run("ZeroTargetDoesNotAnimate", func(t *testing.T) {
		rec := &recorder{}
		h := Animate(newFakeClock(), 0, time.Second, rec.record)
		waitDone(t, h)
		assert.Empty(t, rec.get())
	})

	t.Run("Cancel", func(t *testing.T) {
		clock := newFakeClock()
		rec := &recorder{}
		h := Animate(clock, 10, time.Second, rec.record)

		clock.frames <- time.Unix(0, 0)
		h.Cancel()
		h.Cancel()
		waitDone(t, h)

		assert.Equal(t, []float64{0}, rec.get())
		<-clock.stopped
	})
}

func TestTickerClock(t *testing.T) {
	rec := &recorder{}
	h := Animate(TickerClock{Interval: time.Millisecond}, 5, 20*time.Millisecond, rec.record)
	waitDone(t, h)

	values := rec.get()
	require.NotEmpty(t, values)
	assert.Equal(t, 5.0, values[len(values)-1])
}

func TestValue(t *testing.T) {
	assert.Equal(t, 0.0, Value(8.8, 0))
	assert.Equal(t, 8.8, Value(8.8, 1))
	assert.Equal(t, 7.7, Value(8.8, 0.5))
	assert.Equal(t, 1.0, Progress(2*time.Second, time.Second))
	assert.Equal(t, 0.5, Progress(500*time.Millisecond, time.Second))
}

func TestTargetAndFormat(t *testing.T) {
	tests := []struct {
		rating string
		target float64
		ok     bool
		shown  string
	}{
		{"8.8", 8.8, true, "8.8"},
		{"87%", 87, true, "87%"},
		{"74/100", 74, true, "74/100"},
		{"N/A", 0, false, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			target, ok := Target(tt.rating)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.target, target)
			assert.Equal(t, tt.shown, Format(tt.rating, target))
		})
	}
}

func TestFormatMidAnimationKeepsSuffix(t *testing.T) {
	assert.Equal(t, "37/100", Format("74/100", 37.4))
	assert.Equal(t, "44%", Format("87%", 43.6))
	assert.Equal(t, "4.4", Format("8.8", 4.4))
	assert.Equal(t, "0/100", Format(" 74/100 ", 0))
}
