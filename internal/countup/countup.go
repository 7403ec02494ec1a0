// Package countup animates a rating from zero to its value with an ease-out
// cubic curve.
package countup

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultDuration = 1200 * time.Millisecond
	FrameInterval   = time.Second / 60
)

// FrameClock delivers frame timestamps until stopped.
type FrameClock interface {
	Frames() (frames <-chan time.Time, stop func())
}

// TickerClock is a FrameClock backed by time.Ticker.
type TickerClock struct {
	Interval time.Duration
}

func (c TickerClock) Frames() (<-chan time.Time, func()) {
	interval := c.Interval
	if interval <= 0 {
		interval = FrameInterval
	}
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// Handle controls a running animation.
type Handle struct {
	once   sync.Once
	cancel chan struct{}
	done   chan struct{}
}

// Cancel stops the animation. It is safe to call more than once and after
// the animation finished.
func (h *Handle) Cancel() {
	h.once.Do(func() { close(h.cancel) })
}

// Done is closed once no more frames will be emitted.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Animate calls onFrame with the eased value on every frame of clock until
// duration has elapsed since the first frame. The last call carries target.
// A zero target does not animate.
func Animate(clock FrameClock, target float64, duration time.Duration, onFrame func(float64)) *Handle {
	h := &Handle{cancel: make(chan struct{}), done: make(chan struct{})}

	if target == 0 {
		close(h.done)
		return h
	}
	if duration <= 0 {
		duration = DefaultDuration
	}

	go func() {
		defer close(h.done)

		frames, stop := clock.Frames()
		defer stop()

		var start time.Time
		for {
			select {
			case <-h.cancel:
				return
			case ts := <-frames:
				if start.IsZero() {
					start = ts
				}

				progress := Progress(ts.Sub(start), duration)
				onFrame(Value(target, progress))
				if progress >= 1 {
					return
				}
			}
		}
	}()

	return h
}

// Progress is elapsed/duration clamped to [0, 1].
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	p := float64(elapsed) / float64(duration)
	return math.Max(0, math.Min(p, 1))
}

// Value is the eased value at progress, rounded to one decimal.
func Value(target, progress float64) float64 {
	eased := 1 - math.Pow(1-progress, 3)
	return math.Round(eased*target*10) / 10
}

// Target parses the leading number of a rating such as "8.8", "87%" or
// "74/100".
func Target(rating string) (float64, bool) {
	f, _, ok := leadingNumber(rating)
	return f, ok
}

// Format renders an animated value the way the rating is written: as many
// decimals as the rating's own number (at most one), then whatever follows
// it, so "87%" animates as "44%" and "74/100" as "37/100".
func Format(rating string, value float64) string {
	rating = strings.TrimSpace(rating)

	_, end, ok := leadingNumber(rating)
	if !ok {
		return rating
	}

	decimals := 0
	if strings.Contains(rating[:end], ".") {
		decimals = 1
	}
	return strconv.FormatFloat(value, 'f', decimals, 64) + rating[end:]
}

// leadingNumber returns the number rating starts with and where it ends.
func leadingNumber(rating string) (float64, int, bool) {
	rating = strings.TrimSpace(rating)

	end := 0
	for end < len(rating) {
		c := rating[end]
		if (c >= '0' && c <= '9') || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}

	for ; end > 0; end-- {
		if f, err := strconv.ParseFloat(rating[:end], 64); err == nil {
			return f, end, true
		}
	}
	return 0, 0, false
}
