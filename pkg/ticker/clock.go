package ticker

import (
	"time"

	"github.com/zeromicro/go-zero/core/timex"
)

// Clock is a free-running millisecond counter. It wraps at 2^32 ms (about
// 49.7 days); all comparisons go through Elapsed and Remaining.
type Clock interface {
	NowMs() uint32
	Sleep(d time.Duration)
}

// MonotonicClock counts milliseconds since it was created, using the
// process monotonic clock.
type MonotonicClock struct {
	start time.Duration
}

// NewMonotonicClock returns a clock starting at zero.
func NewMonotonicClock() MonotonicClock {
	return MonotonicClock{start: timex.Now()}
}

// NowMs implements Clock. The conversion truncates, which is the wrap.
func (c MonotonicClock) NowMs() uint32 {
	return uint32(int64(timex.Since(c.start) / time.Millisecond))
}

// Sleep implements Clock.
func (MonotonicClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Elapsed reports whether at least interval ms have passed between from and
// now, across counter wraparound.
func Elapsed(now, from, interval uint32) bool {
	return now-from >= interval
}

// Remaining returns the ms left until due, or 0 once due has passed. Due
// times up to 2^31 ms ahead are handled across wraparound.
func Remaining(due, now uint32) uint32 {
	if d := int32(due - now); d > 0 {
		return uint32(d)
	}
	return 0
}

func millis(d time.Duration) uint32 {
	return uint32(d / time.Millisecond)
}
