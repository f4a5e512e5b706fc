package mines

import "time"

// timer accumulates time spent in play. While start is set the clock is
// running and elapsed = now - start + duration.
type timer struct {
	duration time.Duration
	start    time.Time
}

func (t timer) running() bool {
	return !t.start.IsZero()
}

func (t timer) elapsed(now time.Time) time.Duration {
	if !t.running() {
		return t.duration
	}
	return now.Sub(t.start) + t.duration
}

// stop folds the running interval into duration.
func (t *timer) stop(now time.Time) {
	t.duration = t.elapsed(now)
	t.start = time.Time{}
}
