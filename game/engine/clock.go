package engine

import "time"

// Clock returns the current time. time.Now carries a monotonic reading,
// so durations between two calls are unaffected by wall clock changes.
type Clock func() time.Time

// stopwatch measures elapsed time on demand; nothing ticks in the background
type stopwatch struct {
	now     Clock
	start   time.Time
	elapsed time.Duration
	running bool
}

func (s *stopwatch) restart() {
	s.start = s.now()
	s.elapsed = 0
	s.running = true
}

func (s *stopwatch) stop() {
	if !s.running {
		return
	}
	s.elapsed = s.since()
	s.running = false
}

func (s *stopwatch) Elapsed() time.Duration {
	if s.running {
		return s.since()
	}
	return s.elapsed
}

func (s *stopwatch) since() time.Duration {
	d := s.now().Sub(s.start)
	if d < 0 {
		return 0
	}
	return d
}
