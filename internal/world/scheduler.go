package world

import "container/heap"

type scheduled struct {
	at  float64
	seq uint64
	fn  func()
}

type schedule []scheduled

func (s schedule) Len() int { return len(s) }
func (s schedule) Less(i, j int) bool {
	if s[i].at != s[j].at {
		return s[i].at < s[j].at
	}
	return s[i].seq < s[j].seq
}
func (s schedule) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s *schedule) Push(x any)   { *s = append(*s, x.(scheduled)) }
func (s *schedule) Pop() any {
	old := *s
	n := len(old)
	item := old[n-1]
	old[n-1] = scheduled{}
	*s = old[:n-1]
	return item
}

// Scheduler runs single-fire callbacks after a delay of simulation time.
// Callbacks due on the same tick run in due-time order, ties in insertion order.
type Scheduler struct {
	now   float64
	seq   uint64
	queue schedule
}

// NewScheduler creates an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After schedules fn to run once delay seconds from now.
func (s *Scheduler) After(delay float64, fn func()) {
	if fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	s.seq++
	heap.Push(&s.queue, scheduled{at: s.now + delay, seq: s.seq, fn: fn})
}

// Advance moves time forward and runs everything that came due. Callbacks
// scheduled while advancing run on a later Advance.
func (s *Scheduler) Advance(dt float64) int {
	s.now += dt
	limit := s.seq
	ran := 0
	var deferred []scheduled
	for s.queue.Len() > 0 {
		if s.queue[0].at > s.now+timeEpsilon {
			break
		}
		next := heap.Pop(&s.queue).(scheduled)
		if next.seq > limit {
			deferred = append(deferred, next)
			continue
		}
		next.fn()
		ran++
	}
	for _, d := range deferred {
		heap.Push(&s.queue, d)
	}
	return ran
}

// Now returns the scheduler's clock.
func (s *Scheduler) Now() float64 { return s.now }

// Pending returns the number of callbacks waiting.
func (s *Scheduler) Pending() int { return s.queue.Len() }

// Clear drops every pending callback.
func (s *Scheduler) Clear() { s.queue = s.queue[:0] }
