package events

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"

	"golang.org/x/time/rate"
)

const (
	journalQueueSize   = 2048
	journalFlushEvery  = 100 * time.Millisecond
	journalRecentSize  = 256
	entityLimiterIdle  = 5 * time.Minute
	entityLimiterSweep = time.Minute
)

// EventLog journals combat events as NDJSON. It is bounded twice over: a
// global and a per-entity token bucket, then a fixed queue to the writer.
// Overflow is counted and dropped, never blocking the simulation.
type EventLog struct {
	global      *rate.Limiter
	entityRate  rate.Limit
	entityBurst int
	exempt      map[EventType]bool

	limitersMu sync.Mutex
	limiters   map[string]*entityLimiter

	queue    chan Event
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	recentMu sync.Mutex
	recent   []Event // Ring of the last journalRecentSize accepted events
	recentAt int

	file *os.File
	w    *bufio.Writer

	sequence atomic.Uint64
	total    atomic.Uint64
	dropped  atomic.Uint64
}

type entityLimiter struct {
	*rate.Limiter
	lastUsed time.Time
}

// NewEventLog creates a stopped journal.
func NewEventLog(cfg config.EventLogConfig) *EventLog {
	burst := func(perSec float64) int {
		if b := int(perSec / 10); b > 1 {
			return b
		}
		return 1
	}
	return &EventLog{
		global:      rate.NewLimiter(rate.Limit(cfg.MaxEventsPerSec), burst(cfg.MaxEventsPerSec)),
		entityRate:  rate.Limit(cfg.MaxEventsPerEntity),
		entityBurst: burst(cfg.MaxEventsPerEntity),
		// Terminal events always reach the journal.
		exempt: map[EventType]bool{
			EventTypeDeath:         true,
			EventTypeEntityRemoved: true,
		},
		limiters: make(map[string]*entityLimiter),
		queue:    make(chan Event, journalQueueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		recent:   make([]Event, 0, journalRecentSize),
	}
}

// Start launches the writer. An empty path keeps only the in-memory tail.
func (el *EventLog) Start(path string) error {
	if el.running.Load() {
		return nil
	}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		el.file = f
		el.w = bufio.NewWriter(f)
	}
	el.running.Store(true)
	go el.run()
	return nil
}

// Stop drains the queue, flushes and closes the file.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		wasRunning := el.running.Swap(false)
		close(el.stop)
		if wasRunning {
			<-el.done
		}
		if el.file != nil {
			el.w.Flush()
			el.file.Close()
		}
	})
}

// Record is a bus Handler.
func (el *EventLog) Record(ev Event) {
	el.Emit(ev)
}

// Emit queues ev. It reports false when the journal is stopped, ev was rate
// limited, or the queue is full.
func (el *EventLog) Emit(ev Event) bool {
	if !el.running.Load() {
		return false
	}
	if !el.global.Allow() || (ev.EntityID != "" && !el.exempt[ev.Type] && !el.entityAllow(ev.EntityID)) {
		el.dropped.Add(1)
		return false
	}

	ev.Sequence = el.sequence.Add(1)
	select {
	case el.queue <- ev:
	default:
		el.dropped.Add(1)
		return false
	}
	el.remember(ev)
	el.total.Add(1)
	return true
}

func (el *EventLog) entityAllow(id string) bool {
	el.limitersMu.Lock()
	defer el.limitersMu.Unlock()
	l, ok := el.limiters[id]
	if !ok {
		l = &entityLimiter{Limiter: rate.NewLimiter(el.entityRate, el.entityBurst)}
		el.limiters[id] = l
	}
	l.lastUsed = time.Now()
	return l.Allow()
}

func (el *EventLog) sweepLimiters(now time.Time) {
	el.limitersMu.Lock()
	defer el.limitersMu.Unlock()
	for id, l := range el.limiters {
		if now.Sub(l.lastUsed) > entityLimiterIdle {
			delete(el.limiters, id)
		}
	}
}

func (el *EventLog) remember(ev Event) {
	el.recentMu.Lock()
	defer el.recentMu.Unlock()
	if len(el.recent) < journalRecentSize {
		el.recent = append(el.recent, ev)
		return
	}
	el.recent[el.recentAt] = ev
	el.recentAt = (el.recentAt + 1) % journalRecentSize
}

// Recent returns up to n of the latest accepted events, oldest first.
func (el *EventLog) Recent(n int) []Event {
	el.recentMu.Lock()
	defer el.recentMu.Unlock()
	ordered := append(append([]Event(nil), el.recent[el.recentAt:]...), el.recent[:el.recentAt]...)
	if n >= 0 && n < len(ordered) {
		ordered = ordered[len(ordered)-n:]
	}
	return ordered
}

func (el *EventLog) run() {
	defer close(el.done)

	flush := time.NewTicker(journalFlushEvery)
	defer flush.Stop()
	sweep := time.NewTicker(entityLimiterSweep)
	defer sweep.Stop()

	for {
		select {
		case ev := <-el.queue:
			el.write(ev)
		case <-flush.C:
			if el.w != nil {
				el.w.Flush()
			}
		case now := <-sweep.C:
			el.sweepLimiters(now)
		case <-el.stop:
			for {
				select {
				case ev := <-el.queue:
					el.write(ev)
				default:
					return
				}
			}
		}
	}
}

func (el *EventLog) write(ev Event) {
	if el.w == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	el.w.Write(data)
	el.w.WriteByte('\n')
}

// GetStats returns journal counters for monitoring.
func (el *EventLog) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"total":   el.total.Load(),
		"dropped": el.dropped.Load(),
		"pending": len(el.queue),
		"running": el.running.Load(),
	}
}

// GetDroppedCount returns the number of events refused.
func (el *EventLog) GetDroppedCount() uint64 { return el.dropped.Load() }

// GetTotalCount returns the number of events accepted.
func (el *EventLog) GetTotalCount() uint64 { return el.total.Load() }
