// Package loop is a single-threaded task runner with a timer heap. It is the
// "later turn" that deferred event delivery runs on.
package loop

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Clock supplies the loop's notion of now.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when Advance is called.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Task is a scheduled callback. It runs at most once.
type Task struct {
	when  time.Time
	seq   uint64
	fn    func()
	index int
	loop  *Loop
}

// Cancel removes the task if it has not run yet and reports whether it did.
func (t *Task) Cancel() bool {
	if t == nil || t.loop == nil {
		return false
	}
	l := t.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.index < 0 {
		return false
	}
	heap.Remove(&l.timers, t.index)
	return true
}

// When returns the earliest time the task may run.
func (t *Task) When() time.Time { return t.when }

// timerHeap orders tasks by due time, then by posting order.
type timerHeap []*Task

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

type Option func(*Loop)

func WithClock(c Clock) Option {
	return func(l *Loop) {
		l.clock = c
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Loop) {
		l.log = log
	}
}

// Loop runs tasks in due order. Posting is safe from any goroutine; tasks
// themselves always run on the goroutine calling RunUntilIdle or Run.
type Loop struct {
	mu     sync.Mutex
	timers timerHeap
	seq    uint64
	wake   chan struct{}

	clock Clock
	log   logrus.FieldLogger
}

func New(opts ...Option) *Loop {
	l := &Loop{
		wake:  make(chan struct{}, 1),
		clock: systemClock{},
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// PostTask schedules fn for the next turn.
func (l *Loop) PostTask(fn func()) *Task {
	return l.PostDelayedTask(0, fn)
}

// PostDelayedTask schedules fn to run once delay has elapsed.
func (l *Loop) PostDelayedTask(delay time.Duration, fn func()) *Task {
	if delay < 0 {
		delay = 0
	}
	l.mu.Lock()
	l.seq++
	t := &Task{
		when: l.clock.Now().Add(delay),
		seq:  l.seq,
		fn:   fn,
		loop: l,
	}
	heap.Push(&l.timers, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return t
}

// Pending returns the number of scheduled tasks, due or not.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// RunUntilIdle runs every due task, including tasks that become due while it
// runs, and returns how many ran.
func (l *Loop) RunUntilIdle() int {
	ran := 0
	for {
		t := l.popDue()
		if t == nil {
			return ran
		}
		l.safeExecute(t)
		ran++
	}
}

// Advance moves a ManualClock forward by d and runs what became due. With any
// other clock it only runs due tasks.
func (l *Loop) Advance(d time.Duration) int {
	if mc, ok := l.clock.(*ManualClock); ok {
		mc.Advance(d)
	}
	return l.RunUntilIdle()
}

// Run executes tasks as they become due until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunUntilIdle()

		var (
			timer   *time.Timer
			timeout <-chan time.Time
		)
		if next, ok := l.nextDue(); ok {
			timer = time.NewTimer(next.Sub(l.clock.Now()))
			timeout = timer.C
		}
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case <-l.wake:
		case <-timeout:
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

func (l *Loop) popDue() *Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 || l.timers[0].when.After(l.clock.Now()) {
		return nil
	}
	return heap.Pop(&l.timers).(*Task)
}

func (l *Loop) nextDue() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return time.Time{}, false
	}
	return l.timers[0].when, true
}

// safeExecute keeps a panicking task from taking the loop down.
func (l *Loop) safeExecute(t *Task) {
	if t.fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.log.WithFields(logrus.Fields{
				"method": "RunUntilIdle",
				"panic":  r,
			}).Error("task panicked")
		}
	}()
	t.fn()
}
