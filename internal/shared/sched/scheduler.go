// Package sched runs page callbacks one at a time and owns the page's timers.
//
// Every callback handed to a Scheduler, whether posted with Do or fired by a
// task, runs while holding the scheduler's run lock, so page state touched
// only from callbacks needs no further synchronization. Callbacks must not
// call Do themselves. Close cancels every outstanding task; tasks created
// after Close are inert.
package sched

import (
	"sync"
	"time"
)

// Scheduler serializes callbacks and tracks cancellable tasks.
type Scheduler struct {
	clock Clock

	run sync.Mutex

	mu     sync.Mutex
	tasks  map[uint64]*Task
	nextID uint64
	closed bool
}

// Task is a scheduled one-shot or repeating callback.
type Task struct {
	s        *Scheduler
	id       uint64
	interval time.Duration
	fn       func()

	mu       sync.Mutex
	timer    Timer
	canceled bool
	fired    bool
}

// New builds a scheduler on the given clock; nil means the wall clock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = Real
	}
	return &Scheduler{clock: clock, tasks: make(map[uint64]*Task)}
}

// Clock returns the scheduler's clock.
func (s *Scheduler) Clock() Clock { return s.clock }

// Do runs fn serialized with every other callback. It is a no-op after Close.
func (s *Scheduler) Do(fn func()) {
	if s.Closed() {
		return
	}
	s.run.Lock()
	defer s.run.Unlock()
	fn()
}

// After runs fn once after d.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	return s.schedule(d, 0, fn)
}

// Every runs fn every interval until the task is cancelled.
func (s *Scheduler) Every(interval time.Duration, fn func()) *Task {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return s.schedule(interval, interval, fn)
}

// Pending reports the number of live tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Closed reports whether Close has been called.
func (s *Scheduler) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancels all tasks. Safe to call more than once.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	tasks := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	s.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
}

func (s *Scheduler) schedule(delay, interval time.Duration, fn func()) *Task {
	t := &Task{s: s, interval: interval, fn: fn}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		t.canceled = true
		return t
	}
	s.nextID++
	t.id = s.nextID
	s.tasks[t.id] = t
	s.mu.Unlock()

	t.arm(delay)
	return t
}

func (s *Scheduler) forget(id uint64) {
	s.mu.Lock()
	delete(s.tasks, id)
	s.mu.Unlock()
}

func (t *Task) arm(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.canceled {
		return
	}
	t.timer = t.s.clock.AfterFunc(d, t.fire)
}

func (t *Task) fire() {
	t.s.run.Lock()
	t.mu.Lock()
	if t.canceled {
		t.mu.Unlock()
		t.s.run.Unlock()
		return
	}
	if t.interval == 0 {
		t.fired = true
	}
	t.mu.Unlock()

	t.fn()
	t.s.run.Unlock()

	if t.interval == 0 {
		t.s.forget(t.id)
		return
	}
	t.arm(t.interval)
}

// Cancel stops the task; a cancelled task never runs again.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.mu.Lock()
	if t.canceled {
		t.mu.Unlock()
		return
	}
	t.canceled = true
	timer := t.timer
	t.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if t.s != nil {
		t.s.forget(t.id)
	}
}

// Active reports whether the task may still run.
func (t *Task) Active() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.canceled && !t.fired
}
