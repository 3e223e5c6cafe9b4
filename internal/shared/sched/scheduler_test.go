package sched

import (
	"sync/atomic"
	"testing"
	"time"
)

func newTestScheduler() (*Scheduler, *ManualClock) {
	clock := NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(clock), clock
}

func TestAfterFiresOnce(t *testing.T) {
	s, clock := newTestScheduler()
	calls := 0
	task := s.After(600*time.Millisecond, func() { calls++ })

	clock.Advance(599 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("fired early")
	}
	clock.Advance(time.Millisecond)
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	clock.Advance(time.Second)
	if calls != 1 {
		t.Fatalf("expected one-shot, got %d calls", calls)
	}
	if task.Active() {
		t.Fatalf("fired task should not be active")
	}
	if s.Pending() != 0 {
		t.Fatalf("expected no pending tasks, got %d", s.Pending())
	}
}

func TestEveryRepeatsUntilCancelled(t *testing.T) {
	s, clock := newTestScheduler()
	calls := 0
	var task *Task
	task = s.Every(200*time.Millisecond, func() {
		calls++
		if calls == 3 {
			task.Cancel()
		}
	})

	clock.Advance(2 * time.Second)
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if task.Active() {
		t.Fatalf("cancelled task reported active")
	}
}

func TestCloseCancelsEverything(t *testing.T) {
	s, clock := newTestScheduler()
	var calls int32
	s.After(100*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	s.Every(50*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	s.Close()
	clock.Advance(time.Second)
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("callbacks ran after Close")
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected timers stopped, got %d", clock.Pending())
	}

	late := s.After(time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	if late.Active() {
		t.Fatalf("task created after Close should be inert")
	}
	ran := false
	s.Do(func() { ran = true })
	if ran {
		t.Fatalf("Do ran after Close")
	}
}

func TestTaskScheduledFromCallbackRunsInSameAdvance(t *testing.T) {
	s, clock := newTestScheduler()
	order := []string{}
	s.After(100*time.Millisecond, func() {
		order = append(order, "first")
		s.After(100*time.Millisecond, func() { order = append(order, "second") })
	})

	clock.Advance(250 * time.Millisecond)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestRealClockFires(t *testing.T) {
	s := New(nil)
	defer s.Close()
	done := make(chan struct{})
	s.After(5*time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timer did not fire")
	}
}
