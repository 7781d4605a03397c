package timer_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/tediore/securitt/internal/timer"
)

func TestSchedule_Fires(t *testing.T) {
	m := timer.NewManager()
	fired := make(chan struct{}, 1)

	m.Schedule(timer.RoleExit, 10*time.Millisecond, func() {
		fired <- struct{}{}
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback did not fire")
	}
}

func TestSchedule_ReplacesPriorTimer(t *testing.T) {
	m := timer.NewManager()
	var calls int32

	m.Schedule(timer.RoleEntry, 10*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
	})
	m.Schedule(timer.RoleEntry, 10*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
	})

	time.Sleep(100 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1 (only the latest schedule should fire)", got)
	}
}

func TestCancel_PreventsCallback(t *testing.T) {
	m := timer.NewManager()
	var fired int32

	m.Schedule(timer.RoleSiren, 20*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	if ok := m.Cancel(timer.RoleSiren); !ok {
		t.Fatal("Cancel() = false, want true for a live timer")
	}

	time.Sleep(50 * time.Millisecond)

	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("fired = %d, want 0 after Cancel", got)
	}
}

func TestCancel_ReturnsFalseWhenNoneActive(t *testing.T) {
	m := timer.NewManager()
	if ok := m.Cancel(timer.RoleExit); ok {
		t.Error("Cancel() = true, want false when no timer is running")
	}
}

func TestActive(t *testing.T) {
	m := timer.NewManager()
	if m.Active(timer.RoleExit) {
		t.Error("Active() = true before Schedule")
	}

	m.Schedule(timer.RoleExit, 50*time.Millisecond, func() {})
	if !m.Active(timer.RoleExit) {
		t.Error("Active() = false after Schedule")
	}

	m.Cancel(timer.RoleExit)
	if m.Active(timer.RoleExit) {
		t.Error("Active() = true after Cancel")
	}
}

func TestCancelAll(t *testing.T) {
	m := timer.NewManager()
	var fired int32

	m.Schedule(timer.RoleExit, 20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	m.Schedule(timer.RoleEntry, 20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	m.Schedule(timer.RoleSiren, 20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	m.CancelAll()

	time.Sleep(50 * time.Millisecond)

	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("fired = %d, want 0 after CancelAll", got)
	}
}

func TestRaceBetweenFireAndCancel(t *testing.T) {
	// A timer whose callback has already started racing with Cancel must
	// not double-fire or deadlock; the generation token resolves the race
	// deterministically in favor of whichever wins the lock first.
	m := timer.NewManager()
	var fired int32

	m.Schedule(timer.RoleExit, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	time.Sleep(5 * time.Millisecond)
	m.Cancel(timer.RoleExit)

	time.Sleep(10 * time.Millisecond)

	if got := atomic.LoadInt32(&fired); got > 1 {
		t.Errorf("fired = %d, want at most 1", got)
	}
}
