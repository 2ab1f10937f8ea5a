package schedule

import (
	"testing"
	"time"
)

func TestManualAdvance(t *testing.T) {
	var (
		m     = NewManual()
		fired = []int{}
	)

	m.After(10*time.Second, func() {
		fired = append(fired, 1)
	})
	m.After(20*time.Second, func() {
		fired = append(fired, 2)
	})

	m.Advance(5 * time.Second)

	if have, want := len(fired), 0; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}

	m.Advance(5 * time.Second)

	if have, want := len(fired), 1; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}
	if have, want := fired[0], 1; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	m.Advance(10 * time.Second)

	if have, want := len(fired), 2; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}
	if have, want := m.Pending(), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestManualCancel(t *testing.T) {
	var (
		m     = NewManual()
		fired = false
	)

	cancel := m.After(time.Second, func() {
		fired = true
	})

	if have, want := cancel(), true; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	m.Advance(time.Second)

	if fired {
		t.Errorf("cancelled task fired")
	}

	if have, want := cancel(), false; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestManualAdvanceOrder(t *testing.T) {
	var (
		m     = NewManual()
		fired = []int{}
	)

	for i := 0; i < 4; i++ {
		i := i

		m.After(time.Duration(4-i)*time.Millisecond, func() {
			fired = append(fired, i)
		})
	}

	m.Advance(4 * time.Millisecond)

	if have, want := len(fired), 4; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}

	for i, f := range fired {
		if have, want := f, i; have != want {
			t.Errorf("have %v, want %v", have, want)
		}
	}
}

func TestTimerSchedulerCancelAfterFire(t *testing.T) {
	var (
		s    = TimerScheduler()
		done = make(chan struct{})
	)

	cancel := s.After(time.Millisecond, func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never fired")
	}

	if have, want := cancel(), false; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}
