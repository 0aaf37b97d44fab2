package alert

import (
	"sync/atomic"
	"testing"
	"time"
)

type countingBeeper struct {
	count atomic.Int64
}

func (b *countingBeeper) Beep() {
	b.count.Add(1)
}

func TestTriggerStartsAlerting(t *testing.T) {
	beeper := &countingBeeper{}
	esc := NewEscalator(beeper, 5*time.Millisecond)
	esc.GrantAudio()

	esc.Trigger(Alert{OrderID: 1, DisplayID: "A1"})

	time.Sleep(100 * time.Millisecond)

	if esc.State() != StateAlerting {
		t.Fatalf("state = %q, want alerting until acknowledged", esc.State())
	}
	if beeper.count.Load() < 3 {
		t.Errorf("expected repeated tones while alerting, got %d", beeper.count.Load())
	}

	a, ok := esc.Active()
	if !ok || a.OrderID != 1 {
		t.Errorf("Active() = %+v, %v; want order 1", a, ok)
	}
}

func TestAcknowledgeStopsEscalation(t *testing.T) {
	beeper := &countingBeeper{}
	esc := NewEscalator(beeper, 5*time.Millisecond)
	esc.GrantAudio()

	esc.Trigger(Alert{OrderID: 1})
	time.Sleep(50 * time.Millisecond)

	esc.Acknowledge()

	if esc.State() != StateIdle {
		t.Fatalf("state = %q after acknowledge, want idle", esc.State())
	}
	if _, ok := esc.Active(); ok {
		t.Error("active alert should be cleared by acknowledge")
	}

	// One tone may already be in flight; no further repeats may be
	// scheduled.
	time.Sleep(20 * time.Millisecond)
	after := beeper.count.Load()
	time.Sleep(50 * time.Millisecond)
	if got := beeper.count.Load(); got != after {
		t.Errorf("tones kept firing after acknowledge: %d -> %d", after, got)
	}
}

func TestNoAudioWithoutGrant(t *testing.T) {
	beeper := &countingBeeper{}
	esc := NewEscalator(beeper, 5*time.Millisecond)

	esc.Trigger(Alert{OrderID: 1})
	time.Sleep(60 * time.Millisecond)

	if esc.State() != StateAlerting {
		t.Fatalf("state = %q, want alerting even without audio", esc.State())
	}
	if got := beeper.count.Load(); got != 0 {
		t.Errorf("audio played without a grant: %d tones", got)
	}

	esc.Acknowledge()
}

func TestSecondTriggerReplacesAlert(t *testing.T) {
	beeper := &countingBeeper{}
	esc := NewEscalator(beeper, 5*time.Millisecond)
	esc.GrantAudio()

	esc.Trigger(Alert{OrderID: 1, DisplayID: "A1"})
	esc.Trigger(Alert{OrderID: 2, DisplayID: "A2"})

	a, ok := esc.Active()
	if !ok || a.OrderID != 2 {
		t.Fatalf("Active() = %+v, want the replacing alert", a)
	}
	if esc.State() != StateAlerting {
		t.Errorf("state = %q, want alerting", esc.State())
	}

	// Acknowledging once clears everything: the machine keys off "is
	// there an unacknowledged alert", not alert identity.
	esc.Acknowledge()
	if esc.State() != StateIdle {
		t.Errorf("state = %q after single acknowledge, want idle", esc.State())
	}
}

func TestAcknowledgeWhileIdleIsNoop(t *testing.T) {
	esc := NewEscalator(&countingBeeper{}, 5*time.Millisecond)

	esc.Acknowledge()

	if esc.State() != StateIdle {
		t.Errorf("state = %q, want idle", esc.State())
	}
}
