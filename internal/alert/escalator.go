package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the escalation state of the alert controller.
type State string

const (
	StateIdle     State = "idle"
	StateAlerting State = "alerting"
)

// Alert describes the unacknowledged new order being signalled.
type Alert struct {
	OrderID      int64     `json:"orderId"`
	DisplayID    string    `json:"displayId"`
	CustomerName string    `json:"customerName"`
	TotalCents   int64     `json:"totalCents"`
	ReceivedAt   time.Time `json:"receivedAt"`
}

// Beeper emits one audible tone towards the operations dashboard.
type Beeper interface {
	Beep()
}

// Escalator is the {idle, alerting} machine. A new order moves it to
// alerting and a tone is re-triggered on a fixed cadence until a human
// acknowledges; there is no timeout-based dismiss. A second order before
// acknowledgment replaces the displayed alert but does not restart the
// audio loop. Audio only plays after a one-time explicit grant.
type Escalator struct {
	beeper  Beeper
	cadence time.Duration

	mu           sync.Mutex
	state        State
	active       *Alert
	audioGranted bool
	cancel       context.CancelFunc
}

// NewEscalator creates an Escalator beeping on the given cadence.
func NewEscalator(beeper Beeper, cadence time.Duration) *Escalator {
	if cadence <= 0 {
		cadence = 600 * time.Millisecond
	}

	return &Escalator{
		beeper:  beeper,
		cadence: cadence,
		state:   StateIdle,
	}
}

// GrantAudio records the one-time user interaction that permits audio.
func (e *Escalator) GrantAudio() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.audioGranted = true
}

// AudioGranted reports whether audio has been permitted.
func (e *Escalator) AudioGranted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.audioGranted
}

// State returns the current escalation state.
func (e *Escalator) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Active returns the alert currently being signalled, if any.
func (e *Escalator) Active() (Alert, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return Alert{}, false
	}

	return *e.active, true
}

// Trigger signals a new order. In the idle state the beep loop starts;
// while alerting only the displayed alert is replaced.
func (e *Escalator) Trigger(a Alert) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.active = &a

	if e.state == StateAlerting {
		return
	}

	e.state = StateAlerting

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	go e.loop(ctx)

	slog.Info("Alert escalation started", "order_id", a.OrderID, "display_id", a.DisplayID)
}

// Acknowledge is the explicit human dismiss action. It clears the active
// alert and stops scheduling further tones immediately.
func (e *Escalator) Acknowledge() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateIdle {
		return
	}

	e.state = StateIdle
	e.active = nil
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}

	slog.Info("Alert acknowledged")
}

// loop re-triggers the tone on every tick while the machine is alerting.
// It checks the current state on each tick and self-cancels on idle, so
// it never relies on captured flags.
func (e *Escalator) loop(ctx context.Context) {
	ticker := time.NewTicker(e.cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			alerting := e.state == StateAlerting
			granted := e.audioGranted
			e.mu.Unlock()

			if !alerting {
				return
			}
			if granted && e.beeper != nil {
				e.beeper.Beep()
			}
		}
	}
}
