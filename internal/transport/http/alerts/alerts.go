package alerts

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/comandalivre/opsdesk/internal/alert"
	"github.com/comandalivre/opsdesk/internal/service/models/currency"
)

// escalator is the alert state machine surface used by the handlers.
type escalator interface {
	Active() (alert.Alert, bool)
	State() alert.State
	Acknowledge()
	GrantAudio()
}

// pusher grants the push notification permission.
type pusher interface {
	Grant()
}

type activeResponse struct {
	State          alert.State `json:"state"`
	Alert          alert.Alert `json:"alert"`
	FormattedTotal string      `json:"formattedTotal"`
}

// GetActive returns the alert being signalled, or 204 when idle.
func GetActive(w http.ResponseWriter, r *http.Request, esc escalator) {
	a, ok := esc.Active()
	if !ok {
		w.WriteHeader(http.StatusNoContent)

		return
	}

	response := activeResponse{
		State:          esc.State(),
		Alert:          a,
		FormattedTotal: currency.FormatBRL(a.TotalCents),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Error writing response for active alert", "error", err)
	}
}

// Acknowledge is the explicit human dismiss action.
func Acknowledge(w http.ResponseWriter, r *http.Request, esc escalator) {
	esc.Acknowledge()
	w.WriteHeader(http.StatusNoContent)
}

// GrantAudio records the one-time interaction that permits audio alerts.
func GrantAudio(w http.ResponseWriter, r *http.Request, esc escalator) {
	esc.GrantAudio()
	w.WriteHeader(http.StatusNoContent)
}

// GrantPush records the push notification permission.
func GrantPush(w http.ResponseWriter, r *http.Request, p pusher) {
	p.Grant()
	w.WriteHeader(http.StatusNoContent)
}
