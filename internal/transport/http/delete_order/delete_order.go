package deleteorder

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/comandalivre/opsdesk/internal/service/services/ordersvc"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	Delete(ctx context.Context, id int64, confirm ordersvc.Confirmer) error
}

// requestConfirmer resolves the confirmation gate from the request. The
// dashboard shows the yes/no dialog and forwards the answer as
// confirm=true; anything else counts as declined.
type requestConfirmer struct {
	confirmed bool
}

func (c requestConfirmer) Confirm(title, message string) bool {
	return c.confirmed
}

// DeleteOrder permanently removes an order. Without confirmation the
// operation is abandoned, which is normal flow rather than an error.
func DeleteOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	confirm := requestConfirmer{confirmed: r.URL.Query().Get("confirm") == "true"}

	if err := service.Delete(r.Context(), id, confirm); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error deleting order", "order_id", id, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
