package restoreorder

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	Restore(ctx context.Context, id int64) error
}

// RestoreOrder moves a cancelled order back to pending.
func RestoreOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	if err := service.Restore(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error restoring order", "order_id", id, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
