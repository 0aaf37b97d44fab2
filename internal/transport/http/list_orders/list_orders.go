package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/comandalivre/opsdesk/internal/service/models/order"
)

// service is an interface for the service layer.
type service interface {
	Orders() []order.Order
	Refresh(ctx context.Context) error
}

// ListOrders returns the in-memory order collection. A refresh=1 query
// parameter forces a fresh store read first.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	if r.URL.Query().Get("refresh") == "1" {
		if err := service.Refresh(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			slog.Error("Error refreshing orders", "error", err)

			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(service.Orders()); err != nil {
		slog.Error("Error writing response for list orders", "error", err)
	}
}
