package updateorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/comandalivre/opsdesk/internal/service/models/order"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	Update(ctx context.Context, id int64, fields order.UpdateFields) error
}

type request struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
}

// UpdateOrder applies a status and/or payment status change to one
// order. Both fields travel as a single atomic write.
func UpdateOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for update order", "error", err)

		return
	}

	var fields order.UpdateFields
	if req.Status != nil {
		status, err := order.ParseStatus(*req.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
		fields.Status = &status
	}
	if req.PaymentStatus != nil {
		paymentStatus, err := order.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
		fields.PaymentStatus = &paymentStatus
	}

	if fields.Empty() {
		http.Error(w, "No fields to update", http.StatusBadRequest)

		return
	}

	if err := service.Update(r.Context(), id, fields); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error updating order", "order_id", id, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
