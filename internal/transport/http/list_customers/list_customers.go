package listcustomers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/comandalivre/opsdesk/internal/service/models/customer"
	"github.com/comandalivre/opsdesk/internal/service/services/customersvc"
)

// service is an interface for the service layer.
type service interface {
	Customers(ctx context.Context, q customersvc.Query) ([]customer.Summary, error)
}

type summaryResponse struct {
	customer.Summary
	VIP bool `json:"vip"`
}

// ListCustomers returns ranked customer summaries. Query parameters:
// window_days (0 or absent = all time), view (active|archived), q.
func ListCustomers(w http.ResponseWriter, r *http.Request, service service) {
	query := r.URL.Query()

	q := customersvc.Query{
		View:   customersvc.ViewActive,
		Search: query.Get("q"),
	}

	if windowStr := query.Get("window_days"); windowStr != "" {
		window, err := strconv.Atoi(windowStr)
		if err != nil || window < 0 {
			http.Error(w, "Invalid window_days", http.StatusBadRequest)

			return
		}
		q.WindowDays = window
	}

	if view := query.Get("view"); view == string(customersvc.ViewArchived) {
		q.View = customersvc.ViewArchived
	}

	summaries, err := service.Customers(r.Context(), q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error listing customers", "error", err)

		return
	}

	response := make([]summaryResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, summaryResponse{Summary: s, VIP: s.VIP()})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Error writing response for list customers", "error", err)
	}
}
