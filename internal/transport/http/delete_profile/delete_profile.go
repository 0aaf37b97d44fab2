package deleteprofile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	RemoveProfile(ctx context.Context, phone string) error
}

// DeleteProfile removes the curated profile for a phone number.
func DeleteProfile(w http.ResponseWriter, r *http.Request, service service) {
	phone := chi.URLParam(r, "phone")
	if phone == "" {
		http.Error(w, "Phone is required", http.StatusBadRequest)

		return
	}

	if err := service.RemoveProfile(r.Context(), phone); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error deleting profile", "phone", phone, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
