package saveprofile

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/comandalivre/opsdesk/internal/service/models/customer"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	SaveProfile(ctx context.Context, profile customer.Profile) error
}

type request struct {
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// SaveProfile upserts the curated profile for a phone number.
func SaveProfile(w http.ResponseWriter, r *http.Request, service service) {
	phone := chi.URLParam(r, "phone")
	if phone == "" {
		http.Error(w, "Phone is required", http.StatusBadRequest)

		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for save profile", "error", err)

		return
	}

	profile := customer.Profile{
		Phone:    phone,
		Name:     req.Name,
		Archived: req.Archived,
	}

	if err := service.SaveProfile(r.Context(), profile); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error saving profile", "phone", phone, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
