package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/maurobossio/portfolio/internal/apperr"
	"github.com/maurobossio/portfolio/internal/siteservice"
)

// missingFieldsMessage is the contract error for incomplete contact
// submissions. The web client renders it verbatim, so the wording is fixed.
const missingFieldsMessage = "Faltan campos: name, email, message"

const maxContactBody = 1 << 20 // 1 MiB

// Handler holds API route handlers.
type Handler struct {
	svc *siteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *siteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// Health handles GET /api/health. It always reports ok with the current
// server time, so clients can use it as a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		OK:   true,
		Time: time.Now().UTC().Format(time.RFC3339),
	})
}

// ListProjects handles GET /api/projects. Projects come back in stored
// order; the response is always a JSON array.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ListProjects(r.Context())
	if err != nil {
		slog.Error("list projects failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Contact handles POST /api/contact. Incomplete submissions get a 400 with
// the fixed missing-fields message; anything stored gets {"ok": true}.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var in siteservice.ContactInput
	body := http.MaxBytesReader(w, r.Body, maxContactBody)
	if err := json.NewDecoder(body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	if _, err := h.svc.AddMessage(r.Context(), in); err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			writeJSON(w, http.StatusBadRequest, errorBody(missingFieldsMessage))
			return
		}
		slog.Error("contact submission failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}
