// internal/membership/handler.go
package membership

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bunkhaus/internal/dates"
	"bunkhaus/internal/payments"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the membership routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/members", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleAdd)
		r.Post("/reconcile", h.handleReconcile)
		r.Route("/{memberID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleRemove)
			r.Post("/payments", h.handleRecordPayment)
		})
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrPartialAssignment):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

// handleList returns every member with their classified payment
// status. Query parameters: status filters to paid|due|upcoming, date
// overrides "today" (YYYY-MM-DD), window overrides the upcoming window
// in days.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	opts := payments.Options{}
	if d := r.URL.Query().Get("date"); d != "" {
		t, ok := dates.ParseInput(d)
		if !ok {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		opts.CurrentDate = t
	}
	if win := r.URL.Query().Get("window"); win != "" {
		n, err := strconv.Atoi(win)
		if err != nil || n < 1 {
			http.Error(w, "invalid window", http.StatusBadRequest)
			return
		}
		opts.UpcomingWindowDays = n
	}

	summary, err := h.service.PaymentSummary(r.Context(), opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if filter := r.URL.Query().Get("status"); filter != "" {
		filtered := summary[:0]
		for _, ms := range summary {
			if string(ms.Status) == filter {
				filtered = append(filtered, ms)
			}
		}
		summary = filtered
	}
	json.NewEncoder(w).Encode(summary)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var m Member
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.AddMember(r.Context(), m)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetMember(r.Context(), chi.URLParam(r, "memberID"))
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(m)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var m Member
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.ID = chi.URLParam(r, "memberID")
	updated, err := h.service.UpdateMember(r.Context(), m)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(updated)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveMember(r.Context(), chi.URLParam(r, "memberID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var record PaymentRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m, err := h.service.RecordPayment(r.Context(), chi.URLParam(r, "memberID"), record)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(m)
}

func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reconcile(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
