// internal/inventory/handler.go
package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the inventory routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/properties", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{propertyID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Delete("/", h.handleDelete)
			r.Post("/buildings", h.handleAddBuilding)
			r.Post("/buildings/{buildingID}/floors", h.handleAddFloor)
			r.Post("/buildings/{buildingID}/floors/{floorID}/rooms", h.handleAddRoom)
			r.Put("/rooms/{roomID}/beds", h.handleUpdateRoomBeds)
			r.Put("/pricing", h.handleSetPricing)
		})
	})
	r.Post("/occupancy", h.handleSetOccupancy)
	r.Get("/active-property", h.handleGetActive)
	r.Put("/active-property", h.handleSetActive)
	r.Route("/wizard-draft", func(r chi.Router) {
		r.Get("/", h.handleGetDraft)
		r.Put("/", h.handleSaveDraft)
		r.Delete("/", h.handleClearDraft)
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPropertyNotFound),
		errors.Is(err, ErrBuildingNotFound),
		errors.Is(err, ErrFloorNotFound),
		errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrBedNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDuplicateRoom):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	props, err := h.service.ListProperties(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(props)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.service.CreateProperty(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProperty(r.Context(), chi.URLParam(r, "propertyID"))
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProperty(r.Context(), chi.URLParam(r, "propertyID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddBuilding(w http.ResponseWriter, r *http.Request) {
	var spec BuildingSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.service.AddBuilding(r.Context(), chi.URLParam(r, "propertyID"), spec)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) handleAddFloor(w http.ResponseWriter, r *http.Request) {
	var spec FloorSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.service.AddFloor(r.Context(), chi.URLParam(r, "propertyID"), chi.URLParam(r, "buildingID"), spec)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) handleAddRoom(w http.ResponseWriter, r *http.Request) {
	var spec RoomSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.service.AddRoom(r.Context(),
		chi.URLParam(r, "propertyID"),
		chi.URLParam(r, "buildingID"),
		chi.URLParam(r, "floorID"),
		spec,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) handleUpdateRoomBeds(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShareType ShareType `json:"shareType"`
		BedCount  int       `json:"bedCount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.service.UpdateRoomBeds(r.Context(),
		chi.URLParam(r, "propertyID"),
		chi.URLParam(r, "roomID"),
		req.ShareType, req.BedCount,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) handleSetPricing(w http.ResponseWriter, r *http.Request) {
	var pricing BedPricing
	if err := json.NewDecoder(r.Body).Decode(&pricing); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.service.SetBedPricing(r.Context(), chi.URLParam(r, "propertyID"), pricing)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) handleSetOccupancy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BedPath
		Occupied bool `json:"occupied"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetBedOccupancy(r.Context(), req.BedPath, req.Occupied); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleGetActive(w http.ResponseWriter, r *http.Request) {
	id, err := h.service.ActivePropertyID(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"activePropertyId": id})
}

func (h *Handler) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActivePropertyID string `json:"activePropertyId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetActiveProperty(r.Context(), req.ActivePropertyID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.LoadDraft(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if draft == nil {
		http.Error(w, "no wizard draft", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(draft)
}

func (h *Handler) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var draft WizardDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SaveDraft(r.Context(), draft); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleClearDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearDraft(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
