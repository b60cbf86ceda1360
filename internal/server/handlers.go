package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"parking-allocator/internal/logging"
	"parking-allocator/internal/parking"
)

// Handler serves a lot whose allocation run has already finished. Nothing
// writes to the lot once it is handed over, so reads need no locking.
type Handler struct {
	serviceName string
	lot         *parking.InstrumentedLot
}

func NewHandler(serviceName string, lot *parking.InstrumentedLot) *Handler {
	return &Handler{
		serviceName: serviceName,
		lot:         lot,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Meta:    extractMeta(r.Context()),
	})
}

// ParkingMap returns the same document written to parking_map.json.
func (h *Handler) ParkingMap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := h.lot.Snapshot()
	if err != nil {
		logging.Error(ctx, "Failed to render parking map", "error", err)
		WriteError(ctx, w, http.StatusInternalServerError, "Failed to render parking map")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	occupiedSlots := h.lot.Status(ctx)

	spots := make([]SpotStatus, 0, h.lot.Capacity())
	for _, slot := range h.lot.Slots() {
		status := SpotStatus{Spot: slot.Index}
		if slot.IsOccupied() {
			status.Occupied = true
			status.LicensePlate = slot.Vehicle.LicensePlate
		}
		spots = append(spots, status)
	}

	WriteSuccess(ctx, w, "Status retrieved successfully", StatusResponse{
		Capacity:  h.lot.Capacity(),
		Occupied:  len(occupiedSlots),
		Available: h.lot.Capacity() - len(occupiedSlots),
		Spots:     spots,
	})
}

func (h *Handler) FindByPlate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plate := chi.URLParam(r, "plate")
	if plate == "" {
		WriteError(ctx, w, http.StatusBadRequest, "License plate is required")
		return
	}

	spot, ok := h.lot.SpotFor(ctx, plate)
	if !ok {
		WriteError(ctx, w, http.StatusNotFound, "Vehicle not found")
		return
	}

	WriteSuccess(ctx, w, "Vehicle found", FindVehicleResponse{
		Spot:         spot,
		LicensePlate: plate,
	})
}
