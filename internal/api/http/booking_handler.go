package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"autoone-backend/internal/domain"
	"autoone-backend/internal/pricing"
	"autoone-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc  service.BookingService
	contractSvc service.ContractService
}

func NewBookingHandler(bookingSvc service.BookingService, contractSvc service.ContractService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, contractSvc: contractSvc}
}

type createBookingRequest struct {
	RentalID int64  `json:"rentalId"`
	StartAt  string `json:"startAt"`
	EndAt    string `json:"endAt"`
	Unit     string `json:"unit"`
	Notes    string `json:"notes"`
}

type bookingResponse struct {
	ID          int64   `json:"id"`
	RentalID    int64   `json:"rental_id"`
	StartAt     string  `json:"start_at"`
	EndAt       string  `json:"end_at"`
	Unit        string  `json:"unit"`
	Total       string  `json:"total"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes,omitempty"`
	ContractURL *string `json:"contractUrl"`
	CreatedAt   string  `json:"created_at"`
}

func (h *BookingHandler) bookingToResponse(b *domain.Booking) bookingResponse {
	total := b.TotalPrice
	resp := bookingResponse{
		ID:        b.ID,
		RentalID:  b.RentalID,
		StartAt:   b.StartAt.UTC().Format(time.RFC3339),
		EndAt:     b.EndAt.UTC().Format(time.RFC3339),
		Unit:      b.Unit,
		Total:     *formatPrice(&total),
		Status:    string(b.Status),
		Notes:     b.Notes,
		CreatedAt: b.CreatedOn.UTC().Format(time.RFC3339),
	}
	if b.ContractPath != nil {
		url := h.contractSvc.ContractURL(*b.ContractPath)
		resp.ContractURL = &url
	}
	return resp
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startAt timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endAt timestamp")
		return
	}
	unit, err := parseUnitParam(req.Unit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookingSvc.CreateBooking(r.Context(), claims.UserID, req.RentalID, start, end, unit, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.bookingToResponse(booking))
}

// Mine handles GET /api/bookings/mine.
func (h *BookingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	bookings, err := h.bookingSvc.ListUserBookings(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, h.bookingToResponse(&bookings[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/bookings/{id}/status.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := domain.BookingStatus(req.Status)
	if status != domain.BookingStatusConfirmed && status != domain.BookingStatusCancelled {
		writeError(w, http.StatusBadRequest, "status must be confirmed or cancelled")
		return
	}

	booking, err := h.bookingSvc.UpdateStatus(r.Context(), claims.UserID, id, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.bookingToResponse(booking))
}

func parseUnitParam(s string) (pricing.Unit, error) {
	if s == "" {
		return "", fmt.Errorf("unit is required")
	}
	unit, err := pricing.ParseUnit(s)
	if err != nil {
		return "", fmt.Errorf("unit must be one of hour, day, week, month, year")
	}
	return unit, nil
}
