package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"autoone-backend/internal/domain"
	"autoone-backend/internal/service"

	"github.com/gorilla/mux"
)

type RentalHandler struct {
	rentalSvc  service.RentalService
	bookingSvc service.BookingService
}

func NewRentalHandler(rentalSvc service.RentalService, bookingSvc service.BookingService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc, bookingSvc: bookingSvc}
}

type rentalCardResponse struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Location     string   `json:"location"`
	ProviderType string   `json:"provider_type"`
	Images       []string `json:"images"`
	Price        *string  `json:"price"`
	PriceUnit    string   `json:"price_unit,omitempty"`
}

// formatPrice rounds to two decimals. Monetary values stay exact internally
// and are only rounded here, at the presentation boundary.
func formatPrice(v *float64) *string {
	if v == nil {
		return nil
	}
	s := fmt.Sprintf("%.2f", *v)
	return &s
}

// Search handles GET /api/rentals.
func (h *RentalHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.RentalFilter{
		Query:        q.Get("q"),
		ProviderType: q.Get("providerType"),
		Unit:         q.Get("unit"),
	}

	// optional availability window; silently ignored when malformed, like
	// the rest of the catalog filters
	if startStr, endStr := q.Get("start"), q.Get("end"); startStr != "" && endStr != "" {
		start, err1 := time.Parse(time.RFC3339, startStr)
		end, err2 := time.Parse(time.RFC3339, endStr)
		if err1 == nil && err2 == nil && end.After(start) {
			filter.AvailableFrom = &start
			filter.AvailableTo = &end
		}
	}

	cards, err := h.rentalSvc.SearchRentals(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]rentalCardResponse, 0, len(cards))
	for _, card := range cards {
		resp = append(resp, rentalCardResponse{
			ID:           card.ID,
			Title:        card.Title,
			Location:     card.Location,
			ProviderType: string(card.ProviderType),
			Images:       card.Images,
			Price:        formatPrice(card.Price),
			PriceUnit:    card.PriceUnit,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/rentals/{id}.
func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rental id")
		return
	}

	detail, err := h.rentalSvc.GetRental(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":            detail.Rental.ID,
		"title":         detail.Rental.Title,
		"location":      detail.Rental.Location,
		"provider_type": detail.Rental.ProviderType,
		"description":   detail.Rental.Description,
		"images":        detail.Rental.Images,
		"units":         detail.Units,
		"price":         formatPrice(detail.Price),
		"price_unit":    detail.PriceUnit,
	})
}

// Availability handles GET /api/rentals/{id}/availability.
func (h *RentalHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rental id")
		return
	}

	start, end, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	available, err := h.bookingSvc.CheckAvailability(r.Context(), id, start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

// Quote handles GET /api/rentals/{id}/quote.
func (h *RentalHandler) Quote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rental id")
		return
	}

	start, end, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	unit, err := parseUnitParam(r.URL.Query().Get("unit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := h.bookingSvc.Quote(r.Context(), id, start, end, unit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	total := quote.Total
	unitPrice := quote.UnitPrice
	writeJSON(w, http.StatusOK, map[string]any{
		"unit":       quote.Unit,
		"qty":        quote.Quantity,
		"unit_price": *formatPrice(&unitPrice),
		"total":      *formatPrice(&total),
	})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start timestamp")
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end timestamp")
	}
	return start, end, nil
}
