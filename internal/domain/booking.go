package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a reservation against a Rental over the half-open interval
// [StartAt, EndAt). Cancelled bookings are ignored by conflict checks.
type Booking struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"user_id"`
	RentalID     int64         `json:"rental_id"`
	StartAt      time.Time     `json:"start_at"`
	EndAt        time.Time     `json:"end_at"`
	Unit         string        `json:"unit"`
	TotalPrice   float64       `json:"total_price"`
	Status       BookingStatus `json:"status"`
	Notes        string        `json:"notes,omitempty"`
	ContractPath *string       `json:"contract_path,omitempty"`
	CreatedOn    time.Time     `json:"created_on"`
	UpdatedOn    time.Time     `json:"updated_on"`
}
