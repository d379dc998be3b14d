package service

import (
	"context"
	"errors"
	"time"

	"autoone-backend/internal/domain"
	"autoone-backend/internal/pricing"
)

// Booking failure taxonomy. All are deterministic and reported synchronously;
// the engine never retries. The HTTP layer translates them to status codes.
var (
	ErrInvalidInterval = errors.New("booking end must be after start")
	ErrSlotUnavailable = errors.New("rental is already booked for the requested period")
	ErrNoPriceForUnit  = errors.New("pricing for selected unit is unavailable")
	ErrRentalNotFound  = errors.New("rental not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUnauthorized    = errors.New("not allowed to perform this action")
)

type BookingService interface {
	CheckAvailability(ctx context.Context, rentalID int64, start, end time.Time) (bool, error)
	Quote(ctx context.Context, rentalID int64, start, end time.Time, unit pricing.Unit) (pricing.Quote, error)
	CreateBooking(ctx context.Context, userID, rentalID int64, start, end time.Time, unit pricing.Unit, notes string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, actorID, bookingID int64, status domain.BookingStatus) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
}

// RentalCard is a catalog list entry with the resolved display price. Price
// is nil when the rental has no price in any unit.
type RentalCard struct {
	ID           int64               `json:"id"`
	Title        string              `json:"title"`
	Location     string              `json:"location"`
	ProviderType domain.ProviderType `json:"provider_type"`
	Images       []string            `json:"images"`
	Price        *float64            `json:"price"`
	PriceUnit    string              `json:"price_unit,omitempty"`
}

// RentalDetail is the detail view: the listing plus its full unit price map
// and the default price pick.
type RentalDetail struct {
	Rental    domain.Rental            `json:"rental"`
	Units     map[pricing.Unit]float64 `json:"units"`
	Price     *float64                 `json:"price"`
	PriceUnit string                   `json:"price_unit,omitempty"`
}

type RentalService interface {
	SearchRentals(ctx context.Context, filter domain.RentalFilter) ([]RentalCard, error)
	GetRental(ctx context.Context, id int64) (*RentalDetail, error)
	CreateRental(ctx context.Context, rental *domain.Rental) error
}

// ContractService generates the rental contract document for a persisted
// booking and returns its storage path.
type ContractService interface {
	GenerateContract(ctx context.Context, booking *domain.Booking, rental *domain.Rental, user *domain.User) (string, error)
	ContractURL(path string) string
}

type EmailService interface {
	SendBookingCreated(ctx context.Context, email, name, rentalTitle string, booking *domain.Booking) error
	SendBookingStatusChanged(ctx context.Context, email, name, rentalTitle string, booking *domain.Booking) error
}
