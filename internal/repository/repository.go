package repository

import (
	"context"
	"errors"
	"time"

	"autoone-backend/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	Search(ctx context.Context, filter domain.RentalFilter) ([]domain.Rental, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// FindOverlapping returns non-cancelled bookings for the rental whose
	// [start_at, end_at) interval intersects [start, end).
	FindOverlapping(ctx context.Context, rentalID int64, start, end time.Time) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	SetContractPath(ctx context.Context, id int64, path string) error
	// CancelStalePending cancels pending bookings whose start passed before
	// the cutoff and returns the affected bookings.
	CancelStalePending(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
