package service

import (
	"context"
	"errors"
	"time"

	"autoone-backend/internal/domain"
	"autoone-backend/internal/logger"
	"autoone-backend/internal/pricing"
	"autoone-backend/internal/repository"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	rentalRepo  repository.RentalRepository
	userRepo    repository.UserRepository
	contractSvc ContractService
	emailSvc    EmailService
	locks       rentalLocks
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	rentalRepo repository.RentalRepository,
	userRepo repository.UserRepository,
	contractSvc ContractService,
	emailSvc EmailService,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		rentalRepo:  rentalRepo,
		userRepo:    userRepo,
		contractSvc: contractSvc,
		emailSvc:    emailSvc,
	}
}

// CheckAvailability reports whether [start, end) is free of non-cancelled
// bookings for the rental.
func (s *bookingService) CheckAvailability(ctx context.Context, rentalID int64, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, ErrInvalidInterval
	}
	existing, err := s.bookingRepo.FindOverlapping(ctx, rentalID, start, end)
	if err != nil {
		return false, err
	}
	return len(existing) == 0, nil
}

// Quote prices an explicitly requested unit for the interval. It never falls
// back to another unit.
func (s *bookingService) Quote(ctx context.Context, rentalID int64, start, end time.Time, unit pricing.Unit) (pricing.Quote, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return pricing.Quote{}, ErrRentalNotFound
		}
		return pricing.Quote{}, err
	}
	return s.quoteRental(rental, start, end, unit)
}

func (s *bookingService) quoteRental(rental *domain.Rental, start, end time.Time, unit pricing.Unit) (pricing.Quote, error) {
	quote, err := pricing.MakeQuote(pricing.ListFromRental(rental), start, end, unit)
	switch {
	case errors.Is(err, pricing.ErrInvalidInterval):
		return pricing.Quote{}, ErrInvalidInterval
	case errors.Is(err, pricing.ErrUnitUnavailable):
		return pricing.Quote{}, ErrNoPriceForUnit
	case err != nil:
		return pricing.Quote{}, err
	}
	return quote, nil
}

// CreateBooking runs the availability check and the insert as one serialized
// step per rental, so two concurrent requests for overlapping intervals
// cannot both observe "available". On conflict nothing is written and no
// price is computed. Contract generation and notification happen after the
// booking row exists and never fail the booking.
func (s *bookingService) CreateBooking(ctx context.Context, userID, rentalID int64, start, end time.Time, unit pricing.Unit, notes string) (*domain.Booking, error) {
	if !end.After(start) {
		return nil, ErrInvalidInterval
	}

	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	mu := s.locks.forRental(rentalID)
	mu.Lock()
	defer mu.Unlock()

	existing, err := s.bookingRepo.FindOverlapping(ctx, rentalID, start, end)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrSlotUnavailable
	}

	quote, err := s.quoteRental(rental, start, end, unit)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		UserID:     userID,
		RentalID:   rentalID,
		StartAt:    start,
		EndAt:      end,
		Unit:       string(quote.Unit),
		TotalPrice: quote.Total,
		Status:     domain.BookingStatusPending,
		Notes:      notes,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.finishBooking(ctx, booking, rental)
	return booking, nil
}

// finishBooking runs the downstream side effects once the booking row is
// queryable: contract document and customer notification. Failures are
// logged, not propagated.
func (s *bookingService) finishBooking(ctx context.Context, booking *domain.Booking, rental *domain.Rental) {
	user, err := s.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		logger.Warn("Skipping booking side effects, user lookup failed", "booking_id", booking.ID, "error", err)
		return
	}

	path, err := s.contractSvc.GenerateContract(ctx, booking, rental, user)
	if err != nil {
		logger.Warn("Failed to generate rental contract", "booking_id", booking.ID, "error", err)
	} else {
		if err := s.bookingRepo.SetContractPath(ctx, booking.ID, path); err != nil {
			logger.Warn("Failed to record contract path", "booking_id", booking.ID, "error", err)
		} else {
			booking.ContractPath = &path
		}
	}

	if err := s.emailSvc.SendBookingCreated(ctx, user.Email, user.Name, rental.Title, booking); err != nil {
		logger.Warn("Failed to send booking confirmation email", "booking_id", booking.ID, "error", err)
	}
}

// UpdateStatus applies a partner/admin status transition. Customers may only
// cancel their own bookings; partners and admins may confirm or cancel any.
func (s *bookingService) UpdateStatus(ctx context.Context, actorID, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	if status != domain.BookingStatusConfirmed && status != domain.BookingStatusCancelled {
		return nil, ErrUnauthorized
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if actor.Role == domain.UserRoleCustomer && (booking.UserID != actorID || status != domain.BookingStatusCancelled) {
		return nil, ErrUnauthorized
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, ErrUnauthorized
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	if rental, err := s.rentalRepo.GetByID(ctx, booking.RentalID); err == nil {
		if user, err := s.userRepo.GetByID(ctx, booking.UserID); err == nil {
			if err := s.emailSvc.SendBookingStatusChanged(ctx, user.Email, user.Name, rental.Title, booking); err != nil {
				logger.Warn("Failed to send booking status email", "booking_id", booking.ID, "error", err)
			}
		}
	}

	return booking, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}
