package jobs

import (
	"context"
	"time"

	"autoone-backend/internal/logger"
)

// CancelStalePendingBookings cancels bookings that were never confirmed and
// whose start time has already passed, then notifies the affected customers.
// The slot each one held becomes bookable again because cancelled bookings
// never count toward overlap checks.
func (jr *JobRunner) CancelStalePendingBookings() {
	jr.runWithRecovery("CancelStalePendingBookings", func() {
		ctx := context.Background()

		cancelled, err := jr.store.BookingRepository.CancelStalePending(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to cancel stale pending bookings", "error", err)
			return
		}
		if len(cancelled) == 0 {
			return
		}
		logger.Info("Cancelled stale pending bookings", "count", len(cancelled))

		for i := range cancelled {
			booking := &cancelled[i]

			user, err := jr.store.UserRepository.GetByID(ctx, booking.UserID)
			if err != nil {
				logger.Warn("Skipping cancellation notice, user lookup failed", "booking_id", booking.ID, "error", err)
				continue
			}
			rental, err := jr.store.RentalRepository.GetByID(ctx, booking.RentalID)
			if err != nil {
				logger.Warn("Skipping cancellation notice, rental lookup failed", "booking_id", booking.ID, "error", err)
				continue
			}

			if err := jr.services.Email.SendBookingStatusChanged(ctx, user.Email, user.Name, rental.Title, booking); err != nil {
				logger.Warn("Failed to send cancellation notice", "booking_id", booking.ID, "error", err)
			}
		}
	})
}
