package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"autoone-backend/internal/domain"
	"autoone-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, user_id, rental_id, start_at, end_at, unit, total_price, status, notes, contract_path, created_on, updated_on`

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `INSERT INTO rental_bookings (user_id, rental_id, start_at, end_at, unit, total_price, status, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	booking.CreatedOn = now
	booking.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		booking.UserID, booking.RentalID, booking.StartAt, booking.EndAt,
		booking.Unit, booking.TotalPrice, booking.Status, booking.Notes, now, now,
	).Scan(&booking.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM rental_bookings WHERE id = $1`
	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return booking, nil
}

// FindOverlapping implements the half-open interval scan: a stored booking
// [s,e) conflicts with [start,end) iff s < end AND e > start. Cancelled
// bookings never conflict.
func (r *bookingRepository) FindOverlapping(ctx context.Context, rentalID int64, start, end time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM rental_bookings
	          WHERE rental_id = $1 AND status <> 'cancelled' AND start_at < $3 AND end_at > $2
	          ORDER BY start_at ASC`
	rows, err := r.db.QueryContext(ctx, query, rentalID, start, end)
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings for rental %d: %w", rentalID, err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM rental_bookings WHERE user_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for user %d: %w", userID, err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	query := `UPDATE rental_bookings SET status = $2, updated_on = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("update booking %d status: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) SetContractPath(ctx context.Context, id int64, path string) error {
	query := `UPDATE rental_bookings SET contract_path = $2, updated_on = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, path, time.Now())
	if err != nil {
		return fmt.Errorf("set booking %d contract path: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) CancelStalePending(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	query := `UPDATE rental_bookings SET status = 'cancelled', updated_on = $2
	          WHERE status = 'pending' AND start_at < $1
	          RETURNING ` + bookingColumns
	rows, err := r.db.QueryContext(ctx, query, cutoff, time.Now())
	if err != nil {
		return nil, fmt.Errorf("cancel stale pending bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking      domain.Booking
		notes        sql.NullString
		contractPath sql.NullString
	)
	err := row.Scan(
		&booking.ID, &booking.UserID, &booking.RentalID, &booking.StartAt, &booking.EndAt,
		&booking.Unit, &booking.TotalPrice, &booking.Status, &notes, &contractPath,
		&booking.CreatedOn, &booking.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	booking.Notes = notes.String
	if contractPath.Valid {
		booking.ContractPath = &contractPath.String
	}
	return &booking, nil
}

func collectBookings(rows *sql.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}
