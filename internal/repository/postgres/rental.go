package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"autoone-backend/internal/domain"
	"autoone-backend/internal/repository"

	"github.com/lib/pq"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, owner_id, title, description, location, provider_type, price_per_day, price_per_week, price_per_month, images, created_on, updated_on`

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	query := `INSERT INTO rentals (owner_id, title, description, location, provider_type, price_per_day, price_per_week, price_per_month, images, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	rental.CreatedOn = now
	rental.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		rental.OwnerID, rental.Title, rental.Description, rental.Location, rental.ProviderType,
		nullFloat(rental.PricePerDay), nullFloat(rental.PricePerWeek), nullFloat(rental.PricePerMonth),
		pq.Array(rental.Images), now, now,
	).Scan(&rental.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rental, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get rental %d: %w", id, err)
	}
	return rental, nil
}

// Search applies the catalog filters. A unit filter requires the unit's price
// column, or its derivation source (day for hour, month for year), to be
// present and positive. The availability window excludes rentals with a
// non-cancelled booking intersecting [from, to).
func (r *rentalRepository) Search(ctx context.Context, filter domain.RentalFilter) ([]domain.Rental, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		p := arg("%" + q + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR location ILIKE %s)", p, p))
	}
	if filter.ProviderType == string(domain.ProviderTypeCompany) || filter.ProviderType == string(domain.ProviderTypeIndividual) {
		conds = append(conds, fmt.Sprintf("provider_type = %s", arg(filter.ProviderType)))
	}

	switch filter.Unit {
	case "day":
		conds = append(conds, "price_per_day IS NOT NULL AND price_per_day > 0")
	case "week":
		conds = append(conds, "price_per_week IS NOT NULL AND price_per_week > 0")
	case "month":
		conds = append(conds, "price_per_month IS NOT NULL AND price_per_month > 0")
	case "hour":
		// hour is derived from day, so a day price must exist
		conds = append(conds, "price_per_day IS NOT NULL AND price_per_day > 0")
	case "year":
		// year is derived from month
		conds = append(conds, "price_per_month IS NOT NULL AND price_per_month > 0")
	}

	if filter.AvailableFrom != nil && filter.AvailableTo != nil && filter.AvailableTo.After(*filter.AvailableFrom) {
		from := arg(*filter.AvailableFrom)
		to := arg(*filter.AvailableTo)
		conds = append(conds, fmt.Sprintf(
			`NOT EXISTS (SELECT 1 FROM rental_bookings b
			   WHERE b.rental_id = rentals.id
			     AND b.status <> 'cancelled'
			     AND b.start_at < %s AND b.end_at > %s)`, to, from))
	}

	query := `SELECT ` + rentalColumns + ` FROM rentals`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY price_per_day ASC NULLS LAST, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search rentals: %w", err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rental: %w", err)
		}
		rentals = append(rentals, *rental)
	}
	return rentals, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	var (
		rental           domain.Rental
		day, week, month sql.NullFloat64
	)
	err := row.Scan(
		&rental.ID, &rental.OwnerID, &rental.Title, &rental.Description, &rental.Location,
		&rental.ProviderType, &day, &week, &month, pq.Array(&rental.Images),
		&rental.CreatedOn, &rental.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	rental.PricePerDay = floatPtr(day)
	rental.PricePerWeek = floatPtr(week)
	rental.PricePerMonth = floatPtr(month)
	return &rental, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
