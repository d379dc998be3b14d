package postgres

import (
	"database/sql"

	"autoone-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.BookingRepository
	repository.UserRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		RentalRepository:  NewRentalRepository(db),
		BookingRepository: NewBookingRepository(db),
		UserRepository:    NewUserRepository(db),
	}
}
