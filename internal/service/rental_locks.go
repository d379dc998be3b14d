package service

import "sync"

// rentalLocks serializes the availability-check-then-insert sequence per
// rental. Different rentals lock independently; a mutex is created on first
// use and kept for the process lifetime (bounded by the number of rentals
// booked through this instance).
type rentalLocks struct {
	locks sync.Map // rental ID -> *sync.Mutex
}

func (l *rentalLocks) forRental(rentalID int64) *sync.Mutex {
	if mu, ok := l.locks.Load(rentalID); ok {
		return mu.(*sync.Mutex)
	}
	mu, _ := l.locks.LoadOrStore(rentalID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
