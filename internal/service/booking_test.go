package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"autoone-backend/internal/domain"
	"autoone-backend/internal/pricing"
	"autoone-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func fp(v float64) *float64 { return &v }

type bookingFixture struct {
	svc         BookingService
	bookingRepo *MockBookingRepo
	rentalRepo  *MockRentalRepo
	userRepo    *MockUserRepo
	contractSvc *MockContractService
	emailSvc    *MockEmailService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookingRepo: new(MockBookingRepo),
		rentalRepo:  new(MockRentalRepo),
		userRepo:    new(MockUserRepo),
		contractSvc: new(MockContractService),
		emailSvc:    new(MockEmailService),
	}
	f.svc = NewBookingService(f.bookingRepo, f.rentalRepo, f.userRepo, f.contractSvc, f.emailSvc)
	return f
}

func testRental() *domain.Rental {
	return &domain.Rental{
		ID:           7,
		OwnerID:      2,
		Title:        "BMW 320i",
		Location:     "Berlin",
		ProviderType: domain.ProviderTypeCompany,
		PricePerDay:  fp(90),
		PricePerWeek: fp(550),
	}
}

func testCustomer() *domain.User {
	return &domain.User{ID: 11, Name: "Ada", Email: "ada@example.com", Role: domain.UserRoleCustomer}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	t.Run("creates pending booking with quoted total", func(t *testing.T) {
		f := newBookingFixture()
		f.rentalRepo.On("GetByID", ctx, int64(7)).Return(testRental(), nil)
		f.bookingRepo.On("FindOverlapping", ctx, int64(7), start, end).Return([]domain.Booking{}, nil)
		f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Booking).ID = 42
		}).Return(nil)
		f.userRepo.On("GetByID", ctx, int64(11)).Return(testCustomer(), nil)
		f.contractSvc.On("GenerateContract", ctx, mock.Anything, mock.Anything, mock.Anything).Return("contracts/rental_booking_42.html", nil)
		f.bookingRepo.On("SetContractPath", ctx, int64(42), "contracts/rental_booking_42.html").Return(nil)
		f.emailSvc.On("SendBookingCreated", ctx, "ada@example.com", "Ada", "BMW 320i", mock.Anything).Return(nil)

		booking, err := f.svc.CreateBooking(ctx, 11, 7, start, end, pricing.UnitDay, "weekend trip")

		assert.NoError(t, err)
		assert.Equal(t, int64(42), booking.ID)
		assert.Equal(t, domain.BookingStatusPending, booking.Status)
		assert.Equal(t, "day", booking.Unit)
		assert.Equal(t, 180.0, booking.TotalPrice)
		assert.NotNil(t, booking.ContractPath)
		f.bookingRepo.AssertExpectations(t)
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("conflicting booking blocks creation", func(t *testing.T) {
		f := newBookingFixture()
		f.rentalRepo.On("GetByID", ctx, int64(7)).Return(testRental(), nil)
		f.bookingRepo.On("FindOverlapping", ctx, int64(7), start, end).Return([]domain.Booking{{ID: 1}}, nil)

		booking, err := f.svc.CreateBooking(ctx, 11, 7, start, end, pricing.UnitDay, "")

		assert.ErrorIs(t, err, ErrSlotUnavailable)
		assert.Nil(t, booking)
		f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unpriced unit is rejected, never substituted", func(t *testing.T) {
		f := newBookingFixture()
		weekOnly := testRental()
		weekOnly.PricePerDay = nil
		f.rentalRepo.On("GetByID", ctx, int64(7)).Return(weekOnly, nil)
		f.bookingRepo.On("FindOverlapping", ctx, int64(7), start, end).Return([]domain.Booking{}, nil)

		_, err := f.svc.CreateBooking(ctx, 11, 7, start, end, pricing.UnitHour, "")

		assert.ErrorIs(t, err, ErrNoPriceForUnit)
		f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("end must be after start", func(t *testing.T) {
		f := newBookingFixture()

		_, err := f.svc.CreateBooking(ctx, 11, 7, start, start, pricing.UnitDay, "")

		assert.ErrorIs(t, err, ErrInvalidInterval)
		f.rentalRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown rental", func(t *testing.T) {
		f := newBookingFixture()
		f.rentalRepo.On("GetByID", ctx, int64(99)).Return(nil, repository.ErrNotFound)

		_, err := f.svc.CreateBooking(ctx, 11, 99, start, end, pricing.UnitDay, "")

		assert.ErrorIs(t, err, ErrRentalNotFound)
	})

	t.Run("contract and email failures do not fail the booking", func(t *testing.T) {
		f := newBookingFixture()
		f.rentalRepo.On("GetByID", ctx, int64(7)).Return(testRental(), nil)
		f.bookingRepo.On("FindOverlapping", ctx, int64(7), start, end).Return([]domain.Booking{}, nil)
		f.bookingRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Booking).ID = 43
		}).Return(nil)
		f.userRepo.On("GetByID", ctx, int64(11)).Return(testCustomer(), nil)
		f.contractSvc.On("GenerateContract", ctx, mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)
		f.emailSvc.On("SendBookingCreated", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		booking, err := f.svc.CreateBooking(ctx, 11, 7, start, end, pricing.UnitDay, "")

		assert.NoError(t, err)
		assert.Equal(t, int64(43), booking.ID)
		assert.Nil(t, booking.ContractPath)
	})
}

// memBookingRepo is a thread-safe in-memory repository used to prove that
// concurrent overlapping requests are serialized per rental.
type memBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings []domain.Booking
}

func (r *memBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			b := r.bookings[i]
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memBookingRepo) FindOverlapping(_ context.Context, rentalID int64, start, end time.Time) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.bookings {
		if b.RentalID == rentalID && b.Status != domain.BookingStatusCancelled &&
			pricing.Overlaps(b.StartAt, b.EndAt, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByUser(_ context.Context, _ int64) ([]domain.Booking, error) {
	return nil, nil
}
func (r *memBookingRepo) UpdateStatus(_ context.Context, _ int64, _ domain.BookingStatus) error {
	return nil
}
func (r *memBookingRepo) SetContractPath(_ context.Context, _ int64, _ string) error { return nil }
func (r *memBookingRepo) CancelStalePending(_ context.Context, _ time.Time) ([]domain.Booking, error) {
	return nil, nil
}

func TestCreateBookingSerializesPerRental(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	repo := &memBookingRepo{}
	rentalRepo := new(MockRentalRepo)
	rentalRepo.On("GetByID", ctx, int64(7)).Return(testRental(), nil)
	userRepo := new(MockUserRepo)
	userRepo.On("GetByID", ctx, int64(11)).Return(testCustomer(), nil)
	userRepo.On("GetByID", ctx, int64(12)).Return(&domain.User{ID: 12, Name: "Bob", Email: "bob@example.com", Role: domain.UserRoleCustomer}, nil)
	contractSvc := new(MockContractService)
	contractSvc.On("GenerateContract", ctx, mock.Anything, mock.Anything, mock.Anything).Return("contracts/x.html", nil)
	emailSvc := new(MockEmailService)
	emailSvc.On("SendBookingCreated", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewBookingService(repo, rentalRepo, userRepo, contractSvc, emailSvc)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, userID := range []int64{11, 12} {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, uid, 7, start, end, pricing.UnitDay, "")
			errs <- err
		}(userID)
	}
	wg.Wait()
	close(errs)

	var succeeded, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case err == ErrSlotUnavailable:
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
	assert.Len(t, repo.bookings, 1)
}

func TestQuote(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

	t.Run("hour price derived from day price", func(t *testing.T) {
		f := newBookingFixture()
		f.rentalRepo.On("GetByID", ctx, int64(7)).Return(testRental(), nil)

		quote, err := f.svc.Quote(ctx, 7, start, start.Add(30*time.Minute), pricing.UnitHour)

		assert.NoError(t, err)
		assert.Equal(t, pricing.UnitHour, quote.Unit)
		assert.Equal(t, int64(1), quote.Quantity)
		assert.Equal(t, 3.75, quote.Total)
	})

	t.Run("requested unit without price fails", func(t *testing.T) {
		f := newBookingFixture()
		f.rentalRepo.On("GetByID", ctx, int64(7)).Return(testRental(), nil)

		_, err := f.svc.Quote(ctx, 7, start, start.Add(time.Hour), pricing.UnitMonth)

		assert.ErrorIs(t, err, ErrNoPriceForUnit)
	})

	t.Run("invalid interval", func(t *testing.T) {
		f := newBookingFixture()
		f.rentalRepo.On("GetByID", ctx, int64(7)).Return(testRental(), nil)

		_, err := f.svc.Quote(ctx, 7, start, start, pricing.UnitDay)

		assert.ErrorIs(t, err, ErrInvalidInterval)
	})
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	t.Run("free slot", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("FindOverlapping", ctx, int64(7), start, end).Return([]domain.Booking{}, nil)

		ok, err := f.svc.CheckAvailability(ctx, 7, start, end)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("occupied slot", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("FindOverlapping", ctx, int64(7), start, end).Return([]domain.Booking{{ID: 5}}, nil)

		ok, err := f.svc.CheckAvailability(ctx, 7, start, end)

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalid interval", func(t *testing.T) {
		f := newBookingFixture()

		_, err := f.svc.CheckAvailability(ctx, 7, end, start)

		assert.ErrorIs(t, err, ErrInvalidInterval)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	pendingBooking := func() *domain.Booking {
		return &domain.Booking{ID: 42, UserID: 11, RentalID: 7, Status: domain.BookingStatusPending}
	}
	partner := &domain.User{ID: 2, Name: "Carol", Email: "carol@example.com", Role: domain.UserRolePartner}

	t.Run("partner confirms booking", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int64(42)).Return(pendingBooking(), nil)
		f.userRepo.On("GetByID", ctx, int64(2)).Return(partner, nil)
		f.bookingRepo.On("UpdateStatus", ctx, int64(42), domain.BookingStatusConfirmed).Return(nil)
		f.rentalRepo.On("GetByID", ctx, int64(7)).Return(testRental(), nil)
		f.userRepo.On("GetByID", ctx, int64(11)).Return(testCustomer(), nil)
		f.emailSvc.On("SendBookingStatusChanged", ctx, "ada@example.com", "Ada", "BMW 320i", mock.Anything).Return(nil)

		booking, err := f.svc.UpdateStatus(ctx, 2, 42, domain.BookingStatusConfirmed)

		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("customer cancels own booking", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int64(42)).Return(pendingBooking(), nil)
		f.userRepo.On("GetByID", ctx, int64(11)).Return(testCustomer(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, int64(42), domain.BookingStatusCancelled).Return(nil)
		f.rentalRepo.On("GetByID", ctx, int64(7)).Return(testRental(), nil)
		f.emailSvc.On("SendBookingStatusChanged", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		booking, err := f.svc.UpdateStatus(ctx, 11, 42, domain.BookingStatusCancelled)

		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, booking.Status)
	})

	t.Run("customer cannot confirm", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int64(42)).Return(pendingBooking(), nil)
		f.userRepo.On("GetByID", ctx, int64(11)).Return(testCustomer(), nil)

		_, err := f.svc.UpdateStatus(ctx, 11, 42, domain.BookingStatusConfirmed)

		assert.ErrorIs(t, err, ErrUnauthorized)
		f.bookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("customer cannot cancel someone else's booking", func(t *testing.T) {
		f := newBookingFixture()
		other := pendingBooking()
		other.UserID = 99
		f.bookingRepo.On("GetByID", ctx, int64(42)).Return(other, nil)
		f.userRepo.On("GetByID", ctx, int64(11)).Return(testCustomer(), nil)

		_, err := f.svc.UpdateStatus(ctx, 11, 42, domain.BookingStatusCancelled)

		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		f := newBookingFixture()
		cancelled := pendingBooking()
		cancelled.Status = domain.BookingStatusCancelled
		f.bookingRepo.On("GetByID", ctx, int64(42)).Return(cancelled, nil)
		f.userRepo.On("GetByID", ctx, int64(2)).Return(partner, nil)

		_, err := f.svc.UpdateStatus(ctx, 2, 42, domain.BookingStatusConfirmed)

		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int64(1)).Return(nil, repository.ErrNotFound)

		_, err := f.svc.UpdateStatus(ctx, 2, 1, domain.BookingStatusConfirmed)

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}
