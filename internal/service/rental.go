package service

import (
	"context"
	"errors"

	"autoone-backend/internal/domain"
	"autoone-backend/internal/pricing"
	"autoone-backend/internal/repository"
)

type rentalService struct {
	rentalRepo repository.RentalRepository
}

func NewRentalService(rentalRepo repository.RentalRepository) RentalService {
	return &rentalService{rentalRepo: rentalRepo}
}

// SearchRentals lists catalog cards. Each card shows the price for the
// requested unit when it is available or derivable; otherwise it falls back
// through the default preference order. A rental with no prices at all still
// lists, with a nil price.
func (s *rentalService) SearchRentals(ctx context.Context, filter domain.RentalFilter) ([]RentalCard, error) {
	rentals, err := s.rentalRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	cards := make([]RentalCard, 0, len(rentals))
	for i := range rentals {
		rental := &rentals[i]
		card := RentalCard{
			ID:           rental.ID,
			Title:        rental.Title,
			Location:     rental.Location,
			ProviderType: rental.ProviderType,
			Images:       rental.Images,
		}

		prices := pricing.ListFromRental(rental)
		resolved := false
		if filter.Unit != "" {
			if unit, err := pricing.ParseUnit(filter.Unit); err == nil {
				if price, err := prices.For(unit); err == nil {
					card.Price = &price
					card.PriceUnit = string(unit)
					resolved = true
				}
			}
		}
		if !resolved {
			if unit, price, err := prices.Best(); err == nil {
				card.Price = &price
				card.PriceUnit = string(unit)
			}
		}

		cards = append(cards, card)
	}
	return cards, nil
}

// GetRental returns the detail view with the full unit price map and the
// default price pick.
func (s *rentalService) GetRental(ctx context.Context, id int64) (*RentalDetail, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	prices := pricing.ListFromRental(rental)
	detail := &RentalDetail{
		Rental: *rental,
		Units:  prices.Map(),
	}
	if unit, price, err := prices.Best(); err == nil {
		detail.Price = &price
		detail.PriceUnit = string(unit)
	}
	return detail, nil
}

func (s *rentalService) CreateRental(ctx context.Context, rental *domain.Rental) error {
	return s.rentalRepo.Create(ctx, rental)
}
