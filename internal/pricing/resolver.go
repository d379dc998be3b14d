package pricing

import (
	"errors"

	"autoone-backend/internal/domain"
)

// ErrUnitUnavailable reports that a requested unit has no direct or derivable
// price. Callers must not substitute a different unit for an explicit request.
var ErrUnitUnavailable = errors.New("no price available for rental unit")

// PriceList holds a rental's sparse source prices. Hour and year prices are
// never stored; they are derived on demand.
type PriceList struct {
	PerDay   *float64
	PerWeek  *float64
	PerMonth *float64
}

// ListFromRental builds a PriceList from a rental's pricing fields.
func ListFromRental(r *domain.Rental) PriceList {
	return PriceList{
		PerDay:   r.PricePerDay,
		PerWeek:  r.PricePerWeek,
		PerMonth: r.PricePerMonth,
	}
}

// defaultOrder is the fallback preference when no unit is requested: the
// three stored units first, then the two derived ones as a last resort.
var defaultOrder = []Unit{UnitDay, UnitWeek, UnitMonth, UnitHour, UnitYear}

// For resolves the price for an explicitly requested unit. Hour derives only
// from the day price (day/24) and year only from the month price (month*12);
// week and month never cross-derive. No rounding happens here: derived values
// stay exact until the presentation boundary.
func (p PriceList) For(unit Unit) (float64, error) {
	switch unit {
	case UnitDay:
		if p.PerDay != nil {
			return *p.PerDay, nil
		}
	case UnitWeek:
		if p.PerWeek != nil {
			return *p.PerWeek, nil
		}
	case UnitMonth:
		if p.PerMonth != nil {
			return *p.PerMonth, nil
		}
	case UnitHour:
		if p.PerDay != nil {
			return *p.PerDay / 24, nil
		}
	case UnitYear:
		if p.PerMonth != nil {
			return *p.PerMonth * 12, nil
		}
	}
	return 0, ErrUnitUnavailable
}

// Best resolves a default price when the caller did not request a unit,
// walking the fallback order day, week, month, then derived hour, year.
func (p PriceList) Best() (Unit, float64, error) {
	for _, u := range defaultOrder {
		if price, err := p.For(u); err == nil {
			return u, price, nil
		}
	}
	return "", 0, ErrUnitUnavailable
}

// Map returns every resolvable unit with its price (the ephemeral
// UnitPriceMap used by the rental detail view).
func (p PriceList) Map() map[Unit]float64 {
	m := make(map[Unit]float64)
	for _, u := range defaultOrder {
		if price, err := p.For(u); err == nil {
			m[u] = price
		}
	}
	return m
}
