package pricing

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidInterval reports a booking interval whose end is not strictly
// after its start.
var ErrInvalidInterval = errors.New("booking end must be after start")

// Quote is the ephemeral price computation for a prospective booking.
// Total is exactly UnitPrice * Quantity; rounding to two decimals happens
// only when a quote is rendered, never here.
type Quote struct {
	Unit      Unit
	Quantity  int64
	UnitPrice float64
	Total     float64
}

// BillableQuantity converts an interval to a whole number of billed units:
// elapsed time divided by the unit duration, rounded up, with a floor of one
// (an interval shorter than one unit still bills a full unit).
func BillableQuantity(start, end time.Time, unit Unit) int64 {
	elapsed := end.Sub(start)
	if elapsed <= 0 {
		return 1
	}
	qty := int64(math.Ceil(float64(elapsed) / float64(unit.Duration())))
	if qty < 1 {
		qty = 1
	}
	return qty
}

// MakeQuote resolves the explicitly requested unit against the price list and
// bills the interval. It fails with ErrInvalidInterval when end <= start and
// ErrUnitUnavailable when the unit has no direct or derivable price.
func MakeQuote(prices PriceList, start, end time.Time, unit Unit) (Quote, error) {
	if !end.After(start) {
		return Quote{}, ErrInvalidInterval
	}
	unitPrice, err := prices.For(unit)
	if err != nil {
		return Quote{}, err
	}
	qty := BillableQuantity(start, end, unit)
	return Quote{
		Unit:      unit,
		Quantity:  qty,
		UnitPrice: unitPrice,
		Total:     unitPrice * float64(qty),
	}, nil
}
