package pricing

import (
	"fmt"
	"time"
)

// Unit is a billing granularity for rental duration.
type Unit string

const (
	UnitHour  Unit = "hour"
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
	UnitYear  Unit = "year"
)

// Duration basis per unit. Month and year are fixed approximations (30 and
// 365 days), not calendar arithmetic; changing them would change historical
// quote amounts.
const (
	hourDuration  = time.Hour
	dayDuration   = 24 * time.Hour
	weekDuration  = 7 * dayDuration
	monthDuration = 30 * dayDuration
	yearDuration  = 365 * dayDuration
)

// ParseUnit validates a unit string from the API layer.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitHour, UnitDay, UnitWeek, UnitMonth, UnitYear:
		return Unit(s), nil
	}
	return "", fmt.Errorf("unknown rental unit %q", s)
}

// Duration returns the billing duration of one unit.
func (u Unit) Duration() time.Duration {
	switch u {
	case UnitHour:
		return hourDuration
	case UnitDay:
		return dayDuration
	case UnitWeek:
		return weekDuration
	case UnitMonth:
		return monthDuration
	case UnitYear:
		return yearDuration
	}
	return dayDuration
}
