package domain

import "time"

type ProviderType string

const (
	ProviderTypeCompany    ProviderType = "company"
	ProviderTypeIndividual ProviderType = "individual"
)

// Rental is a rentable vehicle listing. Pricing is sparse: any of the three
// per-unit prices may be absent. At least one is expected for the rental to
// be bookable; a rental with none lists without a price.
type Rental struct {
	ID            int64        `json:"id"`
	OwnerID       int64        `json:"owner_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Location      string       `json:"location"`
	ProviderType  ProviderType `json:"provider_type"`
	PricePerDay   *float64     `json:"price_per_day,omitempty"`
	PricePerWeek  *float64     `json:"price_per_week,omitempty"`
	PricePerMonth *float64     `json:"price_per_month,omitempty"`
	Images        []string     `json:"images"`
	CreatedOn     time.Time    `json:"created_on"`
	UpdatedOn     time.Time    `json:"updated_on"`
}

// RentalFilter carries the catalog search parameters. AvailableFrom and
// AvailableTo must both be set for the availability filter to apply.
type RentalFilter struct {
	Query         string
	ProviderType  string
	Unit          string
	AvailableFrom *time.Time
	AvailableTo   *time.Time
}
