package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"autoone-backend/internal/domain"
	"autoone-backend/internal/storage"

	"github.com/google/uuid"
)

// contractTemplate is the rental contract document. It is rendered to HTML;
// the storage backend decides where and how it is served.
var contractTemplate = template.Must(template.New("contract").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Rental Contract #{{.Booking.ID}}</title></head>
<body>
  <h1>Rental Contract</h1>
  <p>Booking reference: {{.Booking.ID}}</p>
  <h2>Parties</h2>
  <p>Customer: {{.User.Name}} ({{.User.Email}})</p>
  <h2>Vehicle</h2>
  <p>{{.Rental.Title}}, {{.Rental.Location}}</p>
  <h2>Rental Period</h2>
  <p>From {{.Booking.StartAt.UTC.Format "2006-01-02 15:04"}} UTC to {{.Booking.EndAt.UTC.Format "2006-01-02 15:04"}} UTC</p>
  <h2>Price</h2>
  <p>Billed per {{.Booking.Unit}}. Total: {{printf "%.2f" .Booking.TotalPrice}}</p>
  {{if .Booking.Notes}}<h2>Notes</h2><p>{{.Booking.Notes}}</p>{{end}}
</body>
</html>
`))

type contractService struct {
	store storage.Storage
}

func NewContractService(store storage.Storage) ContractService {
	return &contractService{store: store}
}

// GenerateContract renders and stores the contract for a persisted booking.
// The key carries a random suffix so contract URLs are not guessable.
func (s *contractService) GenerateContract(ctx context.Context, booking *domain.Booking, rental *domain.Rental, user *domain.User) (string, error) {
	var buf bytes.Buffer
	err := contractTemplate.Execute(&buf, struct {
		Booking *domain.Booking
		Rental  *domain.Rental
		User    *domain.User
	}{booking, rental, user})
	if err != nil {
		return "", fmt.Errorf("render contract for booking %d: %w", booking.ID, err)
	}

	key := fmt.Sprintf("contracts/rental_booking_%d_%s.html", booking.ID, uuid.New().String())
	if err := s.store.Save(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("store contract for booking %d: %w", booking.ID, err)
	}
	return key, nil
}

func (s *contractService) ContractURL(path string) string {
	return s.store.URL(path)
}
