package service

import (
	"context"
	"fmt"

	"autoone-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("send email: sendgrid returned status %d", response.StatusCode)
	}
	return nil
}

func (s *emailService) SendBookingCreated(ctx context.Context, email, name, rentalTitle string, booking *domain.Booking) error {
	subject := fmt.Sprintf("Booking received: %s", rentalTitle)
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received your booking for %s.\n\nPeriod: %s to %s\nTotal: %.2f (billed per %s)\nStatus: %s\n\nThe provider will confirm your booking shortly.\n\nAutoOne",
		name, rentalTitle,
		booking.StartAt.UTC().Format("2006-01-02 15:04"), booking.EndAt.UTC().Format("2006-01-02 15:04"),
		booking.TotalPrice, booking.Unit, booking.Status,
	)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendBookingStatusChanged(ctx context.Context, email, name, rentalTitle string, booking *domain.Booking) error {
	subject := fmt.Sprintf("Booking %s: %s", booking.Status, rentalTitle)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour booking for %s is now %s.\n\nPeriod: %s to %s\nTotal: %.2f\n\nAutoOne",
		name, rentalTitle, booking.Status,
		booking.StartAt.UTC().Format("2006-01-02 15:04"), booking.EndAt.UTC().Format("2006-01-02 15:04"),
		booking.TotalPrice,
	)
	return s.send(email, name, subject, body)
}
