// utils/email.go
package utils

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"smartwiz/models"
)

const (
	BillSubject        = "Smart Wiz Bill"
	NoProductsMessage  = "No products available"
	confirmPaymentPath = "/confirm-payment"
)

// EmailService formats bills and hands them to a Mailer
type EmailService struct {
	mailer    Mailer
	from      string
	publicURL string
}

// NewEmailService initializes and returns a new EmailService instance.
// publicURL is the externally reachable base of this server, used in the
// payment confirmation link.
func NewEmailService(mailer Mailer, from, publicURL string) *EmailService {
	return &EmailService{
		mailer:    mailer,
		from:      from,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// SendEmail sends a plain-text email to the specified recipient
func (es *EmailService) SendEmail(ctx context.Context, toEmail, subject, body string) error {
	err := es.mailer.Send(ctx, Message{
		From:     es.from,
		To:       toEmail,
		Subject:  subject,
		TextBody: body,
	})
	if err != nil {
		return &DeliveryError{Transport: es.mailer.Name(), Err: err}
	}
	return nil
}

// SendBill emails the itemized bill with a payment confirmation link
func (es *EmailService) SendBill(ctx context.Context, req models.BillRequest) error {
	if strings.TrimSpace(req.Email) == "" {
		return &ValidationError{Fields: []string{"email"}}
	}
	return es.SendEmail(ctx, req.Email, BillSubject, es.BillBody(req))
}

// BillBody renders the text of the bill email
func (es *EmailService) BillBody(req models.BillRequest) string {
	return fmt.Sprintf(
		"Hello %s,\n\nHere is your bill:\n\n%s\n\nTotal: ₹%s\n\nThank you for shopping with us!\n\nClick the link to confirm your payment: %s",
		req.Name,
		ProductDetails(req.Products),
		req.TotalAmount.String(),
		es.ConfirmationLink(req.Email),
	)
}

// ConfirmationLink points at the confirm-payment page for email
func (es *EmailService) ConfirmationLink(email string) string {
	return es.publicURL + confirmPaymentPath + "?" + url.Values{"email": {email}}.Encode()
}

// ProductDetails lists one "name - ₹price" line per product
func ProductDetails(products []models.BillProduct) string {
	if len(products) == 0 {
		return NoProductsMessage
	}
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("%s - ₹%s", p.Name, p.Price.String()))
	}
	return strings.Join(lines, "\n")
}
