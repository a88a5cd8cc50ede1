package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// PhoneNumber accepts a JSON string or a JSON number. Numbers keep their
// literal text so no digits are lost to float conversion.
type PhoneNumber string

// UnmarshalJSON implements json.Unmarshaler
func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*p = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*p = PhoneNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("phone must be a string or a number: %w", err)
	}
	*p = PhoneNumber(n.String())
	return nil
}

// PaymentQRRequest carries the fields encoded into a payment QR code
type PaymentQRRequest struct {
	Name        string          `json:"name"`
	Phone       PhoneNumber     `json:"phone"`
	TotalAmount decimal.Decimal `json:"totalAmount"`

	// amountQuoted is set when totalAmount arrived as a non-empty string
	amountQuoted bool
}

// UnmarshalJSON implements json.Unmarshaler
func (r *PaymentQRRequest) UnmarshalJSON(data []byte) error {
	type plain PaymentQRRequest
	var raw struct {
		plain
		TotalAmount json.RawMessage `json:"totalAmount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = PaymentQRRequest(raw.plain)

	amount := bytes.TrimSpace(raw.TotalAmount)
	if len(amount) == 0 || string(amount) == "null" || string(amount) == `""` {
		return nil
	}
	if err := r.TotalAmount.UnmarshalJSON(amount); err != nil {
		return err
	}
	r.amountQuoted = amount[0] == '"'
	return nil
}

// HasAmount reports whether a total was supplied. A numeric zero counts as
// absent; a quoted "0" does not.
func (r PaymentQRRequest) HasAmount() bool {
	return !r.TotalAmount.IsZero() || r.amountQuoted
}

// PaymentQRResponse holds the QR image as a data URL
type PaymentQRResponse struct {
	QRCodeURL string `json:"qrCodeUrl"`
}
