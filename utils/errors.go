package utils

import (
	"fmt"
	"strings"
)

// ValidationError reports required request fields that were absent or empty
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// EncodingError wraps a failure of the QR image encoder
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("generate QR code: %v", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DeliveryError wraps a failure of the mail transport
type DeliveryError struct {
	Transport string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("send email via %s: %v", e.Transport, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
