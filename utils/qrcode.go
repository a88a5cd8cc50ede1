package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"

	"smartwiz/models"
)

// QREncoder renders text into a PNG image
type QREncoder interface {
	Encode(content string) ([]byte, error)
}

// PNGEncoder is the default QREncoder backed by go-qrcode
type PNGEncoder struct {
	Level qrcode.RecoveryLevel
	Size  int
}

// Encode implements QREncoder
func (e PNGEncoder) Encode(content string) ([]byte, error) {
	return qrcode.Encode(content, e.Level, e.Size)
}

// QRGenerator turns a payment request into a QR code data URL
type QRGenerator struct {
	encoder QREncoder
}

// NewQRGenerator returns a generator using encoder, or a 256px
// medium-recovery PNG encoder when encoder is nil
func NewQRGenerator(encoder QREncoder) *QRGenerator {
	if encoder == nil {
		encoder = PNGEncoder{Level: qrcode.Medium, Size: 256}
	}
	return &QRGenerator{encoder: encoder}
}

// PaymentInfo is the text encoded into the QR code
func PaymentInfo(req models.PaymentQRRequest) string {
	return fmt.Sprintf("Name: %s, Phone: %s, Amount: ₹%s", req.Name, req.Phone, req.TotalAmount.String())
}

// Generate validates req and returns the QR image as a PNG data URL
func (g *QRGenerator) Generate(req models.PaymentQRRequest) (string, error) {
	var missing []string
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if req.Phone == "" {
		missing = append(missing, "phone")
	}
	if !req.HasAmount() {
		missing = append(missing, "totalAmount")
	}
	if len(missing) > 0 {
		return "", &ValidationError{Fields: missing}
	}

	png, err := g.encoder.Encode(PaymentInfo(req))
	if err != nil {
		return "", &EncodingError{Err: err}
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
