package controllers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"smartwiz/models"
	"smartwiz/utils"
)

var confirmPaymentPage = template.Must(template.New("confirm-payment").Parse(`<html>
<body>
    <h1>Thank You for Your Payment!</h1>
    <p>Your payment has been successfully processed. An email confirmation has been sent to {{.}}.</p>
</body>
</html>
`))

// PaymentController handles payment QR codes and the confirmation page
type PaymentController struct {
	QR     *utils.QRGenerator
	Logger *log.Logger
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(qr *utils.QRGenerator, logger *log.Logger) *PaymentController {
	return &PaymentController{
		QR:     qr,
		Logger: logger,
	}
}

// GenerateQR returns a QR code encoding the payer and amount
func (pc *PaymentController) GenerateQR(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentQRRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	url, err := pc.QR.Generate(req)
	if err != nil {
		var verr *utils.ValidationError
		if errors.As(err, &verr) {
			writeMessage(w, statusFor(err), "Name, phone, and total amount are required.")
			return
		}
		pc.Logger.Printf("Error generating QR code: %v", err)
		writeMessage(w, statusFor(err), "Failed to generate QR code.")
		return
	}

	writeJSON(w, http.StatusOK, models.PaymentQRResponse{QRCodeURL: url})
}

// ConfirmPayment renders a static thank-you page
func (pc *PaymentController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := confirmPaymentPage.Execute(w, email); err != nil {
		pc.Logger.Printf("render confirm-payment page: %v", err)
	}
}
