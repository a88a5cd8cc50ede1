package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"smartwiz/models"
	"smartwiz/utils"
)

// BillController emails bills to customers
type BillController struct {
	EmailService *utils.EmailService
	Logger       *log.Logger
	// Timeout bounds one delivery attempt; zero means no extra bound
	Timeout time.Duration
}

// NewBillController creates a new BillController
func NewBillController(emailService *utils.EmailService, logger *log.Logger) *BillController {
	return &BillController{
		EmailService: emailService,
		Logger:       logger,
		Timeout:      30 * time.Second,
	}
}

// SendBill emails the itemized bill to the customer
func (bc *BillController) SendBill(w http.ResponseWriter, r *http.Request) {
	var req models.BillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	if bc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, bc.Timeout)
		defer cancel()
	}

	if err := bc.EmailService.SendBill(ctx, req); err != nil {
		var verr *utils.ValidationError
		if errors.As(err, &verr) {
			writeMessage(w, statusFor(err), "Email is required.")
			return
		}
		bc.Logger.Printf("Error sending email to %s: %v", req.Email, err)
		writeMessage(w, statusFor(err), "Failed to send bill")
		return
	}

	writeMessage(w, http.StatusOK, "Bill sent successfully")
}
