package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"smartwiz/cart"
	"smartwiz/models"
	"smartwiz/utils"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.MessageResponse{Message: msg})
}

// decodeJSON reads the request body into v, answering 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes. Encoder and mail
// transport failures fall through to 500.
func statusFor(err error) int {
	var verr *utils.ValidationError
	switch {
	case errors.Is(err, cart.ErrDuplicateItem), errors.Is(err, cart.ErrInvalidItem):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &verr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
