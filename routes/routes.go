// routes/routes.go
package routes

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"smartwiz/controllers"
	"smartwiz/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, cartController *controllers.CartController, eventsController *controllers.EventsController, paymentController *controllers.PaymentController, billController *controllers.BillController) {
	// Cart routes
	router.HandleFunc("/add-item", cartController.AddItem).Methods("POST")
	router.HandleFunc("/delete-item", cartController.DeleteItem).Methods("POST")
	router.HandleFunc("/items", cartController.GetItems).Methods("GET")

	// Live cart feed
	router.HandleFunc("/events", eventsController.Stream).Methods("GET")

	// Payment routes
	router.HandleFunc("/generate-qr", paymentController.GenerateQR).Methods("POST")
	router.HandleFunc("/confirm-payment", paymentController.ConfirmPayment).Methods("GET")

	// Billing routes
	router.HandleFunc("/send-bill", billController.SendBill).Methods("POST")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
}

// Wrap applies the middleware chain. CORS sits outside the router so
// preflight requests are answered before route method matching.
func Wrap(router *mux.Router, logger *log.Logger, allowOrigins []string) http.Handler {
	var h http.Handler = router
	h = middleware.Recover(logger)(h)
	h = middleware.Logger(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.CORS(allowOrigins)(h)
	return h
}
