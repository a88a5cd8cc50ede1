package middleware

import (
	"log"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestID tags every request with an id, reusing X-Request-Id when sent
func RequestID(next http.Handler) http.Handler {
	return chimw.RequestID(next)
}

// Logger writes one access log line per request to logger
func Logger(logger *log.Logger) func(http.Handler) http.Handler {
	return chimw.RequestLogger(&chimw.DefaultLogFormatter{Logger: logger, NoColor: true})
}
