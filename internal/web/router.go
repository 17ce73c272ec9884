package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Aleph-Alpha/superheroes/internal/httpapi"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/tracer"
)

// contentSecurityPolicy allows the inline page styles and the avatar host.
const contentSecurityPolicy = "default-src 'self';base-uri 'self';form-action 'self';frame-ancestors 'self';img-src 'self' https://api.multiavatar.com;object-src 'none';script-src 'none';style-src 'self' 'unsafe-inline'"

// NewRouter builds the frontend handler. It shares request ids, body limits,
// request logging and tracing with the API.
func NewRouter(h *Handler, log logger.Logger, tr *tracer.Tracer) http.Handler {
	r := mux.NewRouter()
	r.Use(httpapi.Tracing(tr))

	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/superheroes", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	return httpapi.Chain(r,
		httpapi.RequestID(),
		pageHeaders(),
		httpapi.BodyLimit(httpapi.DefaultMaxBodyBytes),
		httpapi.RequestLogger(log),
	)
}

func pageHeaders() httpapi.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", contentSecurityPolicy)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}
