package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/p24gate/internal/http/notification"
	"github.com/MrJamesThe3rd/p24gate/internal/http/payment"
)

func New(
	notificationV1 *notification.Handler,
	paymentsV1 *payment.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Server-to-server endpoint the gateway posts to.
	router.Route("/webhook/przelewy24", notificationV1.Routes)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/payments", func(r chi.Router) {
			// The return page polls payment state from the browser.
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Content-Type"},
			}))
			paymentsV1.Routes(r)
		})
	})

	return router
}
