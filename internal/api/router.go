/**
 * @description
 * This file sets up the HTTP router for the deposit-service. It defines the API
 * endpoints, associates them with their corresponding handlers, and applies any
 * necessary middleware, such as for authentication.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/luleka/deposit-service/internal/domain"
)

// DepositRoutes creates and returns a new router for the deposit service.
func DepositRoutes(h *DepositHandlers, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Group routes that require authentication.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))

		r.Post("/accounts", h.CreateAccountHandler)
		r.Get("/accounts/{accountID}", h.GetAccountHandler)
		r.Post("/accounts/{accountID}/register", h.LifecycleHandler(domain.EventRegister))
		r.Post("/accounts/{accountID}/activate", h.LifecycleHandler(domain.EventActivate))
		r.Post("/accounts/{accountID}/suspend", h.LifecycleHandler(domain.EventSuspend))
		r.Post("/accounts/{accountID}/unsuspend", h.LifecycleHandler(domain.EventUnsuspend))
		r.Put("/accounts/{accountID}/transfer-amount", h.SetTransferAmountHandler)
		r.Get("/accounts/{accountID}/transfer-defaults", h.TransferDefaultsHandler)
		r.Get("/accounts/{accountID}/validation", h.ValidateHandler)
		r.Post("/accounts/{accountID}/transfer", h.TransferHandler)

		r.Get("/transfers", h.ListTransfersHandler)
	})

	return r
}
