package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/spendlens/spendlens/internal/http/auth"
	"github.com/spendlens/spendlens/internal/http/importcsv"
	"github.com/spendlens/spendlens/internal/http/insights"
	"github.com/spendlens/spendlens/internal/http/rules"
	"github.com/spendlens/spendlens/internal/http/transaction"
)

func New(
	jwtSecret []byte,
	allowedOrigins []string,
	transactionsV1 *transaction.Handler,
	importV1 *importcsv.Handler,
	rulesV1 *rules.Handler,
	insightsV1 *insights.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(jwtSecret))

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/rules", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			rulesV1.Routes(r)
		})

		r.Route("/insights", func(r chi.Router) {
			insightsV1.Routes(r)
		})
	})

	return router
}
